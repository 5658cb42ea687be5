// Package schema is the model-construction side of go-formbind: declarative
// form schemas loaded from YAML or JSON documents and built into live model
// trees before any binding attaches.
package schema

// Schema describes one node of a declarative form document. Objects become
// groups, arrays become arrays, primitives become controls carrying the
// declared constraints as validators.
type Schema struct {
	Type        string            `yaml:"type" json:"type"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any               `yaml:"default,omitempty" json:"default,omitempty"`
	Enum        []any             `yaml:"enum,omitempty" json:"enum,omitempty"`
	Required    []string          `yaml:"required,omitempty" json:"required,omitempty"`
	Properties  map[string]Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Items       *Schema           `yaml:"items,omitempty" json:"items,omitempty"`
	MinItems    int               `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	Minimum     *float64          `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum     *float64          `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	MinLength   *int              `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength   *int              `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern     string            `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Disabled    bool              `yaml:"disabled,omitempty" json:"disabled,omitempty"`
}

// Document is a loaded form document: a named root object schema.
type Document struct {
	Name   string `yaml:"name" json:"name"`
	Schema Schema `yaml:"schema" json:"schema"`
}
