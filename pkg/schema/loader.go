package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadBytes parses a form document from YAML (or JSON, which YAML subsumes).
// Document-sourced display text is sanitised on load so markup smuggled into
// titles or descriptions never reaches a renderer.
func LoadBytes(raw []byte) (Document, error) {
	if len(raw) == 0 {
		return Document{}, errors.New("schema: document payload is empty")
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: parse document: %w", err)
	}
	if err := validateSchema(doc.Schema); err != nil {
		return Document{}, err
	}

	doc.Name = SanitizeText(doc.Name)
	doc.Schema = sanitizeSchema(doc.Schema)
	return doc, nil
}

// LoadFile reads and parses a form document from disk.
func LoadFile(path string) (Document, error) {
	if path == "" {
		return Document{}, errors.New("schema: document path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("schema: read document: %w", err)
	}
	return LoadBytes(raw)
}

func validateSchema(s Schema) error {
	if s.Type == "array" && s.Items == nil {
		return errors.New("schema: array schema requires items")
	}
	for name, nested := range s.Properties {
		if err := validateSchema(nested); err != nil {
			return fmt.Errorf("schema: property %q: %w", name, err)
		}
	}
	if s.Items != nil {
		return validateSchema(*s.Items)
	}
	return nil
}

func sanitizeSchema(s Schema) Schema {
	s.Title = SanitizeText(s.Title)
	s.Description = SanitizeText(s.Description)
	if len(s.Properties) > 0 {
		props := make(map[string]Schema, len(s.Properties))
		for name, nested := range s.Properties {
			props[name] = sanitizeSchema(nested)
		}
		s.Properties = props
	}
	if s.Items != nil {
		items := sanitizeSchema(*s.Items)
		s.Items = &items
	}
	return s
}
