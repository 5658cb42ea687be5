package schema

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/validate"
)

// Build constructs the live model tree for a document. The returned group is
// what a bind.FormBinding wraps; bindings themselves never create nodes.
func Build(doc Document) (*forms.Group, error) {
	if doc.Schema.Type != "object" && doc.Schema.Type != "" {
		return nil, fmt.Errorf("schema: root schema must be an object, got %q", doc.Schema.Type)
	}
	node, err := buildNode(doc.Schema, false)
	if err != nil {
		return nil, err
	}
	group, ok := node.(*forms.Group)
	if !ok {
		return nil, fmt.Errorf("schema: root schema did not build a group")
	}
	return group, nil
}

func buildNode(s Schema, required bool) (forms.Node, error) {
	switch s.Type {
	case "object", "":
		return buildGroup(s)
	case "array":
		return buildArray(s)
	default:
		return buildControl(s, required)
	}
}

func buildGroup(s Schema) (*forms.Group, error) {
	requiredSet := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		requiredSet[name] = struct{}{}
	}

	children := make(map[string]forms.Node, len(s.Properties))
	for name, prop := range s.Properties {
		_, isRequired := requiredSet[name]
		child, err := buildNode(prop, isRequired)
		if err != nil {
			return nil, fmt.Errorf("schema: property %q: %w", name, err)
		}
		children[name] = child
	}
	return forms.NewGroup(children), nil
}

// buildArray seeds positions from the schema defaults, topping up to
// minItems with fresh item controls so indexed bindings have nodes to find.
func buildArray(s Schema) (*forms.Array, error) {
	if s.Items == nil {
		return nil, fmt.Errorf("schema: array schema requires items")
	}

	defaults, _ := s.Default.([]any)
	count := len(defaults)
	if s.MinItems > count {
		count = s.MinItems
	}

	children := make([]forms.Node, 0, count)
	for i := 0; i < count; i++ {
		item := *s.Items
		if i < len(defaults) {
			item.Default = defaults[i]
		}
		child, err := buildNode(item, false)
		if err != nil {
			return nil, fmt.Errorf("schema: item %d: %w", i, err)
		}
		children = append(children, child)
	}
	return forms.NewArray(children), nil
}

func buildControl(s Schema, required bool) (*forms.Control, error) {
	opts := []forms.ControlOption{
		forms.WithValidators(Validators(s, required)...),
	}
	if s.Disabled {
		opts = append(opts, forms.WithDisabled())
	}
	return forms.NewControl(defaultValue(s), opts...), nil
}

// Validators maps a schema's declared constraints onto the built-in
// validators, in the canonical kind order.
func Validators(s Schema, required bool) []validate.Validator {
	var out []validate.Validator
	if required {
		out = append(out, validate.Required())
	}
	if s.Minimum != nil {
		out = append(out, validate.Min(*s.Minimum))
	}
	if s.Maximum != nil {
		out = append(out, validate.Max(*s.Maximum))
	}
	if s.MinLength != nil {
		out = append(out, validate.MinLength(*s.MinLength))
	}
	if s.MaxLength != nil {
		out = append(out, validate.MaxLength(*s.MaxLength))
	}
	if s.Pattern != "" {
		out = append(out, validate.Pattern(s.Pattern))
	}
	return out
}

func defaultValue(s Schema) any {
	if s.Default != nil {
		return s.Default
	}
	switch s.Type {
	case "string":
		return ""
	case "integer", "number":
		return float64(0)
	case "boolean":
		return false
	default:
		return nil
	}
}
