package bind

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goliatone/go-formbind/pkg/render"
)

// ValueAccessor translates between an element's native value representation
// and the model's. One accessor instance serves exactly one element.
type ValueAccessor interface {
	// WriteValue pushes a model value into the element.
	WriteValue(value any)
	// OnChange registers the callback fired when the element's value changes
	// from the view side, returning the detach handle.
	OnChange(fn func(value any)) render.Unlisten
	// SetDisabled reflects the control's disabled state on the element.
	SetDisabled(disabled bool)
}

// builtinAccessor marks the accessors shipped with this package. Custom
// accessors never implement it, which is what selection precedence keys on.
type builtinAccessor interface {
	isBuiltinAccessor()
}

// SelectAccessor picks the accessor serving a binding. A custom accessor, if
// present, wins over built-in ones; exactly one candidate must remain after
// filtering or selection fails with AccessorSelectionError.
func SelectAccessor(accessors []ValueAccessor) (ValueAccessor, error) {
	var custom, builtin []ValueAccessor
	for _, a := range accessors {
		if a == nil {
			continue
		}
		if _, ok := a.(builtinAccessor); ok {
			builtin = append(builtin, a)
			continue
		}
		custom = append(custom, a)
	}

	if len(custom) == 1 {
		return custom[0], nil
	}
	if len(custom) == 0 && len(builtin) == 1 {
		return builtin[0], nil
	}
	return nil, &AccessorSelectionError{Custom: len(custom), Builtin: len(builtin)}
}

// TextAccessor binds a plain text element: the "value" property holds a
// string and "input" events carry the edited value.
type TextAccessor struct {
	renderer render.Renderer
	element  any
}

var _ ValueAccessor = (*TextAccessor)(nil)

// NewTextAccessor wires a text accessor to an element.
func NewTextAccessor(renderer render.Renderer, element any) *TextAccessor {
	return &TextAccessor{renderer: renderer, element: element}
}

func (a *TextAccessor) isBuiltinAccessor() {}

// WriteValue renders the model value as the element's string value.
func (a *TextAccessor) WriteValue(value any) {
	a.renderer.SetProperty(a.element, "value", stringify(value))
}

// OnChange listens for input events and forwards the raw string.
func (a *TextAccessor) OnChange(fn func(value any)) render.Unlisten {
	return a.renderer.Listen(a.element, "input", func(ev render.Event) {
		fn(stringify(ev.Value))
	})
}

// SetDisabled toggles the element's disabled attribute.
func (a *TextAccessor) SetDisabled(disabled bool) {
	setDisabledAttribute(a.renderer, a.element, disabled)
}

// NumberAccessor binds a numeric element. View values that do not parse as a
// number surface as NaN rather than an error; NaN-tolerant identity upstream
// keeps repeated unparsable input from causing update storms.
type NumberAccessor struct {
	renderer render.Renderer
	element  any
}

var _ ValueAccessor = (*NumberAccessor)(nil)

// NewNumberAccessor wires a numeric accessor to an element.
func NewNumberAccessor(renderer render.Renderer, element any) *NumberAccessor {
	return &NumberAccessor{renderer: renderer, element: element}
}

func (a *NumberAccessor) isBuiltinAccessor() {}

// WriteValue renders the model value into the element's value property.
func (a *NumberAccessor) WriteValue(value any) {
	a.renderer.SetProperty(a.element, "value", stringify(value))
}

// OnChange listens for input events and forwards the parsed number.
func (a *NumberAccessor) OnChange(fn func(value any)) render.Unlisten {
	return a.renderer.Listen(a.element, "input", func(ev render.Event) {
		fn(parseNumber(ev.Value))
	})
}

// SetDisabled toggles the element's disabled attribute.
func (a *NumberAccessor) SetDisabled(disabled bool) {
	setDisabledAttribute(a.renderer, a.element, disabled)
}

// CheckboxAccessor binds a boolean element through its "checked" property and
// "change" events.
type CheckboxAccessor struct {
	renderer render.Renderer
	element  any
}

var _ ValueAccessor = (*CheckboxAccessor)(nil)

// NewCheckboxAccessor wires a checkbox accessor to an element.
func NewCheckboxAccessor(renderer render.Renderer, element any) *CheckboxAccessor {
	return &CheckboxAccessor{renderer: renderer, element: element}
}

func (a *CheckboxAccessor) isBuiltinAccessor() {}

// WriteValue renders the model value into the checked property.
func (a *CheckboxAccessor) WriteValue(value any) {
	checked, _ := value.(bool)
	a.renderer.SetProperty(a.element, "checked", checked)
}

// OnChange listens for change events and forwards the checked state.
func (a *CheckboxAccessor) OnChange(fn func(value any)) render.Unlisten {
	return a.renderer.Listen(a.element, "change", func(ev render.Event) {
		checked, _ := ev.Value.(bool)
		fn(checked)
	})
}

// SetDisabled toggles the element's disabled attribute.
func (a *CheckboxAccessor) SetDisabled(disabled bool) {
	setDisabledAttribute(a.renderer, a.element, disabled)
}

func setDisabledAttribute(r render.Renderer, el any, disabled bool) {
	if disabled {
		r.SetAttribute(el, "disabled", "true")
		return
	}
	r.RemoveAttribute(el, "disabled")
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseNumber(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case string:
		num, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return math.NaN()
		}
		return num
	default:
		return math.NaN()
	}
}
