package bind

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/validate"
)

// ControlBindingOption customises a leaf binding at construction.
type ControlBindingOption func(*ControlBinding)

// WithAccessors supplies the candidate value accessors; precedence selection
// happens at attach.
func WithAccessors(accessors ...ValueAccessor) ControlBindingOption {
	return func(b *ControlBinding) {
		b.accessors = append(b.accessors, accessors...)
	}
}

// WithValidators declares the binding's own validators. They run before any
// provider-supplied ones.
func WithValidators(validators ...validate.Validator) ControlBindingOption {
	return func(b *ControlBinding) {
		b.validators = append(b.validators, validators...)
	}
}

// WithProvidedValidators supplies validators discovered through dependency
// resolution. They run after self-declared ones, in registration order.
func WithProvidedValidators(validators ...validate.Validator) ControlBindingOption {
	return func(b *ControlBinding) {
		b.providedValidators = append(b.providedValidators, validators...)
	}
}

// WithAsyncValidators declares the binding's own async validators.
func WithAsyncValidators(validators ...validate.AsyncValidator) ControlBindingOption {
	return func(b *ControlBinding) {
		b.asyncValidators = append(b.asyncValidators, validators...)
	}
}

// WithProvidedAsyncValidators supplies async validators discovered through
// dependency resolution.
func WithProvidedAsyncValidators(validators ...validate.AsyncValidator) ControlBindingOption {
	return func(b *ControlBinding) {
		b.providedAsync = append(b.providedAsync, validators...)
	}
}

// WithChangeListener registers the callback emitted after a view-originated
// value lands in the model. The emission means "view now matches model"; it
// fires after the binding's cache update, so it can never re-trigger the view
// path. Consumers wanting model-originated notifications should watch the
// model node instead.
func WithChangeListener(fn func(value any)) ControlBindingOption {
	return func(b *ControlBinding) {
		b.onChange = fn
	}
}

// ControlBinding associates one view element with one leaf control. It
// resolves its path through the parent container chain, registers exactly
// once, converts view events to model updates through the root form, and
// pushes model values back into the view during detection passes.
type ControlBinding struct {
	seg    forms.Segment
	parent ContainerBinding

	accessors          []ValueAccessor
	validators         []validate.Validator
	providedValidators []validate.Validator
	asyncValidators    []validate.AsyncValidator
	providedAsync      []validate.AsyncValidator
	onChange           func(value any)

	form     *FormBinding
	control  *forms.Control
	accessor ValueAccessor
	unlisten func()

	added    bool
	detached bool

	// last is the most recent value seen on either side of the sync
	// boundary; pushes that compare identical to it are dropped, which is
	// what keeps the two sync directions from feeding each other.
	last    any
	hasLast bool
}

// NewControlBinding declares a leaf binding under a parent, addressed by key.
func NewControlBinding(name string, parent ContainerBinding, opts ...ControlBindingOption) *ControlBinding {
	b := &ControlBinding{seg: forms.Name(name), parent: parent}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// NewControlBindingAt declares a leaf binding under a parent array binding,
// addressed by position.
func NewControlBindingAt(pos int, parent ContainerBinding, opts ...ControlBindingOption) *ControlBinding {
	b := &ControlBinding{seg: forms.Index(pos), parent: parent}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Path resolves the binding's address from the live parent chain.
func (b *ControlBinding) Path() (forms.Path, error) {
	return ResolvePath(b.seg, b.parent)
}

// Control returns the bound model node, nil before attach.
func (b *ControlBinding) Control() *forms.Control { return b.control }

// Added reports whether registration completed.
func (b *ControlBinding) Added() bool { return b.added }

// Attach performs the mount: resolve the path, select the value accessor,
// locate the pre-existing control, compose and attach validators, register
// with the root form, reflect the disabled state, and start listening for
// view changes. Runs once; errors leave the binding unregistered.
func (b *ControlBinding) Attach() error {
	if b.added {
		return nil
	}
	if b.detached {
		return fmt.Errorf("bind: binding %q was detached and cannot re-attach", b.seg.String())
	}
	if err := checkParent(b.parent); err != nil {
		return err
	}

	accessor, err := SelectAccessor(b.accessors)
	if err != nil {
		return err
	}

	form := b.parent.Form()
	control, err := form.addControl(b)
	if err != nil {
		return err
	}

	b.form = form
	b.control = control
	b.accessor = accessor

	if vs := b.composedValidators(); len(vs) > 0 {
		control.AppendValidators(vs...)
	}
	if avs := b.composedAsyncValidators(); len(avs) > 0 {
		control.AppendAsyncValidators(avs...)
	}

	if control.Disabled() {
		accessor.SetDisabled(true)
	}

	b.unlisten = accessor.OnChange(b.ViewValueChanged)

	// Initial model→view push seeds the dedup cache.
	b.last = control.Value()
	b.hasLast = true
	accessor.WriteValue(b.last)

	b.added = true
	return nil
}

// composedValidators orders self-declared validators ahead of
// provider-supplied ones.
func (b *ControlBinding) composedValidators() []validate.Validator {
	out := make([]validate.Validator, 0, len(b.validators)+len(b.providedValidators))
	out = append(out, b.validators...)
	return append(out, b.providedValidators...)
}

func (b *ControlBinding) composedAsyncValidators() []validate.AsyncValidator {
	out := make([]validate.AsyncValidator, 0, len(b.asyncValidators)+len(b.providedAsync))
	out = append(out, b.asyncValidators...)
	return append(out, b.providedAsync...)
}

// Rename rejects changing the bound segment once registered: path identity is
// fixed for the binding's lifetime, so a rename requires detach and a fresh
// binding. Before registration the segment may still be adjusted.
func (b *ControlBinding) Rename(name string) error {
	if b.added || b.detached {
		return fmt.Errorf("bind: cannot rename binding %q after registration; detach and create a new binding", b.seg.String())
	}
	b.seg = forms.Name(name)
	return nil
}

// ViewValueChanged is the view-originated entry point, invoked by the value
// accessor when the element's value changes (or by a driver standing in for
// the view). Identical values are dropped; changed values update the dedup
// cache, flow into the model through the root form, and then notify the
// change listener.
func (b *ControlBinding) ViewValueChanged(value any) {
	if !b.added || b.detached {
		return
	}
	if b.hasLast && identical(value, b.last) {
		return
	}
	b.last = value
	b.hasLast = true
	b.form.updateControl(b, value)
	if b.onChange != nil {
		b.onChange(value)
	}
}

// syncFromModel is the polled inverse path, run by the root form's detection
// pass. It pushes the model value into the view only when it differs from the
// last seen value, and updates the cache before writing so the write can
// never loop back as a model update.
func (b *ControlBinding) syncFromModel() bool {
	if !b.added || b.detached {
		return false
	}
	value := b.control.Value()
	if b.hasLast && identical(value, b.last) {
		return false
	}
	b.last = value
	b.hasLast = true
	b.accessor.WriteValue(value)
	return true
}

// Detach deregisters the binding and stops both sync directions. The model
// control stays in the tree. Detach is idempotent; a detached binding ignores
// pushes from either side.
func (b *ControlBinding) Detach() {
	if b.detached {
		return
	}
	b.detached = true
	if !b.added {
		return
	}
	if b.unlisten != nil {
		b.unlisten()
		b.unlisten = nil
	}
	b.form.removeBinding(b)
	b.added = false
}
