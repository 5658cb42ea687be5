package forms

import (
	"context"
	"sync"

	"github.com/goliatone/go-formbind/pkg/validate"
)

// ControlOption customises a Control at construction.
type ControlOption func(*Control)

// WithValidators seeds the control's sync validator list.
func WithValidators(validators ...validate.Validator) ControlOption {
	return func(c *Control) {
		c.validators = append(c.validators, validators...)
	}
}

// WithAsyncValidators seeds the control's async validator list.
func WithAsyncValidators(validators ...validate.AsyncValidator) ControlOption {
	return func(c *Control) {
		c.asyncValidators = append(c.asyncValidators, validators...)
	}
}

// WithDisabled constructs the control in the disabled state.
func WithDisabled() ControlOption {
	return func(c *Control) {
		c.disabled = true
	}
}

// Control is the leaf model node: one value, its validity, and the validators
// currently attached. Controls exist only while referenced from the tree.
type Control struct {
	mu              sync.Mutex
	value           any
	disabled        bool
	errs            validate.Errors
	status          Status
	validators      []validate.Validator
	asyncValidators []validate.AsyncValidator
	parent          Container

	// generation counts value pushes so a stale async verdict, arriving
	// after a newer value was issued, is discarded (last-issued-wins).
	generation uint64
}

var _ Node = (*Control)(nil)

// NewControl builds a leaf node with an initial value and validates it once.
func NewControl(value any, opts ...ControlOption) *Control {
	c := &Control{value: value, status: StatusValid}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.revalidate()
	return c
}

// Value returns the current value.
func (c *Control) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Status returns the current validity state.
func (c *Control) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Errors returns the current validation failures, nil when valid or pending.
func (c *Control) Errors() validate.Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errs
}

// Disabled reports whether the control is exempt from validation.
func (c *Control) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Parent returns the owning container, nil until the control joins a tree.
func (c *Control) Parent() Container {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parent
}

func (c *Control) setParent(p Container) {
	c.mu.Lock()
	c.parent = p
	c.mu.Unlock()
}

// SetValue stores a new value, revalidates, and recomputes ancestor
// aggregates. Any async validation still in flight for an older value is
// superseded.
func (c *Control) SetValue(value any) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
	c.Refresh()
}

// AppendValidators adds sync validators to the active list and revalidates.
func (c *Control) AppendValidators(validators ...validate.Validator) {
	c.mu.Lock()
	c.validators = append(c.validators, validators...)
	c.mu.Unlock()
	c.Refresh()
}

// AppendAsyncValidators adds async validators to the active list and
// revalidates.
func (c *Control) AppendAsyncValidators(validators ...validate.AsyncValidator) {
	c.mu.Lock()
	c.asyncValidators = append(c.asyncValidators, validators...)
	c.mu.Unlock()
	c.Refresh()
}

// Disable marks the control exempt from validation and refreshes aggregates.
func (c *Control) Disable() {
	c.mu.Lock()
	c.disabled = true
	c.mu.Unlock()
	c.Refresh()
}

// Enable lifts the disabled state and revalidates the current value.
func (c *Control) Enable() {
	c.mu.Lock()
	c.disabled = false
	c.mu.Unlock()
	c.Refresh()
}

// Refresh revalidates the current value and bubbles the outcome upward.
func (c *Control) Refresh() {
	c.revalidate()
	c.bubble()
}

func (c *Control) bubble() {
	if p := c.Parent(); p != nil {
		p.childChanged()
	}
}

// revalidate recomputes status from the current value. The composite
// predicate is rebuilt from the live validator lists on every run rather than
// memoized, so a list change can never leave a stale composite behind.
func (c *Control) revalidate() {
	c.mu.Lock()
	if c.disabled {
		c.errs = nil
		c.status = StatusDisabled
		c.mu.Unlock()
		return
	}

	value := c.value
	composite := validate.Compose(c.validators)
	asyncComposite := validate.ComposeAsync(c.asyncValidators)

	var errs validate.Errors
	if composite != nil {
		errs = composite(value)
	}
	c.errs = errs
	switch {
	case errs != nil:
		c.status = StatusInvalid
	case asyncComposite != nil:
		c.status = StatusPending
	default:
		c.status = StatusValid
	}

	c.generation++
	gen := c.generation
	launch := errs == nil && asyncComposite != nil
	c.mu.Unlock()

	if !launch {
		return
	}
	go c.runAsync(gen, value, asyncComposite)
}

func (c *Control) runAsync(gen uint64, value any, composite validate.AsyncValidator) {
	errs, err := composite(context.Background(), value)
	if err != nil {
		errs = mergeAsyncFailure(errs, err)
	}

	c.mu.Lock()
	if c.generation != gen || c.disabled {
		// A newer value was issued (or the control was disabled) while this
		// verdict was in flight; it no longer describes the current value.
		c.mu.Unlock()
		return
	}
	c.errs = errs
	if errs != nil {
		c.status = StatusInvalid
	} else {
		c.status = StatusValid
	}
	c.mu.Unlock()

	c.bubble()
}

func mergeAsyncFailure(errs validate.Errors, err error) validate.Errors {
	if errs == nil {
		errs = make(validate.Errors, 1)
	}
	errs["async"] = err.Error()
	return errs
}
