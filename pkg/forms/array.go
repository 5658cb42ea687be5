package forms

import (
	"sync"

	"github.com/goliatone/go-formbind/pkg/validate"
)

// ArrayOption customises an Array at construction.
type ArrayOption func(*Array)

// WithArrayValidators seeds the array's own validator list.
func WithArrayValidators(validators ...validate.Validator) ArrayOption {
	return func(a *Array) {
		a.validators = append(a.validators, validators...)
	}
}

// Array is the indexed-children container. Unlike Group keys, index order is
// semantic.
type Array struct {
	mu         sync.Mutex
	children   []Node
	validators []validate.Validator
	errs       validate.Errors
	status     Status
	parent     Container
}

var _ Container = (*Array)(nil)

// NewArray builds an array from an ordered child list.
func NewArray(children []Node, opts ...ArrayOption) *Array {
	a := &Array{status: StatusValid}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	for _, node := range children {
		if node == nil {
			continue
		}
		a.children = append(a.children, node)
		node.setParent(a)
	}
	a.Refresh()
	return a
}

// Push appends a child and refreshes aggregates.
func (a *Array) Push(node Node) {
	if node == nil {
		return
	}
	a.mu.Lock()
	a.children = append(a.children, node)
	a.mu.Unlock()
	node.setParent(a)
	a.Refresh()
}

// Insert places a child at a position, shifting later children. Positions
// past the end append.
func (a *Array) Insert(pos int, node Node) {
	if node == nil || pos < 0 {
		return
	}
	a.mu.Lock()
	if pos >= len(a.children) {
		a.children = append(a.children, node)
	} else {
		a.children = append(a.children[:pos], append([]Node{node}, a.children[pos:]...)...)
	}
	a.mu.Unlock()
	node.setParent(a)
	a.Refresh()
}

// RemoveAt detaches the child at a position. Out-of-range positions are a
// no-op.
func (a *Array) RemoveAt(pos int) {
	a.mu.Lock()
	if pos < 0 || pos >= len(a.children) {
		a.mu.Unlock()
		return
	}
	node := a.children[pos]
	a.children = append(a.children[:pos], a.children[pos+1:]...)
	a.mu.Unlock()
	node.setParent(nil)
	a.Refresh()
}

// At returns the child at a position.
func (a *Array) At(pos int) (Node, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pos < 0 || pos >= len(a.children) {
		return nil, false
	}
	return a.children[pos], true
}

// Child resolves a path segment; key segments never match array children.
func (a *Array) Child(seg Segment) (Node, bool) {
	if !seg.IsIndex() {
		return nil, false
	}
	return a.At(seg.Pos())
}

// Len returns the number of direct children.
func (a *Array) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.children)
}

// Value returns the ordered composite of children's values.
func (a *Array) Value() any {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]any, len(a.children))
	for i, node := range a.children {
		out[i] = node.Value()
	}
	return out
}

// SetValue pushes an ordered value list into matching positions; excess
// values are ignored, excess children keep their value.
func (a *Array) SetValue(values []any) {
	for pos, value := range values {
		node, ok := a.At(pos)
		if !ok {
			break
		}
		setNodeValue(node, value)
	}
}

// AppendValidators adds array-level validators and refreshes aggregates.
func (a *Array) AppendValidators(validators ...validate.Validator) {
	a.mu.Lock()
	a.validators = append(a.validators, validators...)
	a.mu.Unlock()
	a.Refresh()
}

// Status returns the aggregate validity.
func (a *Array) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Errors returns the array's own validation failures.
func (a *Array) Errors() validate.Errors {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.errs
}

// Disabled reports whether every child is disabled.
func (a *Array) Disabled() bool {
	return a.Status() == StatusDisabled
}

// Parent returns the owning container, nil at the root.
func (a *Array) Parent() Container {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.parent
}

func (a *Array) setParent(p Container) {
	a.mu.Lock()
	a.parent = p
	a.mu.Unlock()
}

func (a *Array) childChanged() {
	a.Refresh()
}

// Refresh recomputes the array's own errors and aggregate status, then
// bubbles to the parent chain.
func (a *Array) Refresh() {
	a.mu.Lock()
	var ownErrs validate.Errors
	if composite := validate.Compose(a.validators); composite != nil {
		values := make([]any, len(a.children))
		for i, node := range a.children {
			values[i] = node.Value()
		}
		ownErrs = composite(values)
	}
	a.errs = ownErrs
	a.status = aggregateStatus(ownErrs, append([]Node(nil), a.children...))
	parent := a.parent
	a.mu.Unlock()

	if parent != nil {
		parent.childChanged()
	}
}
