package forms

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formbind/pkg/validate"
)

// GroupOption customises a Group at construction.
type GroupOption func(*Group)

// WithGroupValidators seeds the group's own validator list. Group-level
// failures participate in the parent's aggregate exactly like a child
// control's.
func WithGroupValidators(validators ...validate.Validator) GroupOption {
	return func(g *Group) {
		g.validators = append(g.validators, validators...)
	}
}

// Group is the named-children container. Children keep insertion order for
// iteration; lookup is by key.
type Group struct {
	mu         sync.Mutex
	children   map[string]Node
	order      []string
	validators []validate.Validator
	errs       validate.Errors
	status     Status
	parent     Container
}

var _ Container = (*Group)(nil)

// NewGroup builds a group from an initial child set. Map iteration order is
// not meaningful, so initial children are inserted in sorted key order to
// keep construction deterministic.
func NewGroup(children map[string]Node, opts ...GroupOption) *Group {
	g := &Group{
		children: make(map[string]Node, len(children)),
		status:   StatusValid,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	keys := make([]string, 0, len(children))
	for key := range children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		g.attach(key, children[key])
	}
	g.Refresh()
	return g
}

func (g *Group) attach(key string, node Node) {
	if node == nil {
		return
	}
	g.children[key] = node
	g.order = append(g.order, key)
	node.setParent(g)
}

// Add inserts a child under a key and refreshes aggregates. An existing child
// under the same key is replaced; registration-level duplicate detection is
// the binding layer's concern.
func (g *Group) Add(key string, node Node) {
	if node == nil {
		return
	}
	g.mu.Lock()
	if _, exists := g.children[key]; !exists {
		g.order = append(g.order, key)
	}
	g.children[key] = node
	g.mu.Unlock()
	node.setParent(g)
	g.Refresh()
}

// Remove detaches the child under a key. Removing an absent key is a no-op.
func (g *Group) Remove(key string) {
	g.mu.Lock()
	node, exists := g.children[key]
	if !exists {
		g.mu.Unlock()
		return
	}
	delete(g.children, key)
	for i, existing := range g.order {
		if existing == key {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.mu.Unlock()
	node.setParent(nil)
	g.Refresh()
}

// Get returns the child under a key.
func (g *Group) Get(key string) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	node, ok := g.children[key]
	return node, ok
}

// Child resolves a path segment; index segments never match group children.
func (g *Group) Child(seg Segment) (Node, bool) {
	if seg.IsIndex() {
		return nil, false
	}
	return g.Get(seg.Key())
}

// Len returns the number of direct children.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.children)
}

// Keys returns the child keys in insertion order.
func (g *Group) Keys() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.order...)
}

// Value returns the structural composite: a map of every child's value, in
// the natural map shape (ordering lives in Keys).
func (g *Group) Value() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make(map[string]any, len(g.children))
	for key, node := range g.children {
		out[key] = node.Value()
	}
	return out
}

// SetValue pushes a value map into matching children; keys without a child
// are ignored, children without a key keep their value.
func (g *Group) SetValue(values map[string]any) {
	for key, value := range values {
		node, ok := g.Get(key)
		if !ok {
			continue
		}
		setNodeValue(node, value)
	}
}

// AppendValidators adds group-level validators and refreshes aggregates.
func (g *Group) AppendValidators(validators ...validate.Validator) {
	g.mu.Lock()
	g.validators = append(g.validators, validators...)
	g.mu.Unlock()
	g.Refresh()
}

// Status returns the aggregate validity.
func (g *Group) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Errors returns the group's own validation failures.
func (g *Group) Errors() validate.Errors {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs
}

// Disabled reports whether every child is disabled (a childless group is
// never disabled).
func (g *Group) Disabled() bool {
	return g.Status() == StatusDisabled
}

// Parent returns the owning container, nil at the root.
func (g *Group) Parent() Container {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.parent
}

func (g *Group) setParent(p Container) {
	g.mu.Lock()
	g.parent = p
	g.mu.Unlock()
}

func (g *Group) childChanged() {
	g.Refresh()
}

// Refresh recomputes the group's own errors and the aggregate status, then
// bubbles to the parent chain.
func (g *Group) Refresh() {
	g.mu.Lock()
	var ownErrs validate.Errors
	if composite := validate.Compose(g.validators); composite != nil {
		values := make(map[string]any, len(g.children))
		for key, node := range g.children {
			values[key] = node.Value()
		}
		ownErrs = composite(values)
	}
	g.errs = ownErrs

	children := make([]Node, 0, len(g.children))
	for _, key := range g.order {
		children = append(children, g.children[key])
	}
	g.status = aggregateStatus(ownErrs, children)
	parent := g.parent
	g.mu.Unlock()

	if parent != nil {
		parent.childChanged()
	}
}

// aggregateStatus derives a container's validity: own failures or any invalid
// child make it invalid, outstanding async work makes it pending, a fully
// disabled child set makes it disabled. Disabled children are otherwise
// excluded from the aggregate.
func aggregateStatus(ownErrs validate.Errors, children []Node) Status {
	if ownErrs != nil {
		return StatusInvalid
	}

	pending := false
	enabled := 0
	for _, child := range children {
		switch child.Status() {
		case StatusInvalid:
			return StatusInvalid
		case StatusPending:
			pending = true
			enabled++
		case StatusDisabled:
			// excluded from the aggregate
		default:
			enabled++
		}
	}
	if pending {
		return StatusPending
	}
	if len(children) > 0 && enabled == 0 {
		return StatusDisabled
	}
	return StatusValid
}

func setNodeValue(node Node, value any) {
	switch n := node.(type) {
	case *Control:
		n.SetValue(value)
	case *Group:
		if values, ok := value.(map[string]any); ok {
			n.SetValue(values)
		}
	case *Array:
		if values, ok := value.([]any); ok {
			n.SetValue(values)
		}
	}
}
