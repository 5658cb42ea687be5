// Package forms holds the form model tree: leaf controls carrying a single
// value, and group/array containers aggregating children by name or index.
// Nodes are created by a model-construction collaborator (the schema builder
// or hand wiring) before any binding attaches; the binding layer only
// discovers and mutates them.
package forms

import "github.com/goliatone/go-formbind/pkg/validate"

// Node is the common surface of controls and containers.
type Node interface {
	// Value returns the node's current value: the raw value for controls,
	// the structural composite (map or slice) for containers.
	Value() any
	// Status returns the node's validity state, aggregated over enabled
	// children for containers.
	Status() Status
	// Errors returns the node's own validation failures (not children's).
	Errors() validate.Errors
	// Disabled reports whether the node is exempt from validation.
	Disabled() bool
	// Parent returns the owning container, nil at the root.
	Parent() Container
	// Refresh recomputes the node's validity from its current value and
	// validators, then recomputes the ancestor chain's aggregates.
	Refresh()

	setParent(Container)
}

// Container is the interior-node capability shared by Group and Array.
// Callers depend only on this interface; the two kinds differ in segment
// type and aggregate-value shape, never in synchronization rules.
type Container interface {
	Node
	// Child resolves one path segment to a direct child.
	Child(seg Segment) (Node, bool)
	// Len returns the number of direct children.
	Len() int

	childChanged()
}
