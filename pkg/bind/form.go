package bind

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbind/pkg/forms"
)

// FormBinding is the top-level container binding. It holds the externally
// supplied model tree, keeps the registration table that makes double
// registration fail fast, and is the single surface every descendant binding
// mutates the model through: one interception point for any future
// cross-cutting concern.
//
// FormBinding is the sole binding permitted to carry an empty path.
type FormBinding struct {
	root *forms.Group

	// table tracks which paths have an added binding, keyed by tableKey so
	// distinct tree positions never share a slot. Registration order is
	// preserved in controls so detection passes are deterministic.
	table    map[string]any
	controls []*ControlBinding
}

var _ ContainerBinding = (*FormBinding)(nil)

// NewForm wraps a pre-built model tree root. The tree is constructed by the
// caller (schema builder or hand wiring); the binding layer never creates
// model nodes.
func NewForm(root *forms.Group) (*FormBinding, error) {
	if root == nil {
		return nil, errors.New("bind: form root group is required")
	}
	return &FormBinding{
		root:  root,
		table: make(map[string]any),
	}, nil
}

// Root returns the model tree root.
func (f *FormBinding) Root() *forms.Group { return f.root }

// Path returns the empty path; the root is the only zero-path binding.
func (f *FormBinding) Path() (forms.Path, error) { return forms.Path{}, nil }

// Container returns the model tree root.
func (f *FormBinding) Container() forms.Container { return f.root }

// Form returns the binding itself.
func (f *FormBinding) Form() *FormBinding { return f }

// Added always holds for the root: it is registered by construction.
func (f *FormBinding) Added() bool { return true }

// Detect runs one model→view detection pass over every registered leaf in
// registration order and returns the number of view writes performed. A pass
// after a quiescent model performs zero writes.
func (f *FormBinding) Detect() int {
	writes := 0
	for _, control := range f.controls {
		if control.syncFromModel() {
			writes++
		}
	}
	return writes
}

// Controls returns the registered leaf bindings in registration order.
func (f *FormBinding) Controls() []*ControlBinding {
	return append([]*ControlBinding(nil), f.controls...)
}

// UpdateValue pushes a value into the node addressed by path and lets the
// node's validity plus the ancestor aggregates recompute.
func (f *FormBinding) UpdateValue(path forms.Path, value any) error {
	node, err := forms.Find(f.root, path)
	if err != nil {
		return &MissingNodeError{Path: path}
	}
	setNodeValue(node, value)
	return nil
}

// Value returns the aggregate value of the whole form.
func (f *FormBinding) Value() map[string]any {
	value, _ := f.root.Value().(map[string]any)
	return value
}

// Status returns the aggregate validity of the whole form.
func (f *FormBinding) Status() forms.Status { return f.root.Status() }

// updateControl routes a leaf's view-originated value into its model node.
func (f *FormBinding) updateControl(b *ControlBinding, value any) {
	if b.control == nil {
		return
	}
	b.control.SetValue(value)
}

// addControl registers a leaf binding: resolve the path, refuse occupied
// segments, require a pre-existing leaf node.
func (f *FormBinding) addControl(b *ControlBinding) (*forms.Control, error) {
	path, node, err := f.resolve(b)
	if err != nil {
		return nil, err
	}
	control, ok := node.(*forms.Control)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Want: "control", Got: nodeKind(node)}
	}
	f.table[tableKey(path)] = b
	f.controls = append(f.controls, b)
	return control, nil
}

// addGroup registers a container binding over a group node.
func (f *FormBinding) addGroup(b *GroupBinding) (*forms.Group, error) {
	path, node, err := f.resolve(b)
	if err != nil {
		return nil, err
	}
	group, ok := node.(*forms.Group)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Want: "group", Got: nodeKind(node)}
	}
	f.table[tableKey(path)] = b
	return group, nil
}

// addArray registers a container binding over an array node.
func (f *FormBinding) addArray(b *ArrayBinding) (*forms.Array, error) {
	path, node, err := f.resolve(b)
	if err != nil {
		return nil, err
	}
	array, ok := node.(*forms.Array)
	if !ok {
		return nil, &TypeMismatchError{Path: path, Want: "array", Got: nodeKind(node)}
	}
	f.table[tableKey(path)] = b
	return array, nil
}

type pathed interface {
	Path() (forms.Path, error)
}

// resolve computes a binding's path and locates its model node, enforcing
// the registration invariants shared by every binding kind: exactly one node
// per path, no empty paths below the root, no second added binding on an
// occupied segment.
func (f *FormBinding) resolve(b pathed) (forms.Path, forms.Node, error) {
	path, err := b.Path()
	if err != nil {
		return nil, nil, err
	}
	if len(path) == 0 {
		return nil, nil, &PathResolutionError{}
	}
	if _, occupied := f.table[tableKey(path)]; occupied {
		return nil, nil, &DuplicateRegistrationError{Path: path}
	}
	node, err := forms.Find(f.root, path)
	if err != nil {
		return nil, nil, &MissingNodeError{Path: path}
	}
	return path, node, nil
}

// removeBinding drops a binding from the registration table. Removing a
// binding that is absent (or whose path no longer resolves) is a no-op.
func (f *FormBinding) removeBinding(b pathed) {
	path, err := b.Path()
	if err != nil {
		return
	}
	registered, ok := f.table[tableKey(path)]
	if !ok || registered != any(b) {
		return
	}
	delete(f.table, tableKey(path))
	if control, isControl := b.(*ControlBinding); isControl {
		for i, existing := range f.controls {
			if existing == control {
				f.controls = append(f.controls[:i], f.controls[i+1:]...)
				break
			}
		}
	}
}

// tableKey encodes a path for registration-table lookups. The dotted String
// rendering is ambiguous (a group key containing a dot, or a numeric group
// key next to an array index, renders like a different position), so each
// segment is written with its kind and a length prefix instead.
func tableKey(path forms.Path) string {
	var b strings.Builder
	for _, seg := range path {
		if seg.IsIndex() {
			fmt.Fprintf(&b, "#%d;", seg.Pos())
			continue
		}
		key := seg.Key()
		fmt.Fprintf(&b, "$%d:%s;", len(key), key)
	}
	return b.String()
}

func nodeKind(node forms.Node) string {
	switch node.(type) {
	case *forms.Control:
		return "control"
	case *forms.Group:
		return "group"
	case *forms.Array:
		return "array"
	default:
		return "node"
	}
}

func setNodeValue(node forms.Node, value any) {
	switch n := node.(type) {
	case *forms.Control:
		n.SetValue(value)
	case *forms.Group:
		if values, ok := value.(map[string]any); ok {
			n.SetValue(values)
		}
	case *forms.Array:
		if values, ok := value.([]any); ok {
			n.SetValue(values)
		}
	}
}
