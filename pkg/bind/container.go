package bind

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/validate"
)

// ContainerBinding is the capability nested bindings resolve their paths
// through. GroupBinding, ArrayBinding, and FormBinding implement it.
type ContainerBinding interface {
	// Path recomputes the binding's address from the live parent chain.
	Path() (forms.Path, error)
	// Container returns the bound model node, nil before attach.
	Container() forms.Container
	// Form returns the root binding all mutation routes through.
	Form() *FormBinding
	// Added reports whether the binding has completed registration.
	Added() bool
}

// ContainerOption customises a container binding.
type ContainerOption func(*containerConfig)

type containerConfig struct {
	validators []validate.Validator
}

// WithContainerValidators declares container-level validators, attached to
// the model node at registration.
func WithContainerValidators(validators ...validate.Validator) ContainerOption {
	return func(c *containerConfig) {
		c.validators = append(c.validators, validators...)
	}
}

// GroupBinding binds a named sub-tree of the model: it registers itself with
// its parent container and serves as the attachment point for nested
// bindings. The model node at its path must already be a Group.
type GroupBinding struct {
	seg    forms.Segment
	parent ContainerBinding
	cfg    containerConfig

	group *forms.Group
	added bool
}

var _ ContainerBinding = (*GroupBinding)(nil)

// NewGroupBinding declares a group binding under a parent, addressed by key.
// Nothing is resolved until Attach runs.
func NewGroupBinding(name string, parent ContainerBinding, opts ...ContainerOption) *GroupBinding {
	b := &GroupBinding{seg: forms.Name(name), parent: parent}
	applyContainerOptions(&b.cfg, opts)
	return b
}

// NewGroupBindingAt declares a group binding under a parent array binding,
// addressed by position.
func NewGroupBindingAt(pos int, parent ContainerBinding, opts ...ContainerOption) *GroupBinding {
	b := &GroupBinding{seg: forms.Index(pos), parent: parent}
	applyContainerOptions(&b.cfg, opts)
	return b
}

// Path resolves the binding's address from the live parent chain.
func (b *GroupBinding) Path() (forms.Path, error) {
	return ResolvePath(b.seg, b.parent)
}

// Container returns the bound group, nil before attach.
func (b *GroupBinding) Container() forms.Container {
	if b.group == nil {
		return nil
	}
	return b.group
}

// Form returns the root binding reached through the parent chain.
func (b *GroupBinding) Form() *FormBinding {
	if b.parent == nil {
		return nil
	}
	return b.parent.Form()
}

// Added reports whether registration completed.
func (b *GroupBinding) Added() bool { return b.added }

// Group returns the bound model node, nil before attach.
func (b *GroupBinding) Group() *forms.Group { return b.group }

// Attach resolves the binding's path, requires the model node there to be a
// Group, attaches container-level validators, and registers with the root
// form. Attach is lazy and runs once; repeat calls are no-ops.
func (b *GroupBinding) Attach() error {
	if b.added {
		return nil
	}
	if err := checkParent(b.parent); err != nil {
		return err
	}

	group, err := b.Form().addGroup(b)
	if err != nil {
		return err
	}
	b.group = group
	if len(b.cfg.validators) > 0 {
		group.AppendValidators(b.cfg.validators...)
	}
	b.added = true
	return nil
}

// Detach deregisters the binding. The model node stays in the tree; its
// lifetime belongs to whoever built it. Detach is idempotent.
func (b *GroupBinding) Detach() {
	if !b.added {
		return
	}
	b.Form().removeBinding(b)
	b.added = false
}

// GetChild resolves a direct child of the bound group.
func (b *GroupBinding) GetChild(seg forms.Segment) (forms.Node, bool) {
	if b.group == nil {
		return nil, false
	}
	return b.group.Child(seg)
}

// UpdateValue pushes a value into a direct child through the root form's
// mutation surface.
func (b *GroupBinding) UpdateValue(seg forms.Segment, value any) error {
	path, err := b.Path()
	if err != nil {
		return err
	}
	return b.Form().UpdateValue(path.Child(seg), value)
}

// ArrayBinding binds an indexed sub-tree of the model. Identical to
// GroupBinding in lifecycle and synchronization; only the node shape and the
// segment type of its children differ.
type ArrayBinding struct {
	seg    forms.Segment
	parent ContainerBinding
	cfg    containerConfig

	array *forms.Array
	added bool
}

var _ ContainerBinding = (*ArrayBinding)(nil)

// NewArrayBinding declares an array binding under a parent, addressed by key.
func NewArrayBinding(name string, parent ContainerBinding, opts ...ContainerOption) *ArrayBinding {
	b := &ArrayBinding{seg: forms.Name(name), parent: parent}
	applyContainerOptions(&b.cfg, opts)
	return b
}

// NewArrayBindingAt declares an array binding under a parent array binding,
// addressed by position.
func NewArrayBindingAt(pos int, parent ContainerBinding, opts ...ContainerOption) *ArrayBinding {
	b := &ArrayBinding{seg: forms.Index(pos), parent: parent}
	applyContainerOptions(&b.cfg, opts)
	return b
}

// Path resolves the binding's address from the live parent chain.
func (b *ArrayBinding) Path() (forms.Path, error) {
	return ResolvePath(b.seg, b.parent)
}

// Container returns the bound array, nil before attach.
func (b *ArrayBinding) Container() forms.Container {
	if b.array == nil {
		return nil
	}
	return b.array
}

// Form returns the root binding reached through the parent chain.
func (b *ArrayBinding) Form() *FormBinding {
	if b.parent == nil {
		return nil
	}
	return b.parent.Form()
}

// Added reports whether registration completed.
func (b *ArrayBinding) Added() bool { return b.added }

// Array returns the bound model node, nil before attach.
func (b *ArrayBinding) Array() *forms.Array { return b.array }

// Attach resolves the path, requires an Array node, attaches validators, and
// registers. Runs once.
func (b *ArrayBinding) Attach() error {
	if b.added {
		return nil
	}
	if err := checkParent(b.parent); err != nil {
		return err
	}

	array, err := b.Form().addArray(b)
	if err != nil {
		return err
	}
	b.array = array
	if len(b.cfg.validators) > 0 {
		array.AppendValidators(b.cfg.validators...)
	}
	b.added = true
	return nil
}

// Detach deregisters the binding; idempotent.
func (b *ArrayBinding) Detach() {
	if !b.added {
		return
	}
	b.Form().removeBinding(b)
	b.added = false
}

// GetChild resolves a direct child of the bound array.
func (b *ArrayBinding) GetChild(seg forms.Segment) (forms.Node, bool) {
	if b.array == nil {
		return nil, false
	}
	return b.array.Child(seg)
}

// UpdateValue pushes a value into a direct child through the root form.
func (b *ArrayBinding) UpdateValue(seg forms.Segment, value any) error {
	path, err := b.Path()
	if err != nil {
		return err
	}
	return b.Form().UpdateValue(path.Child(seg), value)
}

func applyContainerOptions(cfg *containerConfig, opts []ContainerOption) {
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
}

// checkParent validates the immediate parent before any registration
// mutation happens: no parent at all is a path-resolution failure, a parent
// of an unrecognised kind or one detached from a root form is a parent-kind
// failure.
func checkParent(parent ContainerBinding) error {
	if parent == nil {
		return &PathResolutionError{}
	}
	switch parent.(type) {
	case *FormBinding, *GroupBinding, *ArrayBinding:
	default:
		return &ParentKindError{
			Got:  describeBinding(parent),
			Hint: "nest bindings under a form, group, or array binding",
		}
	}
	if parent.Form() == nil {
		return &ParentKindError{
			Got:  describeBinding(parent),
			Hint: "parent container binding is not attached to a root form",
		}
	}
	if !parent.Added() {
		return &ParentKindError{
			Got:  describeBinding(parent),
			Hint: "attach the parent container binding before its children",
		}
	}
	return nil
}

func describeBinding(b ContainerBinding) string {
	return fmt.Sprintf("%T", b)
}
