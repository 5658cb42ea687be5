package bind

import (
	"fmt"

	"github.com/goliatone/go-formbind/pkg/forms"
)

// The binding taxonomy below covers configuration mistakes only. All of them
// are raised synchronously while a binding attaches and are never downgraded
// or retried; runtime value pushes do not produce domain errors.

// PathResolutionError reports a leaf or container binding with no addressable
// parent above it. Only the root form binding may carry an empty path.
type PathResolutionError struct {
	// Segment is the local name or index the binding tried to resolve.
	Segment string
}

func (e *PathResolutionError) Error() string {
	if e.Segment == "" {
		return "bind: binding has no parent container to resolve a path through"
	}
	return fmt.Sprintf("bind: binding %q has no parent container to resolve a path through", e.Segment)
}

// DuplicateRegistrationError reports a second binding registering at a path
// whose segment is already occupied by an added binding.
type DuplicateRegistrationError struct {
	Path forms.Path
}

func (e *DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("bind: a binding is already registered at %q", e.Path.String())
}

// TypeMismatchError reports a binding whose resolved model node has the wrong
// shape: a container binding over a leaf, or a leaf binding over a container.
type TypeMismatchError struct {
	Path forms.Path
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("bind: node at %q is a %s, expected a %s", e.Path.String(), e.Got, e.Want)
}

// ParentKindError reports an immediate parent that is not a recognised
// container binding for the style in use. It is distinct from
// PathResolutionError (no parent at all) so the message can guide correction.
type ParentKindError struct {
	// Got describes the offending parent.
	Got string
	// Hint explains what a valid parent would look like.
	Hint string
}

func (e *ParentKindError) Error() string {
	msg := fmt.Sprintf("bind: parent %s is not a usable container binding", e.Got)
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	return msg
}

// MissingNodeError reports a resolved path that addresses no model node. The
// model tree is built before bindings attach; bindings never create nodes.
type MissingNodeError struct {
	Path forms.Path
}

func (e *MissingNodeError) Error() string {
	return fmt.Sprintf("bind: no model node exists at %q", e.Path.String())
}

// AccessorSelectionError reports that value-accessor precedence filtering left
// zero or more than one candidate.
type AccessorSelectionError struct {
	Custom  int
	Builtin int
}

func (e *AccessorSelectionError) Error() string {
	switch {
	case e.Custom > 1:
		return fmt.Sprintf("bind: %d custom value accessors supplied, expected at most one", e.Custom)
	case e.Custom == 0 && e.Builtin == 0:
		return "bind: no value accessor supplied"
	default:
		return fmt.Sprintf("bind: %d built-in value accessors supplied, expected exactly one", e.Builtin)
	}
}
