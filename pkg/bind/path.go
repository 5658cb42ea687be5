package bind

import "github.com/goliatone/go-formbind/pkg/forms"

// ResolvePath computes the model address of a binding with the given local
// segment under its parent container binding. The path is derived by walking
// the live ancestor chain on every call; nothing is cached, so the result
// stays correct across dynamic attach and detach. Two bindings in the same
// structural position always resolve to the same path.
func ResolvePath(seg forms.Segment, parent ContainerBinding) (forms.Path, error) {
	if parent == nil {
		return nil, &PathResolutionError{Segment: seg.String()}
	}
	base, err := parent.Path()
	if err != nil {
		return nil, err
	}
	return base.Child(seg), nil
}
