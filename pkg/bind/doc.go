// Package bind attaches view elements to a pre-built form model tree.
//
// A FormBinding wraps the model root and is the single mutation surface.
// GroupBinding and ArrayBinding bind interior nodes and act as attachment
// points for nested bindings; ControlBinding binds one element to one leaf
// control through a ValueAccessor. Paths are derived from the live parent
// chain on every read. View-originated changes are event-driven; the inverse
// model→view direction is polled through FormBinding.Detect. Both directions
// share one NaN-tolerant identity check that keeps them from feeding each
// other.
//
// Every registration error is a distinct type (PathResolutionError,
// DuplicateRegistrationError, TypeMismatchError, ParentKindError,
// MissingNodeError, AccessorSelectionError) raised synchronously at attach
// and assertable with errors.As.
package bind
