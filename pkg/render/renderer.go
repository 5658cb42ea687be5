// Package render defines the capability surface the binding layer uses to
// touch view elements. Elements are opaque handles: the binding layer never
// depends on a concrete element type, only on a Renderer that knows how to
// mutate whatever the handles stand for.
package render

// Event is a view-originated occurrence delivered to listeners: an input
// edit, a change commit, and so on.
type Event struct {
	// Type names the event ("input", "change", "blur").
	Type string
	// Target is the element handle the event fired on.
	Target any
	// Value carries the event payload, typically the element's new value.
	Value any
}

// ListenerFunc handles a dispatched event.
type ListenerFunc func(Event)

// Unlisten detaches a previously attached listener. Calling it more than
// once is a no-op.
type Unlisten func()

// Renderer mutates view elements on behalf of bindings. Implementations wrap
// whatever display technology hosts the form; the binding layer only ever
// calls through this interface.
type Renderer interface {
	// CreateElement makes a new element handle of the given kind.
	CreateElement(kind string) any
	// Insert places child under parent.
	Insert(parent, child any)
	// Remove detaches child from parent.
	Remove(parent, child any)

	// Attribute reads a string attribute.
	Attribute(el any, name string) (string, bool)
	// SetAttribute writes a string attribute.
	SetAttribute(el any, name, value string)
	// RemoveAttribute clears a string attribute.
	RemoveAttribute(el any, name string)

	// Property reads a typed property.
	Property(el any, name string) any
	// SetProperty writes a typed property.
	SetProperty(el any, name string, value any)

	// AddClass and RemoveClass toggle presentation classes.
	AddClass(el any, class string)
	RemoveClass(el any, class string)

	// SetStyle and RemoveStyle toggle inline styles.
	SetStyle(el any, name, value string)
	RemoveStyle(el any, name string)

	// Listen attaches a handler for an event type and returns its detach
	// handle.
	Listen(el any, eventType string, fn ListenerFunc) Unlisten
}
