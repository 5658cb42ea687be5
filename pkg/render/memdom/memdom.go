// Package memdom is an in-memory render.Renderer. It backs tests and the CLI
// fill session with concrete elements that hold attributes, properties,
// classes, styles, and event listeners, plus a Dispatch helper that plays the
// role of the host's event loop.
package memdom

import (
	"sync"

	"github.com/goliatone/go-formbind/pkg/render"
)

// Element is the concrete handle memdom hands out. Fields are guarded by the
// owning Renderer's mutex; use the Renderer methods rather than touching
// maps directly from concurrent code.
type Element struct {
	Kind     string
	Parent   *Element
	Children []*Element

	attrs   map[string]string
	props   map[string]any
	classes map[string]struct{}
	styles  map[string]string

	listeners map[string][]*listener
	nextID    int
}

type listener struct {
	id int
	fn render.ListenerFunc
}

// Renderer implements render.Renderer over Element handles.
type Renderer struct {
	mu sync.Mutex
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs an empty in-memory renderer.
func New() *Renderer {
	return &Renderer{}
}

// CreateElement makes a detached element of the given kind.
func (r *Renderer) CreateElement(kind string) any {
	return &Element{
		Kind:      kind,
		attrs:     make(map[string]string),
		props:     make(map[string]any),
		classes:   make(map[string]struct{}),
		styles:    make(map[string]string),
		listeners: make(map[string][]*listener),
	}
}

// Insert appends child to parent's child list.
func (r *Renderer) Insert(parent, child any) {
	p, c := asElement(parent), asElement(child)
	if p == nil || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Parent = p
	p.Children = append(p.Children, c)
}

// Remove detaches child from parent's child list.
func (r *Renderer) Remove(parent, child any) {
	p, c := asElement(parent), asElement(child)
	if p == nil || c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range p.Children {
		if existing == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			c.Parent = nil
			return
		}
	}
}

// Attribute reads a string attribute.
func (r *Renderer) Attribute(el any, name string) (string, bool) {
	e := asElement(el)
	if e == nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := e.attrs[name]
	return value, ok
}

// SetAttribute writes a string attribute.
func (r *Renderer) SetAttribute(el any, name, value string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		e.attrs[name] = value
		r.mu.Unlock()
	}
}

// RemoveAttribute clears a string attribute.
func (r *Renderer) RemoveAttribute(el any, name string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		delete(e.attrs, name)
		r.mu.Unlock()
	}
}

// Property reads a typed property.
func (r *Renderer) Property(el any, name string) any {
	e := asElement(el)
	if e == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return e.props[name]
}

// SetProperty writes a typed property.
func (r *Renderer) SetProperty(el any, name string, value any) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		e.props[name] = value
		r.mu.Unlock()
	}
}

// AddClass records a presentation class.
func (r *Renderer) AddClass(el any, class string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		e.classes[class] = struct{}{}
		r.mu.Unlock()
	}
}

// RemoveClass clears a presentation class.
func (r *Renderer) RemoveClass(el any, class string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		delete(e.classes, class)
		r.mu.Unlock()
	}
}

// HasClass reports whether a class is set. Test helper.
func (r *Renderer) HasClass(el any, class string) bool {
	e := asElement(el)
	if e == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := e.classes[class]
	return ok
}

// SetStyle records an inline style.
func (r *Renderer) SetStyle(el any, name, value string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		e.styles[name] = value
		r.mu.Unlock()
	}
}

// RemoveStyle clears an inline style.
func (r *Renderer) RemoveStyle(el any, name string) {
	if e := asElement(el); e != nil {
		r.mu.Lock()
		delete(e.styles, name)
		r.mu.Unlock()
	}
}

// Listen attaches a handler for an event type. The returned Unlisten detaches
// exactly that handler and tolerates repeat calls.
func (r *Renderer) Listen(el any, eventType string, fn render.ListenerFunc) render.Unlisten {
	e := asElement(el)
	if e == nil || fn == nil {
		return func() {}
	}

	r.mu.Lock()
	e.nextID++
	entry := &listener{id: e.nextID, fn: fn}
	e.listeners[eventType] = append(e.listeners[eventType], entry)
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			handlers := e.listeners[eventType]
			for i, existing := range handlers {
				if existing.id == entry.id {
					e.listeners[eventType] = append(handlers[:i], handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Dispatch fires an event against an element, invoking every listener for the
// event's type in attach order. It stands in for the host's event loop in
// tests and the CLI session.
func (r *Renderer) Dispatch(el any, event render.Event) {
	e := asElement(el)
	if e == nil {
		return
	}
	event.Target = e

	r.mu.Lock()
	handlers := append([]*listener(nil), e.listeners[event.Type]...)
	r.mu.Unlock()

	for _, entry := range handlers {
		entry.fn(event)
	}
}

// ListenerCount reports the handlers attached for an event type. Test helper.
func (r *Renderer) ListenerCount(el any, eventType string) int {
	e := asElement(el)
	if e == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(e.listeners[eventType])
}

func asElement(el any) *Element {
	e, _ := el.(*Element)
	return e
}
