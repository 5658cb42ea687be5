package memdom_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/render"
	"github.com/goliatone/go-formbind/pkg/render/memdom"
)

func TestInsertRemove(t *testing.T) {
	r := memdom.New()
	parent := r.CreateElement("form").(*memdom.Element)
	first := r.CreateElement("input").(*memdom.Element)
	second := r.CreateElement("input").(*memdom.Element)

	r.Insert(parent, first)
	r.Insert(parent, second)

	want := []*memdom.Element{first, second}
	if diff := cmp.Diff(want, parent.Children, cmp.Comparer(func(a, b *memdom.Element) bool { return a == b })); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	if first.Parent != parent {
		t.Fatal("expected first child to point at parent")
	}

	r.Remove(parent, first)
	if len(parent.Children) != 1 || parent.Children[0] != second {
		t.Fatalf("expected only second child to remain, got %v", parent.Children)
	}
	if first.Parent != nil {
		t.Fatal("expected removed child to be detached")
	}

	// Removing an element that is not a child is a no-op.
	r.Remove(parent, first)
	if len(parent.Children) != 1 {
		t.Fatalf("expected repeat removal to be a no-op, got %d children", len(parent.Children))
	}
}

func TestAttributesPropertiesClassesStyles(t *testing.T) {
	r := memdom.New()
	el := r.CreateElement("input")

	r.SetAttribute(el, "type", "text")
	if value, ok := r.Attribute(el, "type"); !ok || value != "text" {
		t.Fatalf("Attribute = %q, %v; want %q, true", value, ok, "text")
	}
	r.RemoveAttribute(el, "type")
	if _, ok := r.Attribute(el, "type"); ok {
		t.Fatal("expected attribute to be removed")
	}

	r.SetProperty(el, "value", 42.0)
	if got := r.Property(el, "value"); got != 42.0 {
		t.Fatalf("Property = %v, want 42", got)
	}

	r.AddClass(el, "touched")
	if !r.HasClass(el, "touched") {
		t.Fatal("expected class to be set")
	}
	r.RemoveClass(el, "touched")
	if r.HasClass(el, "touched") {
		t.Fatal("expected class to be cleared")
	}

	r.SetStyle(el, "display", "none")
	r.RemoveStyle(el, "display")
}

func TestDispatchInvokesListenersInAttachOrder(t *testing.T) {
	r := memdom.New()
	el := r.CreateElement("input")

	var seen []string
	r.Listen(el, "input", func(render.Event) { seen = append(seen, "first") })
	r.Listen(el, "input", func(render.Event) { seen = append(seen, "second") })
	r.Listen(el, "change", func(render.Event) { seen = append(seen, "change") })

	r.Dispatch(el, render.Event{Type: "input", Value: "hello"})

	want := []string{"first", "second"}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("listener order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatchSetsTarget(t *testing.T) {
	r := memdom.New()
	el := r.CreateElement("input")

	var got render.Event
	r.Listen(el, "input", func(event render.Event) { got = event })
	r.Dispatch(el, render.Event{Type: "input", Value: "v"})

	if got.Target != el {
		t.Fatalf("Target = %v, want the dispatched element", got.Target)
	}
	if got.Value != "v" {
		t.Fatalf("Value = %v, want %q", got.Value, "v")
	}
}

func TestUnlistenDetachesExactlyOneHandler(t *testing.T) {
	r := memdom.New()
	el := r.CreateElement("input")

	var calls int
	unlisten := r.Listen(el, "input", func(render.Event) { calls++ })
	r.Listen(el, "input", func(render.Event) { calls++ })

	if got := r.ListenerCount(el, "input"); got != 2 {
		t.Fatalf("ListenerCount = %d, want 2", got)
	}

	unlisten()
	unlisten() // repeat calls tolerated

	if got := r.ListenerCount(el, "input"); got != 1 {
		t.Fatalf("ListenerCount after unlisten = %d, want 1", got)
	}

	r.Dispatch(el, render.Event{Type: "input"})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}
