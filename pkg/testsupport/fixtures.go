// Package testsupport holds fixtures shared by contract tests across the
// module.
package testsupport

import (
	"testing"

	"github.com/goliatone/go-formbind/pkg/bind"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/render/memdom"
)

// AddressTree builds the canonical test model:
//
//	{ name: Control(""), address: Group{ city: Control("") } }
func AddressTree(t *testing.T) *forms.Group {
	t.Helper()
	return forms.NewGroup(map[string]forms.Node{
		"name": forms.NewControl(""),
		"address": forms.NewGroup(map[string]forms.Node{
			"city": forms.NewControl(""),
		}),
	})
}

// BoundForm wraps a model tree in a FormBinding, failing the test on error.
func BoundForm(t *testing.T, root *forms.Group) *bind.FormBinding {
	t.Helper()
	form, err := bind.NewForm(root)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return form
}

// TextBinding attaches a text-accessor leaf binding to a fresh element and
// returns the binding together with its element for event dispatch.
func TextBinding(t *testing.T, r *memdom.Renderer, name string, parent bind.ContainerBinding, opts ...bind.ControlBindingOption) (*bind.ControlBinding, *memdom.Element) {
	t.Helper()
	el := r.CreateElement("input").(*memdom.Element)
	opts = append(opts, bind.WithAccessors(bind.NewTextAccessor(r, el)))
	binding := bind.NewControlBinding(name, parent, opts...)
	if err := binding.Attach(); err != nil {
		t.Fatalf("attach %q: %v", name, err)
	}
	return binding, el
}
