package bind_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/bind"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/render/memdom"
	"github.com/goliatone/go-formbind/pkg/testsupport"
	"github.com/goliatone/go-formbind/pkg/validate"
)

func TestNewFormRequiresRoot(t *testing.T) {
	if _, err := bind.NewForm(nil); err == nil {
		t.Fatal("expected an error for a nil root group")
	}
}

func TestNestedBindingsResolveDottedPaths(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	address := bind.NewGroupBinding("address", form)
	if err := address.Attach(); err != nil {
		t.Fatalf("attach address: %v", err)
	}
	city, _ := testsupport.TextBinding(t, r, "city", address)

	path, err := city.Path()
	if err != nil {
		t.Fatalf("city path: %v", err)
	}
	if got := path.String(); got != "address.city" {
		t.Fatalf("path = %q, want %q", got, "address.city")
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	binding, _ := testsupport.TextBinding(t, r, "name", form)
	if err := binding.Attach(); err != nil {
		t.Fatalf("repeat attach: %v", err)
	}
	if got := len(form.Controls()); got != 1 {
		t.Fatalf("registered leaf count = %d, want 1", got)
	}
}

func TestDuplicateRegistrationLeavesOriginalIntact(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	original, el := testsupport.TextBinding(t, r, "name", form)

	duplicate := bind.NewControlBinding("name", form,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	err := duplicate.Attach()

	var dup *bind.DuplicateRegistrationError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateRegistrationError", err)
	}
	if got := dup.Path.String(); got != "name" {
		t.Fatalf("error path = %q, want %q", got, "name")
	}
	if duplicate.Added() {
		t.Fatal("failed attach must leave the duplicate unregistered")
	}

	// The original binding keeps syncing.
	r.Dispatch(el, memdomEvent("input", "ada"))
	if got := original.Control().Value(); got != "ada" {
		t.Fatalf("original control value = %v, want %q", got, "ada")
	}
}

func TestMissingNodeError(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	binding := bind.NewControlBinding("nickname", form,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	err := binding.Attach()

	var missing *bind.MissingNodeError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingNodeError", err)
	}
	if got := missing.Path.String(); got != "nickname" {
		t.Fatalf("error path = %q, want %q", got, "nickname")
	}
}

func TestTypeMismatchErrors(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	t.Run("leaf binding over a group node", func(t *testing.T) {
		binding := bind.NewControlBinding("address", form,
			bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
		err := binding.Attach()

		var mismatch *bind.TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("err = %v, want TypeMismatchError", err)
		}
		if mismatch.Want != "control" || mismatch.Got != "group" {
			t.Fatalf("mismatch = want %q got %q", mismatch.Want, mismatch.Got)
		}
	})

	t.Run("group binding over a leaf node", func(t *testing.T) {
		binding := bind.NewGroupBinding("name", form)
		err := binding.Attach()

		var mismatch *bind.TypeMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("err = %v, want TypeMismatchError", err)
		}
		if mismatch.Want != "group" || mismatch.Got != "control" {
			t.Fatalf("mismatch = want %q got %q", mismatch.Want, mismatch.Got)
		}
	})
}

func TestNilParentFailsPathResolution(t *testing.T) {
	r := memdom.New()
	binding := bind.NewControlBinding("name", nil,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	err := binding.Attach()

	var pathErr *bind.PathResolutionError
	if !errors.As(err, &pathErr) {
		t.Fatalf("err = %v, want PathResolutionError", err)
	}
}

func TestUnattachedParentFailsWithParentKindError(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	address := bind.NewGroupBinding("address", form) // never attached
	city := bind.NewControlBinding("city", address,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	err := city.Attach()

	var parentErr *bind.ParentKindError
	if !errors.As(err, &parentErr) {
		t.Fatalf("err = %v, want ParentKindError", err)
	}
}

func TestRenameRejectedAfterRegistration(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	binding := bind.NewControlBinding("address", form,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	if err := binding.Rename("name"); err != nil {
		t.Fatalf("rename before attach: %v", err)
	}
	if err := binding.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := binding.Rename("other"); err == nil {
		t.Fatal("expected rename after registration to fail")
	}
}

func TestDetachIsIdempotentAndFreesThePath(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))
	r := memdom.New()

	binding, el := testsupport.TextBinding(t, r, "name", form)
	if got := r.ListenerCount(el, "input"); got != 1 {
		t.Fatalf("listener count = %d, want 1", got)
	}

	binding.Detach()
	binding.Detach()

	if got := r.ListenerCount(el, "input"); got != 0 {
		t.Fatalf("listener count after detach = %d, want 0", got)
	}
	if got := len(form.Controls()); got != 0 {
		t.Fatalf("registered leaf count after detach = %d, want 0", got)
	}

	// The model node outlives the binding; the path is free for a successor.
	replacement, _ := testsupport.TextBinding(t, r, "name", form)
	if !replacement.Added() {
		t.Fatal("expected replacement binding to register on the freed path")
	}

	if err := binding.Attach(); err == nil {
		t.Fatal("expected re-attach of a detached binding to fail")
	}
}

func TestContainerDetachKeepsModelSubtree(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))

	address := bind.NewGroupBinding("address", form)
	if err := address.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}
	address.Detach()
	address.Detach()

	if _, ok := form.Root().Child(forms.Name("address")); !ok {
		t.Fatal("expected the model subtree to survive binding detach")
	}
}

func TestContainerValidatorsAttachToModelNode(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))

	address := bind.NewGroupBinding("address", form,
		bind.WithContainerValidators(func(value any) validate.Errors {
			members, _ := value.(map[string]any)
			if city, _ := members["city"].(string); city == "" {
				return validate.Errors{"cityRequired": true}
			}
			return nil
		}))
	if err := address.Attach(); err != nil {
		t.Fatalf("attach: %v", err)
	}

	address.Group().Refresh()
	want := validate.Errors{"cityRequired": true}
	if diff := cmp.Diff(want, address.Group().Errors()); diff != "" {
		t.Fatalf("group errors mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateValueThroughForm(t *testing.T) {
	form := testsupport.BoundForm(t, testsupport.AddressTree(t))

	path := forms.Path{forms.Name("address"), forms.Name("city")}
	if err := form.UpdateValue(path, "lisbon"); err != nil {
		t.Fatalf("update value: %v", err)
	}

	want := map[string]any{
		"name":    "",
		"address": map[string]any{"city": "lisbon"},
	}
	if diff := cmp.Diff(want, form.Value()); diff != "" {
		t.Fatalf("form value mismatch (-want +got):\n%s", diff)
	}

	err := form.UpdateValue(forms.Path{forms.Name("missing")}, "x")
	var missing *bind.MissingNodeError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want MissingNodeError", err)
	}
}

func TestDottedKeyDoesNotAliasNestedPath(t *testing.T) {
	root := forms.NewGroup(map[string]forms.Node{
		"a.b": forms.NewControl("flat"),
		"a": forms.NewGroup(map[string]forms.Node{
			"b": forms.NewControl("nested"),
		}),
	})
	form := testsupport.BoundForm(t, root)
	r := memdom.New()

	a := bind.NewGroupBinding("a", form)
	if err := a.Attach(); err != nil {
		t.Fatalf("attach group: %v", err)
	}
	nested, _ := testsupport.TextBinding(t, r, "b", a)

	// The top-level key renders like the nested path but addresses a
	// different node; both registrations must land.
	flat, _ := testsupport.TextBinding(t, r, "a.b", form)

	if got := nested.Control().Value(); got != "nested" {
		t.Fatalf("nested control value = %v, want %q", got, "nested")
	}
	if got := flat.Control().Value(); got != "flat" {
		t.Fatalf("flat control value = %v, want %q", got, "flat")
	}

	// Each position still rejects its own duplicate.
	duplicate := bind.NewControlBinding("a.b", form,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	var dup *bind.DuplicateRegistrationError
	if err := duplicate.Attach(); !errors.As(err, &dup) {
		t.Fatalf("err = %v, want DuplicateRegistrationError", err)
	}
}

func TestNumericKeyDoesNotAliasArrayIndex(t *testing.T) {
	root := forms.NewGroup(map[string]forms.Node{
		"t.0": forms.NewControl("flat"),
		"t": forms.NewArray([]forms.Node{
			forms.NewControl("indexed"),
		}),
	})
	form := testsupport.BoundForm(t, root)
	r := memdom.New()

	tags := bind.NewArrayBinding("t", form)
	if err := tags.Attach(); err != nil {
		t.Fatalf("attach array: %v", err)
	}
	indexed := bind.NewControlBindingAt(0, tags,
		bind.WithAccessors(bind.NewTextAccessor(r, r.CreateElement("input"))))
	if err := indexed.Attach(); err != nil {
		t.Fatalf("attach indexed leaf: %v", err)
	}

	flat, _ := testsupport.TextBinding(t, r, "t.0", form)

	if got := indexed.Control().Value(); got != "indexed" {
		t.Fatalf("indexed control value = %v, want %q", got, "indexed")
	}
	if got := flat.Control().Value(); got != "flat" {
		t.Fatalf("flat control value = %v, want %q", got, "flat")
	}
}

func TestArrayBindingLifecycle(t *testing.T) {
	root := forms.NewGroup(map[string]forms.Node{
		"tags": forms.NewArray([]forms.Node{
			forms.NewControl("go"),
			forms.NewControl("forms"),
		}),
	})
	form := testsupport.BoundForm(t, root)
	r := memdom.New()

	tags := bind.NewArrayBinding("tags", form)
	if err := tags.Attach(); err != nil {
		t.Fatalf("attach array: %v", err)
	}

	el := r.CreateElement("input").(*memdom.Element)
	first := bind.NewControlBindingAt(0, tags,
		bind.WithAccessors(bind.NewTextAccessor(r, el)))
	if err := first.Attach(); err != nil {
		t.Fatalf("attach element binding: %v", err)
	}

	path, err := first.Path()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if got := path.String(); got != "tags.0" {
		t.Fatalf("path = %q, want %q", got, "tags.0")
	}
	if got := r.Property(el, "value"); got != "go" {
		t.Fatalf("initial view value = %v, want %q", got, "go")
	}

	r.Dispatch(el, memdomEvent("input", "golang"))
	want := []any{"golang", "forms"}
	if diff := cmp.Diff(want, tags.Array().Value()); diff != "" {
		t.Fatalf("array value mismatch (-want +got):\n%s", diff)
	}
}
