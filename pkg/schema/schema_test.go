package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/validate"
)

const signupDoc = `
name: signup
schema:
  type: object
  required: [email]
  properties:
    email:
      type: string
      title: Email
      pattern: "^[^@]+@[^@]+$"
    age:
      type: number
      minimum: 18
    newsletter:
      type: boolean
      default: true
    tags:
      type: array
      minItems: 2
      items:
        type: string
`

func TestLoadBytes(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(signupDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "signup" {
		t.Fatalf("Name = %q, want %q", doc.Name, "signup")
	}
	email, ok := doc.Schema.Properties["email"]
	if !ok {
		t.Fatal("expected email property")
	}
	if email.Title != "Email" {
		t.Fatalf("email title = %q, want %q", email.Title, "Email")
	}
	if doc.Schema.Properties["age"].Minimum == nil {
		t.Fatal("expected age minimum to be set")
	}
}

func TestLoadBytesRejectsEmptyAndMalformed(t *testing.T) {
	if _, err := schema.LoadBytes(nil); err == nil {
		t.Fatal("expected empty payload to fail")
	}
	if _, err := schema.LoadBytes([]byte("{not yaml")); err == nil {
		t.Fatal("expected malformed payload to fail")
	}
	// Array schemas must declare their item shape.
	if _, err := schema.LoadBytes([]byte("schema:\n  type: array\n")); err == nil {
		t.Fatal("expected itemless array schema to fail")
	}
}

func TestLoadBytesSanitisesDisplayText(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(`
name: "<script>alert(1)</script>ok"
schema:
  type: object
  properties:
    email:
      type: string
      title: "<b>Email</b>"
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Name != "ok" {
		t.Fatalf("Name = %q, want %q", doc.Name, "ok")
	}
	if got := doc.Schema.Properties["email"].Title; got != "Email" {
		t.Fatalf("title = %q, want %q", got, "Email")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signup.yaml")
	if err := os.WriteFile(path, []byte(signupDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if doc.Name != "signup" {
		t.Fatalf("Name = %q, want %q", doc.Name, "signup")
	}

	if _, err := schema.LoadFile(""); err == nil {
		t.Fatal("expected empty path to fail")
	}
	if _, err := schema.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}

func TestBuildTree(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(signupDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root, err := schema.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := map[string]any{
		"email":      "",
		"age":        float64(0),
		"newsletter": true,
		"tags":       []any{"", ""},
	}
	if diff := cmp.Diff(want, root.Value()); diff != "" {
		t.Fatalf("tree value mismatch (-want +got):\n%s", diff)
	}

	// Required email starts empty, so the aggregate is invalid.
	if got := root.Status(); got != forms.StatusInvalid {
		t.Fatalf("status = %v, want invalid", got)
	}

	email, ok := forms.Find(root, forms.Path{forms.Name("email")})
	if ok != nil {
		t.Fatalf("find email: %v", ok)
	}
	wantErrs := validate.Errors{validate.ErrorKeyRequired: true}
	if diff := cmp.Diff(wantErrs, email.Errors()); diff != "" {
		t.Fatalf("email errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildArraySeedsDefaultsAndMinItems(t *testing.T) {
	doc, err := schema.LoadBytes([]byte(`
schema:
  type: object
  properties:
    tags:
      type: array
      minItems: 3
      default: [go, forms]
      items:
        type: string
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root, err := schema.Build(doc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := map[string]any{"tags": []any{"go", "forms", ""}}
	if diff := cmp.Diff(want, root.Value()); diff != "" {
		t.Fatalf("tree value mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildRejectsNonObjectRoot(t *testing.T) {
	_, err := schema.Build(schema.Document{Schema: schema.Schema{Type: "string"}})
	if err == nil {
		t.Fatal("expected non-object root to fail")
	}
}

func TestValidatorsMapConstraints(t *testing.T) {
	minimum, maximum := 1.0, 10.0
	minLen := 2
	s := schema.Schema{
		Type:      "number",
		Minimum:   &minimum,
		Maximum:   &maximum,
		MinLength: &minLen,
		Pattern:   "^a",
	}
	validators := schema.Validators(s, true)
	if got := len(validators); got != 5 {
		t.Fatalf("validator count = %d, want 5", got)
	}

	composite := validate.Compose(validators)
	errs := composite(nil)
	if _, ok := errs[validate.ErrorKeyRequired]; !ok {
		t.Fatalf("errors = %v, want a required entry", errs)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"<b>bold</b>", "bold"},
		{"<script>x()</script>after", "after"},
		{"a < b", "a < b"},
	}
	for _, tc := range cases {
		if got := schema.SanitizeText(tc.in); got != tc.want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
