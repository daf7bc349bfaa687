package formutil

import (
	"net/http/httptest"
	"testing"
)

func TestSetBase(t *testing.T) {
	r := httptest.NewRequest("GET", "/exhibitions/abc/edit?return=/exhibitions/excluded", nil)
	var b Base
	SetBase(&b, r, "Edit Exhibition", "/exhibitions")

	if b.Title != "Edit Exhibition" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.BackURL == "" {
		t.Error("BackURL should not be empty")
	}
	if b.CurrentPath == "" {
		t.Error("CurrentPath should not be empty")
	}
}

func TestFieldErrors(t *testing.T) {
	var b Base
	if b.HasErrors() {
		t.Fatal("zero Base should have no errors")
	}
	b.AddFieldError("title", "title is required")
	b.AddFieldError("title", "second message")
	if got := b.FieldError("title"); got != "title is required" {
		t.Errorf("FieldError(title) = %q", got)
	}
	if got := b.FieldError("venue"); got != "" {
		t.Errorf("FieldError(venue) = %q", got)
	}
	if !b.HasErrors() {
		t.Error("HasErrors() = false")
	}
}

func TestSetError_Escapes(t *testing.T) {
	var b Base
	b.SetError("<b>bad</b>")
	if string(b.Error) != "&lt;b&gt;bad&lt;/b&gt;" {
		t.Errorf("Error = %q", b.Error)
	}
}
