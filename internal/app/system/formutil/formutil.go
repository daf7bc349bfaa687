// Package formutil provides helpers for form re-rendering with validation errors.
//
// When a submission fails validation the form is rendered again with the
// values the operator entered, a message per failing field, and whatever
// context the form needs (museum options and so on).
//
//	type editData struct {
//		formutil.Base
//		Title string
//	}
//
//	data := editData{Title: in.Title}
//	formutil.SetBase(&data.Base, r, "Edit Exhibition", "/exhibitions")
//	data.SetFieldErrors(res.Fields())
//	h.render(w, r, "exhibition_edit", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Base contains common fields for form pages that can be embedded in form data structs.
type Base struct {
	Title       string
	BackURL     string
	CurrentPath string
	Flash       string
	Error       template.HTML
	FieldErrors map[string]string
}

// SetBase populates the navigation fields from the request.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	b.Title = title
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
}

// SetError sets the form-level error message.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
}

// SetFieldErrors replaces the per-field messages.
func (b *Base) SetFieldErrors(m map[string]string) {
	b.FieldErrors = m
}

// AddFieldError records msg for field, keeping an earlier message if one exists.
func (b *Base) AddFieldError(field, msg string) {
	if b.FieldErrors == nil {
		b.FieldErrors = map[string]string{}
	}
	if _, ok := b.FieldErrors[field]; !ok {
		b.FieldErrors[field] = msg
	}
}

// FieldError returns the message for field, or "".
func (b Base) FieldError(field string) string {
	return b.FieldErrors[field]
}

// HasErrors reports whether any form or field error is set.
func (b Base) HasErrors() bool {
	return b.Error != "" || len(b.FieldErrors) > 0
}
