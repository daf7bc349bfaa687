// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderFunc renders a named template with data.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// DefaultRender renders through the booted template engine.
func DefaultRender(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// pageData is the basic view model for error pages.
type pageData struct {
	Title   string
	Status  int
	Message string
	BackURL string
}

const (
	tmplNotFound = "error_not_found"
	tmplError    = "error_page"
)

func renderStatus(render RenderFunc, w http.ResponseWriter, r *http.Request, status int, name, title, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	render(w, r, name, pageData{
		Title:   title,
		Status:  status,
		Message: msg,
		BackURL: backURL,
	})
}

// RenderNotFound shows the not-found page with a 404 status.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderNotFound(DefaultRender, w, r, msg, backURL)
}

func renderNotFound(render RenderFunc, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "The page you were looking for does not exist."
	}
	renderStatus(render, w, r, http.StatusNotFound, tmplNotFound, "Not found", msg, backURL)
}

// RenderServerError shows a generic error page with a 500 status.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderStatus(DefaultRender, w, r, http.StatusInternalServerError, tmplError, "Something went wrong", msg, backURL)
}

// RenderBadRequest shows a generic error page with a 400 status.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	renderStatus(DefaultRender, w, r, http.StatusBadRequest, tmplError, "Bad request", msg, backURL)
}
