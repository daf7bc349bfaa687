// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct {
	render RenderFunc
}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{render: DefaultRender}
}

// NotFound renders the not-found page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	renderNotFound(h.render, w, r, "", httpnav.ResolveBackURL(r, "/exhibitions"))
}
