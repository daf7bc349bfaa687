// internal/app/features/exhibitions/routes.go
package exhibitions

import "github.com/go-chi/chi/v5"

// Routes mounts all Exhibition routes under the base path
// (typically "/exhibitions" from bootstrap).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// LIST
	r.Get("/", h.ServeList)
	r.Get("/excluded", h.ServeExcluded)

	// CREATE
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	// EDIT
	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)

	// INLINE ACTIONS from the list rows
	r.Post("/{id}/status", h.HandleStatus)
	r.Post("/{id}/official_url", h.HandleOfficialURL)
	r.Post("/{id}/exclude", h.HandleExclude)
	r.Post("/{id}/restore", h.HandleRestore)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
