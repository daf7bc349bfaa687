// internal/app/features/museums/edit.go
package museums

import (
	"context"
	"errors"
	"net/http"

	museumstore "github.com/dalemusser/exhibithub/internal/app/store/museums"
	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/navigation"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const notFoundMsg = "That museum does not exist or has been deleted."

// loadMuseum fetches the museum named in the URL. It writes the not-found
// or error page itself and reports false when it did.
func (h *Handler) loadMuseum(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Museum, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, r, notFoundMsg, listPath)
		return models.Museum{}, false
	}
	m, err := h.store.GetByID(ctx, oid)
	if errors.Is(err, museumstore.ErrNotFound) {
		h.ErrLog.NotFound(w, r, notFoundMsg, listPath)
		return models.Museum{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load museum failed", err, "A database error occurred.", listPath)
		return models.Museum{}, false
	}
	return m, true
}

func (h *Handler) editForm(ctx context.Context, r *http.Request, m models.Museum, in museumInput) (formData, error) {
	n, err := h.exhibitions.CountByMuseum(ctx, m.ID.Hex())
	if err != nil {
		return formData{}, err
	}
	data := newFormData(in)
	data.IsEdit = true
	data.ID = m.ID.Hex()
	data.ExhibitionCount = n
	formutil.SetBase(&data.Base, r, "Edit Museum", listPath)
	return data, nil
}

// ServeEdit renders the Edit Museum form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, ok := h.loadMuseum(ctx, w, r)
	if !ok {
		return
	}
	data, err := h.editForm(ctx, r, m, inputFrom(m))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count exhibitions failed", err, "A database error occurred.", listPath)
		return
	}
	data.Flash = h.Flash.Pop(w, r)
	h.render(w, r, "museum_edit", data)
}

// HandleEdit processes the Edit Museum form.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, ok := h.loadMuseum(ctx, w, r)
	if !ok {
		return
	}
	in := readInput(r)

	if res := inputval.Validate(in); res.HasErrors() {
		data, err := h.editForm(ctx, r, m, in)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "count exhibitions failed", err, "A database error occurred.", listPath)
			return
		}
		data.SetFieldErrors(res.Fields())
		h.render(w, r, "museum_edit", data)
		return
	}

	err := h.store.Update(ctx, m.ID, in.model())
	if errors.Is(err, museumstore.ErrNotFound) {
		h.ErrLog.NotFound(w, r, notFoundMsg, listPath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update museum failed", err, "A database error occurred.", listPath)
		return
	}

	h.Audit.MuseumUpdated(ctx, r, m.ID.Hex(), in.Name)
	h.Log.Info("museum updated", zap.String("museum_id", m.ID.Hex()))

	h.Flash.Add(w, r, "Museum updated.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.MuseumsBackURL), http.StatusSeeOther)
}
