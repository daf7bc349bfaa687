// internal/app/features/exhibitions/actions.go
package exhibitions

import (
	"context"
	"errors"
	"net/http"

	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// writeFailed renders the outcome of a failed row action and reports
// whether err was a failure.
func (h *Handler) writeFailed(w http.ResponseWriter, r *http.Request, action string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, exhibitionstore.ErrNotFound):
		h.ErrLog.NotFound(w, r, notFoundMsg, backURL(r))
	default:
		h.ErrLog.HTMXLogServerError(w, r, action+" failed", err, "A database error occurred.", backURL(r))
	}
	return true
}

// HandleStatus sets the status of one exhibition.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := formValue(r, "status")
	if !models.Contains(models.ExhibitionStatuses, status) {
		h.ErrLog.LogBadRequest(w, r, "invalid status", nil, "Unknown status.", backURL(r))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if h.writeFailed(w, r, "update status", h.store.UpdateStatus(ctx, id, status)) {
		return
	}

	h.Cache.Invalidate(ctx)
	h.Audit.ExhibitionStatusChanged(ctx, r, id, status)
	h.Log.Info("exhibition status changed", zap.String("exhibition_id", id), zap.String("status", status))
	h.redirectBack(w, r, "Status set to "+statusLabels[status]+".")
}

// HandleOfficialURL saves the inline official URL edit. An empty value
// clears the URL.
func (h *Handler) HandleOfficialURL(w http.ResponseWriter, r *http.Request) {
	u := formValue(r, "official_url")
	if u != "" && !inputval.IsValidHTTPURL(u) {
		h.redirectBack(w, r, "official URL must be a valid http(s) URL")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if h.writeFailed(w, r, "update official url", h.store.UpdateOfficialURL(ctx, id, u)) {
		return
	}

	h.Cache.Invalidate(ctx)
	h.Audit.ExhibitionOfficialURLChanged(ctx, r, id, u)
	h.redirectBack(w, r, "Official URL saved.")
}

// HandleExclude hides an exhibition from the default listing.
func (h *Handler) HandleExclude(w http.ResponseWriter, r *http.Request) {
	h.setExcluded(w, r, true)
}

// HandleRestore returns an excluded exhibition to the default listing.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	h.setExcluded(w, r, false)
}

func (h *Handler) setExcluded(w http.ResponseWriter, r *http.Request, excluded bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if h.writeFailed(w, r, "set excluded", h.store.SetExcluded(ctx, id, excluded)) {
		return
	}

	h.Cache.Invalidate(ctx)
	if excluded {
		h.Audit.ExhibitionExcluded(ctx, r, id)
		h.redirectBack(w, r, "Exhibition excluded.")
		return
	}
	h.Audit.ExhibitionRestored(ctx, r, id)
	h.redirectBack(w, r, "Exhibition restored.")
}

// HandleDelete removes an exhibition. Deleting one that is already gone
// still redirects with a notice.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	n, err := h.store.Delete(ctx, id)
	if err != nil {
		h.ErrLog.HTMXLogServerError(w, r, "delete exhibition failed", err, "A database error occurred.", backURL(r))
		return
	}
	if n == 0 {
		h.redirectBack(w, r, "Exhibition was already deleted.")
		return
	}

	h.Cache.Invalidate(ctx)
	h.Audit.ExhibitionDeleted(ctx, r, id)
	h.Log.Info("exhibition deleted", zap.String("exhibition_id", id))
	h.redirectBack(w, r, "Exhibition deleted.")
}
