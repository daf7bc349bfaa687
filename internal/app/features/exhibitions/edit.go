// internal/app/features/exhibitions/edit.go
package exhibitions

import (
	"context"
	"errors"
	"net/http"

	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const notFoundMsg = "That exhibition does not exist or has been deleted."

func editData(e models.Exhibition) formData {
	return formData{
		IsEdit:      true,
		ID:          e.ID,
		MuseumID:    e.MuseumID,
		Venue:       e.Venue,
		ExhTitle:    e.Title,
		StartDate:   civildate.Format(e.StartDate),
		EndDate:     civildate.Format(e.EndDate),
		OfficialURL: e.OfficialURL,
		ImageURL:    e.ImageURL,
		Status:      e.Status,
		Statuses:    statusOptions(e.Status),
	}
}

// loadForEdit fetches the exhibition named in the URL. It writes the
// not-found or error page itself and reports false when it did.
func (h *Handler) loadForEdit(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Exhibition, bool) {
	id := chi.URLParam(r, "id")
	e, err := h.store.GetByID(ctx, id)
	if errors.Is(err, exhibitionstore.ErrNotFound) {
		h.ErrLog.NotFound(w, r, notFoundMsg, backURL(r))
		return models.Exhibition{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load exhibition failed", err, "A database error occurred.", backURL(r))
		return models.Exhibition{}, false
	}
	return e, true
}

// ServeEdit renders the Edit Exhibition form.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	e, ok := h.loadForEdit(ctx, w, r)
	if !ok {
		return
	}

	data := editData(e)
	formutil.SetBase(&data.Base, r, "Edit Exhibition", listPath)
	h.render(w, r, "exhibition_edit", data)
}

// HandleEdit processes the Edit Exhibition form. Invalid input re-renders
// the form and leaves the stored document untouched.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	e, ok := h.loadForEdit(ctx, w, r)
	if !ok {
		return
	}

	in := editInput{
		Title:       formValue(r, "title"),
		StartDate:   formValue(r, "start_date"),
		EndDate:     formValue(r, "end_date"),
		OfficialURL: formValue(r, "official_url"),
		ImageURL:    formValue(r, "image_url"),
		Status:      formValue(r, "status"),
	}

	rerender := func(fields map[string]string) {
		data := editData(e)
		data.ExhTitle = in.Title
		data.StartDate = in.StartDate
		data.EndDate = in.EndDate
		data.OfficialURL = in.OfficialURL
		data.ImageURL = in.ImageURL
		if in.Status != "" {
			data.Status = in.Status
			data.Statuses = statusOptions(in.Status)
		}
		formutil.SetBase(&data.Base, r, "Edit Exhibition", listPath)
		data.SetFieldErrors(fields)
		h.render(w, r, "exhibition_edit", data)
	}

	res := inputval.Validate(in)
	start, end := parseDates(in.StartDate, in.EndDate, res)
	if res.HasErrors() {
		rerender(res.Fields())
		return
	}

	err := h.store.Update(ctx, e.ID, exhibitionstore.Update{
		Title:       in.Title,
		StartDate:   start,
		EndDate:     end,
		OfficialURL: in.OfficialURL,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
	})
	switch {
	case err == nil:
	case errors.Is(err, exhibitionstore.ErrNotFound):
		h.ErrLog.NotFound(w, r, notFoundMsg, backURL(r))
		return
	case errors.Is(err, exhibitionstore.ErrTitleRequired):
		rerender(map[string]string{"title": "title is required"})
		return
	default:
		h.ErrLog.LogServerError(w, r, "update exhibition failed", err, "A database error occurred.", listPath)
		return
	}

	h.Cache.Invalidate(ctx)
	h.Audit.ExhibitionUpdated(ctx, r, e.ID, changedFields(e, in, start, end))
	h.Log.Info("exhibition updated", zap.String("exhibition_id", e.ID))

	h.redirectBack(w, r, "Exhibition updated.")
}
