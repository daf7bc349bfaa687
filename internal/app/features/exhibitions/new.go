// internal/app/features/exhibitions/new.go
package exhibitions

import (
	"context"
	"errors"
	"net/http"

	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.uber.org/zap"
)

// ServeNew renders the "New Exhibition" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	selected := formValue(r, "museum")
	museums, err := h.museumOptions(ctx, selected)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list museums failed", err, "A database error occurred.", listPath)
		return
	}

	data := formData{MuseumID: selected, Museums: museums, Statuses: statusOptions("")}
	formutil.SetBase(&data.Base, r, "New Exhibition", listPath)
	h.render(w, r, "exhibition_new", data)
}

// HandleCreate processes the New Exhibition form through the creation guard.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listPath)
		return
	}

	in := createInput{
		MuseumID:    formValue(r, "museum_id"),
		Title:       formValue(r, "title"),
		StartDate:   formValue(r, "start_date"),
		EndDate:     formValue(r, "end_date"),
		OfficialURL: formValue(r, "official_url"),
		ImageURL:    formValue(r, "image_url"),
		Status:      formValue(r, "status"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rerender := func(fields map[string]string) {
		museums, err := h.museumOptions(ctx, in.MuseumID)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "list museums failed", err, "A database error occurred.", listPath)
			return
		}
		data := formData{
			MuseumID:    in.MuseumID,
			ExhTitle:    in.Title,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			OfficialURL: in.OfficialURL,
			ImageURL:    in.ImageURL,
			Status:      in.Status,
			Museums:     museums,
			Statuses:    statusOptions(in.Status),
		}
		formutil.SetBase(&data.Base, r, "New Exhibition", listPath)
		data.SetFieldErrors(fields)
		h.render(w, r, "exhibition_new", data)
	}

	res := inputval.Validate(in)
	start, end := parseDates(in.StartDate, in.EndDate, res)
	if res.HasErrors() {
		rerender(res.Fields())
		return
	}

	e, err := h.store.CreateIfAbsent(ctx, in.MuseumID, in.Title, exhibitionstore.Attributes{
		StartDate:   start,
		EndDate:     end,
		OfficialURL: in.OfficialURL,
		ImageURL:    in.ImageURL,
		Status:      in.Status,
		Origin:      models.OriginManual,
	})
	switch {
	case err == nil:
	case errors.Is(err, exhibitionstore.ErrAlreadyExists):
		h.Metrics.ObserveCreate(metrics.ResultAlreadyExists)
		rerender(map[string]string{"title": exhibitionstore.ErrAlreadyExists.Error()})
		return
	case errors.Is(err, exhibitionstore.ErrMuseumNotFound):
		h.Metrics.ObserveCreate(metrics.ResultMuseumNotFound)
		rerender(map[string]string{"museum_id": exhibitionstore.ErrMuseumNotFound.Error()})
		return
	case errors.Is(err, exhibitionstore.ErrTitleRequired):
		rerender(map[string]string{"title": "title is required"})
		return
	default:
		h.Metrics.ObserveCreate(metrics.ResultError)
		h.ErrLog.LogServerError(w, r, "create exhibition failed", err, "A database error occurred.", listPath)
		return
	}

	h.Metrics.ObserveCreate(metrics.ResultCreated)
	h.Cache.Invalidate(ctx)
	h.Audit.ExhibitionCreated(ctx, r, e)
	h.Log.Info("exhibition created", zap.String("exhibition_id", e.ID), zap.String("museum_id", e.MuseumID))

	h.redirectBack(w, r, "Exhibition created.")
}
