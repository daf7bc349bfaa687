// internal/app/features/museums/new.go
package museums

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/exhibithub/internal/app/system/inputval"
	"github.com/dalemusser/exhibithub/internal/app/system/navigation"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.uber.org/zap"
)

const listPath = "/museums"

func readInput(r *http.Request) museumInput {
	v := func(k string) string { return strings.TrimSpace(r.FormValue(k)) }
	return museumInput{
		Name:               v("name"),
		Address:            v("address"),
		Access:             v("access"),
		OpeningInformation: htmlsanitize.PrepareForStorage(v("opening_information")),
		VenueType:          v("venue_type"),
		Area:               v("area"),
		Region:             v("region"),
		OfficialURL:        v("official_url"),
		ScrapeURL:          v("scrape_url"),
		ScrapeEnabled:      isChecked(r.FormValue("scrape_enabled")),
	}
}

func isChecked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// ServeNew renders the "New Museum" form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := newFormData(museumInput{Region: models.Regions[0]})
	formutil.SetBase(&data.Base, r, "New Museum", listPath)
	h.render(w, r, "museum_new", data)
}

// HandleCreate processes the New Museum form.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", listPath)
		return
	}
	in := readInput(r)

	if res := inputval.Validate(in); res.HasErrors() {
		data := newFormData(in)
		formutil.SetBase(&data.Base, r, "New Museum", listPath)
		data.SetFieldErrors(res.Fields())
		h.render(w, r, "museum_new", data)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	m, err := h.store.Create(ctx, in.model())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create museum failed", err, "A database error occurred.", listPath)
		return
	}

	h.Audit.MuseumCreated(ctx, r, m)
	h.Log.Info("museum created", zap.String("museum_id", m.ID.Hex()), zap.String("name", m.Name))

	h.Flash.Add(w, r, "Museum created.")
	http.Redirect(w, r, navigation.SafeBackURL(r, navigation.MuseumsBackURL), http.StatusSeeOther)
}
