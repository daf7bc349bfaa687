// internal/app/features/museums/list.go
package museums

import (
	"context"
	"maps"
	"net/http"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ServeList handles GET /museums (with optional ?q= name prefix search),
// paged by name with keyset cursors.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := query.Search(r, "q")
	after := query.Get(r, "after")
	before := query.Get(r, "before")
	start := paging.ParseStart(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()
	began := time.Now()

	base := bson.M{}
	if lo, hi := text.PrefixRange(q); lo != "" {
		base["name_ci"] = bson.M{"$gte": lo, "$lt": hi}
	}

	total, err := h.store.Count(ctx, base)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count museums failed", err, "Unable to load museums.", "/")
		return
	}

	f := maps.Clone(base)
	find := options.Find()
	sortField := "name_ci"

	cfg := paging.ConfigureKeyset(before, after)
	cfg.ApplyToFind(find, sortField)
	if ks := cfg.KeysetWindow(sortField); ks != nil {
		if _, ok := f["name_ci"]; ok {
			f = bson.M{"$and": []bson.M{base, ks}}
		} else {
			maps.Copy(f, ks)
		}
	}

	rows, err := h.store.Find(ctx, f, find)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "find museums failed", err, "Unable to load museums.", "/")
		return
	}
	h.Metrics.ObserveListing(metrics.ListingMuseums, time.Since(began))

	if cfg.Direction == paging.Backward {
		paging.Reverse(rows)
	}
	page := paging.TrimPage(&rows, before, after)
	rng := paging.ComputeRange(start, len(rows))

	items := make([]listItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, listItem{
			ID:            m.ID,
			Name:          m.Name,
			NameCI:        m.NameCI,
			VenueType:     m.VenueType,
			Area:          m.Area,
			OfficialURL:   m.OfficialURL,
			ScrapeEnabled: m.ScrapeEnabled,
			Opening:       htmlsanitize.SanitizeToHTML(m.OpeningInformation),
		})
	}

	prevCur, nextCur := paging.BuildCursors(rows,
		func(m models.Museum) string { return m.NameCI },
		func(m models.Museum) primitive.ObjectID { return m.ID })

	data := listData{
		Q:          q,
		Items:      items,
		Shown:      len(items),
		Total:      total,
		HasPrev:    page.HasPrev,
		HasNext:    page.HasNext,
		PrevCursor: prevCur,
		NextCursor: nextCur,
		RangeStart: rng.Start,
		RangeEnd:   rng.End,
		PrevStart:  rng.PrevStart,
		NextStart:  rng.NextStart,
	}
	formutil.SetBase(&data.Base, r, "Museums", "/")
	data.Flash = h.Flash.Pop(w, r)

	if r.Header.Get("HX-Request") != "" && r.Header.Get("HX-Target") == "museums-table-wrap" {
		h.render(w, r, "museums_table", data)
		return
	}
	h.render(w, r, "museums_list", data)
}
