// internal/app/features/exhibitions/list.go
package exhibitions

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/listcache"
	"github.com/dalemusser/exhibithub/internal/app/system/metrics"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/app/system/tablestate"
	"github.com/dalemusser/exhibithub/internal/app/system/timeouts"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.uber.org/zap"
)

const (
	listPath     = "/exhibitions"
	excludedPath = "/exhibitions/excluded"
)

var columnLabels = []struct{ field, label string }{
	{tablestate.FieldTitle, "Title"},
	{tablestate.FieldVenue, "Venue"},
	{tablestate.FieldStartDate, "Start"},
	{tablestate.FieldEndDate, "End"},
	{tablestate.FieldStatus, "Status"},
	{tablestate.FieldOrigin, "Origin"},
	{tablestate.FieldCreatedAt, "Created"},
	{tablestate.FieldUpdatedAt, "Updated"},
}

var statusLabels = map[string]string{
	models.ExhibitionStatusPending: "Pending",
	models.ExhibitionStatusActive:  "Active",
}

var eventLabels = map[string]string{
	civildate.EventOngoing:  "Ongoing",
	civildate.EventUpcoming: "Upcoming",
	civildate.EventEnded:    "Ended",
}

// ServeList renders the default listing (exhibitions not excluded).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, false)
}

// ServeExcluded renders the excluded listing.
func (h *Handler) ServeExcluded(w http.ResponseWriter, r *http.Request) {
	h.serveList(w, r, true)
}

func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, excluded bool) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	path, title, listing := listPath, "Exhibitions", metrics.ListingDefault
	if excluded {
		path, title, listing = excludedPath, "Excluded Exhibitions", metrics.ListingExcluded
	}

	page := paging.ParsePage(r)
	state := tablestate.FromQuery(r.URL.Query())

	filter := exhibitionstore.ListFilter{Excluded: excluded}
	q := listcache.Query[models.Exhibition]{
		Inner: h.store.List(filter),
		Cache: h.Cache,
		Key:   filter.CacheKey(),
	}

	start := time.Now()
	win, err := paging.Paginate(ctx, q, paging.PageSize, page)
	h.Metrics.ObserveListing(listing, time.Since(start))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list exhibitions failed", err, "A database error occurred.", "/")
		return
	}

	museums, err := h.museums.ListAll(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list museums failed", err, "A database error occurred.", "/")
		return
	}

	now := h.now()
	rows := tablestate.Apply(win.Items, state, now)

	data := listData{
		Excluded:   excluded,
		ListPath:   path,
		ReturnURL:  pageURL(path, state, page),
		Rows:       make([]listRow, 0, len(rows)),
		TotalCount: win.TotalCount,
		Shown:      len(rows),
		Pager:      paging.BuildPager(page, win.TotalCount, paging.PageSize),

		FilterTitle: state.Filters.Title,
		FilterVenue: state.Filters.Venue,
		Filtered:    !state.Filters.IsZero(),
		ClearURL:    pageURL(path, tablestate.Reduce(state, tablestate.ClearFilters{}), 1),
	}
	formutil.SetBase(&data.Base, r, title, "/")
	data.Flash = h.Flash.Pop(w, r)

	for _, e := range rows {
		data.Rows = append(data.Rows, toRow(e, now))
	}
	for _, c := range columnLabels {
		data.Columns = append(data.Columns, column{
			Field: c.field,
			Label: c.label,
			Dir:   state.Indicator(c.field),
			URL:   withPage(path, state.ToggleQuery(c.field), page),
		})
	}
	data.PageLinks, data.PrevURL, data.NextURL = pagerLinks(data.Pager, path, state)
	data.StatusOptions = filterOptions(models.ExhibitionStatuses, statusLabels, []string{state.Filters.Status})
	data.VisibleOpts = filterOptions(
		[]string{tablestate.VisibleOnly, tablestate.HiddenOnly},
		map[string]string{tablestate.VisibleOnly: "Visible", tablestate.HiddenOnly: "Hidden"},
		[]string{state.Filters.Visibility},
	)
	data.EventOptions = filterOptions(civildate.EventStatuses, eventLabels, state.Filters.EventStatuses)
	for _, m := range museums {
		id := m.ID.Hex()
		data.MuseumOptions = append(data.MuseumOptions, option{
			Value:    id,
			Label:    m.Name,
			Selected: slices.Contains(state.Filters.MuseumIDs, id),
		})
	}

	h.Log.Debug("exhibition listing",
		zap.Bool("excluded", excluded),
		zap.Int("page", page),
		zap.Int64("total", win.TotalCount),
		zap.Int("shown", len(rows)))

	h.render(w, r, "exhibitions_list", data)
}

func toRow(e models.Exhibition, now time.Time) listRow {
	return listRow{
		ID:          e.ID,
		Title:       e.Title,
		Venue:       e.Venue,
		MuseumID:    e.MuseumID,
		StartDate:   civildate.Format(e.StartDate),
		EndDate:     civildate.Format(e.EndDate),
		EventStatus: eventLabels[civildate.EventStatus(e.StartDate, e.EndDate, now)],
		Status:      e.Status,
		Active:      e.Status == models.ExhibitionStatusActive,
		Visible:     e.IsPubliclyVisible(now),
		Origin:      e.Origin,
		OfficialURL: e.OfficialURL,
		ImageURL:    e.ImageURL,
		Excluded:    e.IsExcluded,
		CreatedAt:   e.CreatedAt.In(civildate.Location()).Format("2006-01-02 15:04"),
		UpdatedAt:   e.UpdatedAt.In(civildate.Location()).Format("2006-01-02 15:04"),
	}
}

func filterOptions(values []string, labels map[string]string, selected []string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: v, Label: labels[v], Selected: slices.Contains(selected, v)})
	}
	return out
}

// pageURL is the listing URL for state at page n.
func pageURL(path string, s tablestate.State, n int) string {
	return withPage(path, s.Values().Encode(), n)
}

func withPage(path, encoded string, n int) string {
	v, _ := url.ParseQuery(encoded)
	if n > 1 {
		v.Set("page", strconv.Itoa(n))
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func pagerLinks(p paging.Pager, path string, s tablestate.State) (links []pageLink, prev, next string) {
	if !p.Show {
		return nil, "", ""
	}
	for _, l := range p.Links {
		if l.Ellipsis {
			links = append(links, pageLink{Ellipsis: true})
			continue
		}
		links = append(links, pageLink{Number: l.Page, URL: pageURL(path, s, l.Page), Current: l.Current})
	}
	if p.HasPrev {
		prev = pageURL(path, s, p.Prev)
	}
	if p.HasNext {
		next = pageURL(path, s, p.Next)
	}
	return links, prev, next
}
