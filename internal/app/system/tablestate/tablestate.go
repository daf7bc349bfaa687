// Package tablestate holds the sort and filter state of the exhibition table
// and applies it to a page of rows.
//
// State changes go through Reduce, which is pure: the same state and action
// always give the same next state. The state round-trips through URL query
// parameters, so column headers can link straight to the next state.
package tablestate

import (
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/civildate"
	"github.com/dalemusser/exhibithub/internal/app/system/identity"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the sort direction of the active column.
type Direction string

const (
	None Direction = ""
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sortable columns.
const (
	FieldTitle     = "title"
	FieldVenue     = "venue"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldStatus    = "status"
	FieldOrigin    = "origin"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Fields lists the sortable columns.
var Fields = []string{
	FieldTitle, FieldVenue, FieldStartDate, FieldEndDate,
	FieldStatus, FieldOrigin, FieldCreatedAt, FieldUpdatedAt,
}

// Visibility filter values.
const (
	VisibleOnly = "visible"
	HiddenOnly  = "hidden"
)

// Filters narrows the rows shown. Zero values match everything.
type Filters struct {
	Status        string   // "" (all), "active", "pending"
	Visibility    string   // "" (all), "visible", "hidden"
	EventStatuses []string // any of civildate.EventStatuses
	MuseumIDs     []string
	Title         string // substring of the normalized title
	Venue         string // substring of the normalized venue
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.Status == "" && f.Visibility == "" && len(f.EventStatuses) == 0 &&
		len(f.MuseumIDs) == 0 && f.Title == "" && f.Venue == ""
}

// State is the table state. SortField is empty exactly when SortDirection is None.
type State struct {
	SortField     string
	SortDirection Direction
	Filters       Filters
}

// Action is a user interaction with the table.
type Action interface {
	reduce(State) State
}

// ToggleSort is a click on a column header.
type ToggleSort struct{ Field string }

// SetFilters replaces every filter.
type SetFilters struct{ Filters Filters }

// ClearFilters removes every filter and keeps the sort.
type ClearFilters struct{}

// Reduce returns the state that follows s after a.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.reduce(s)
}

// Clicking the active column cycles asc -> desc -> none; clicking any other
// column starts it at asc.
func (a ToggleSort) reduce(s State) State {
	if !slices.Contains(Fields, a.Field) {
		return s
	}
	if s.SortField != a.Field {
		s.SortField, s.SortDirection = a.Field, Asc
		return s
	}
	switch s.SortDirection {
	case Asc:
		s.SortDirection = Desc
	case Desc:
		s.SortField, s.SortDirection = "", None
	default:
		s.SortDirection = Asc
	}
	return s
}

func (a SetFilters) reduce(s State) State {
	s.Filters = sanitizeFilters(a.Filters)
	return s
}

func (ClearFilters) reduce(s State) State {
	s.Filters = Filters{}
	return s
}

// Indicator returns the direction shown on column field.
func (s State) Indicator(field string) Direction {
	if s.SortField != field {
		return None
	}
	return s.SortDirection
}

/* ------------------------------ applying ------------------------------ */

// Apply filters rows and then sorts them. rows is not modified.
func Apply(rows []models.Exhibition, s State, now time.Time) []models.Exhibition {
	return Sort(Filter(rows, s.Filters, now), s.SortField, s.SortDirection)
}

// Filter returns the rows matching f in their original order.
func Filter(rows []models.Exhibition, f Filters, now time.Time) []models.Exhibition {
	title := identity.NormalizeTitle(f.Title)
	venue := identity.NormalizeTitle(f.Venue)

	out := make([]models.Exhibition, 0, len(rows))
	for _, e := range rows {
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		switch f.Visibility {
		case VisibleOnly:
			if !e.IsPubliclyVisible(now) {
				continue
			}
		case HiddenOnly:
			if e.IsPubliclyVisible(now) {
				continue
			}
		}
		if len(f.EventStatuses) > 0 && !slices.Contains(f.EventStatuses, civildate.EventStatus(e.StartDate, e.EndDate, now)) {
			continue
		}
		if len(f.MuseumIDs) > 0 && !slices.Contains(f.MuseumIDs, e.MuseumID) {
			continue
		}
		if title != "" && !strings.Contains(identity.NormalizeTitle(e.Title), title) {
			continue
		}
		if venue != "" && !strings.Contains(identity.NormalizeTitle(e.Venue), venue) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Sort returns a stably sorted copy of rows. Text columns use Japanese
// collation; date columns compare their YYYY-MM-DD form. Direction None
// returns the rows in their original order.
func Sort(rows []models.Exhibition, field string, dir Direction) []models.Exhibition {
	out := slices.Clone(rows)
	if dir == None || field == "" {
		return out
	}
	key := sortKey(field)
	if key == nil {
		return out
	}

	// A Collator is not safe for concurrent use; one per call.
	col := collate.New(language.Japanese)
	sort.SliceStable(out, func(i, j int) bool {
		c := col.CompareString(key(out[i]), key(out[j]))
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func sortKey(field string) func(models.Exhibition) string {
	switch field {
	case FieldTitle:
		return func(e models.Exhibition) string { return e.Title }
	case FieldVenue:
		return func(e models.Exhibition) string { return e.Venue }
	case FieldStatus:
		return func(e models.Exhibition) string { return e.Status }
	case FieldOrigin:
		return func(e models.Exhibition) string { return e.Origin }
	case FieldStartDate:
		return func(e models.Exhibition) string { return civildate.Format(e.StartDate) }
	case FieldEndDate:
		return func(e models.Exhibition) string { return civildate.Format(e.EndDate) }
	case FieldCreatedAt:
		return func(e models.Exhibition) string { return civildate.Format(&e.CreatedAt) }
	case FieldUpdatedAt:
		return func(e models.Exhibition) string { return civildate.Format(&e.UpdatedAt) }
	}
	return nil
}

/* --------------------------- query encoding --------------------------- */

// Query parameter names.
const (
	ParamSort    = "sort"
	ParamDir     = "dir"
	ParamStatus  = "status"
	ParamVisible = "visible"
	ParamEvent   = "event"
	ParamMuseum  = "museum"
	ParamTitle   = "title"
	ParamVenue   = "venue"
)

// FromQuery decodes a state from query parameters. Unknown or malformed
// values are dropped.
func FromQuery(q url.Values) State {
	s := State{
		Filters: sanitizeFilters(Filters{
			Status:        q.Get(ParamStatus),
			Visibility:    q.Get(ParamVisible),
			EventStatuses: q[ParamEvent],
			MuseumIDs:     q[ParamMuseum],
			Title:         q.Get(ParamTitle),
			Venue:         q.Get(ParamVenue),
		}),
	}
	field := q.Get(ParamSort)
	dir := Direction(q.Get(ParamDir))
	if slices.Contains(Fields, field) && (dir == Asc || dir == Desc) {
		s.SortField, s.SortDirection = field, dir
	}
	return s
}

// Values encodes s as query parameters. The zero state encodes to no values.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.SortDirection != None && s.SortField != "" {
		v.Set(ParamSort, s.SortField)
		v.Set(ParamDir, string(s.SortDirection))
	}
	f := s.Filters
	if f.Status != "" {
		v.Set(ParamStatus, f.Status)
	}
	if f.Visibility != "" {
		v.Set(ParamVisible, f.Visibility)
	}
	for _, e := range f.EventStatuses {
		v.Add(ParamEvent, e)
	}
	for _, m := range f.MuseumIDs {
		v.Add(ParamMuseum, m)
	}
	if f.Title != "" {
		v.Set(ParamTitle, f.Title)
	}
	if f.Venue != "" {
		v.Set(ParamVenue, f.Venue)
	}
	return v
}

// ToggleQuery returns the encoded query of the state after clicking field.
func (s State) ToggleQuery(field string) string {
	return Reduce(s, ToggleSort{Field: field}).Values().Encode()
}

func sanitizeFilters(f Filters) Filters {
	out := Filters{
		Title: strings.TrimSpace(f.Title),
		Venue: strings.TrimSpace(f.Venue),
	}
	if slices.Contains(models.ExhibitionStatuses, f.Status) {
		out.Status = f.Status
	}
	if f.Visibility == VisibleOnly || f.Visibility == HiddenOnly {
		out.Visibility = f.Visibility
	}
	for _, e := range f.EventStatuses {
		if slices.Contains(civildate.EventStatuses, e) && !slices.Contains(out.EventStatuses, e) {
			out.EventStatuses = append(out.EventStatuses, e)
		}
	}
	for _, m := range f.MuseumIDs {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(out.MuseumIDs, m) {
			out.MuseumIDs = append(out.MuseumIDs, m)
		}
	}
	return out
}
