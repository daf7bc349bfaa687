package tablestate

import (
	"net/url"
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/exhibithub/internal/domain/models"
)

func ids(rows []models.Exhibition) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func sampleRows() []models.Exhibition {
	return []models.Exhibition{
		{ID: "1", Title: "モネ展", Venue: "上野の森美術館", MuseumID: "m1", Status: models.ExhibitionStatusActive, StartDate: date("2025-03-01"), EndDate: date("2025-06-30")},
		{ID: "2", Title: "Abstract Now", Venue: "森美術館", MuseumID: "m2", Status: models.ExhibitionStatusPending, StartDate: date("2025-05-01"), EndDate: date("2025-08-31")},
		{ID: "3", Title: "浮世絵の世界", Venue: "東京国立博物館", MuseumID: "m1", Status: models.ExhibitionStatusActive, StartDate: date("2024-10-01"), EndDate: date("2025-01-15")},
		{ID: "4", Title: "abstract then", Venue: "国立新美術館", MuseumID: "m3", Status: models.ExhibitionStatusActive, StartDate: date("2025-07-01"), EndDate: date("2025-09-30")},
		{ID: "5", Title: "Zen Gardens", Venue: "森美術館", MuseumID: "m2", Status: models.ExhibitionStatusPending},
	}
}

var now = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func TestReduce_ToggleSortCycle(t *testing.T) {
	s := State{}

	s = Reduce(s, ToggleSort{Field: FieldTitle})
	if s.SortField != FieldTitle || s.SortDirection != Asc {
		t.Fatalf("first click: got %q/%q, want title/asc", s.SortField, s.SortDirection)
	}
	s = Reduce(s, ToggleSort{Field: FieldTitle})
	if s.SortField != FieldTitle || s.SortDirection != Desc {
		t.Fatalf("second click: got %q/%q, want title/desc", s.SortField, s.SortDirection)
	}
	s = Reduce(s, ToggleSort{Field: FieldTitle})
	if s.SortField != "" || s.SortDirection != None {
		t.Fatalf("third click: got %q/%q, want none", s.SortField, s.SortDirection)
	}
}

func TestReduce_OtherFieldResetsToAsc(t *testing.T) {
	s := State{SortField: FieldTitle, SortDirection: Desc}
	s = Reduce(s, ToggleSort{Field: FieldEndDate})
	if s.SortField != FieldEndDate || s.SortDirection != Asc {
		t.Errorf("got %q/%q, want end_date/asc", s.SortField, s.SortDirection)
	}
}

func TestReduce_UnknownFieldIgnored(t *testing.T) {
	s := State{SortField: FieldTitle, SortDirection: Asc}
	got := Reduce(s, ToggleSort{Field: "password"})
	if !reflect.DeepEqual(got, s) {
		t.Errorf("unknown field changed state: %+v", got)
	}
}

func TestReduce_IsPure(t *testing.T) {
	s := State{Filters: Filters{MuseumIDs: []string{"m1"}}}
	a := SetFilters{Filters: Filters{Status: "active", MuseumIDs: []string{"m2"}}}

	first := Reduce(s, a)
	second := Reduce(s, a)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input gave different output: %+v vs %+v", first, second)
	}
	if s.Filters.MuseumIDs[0] != "m1" {
		t.Error("Reduce modified its input")
	}
}

func TestSort_ThreeClicksRestoreOrder(t *testing.T) {
	rows := sampleRows()
	s := State{}
	for i := 0; i < 3; i++ {
		s = Reduce(s, ToggleSort{Field: FieldTitle})
	}
	got := Apply(rows, s, now)
	if !reflect.DeepEqual(ids(got), ids(rows)) {
		t.Errorf("order after three clicks = %v, want %v", ids(got), ids(rows))
	}
}

func TestSort_Title(t *testing.T) {
	rows := sampleRows()

	asc := ids(Sort(rows, FieldTitle, Asc))
	// Latin before kana before kanji under Japanese collation; case folded
	want := []string{"2", "4", "5", "1", "3"}
	if !reflect.DeepEqual(asc, want) {
		t.Errorf("asc = %v, want %v", asc, want)
	}

	desc := ids(Sort(rows, FieldTitle, Desc))
	wantDesc := []string{"3", "1", "5", "4", "2"}
	if !reflect.DeepEqual(desc, wantDesc) {
		t.Errorf("desc = %v, want %v", desc, wantDesc)
	}
}

func TestSort_IsStable(t *testing.T) {
	rows := sampleRows()
	got := ids(Sort(rows, FieldVenue, Asc))
	// rows 2 and 5 share a venue and must keep their relative order
	pos := map[string]int{}
	for i, id := range got {
		pos[id] = i
	}
	if pos["2"] > pos["5"] {
		t.Errorf("equal keys reordered: %v", got)
	}
}

func TestSort_EndDate(t *testing.T) {
	got := ids(Sort(sampleRows(), FieldEndDate, Asc))
	// missing date sorts first as the empty string
	want := []string{"5", "3", "1", "2", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("end_date asc = %v, want %v", got, want)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"none", Filters{}, []string{"1", "2", "3", "4", "5"}},
		{"status active", Filters{Status: "active"}, []string{"1", "3", "4"}},
		{"status pending", Filters{Status: "pending"}, []string{"2", "5"}},
		{"visible", Filters{Visibility: VisibleOnly}, []string{"1", "4"}},
		{"hidden", Filters{Visibility: HiddenOnly}, []string{"2", "3", "5"}},
		{"ongoing", Filters{EventStatuses: []string{"ongoing"}}, []string{"1"}},
		{"upcoming or ended", Filters{EventStatuses: []string{"upcoming", "ended"}}, []string{"2", "3", "4"}},
		{"museum", Filters{MuseumIDs: []string{"m2"}}, []string{"2", "5"}},
		{"title substring", Filters{Title: "ABSTRACT"}, []string{"2", "4"}},
		{"title full width", Filters{Title: "ａｂｓｔｒａｃｔ"}, []string{"2", "4"}},
		{"venue substring", Filters{Venue: "森"}, []string{"1", "2", "5"}},
		{"combined", Filters{Status: "active", MuseumIDs: []string{"m1"}, Visibility: VisibleOnly}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleRows(), tt.filters, now))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_CommutesWithSort(t *testing.T) {
	filters := []Filters{
		{},
		{Status: "active"},
		{Visibility: VisibleOnly},
		{MuseumIDs: []string{"m1", "m2"}},
		{Title: "abstract", Status: "pending"},
	}
	for _, f := range filters {
		for _, field := range Fields {
			for _, dir := range []Direction{Asc, Desc, None} {
				a := ids(Filter(Sort(sampleRows(), field, dir), f, now))
				b := ids(Sort(Filter(sampleRows(), f, now), field, dir))
				if !reflect.DeepEqual(a, b) {
					t.Errorf("filter %+v, sort %s/%s: filter-after-sort %v != sort-after-filter %v", f, field, dir, a, b)
				}
			}
		}
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	s := State{
		SortField:     FieldStartDate,
		SortDirection: Desc,
		Filters: Filters{
			Status:        "active",
			Visibility:    VisibleOnly,
			EventStatuses: []string{"ongoing", "upcoming"},
			MuseumIDs:     []string{"m1"},
			Title:         "モネ",
		},
	}
	got := FromQuery(s.Values())
	if !reflect.DeepEqual(got, s) {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
}

func TestFromQuery_DropsInvalid(t *testing.T) {
	q := url.Values{
		ParamSort:    {"password"},
		ParamDir:     {"asc"},
		ParamStatus:  {"deleted"},
		ParamVisible: {"maybe"},
		ParamEvent:   {"ongoing", "someday", "ongoing"},
	}
	got := FromQuery(q)
	want := State{Filters: Filters{EventStatuses: []string{"ongoing"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromQuery = %+v, want %+v", got, want)
	}
}

func TestToggleQuery(t *testing.T) {
	s := State{SortField: FieldTitle, SortDirection: Asc, Filters: Filters{Status: "active"}}
	got, _ := url.ParseQuery(s.ToggleQuery(FieldTitle))
	if got.Get(ParamDir) != "desc" || got.Get(ParamStatus) != "active" {
		t.Errorf("ToggleQuery = %v", got)
	}
}
