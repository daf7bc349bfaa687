// internal/app/system/paging/paging.go
package paging

import (
	"context"
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the number of exhibitions shown on one numbered page.
const PageSize = 100

// KeysetPageSize is the number of rows shown in cursor-paged lists
// (museums).
const KeysetPageSize = 50

// MaxVisiblePages is how many page numbers the pager shows around the
// current page.
const MaxVisiblePages = 5

/* ------------------------- numbered page windows ------------------------- */

// Query is an ordered, filtered result set that can be counted and sliced.
type Query[T any] interface {
	Count(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, skip, limit int64) ([]T, error)
}

// Window is one numbered page of a Query.
type Window[T any] struct {
	Items      []T
	TotalCount int64
	Page       int
	PageSize   int
}

// Paginate returns the items at positions (page-1)*pageSize+1 through
// page*pageSize of q, plus the size of the whole set. Pages are 1-indexed;
// page < 1 is treated as 1 and pageSize < 1 as PageSize.
func Paginate[T any](ctx context.Context, q Query[T], pageSize, page int) (Window[T], error) {
	if pageSize < 1 {
		pageSize = PageSize
	}
	if page < 1 {
		page = 1
	}

	total, err := q.Count(ctx)
	if err != nil {
		return Window[T]{}, err
	}

	items, err := q.Fetch(ctx, int64(page-1)*int64(pageSize), int64(pageSize))
	if err != nil {
		return Window[T]{}, err
	}

	return Window[T]{Items: items, TotalCount: total, Page: page, PageSize: pageSize}, nil
}

// TotalPages is the number of pages needed for the whole set, at least 1.
func (w Window[T]) TotalPages() int {
	return TotalPages(w.TotalCount, w.PageSize)
}

// TotalPages returns ceil(total/pageSize), at least 1.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Link is one entry of the pager. Ellipsis entries carry no page.
type Link struct {
	Page     int
	Current  bool
	Ellipsis bool
}

// Pager describes the pager under a numbered list.
type Pager struct {
	Show     bool
	Prev     int
	Next     int
	HasPrev  bool
	HasNext  bool
	Links    []Link
	Current  int
	Total    int
	RangeLo  int64
	RangeHi  int64
	AllCount int64
}

// BuildPager lays out up to MaxVisiblePages numbers centred on current,
// plus first/last links and ellipses where pages are skipped. The pager is
// hidden when everything fits on one page.
func BuildPager(current int, total int64, pageSize int) Pager {
	pages := TotalPages(total, pageSize)
	if current < 1 {
		current = 1
	}

	p := Pager{
		Show:     pages > 1,
		Current:  current,
		Total:    pages,
		AllCount: total,
		Prev:     max(current-1, 1),
		Next:     min(current+1, pages),
		HasPrev:  current > 1,
		HasNext:  current < pages,
	}
	if total > 0 {
		p.RangeLo = int64(current-1)*int64(pageSize) + 1
		p.RangeHi = min(int64(current)*int64(pageSize), total)
		if p.RangeLo > total {
			p.RangeLo, p.RangeHi = 0, 0
		}
	}
	if !p.Show {
		return p
	}

	half := MaxVisiblePages / 2
	start := max(1, current-half)
	end := min(pages, start+MaxVisiblePages-1)
	if end-start+1 < MaxVisiblePages {
		start = max(1, end-MaxVisiblePages+1)
	}

	if start > 1 {
		p.Links = append(p.Links, Link{Page: 1, Current: current == 1})
		if start > 2 {
			p.Links = append(p.Links, Link{Ellipsis: true})
		}
	}
	for n := start; n <= end; n++ {
		p.Links = append(p.Links, Link{Page: n, Current: n == current})
	}
	if end < pages {
		if end < pages-1 {
			p.Links = append(p.Links, Link{Ellipsis: true})
		}
		p.Links = append(p.Links, Link{Page: pages, Current: current == pages})
	}
	return p
}

/* --------------------------- keyset pagination --------------------------- */

// LimitPlusOne returns KeysetPageSize+1 as int64 for look-ahead pagination
// (fetch one extra document to detect hasNext).
func LimitPlusOne() int64 { return int64(KeysetPageSize + 1) }

// ParseStart extracts the human-friendly "start" query parameter (1-based index).
// Returns 1 if not present or invalid.
func ParseStart(r *http.Request) int {
	s := query.Get(r, "start")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Result holds the output of TrimPage for keyset pagination.
type Result struct {
	HasPrev bool
	HasNext bool
}

// TrimPage trims a fetched slice for keyset pagination.
// Call this after fetching KeysetPageSize+1 rows.
//
// When going backwards (before != ""), an extra row means an older page
// exists and the first element is dropped; HasNext is always true.
// Otherwise an extra row means a next page exists and the tail is dropped;
// HasPrev is true only if after != "".
func TrimPage[T any](rows *[]T, before, after string) Result {
	orig := len(*rows)
	var hasPrev, hasNext bool

	if before != "" {
		if orig > KeysetPageSize {
			*rows = (*rows)[1:]
			hasPrev = true
		}
		hasNext = true
	} else {
		if orig > KeysetPageSize {
			*rows = (*rows)[:KeysetPageSize]
			hasNext = true
		}
		hasPrev = after != ""
	}

	return Result{HasPrev: hasPrev, HasNext: hasNext}
}

// Range holds computed display range values for a keyset-paged list.
type Range struct {
	Start     int // 1-based start index (0 if no results)
	End       int // 1-based end index (0 if no results)
	PrevStart int // start value for previous page link
	NextStart int // start value for next page link
}

// ComputeRange calculates display range values given the current start index
// and number of items shown.
func ComputeRange(start, shown int) Range {
	if shown == 0 {
		return Range{Start: 0, End: 0, PrevStart: 1, NextStart: 1}
	}

	prevStart := start - KeysetPageSize
	if prevStart < 1 {
		prevStart = 1
	}

	return Range{
		Start:     start,
		End:       start + shown - 1,
		PrevStart: prevStart,
		NextStart: start + shown,
	}
}

// Direction indicates the pagination direction.
type Direction int

const (
	Forward  Direction = iota // sort ascending, "gt" cursor
	Backward                  // sort descending, "lt" cursor
)

// KeysetConfig holds the result of configuring keyset pagination.
type KeysetConfig struct {
	Direction Direction
	SortOrder int // 1 for ascending, -1 for descending
	Cursor    *wafflemongo.Cursor
}

// ConfigureKeyset determines pagination direction and decodes the cursor.
func ConfigureKeyset(before, after string) KeysetConfig {
	cfg := KeysetConfig{
		Direction: Forward,
		SortOrder: 1,
	}

	if before != "" {
		cfg.Direction = Backward
		cfg.SortOrder = -1
		if c, ok := wafflemongo.DecodeCursor(before); ok {
			cfg.Cursor = &c
		}
	} else if after != "" {
		if c, ok := wafflemongo.DecodeCursor(after); ok {
			cfg.Cursor = &c
		}
	}

	return cfg
}

// ApplyToFind configures FindOptions with sort and limit for keyset pagination.
func (cfg KeysetConfig) ApplyToFind(find *options.FindOptions, sortField string) {
	find.SetSort(bson.D{
		{Key: sortField, Value: cfg.SortOrder},
		{Key: "_id", Value: cfg.SortOrder},
	}).SetLimit(LimitPlusOne())
}

// KeysetWindow returns the cursor condition for the query filter, or nil
// when no cursor is set.
func (cfg KeysetConfig) KeysetWindow(sortField string) bson.M {
	if cfg.Cursor == nil {
		return nil
	}
	dir := "gt"
	if cfg.Direction == Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, cfg.Cursor.CI, cfg.Cursor.ID)
}

// Reverse reverses a slice in place. Use this after fetching results
// when paging backwards to restore the correct display order.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// BuildCursors creates prev/next cursor strings from the first and last elements.
func BuildCursors[T any](rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) (prev, next string) {
	if len(rows) == 0 {
		return "", ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	prev = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	next = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return prev, next
}
