package exhibitions

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/exhibithub/internal/app/features/errors"
	exhibitionstore "github.com/dalemusser/exhibithub/internal/app/store/exhibitions"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/dalemusser/exhibithub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/* ------------------------------- fakes ------------------------------- */

type fakeStore struct {
	items map[string]models.Exhibition
	order []models.Exhibition

	createErr   error
	updateCalls int
	lastUpdate  exhibitionstore.Update
	statusCalls []string
	deleted     []string
}

func newFakeStore(items ...models.Exhibition) *fakeStore {
	s := &fakeStore{items: map[string]models.Exhibition{}}
	for _, e := range items {
		s.items[e.ID] = e
		s.order = append(s.order, e)
	}
	return s
}

func (s *fakeStore) CreateIfAbsent(_ context.Context, museumID, title string, attrs exhibitionstore.Attributes) (models.Exhibition, error) {
	if s.createErr != nil {
		return models.Exhibition{}, s.createErr
	}
	e := models.Exhibition{ID: museumID + "_x", Title: title, MuseumID: museumID, Status: attrs.Status, Origin: attrs.Origin}
	s.items[e.ID] = e
	return e, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (models.Exhibition, error) {
	e, ok := s.items[id]
	if !ok {
		return models.Exhibition{}, exhibitionstore.ErrNotFound
	}
	return e, nil
}

func (s *fakeStore) Update(_ context.Context, id string, u exhibitionstore.Update) error {
	s.updateCalls++
	s.lastUpdate = u
	if _, ok := s.items[id]; !ok {
		return exhibitionstore.ErrNotFound
	}
	return nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id, status string) error {
	if _, ok := s.items[id]; !ok {
		return exhibitionstore.ErrNotFound
	}
	s.statusCalls = append(s.statusCalls, id+"="+status)
	return nil
}

func (s *fakeStore) UpdateOfficialURL(_ context.Context, id, _ string) error {
	if _, ok := s.items[id]; !ok {
		return exhibitionstore.ErrNotFound
	}
	return nil
}

func (s *fakeStore) SetExcluded(_ context.Context, id string, _ bool) error {
	if _, ok := s.items[id]; !ok {
		return exhibitionstore.ErrNotFound
	}
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := s.items[id]; !ok {
		return 0, nil
	}
	delete(s.items, id)
	s.deleted = append(s.deleted, id)
	return 1, nil
}

func (s *fakeStore) List(exhibitionstore.ListFilter) paging.Query[models.Exhibition] {
	return sliceQuery(s.order)
}

type sliceQuery []models.Exhibition

func (q sliceQuery) Count(context.Context) (int64, error) { return int64(len(q)), nil }

func (q sliceQuery) Fetch(_ context.Context, skip, limit int64) ([]models.Exhibition, error) {
	if skip >= int64(len(q)) {
		return nil, nil
	}
	end := min(skip+limit, int64(len(q)))
	return q[skip:end], nil
}

type fakeMuseums []models.Museum

func (m fakeMuseums) ListAll(context.Context) ([]models.Museum, error) { return m, nil }

type rendered struct {
	name string
	data any
}

type recorder struct{ calls []rendered }

func (c *recorder) render(_ http.ResponseWriter, _ *http.Request, name string, data any) {
	c.calls = append(c.calls, rendered{name, data})
}

func (c *recorder) last(t *testing.T) rendered {
	t.Helper()
	if len(c.calls) == 0 {
		t.Fatal("nothing rendered")
	}
	return c.calls[len(c.calls)-1]
}

var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

func newTestHandler(store *fakeStore, museums ...models.Museum) (*Handler, *recorder) {
	rec := &recorder{}
	return &Handler{
		Log:     zap.NewNop(),
		ErrLog:  uierrors.NewErrorLoggerWithRender(zap.NewNop(), rec.render),
		store:   store,
		museums: fakeMuseums(museums),
		render:  rec.render,
		now:     func() time.Time { return testNow },
	}, rec
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func sample(id, title string) models.Exhibition {
	return models.Exhibition{ID: id, Title: title, Venue: "Museum A", MuseumID: "m1", Status: models.ExhibitionStatusPending}
}

/* -------------------------------- edit -------------------------------- */

func TestHandleEdit_EmptyTitle(t *testing.T) {
	store := newFakeStore(sample("m1_abc", "Event A"))
	h, rec := newTestHandler(store)

	r := postForm("/exhibitions/m1_abc/edit", url.Values{"title": {"   "}})
	r = testutil.WithChiURLParam(r, "id", "m1_abc")
	w := httptest.NewRecorder()
	h.HandleEdit(w, r)

	if store.updateCalls != 0 {
		t.Fatalf("Update called %d times, want 0", store.updateCalls)
	}
	got := rec.last(t)
	if got.name != "exhibition_edit" {
		t.Fatalf("rendered %q, want exhibition_edit", got.name)
	}
	data := got.data.(formData)
	if msg := data.FieldError("title"); msg != "title is required" {
		t.Errorf("title error = %q, want %q", msg, "title is required")
	}
	if data.Venue != "Museum A" {
		t.Errorf("re-rendered form lost the venue: %+v", data)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestHandleEdit_FieldMessages(t *testing.T) {
	tests := []struct {
		name  string
		form  url.Values
		field string
		want  string
	}{
		{"bad start", url.Values{"title": {"A"}, "start_date": {"2025-13-40"}}, "start_date", "start date must be a valid date"},
		{"bad end", url.Values{"title": {"A"}, "end_date": {"tomorrow"}}, "end_date", "end date must be a valid date"},
		{"end before start", url.Values{"title": {"A"}, "start_date": {"2025-05-01"}, "end_date": {"2025-04-01"}}, "end_date", "end date must not be before start date"},
		{"bad url", url.Values{"title": {"A"}, "official_url": {"ftp://x"}}, "official_url", "official URL must be a valid http(s) URL"},
		{"bad status", url.Values{"title": {"A"}, "status": {"archived"}}, "status", "status must be one of the listed values"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore(sample("m1_abc", "Event A"))
			h, rec := newTestHandler(store)

			r := testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/edit", tt.form), "id", "m1_abc")
			h.HandleEdit(httptest.NewRecorder(), r)

			if store.updateCalls != 0 {
				t.Errorf("Update called on invalid input")
			}
			data := rec.last(t).data.(formData)
			if got := data.FieldError(tt.field); got != tt.want {
				t.Errorf("%s error = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestHandleEdit_Success(t *testing.T) {
	store := newFakeStore(sample("m1_abc", "Event A"))
	h, _ := newTestHandler(store)

	form := url.Values{
		"title":      {"Event A (revised)"},
		"start_date": {"2025-04-01"},
		"end_date":   {"2025-05-01"},
		"status":     {"active"},
	}
	r := testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/edit", form), "id", "m1_abc")
	w := httptest.NewRecorder()
	h.HandleEdit(w, r)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/exhibitions" {
		t.Errorf("Location = %q, want /exhibitions", loc)
	}
	if store.updateCalls != 1 {
		t.Fatalf("Update called %d times, want 1", store.updateCalls)
	}
	u := store.lastUpdate
	if u.Title != "Event A (revised)" || u.Status != "active" || u.StartDate == nil || u.EndDate == nil {
		t.Errorf("Update = %+v", u)
	}
}

func TestEdit_UnknownID(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			store := newFakeStore()
			h, rec := newTestHandler(store)

			r := postForm("/exhibitions/nope/edit", url.Values{"title": {"A"}})
			r.Method = method
			r = testutil.WithChiURLParam(r, "id", "nope")
			w := httptest.NewRecorder()
			if method == http.MethodGet {
				h.ServeEdit(w, r)
			} else {
				h.HandleEdit(w, r)
			}

			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
			if got := rec.last(t).name; got != "error_not_found" {
				t.Errorf("rendered %q, want error_not_found", got)
			}
			if store.updateCalls != 0 {
				t.Error("Update called for unknown id")
			}
		})
	}
}

/* ------------------------------- create ------------------------------- */

func TestHandleCreate_GuardErrors(t *testing.T) {
	museumID := primitive.NewObjectID().Hex()
	tests := []struct {
		name  string
		err   error
		field string
		want  string
	}{
		{"already exists", exhibitionstore.ErrAlreadyExists, "title", "this exhibition is already registered"},
		{"museum missing", exhibitionstore.ErrMuseumNotFound, "museum_id", "museum not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.createErr = tt.err
			h, rec := newTestHandler(store)

			w := httptest.NewRecorder()
			h.HandleCreate(w, postForm("/exhibitions", url.Values{"museum_id": {museumID}, "title": {"Event A"}}))

			got := rec.last(t)
			if got.name != "exhibition_new" {
				t.Fatalf("rendered %q, want exhibition_new", got.name)
			}
			data := got.data.(formData)
			if msg := data.FieldError(tt.field); msg != tt.want {
				t.Errorf("%s error = %q, want %q", tt.field, msg, tt.want)
			}
			if data.ExhTitle != "Event A" {
				t.Errorf("title not echoed: %q", data.ExhTitle)
			}
		})
	}
}

func TestHandleCreate_Validation(t *testing.T) {
	store := newFakeStore()
	h, rec := newTestHandler(store)

	h.HandleCreate(httptest.NewRecorder(), postForm("/exhibitions", url.Values{}))

	data := rec.last(t).data.(formData)
	if got := data.FieldError("title"); got != "title is required" {
		t.Errorf("title error = %q", got)
	}
	if got := data.FieldError("museum_id"); got != "museum is required" {
		t.Errorf("museum error = %q", got)
	}
	if len(store.items) != 0 {
		t.Error("nothing should be created")
	}
}

func TestHandleCreate_Success(t *testing.T) {
	museum := models.Museum{ID: primitive.NewObjectID(), Name: "Museum A"}
	store := newFakeStore()
	h, _ := newTestHandler(store, museum)

	form := url.Values{"museum_id": {museum.ID.Hex()}, "title": {"Event A"}, "return": {"/exhibitions?page=2"}}
	w := httptest.NewRecorder()
	h.HandleCreate(w, postForm("/exhibitions", form))

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if len(store.items) != 1 {
		t.Errorf("items = %d, want 1", len(store.items))
	}
}

/* -------------------------------- list -------------------------------- */

func TestServeList_Window(t *testing.T) {
	var items []models.Exhibition
	for i := 1; i <= 250; i++ {
		items = append(items, sample(fmt.Sprintf("m1_%03d", i), fmt.Sprintf("Event %03d", i)))
	}
	h, rec := newTestHandler(newFakeStore(items...))

	h.ServeList(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/exhibitions?page=2", nil))

	data := rec.last(t).data.(listData)
	if data.TotalCount != 250 {
		t.Errorf("TotalCount = %d, want 250", data.TotalCount)
	}
	if len(data.Rows) != 100 || data.Rows[0].ID != "m1_101" || data.Rows[99].ID != "m1_200" {
		t.Errorf("rows = %d, first %q", len(data.Rows), data.Rows[0].ID)
	}
	if data.PrevURL != "/exhibitions" || data.NextURL != "/exhibitions?page=3" {
		t.Errorf("PrevURL = %q, NextURL = %q", data.PrevURL, data.NextURL)
	}
}

func TestServeList_SortAndFilter(t *testing.T) {
	active := sample("m1_b", "Beta")
	active.Status = models.ExhibitionStatusActive
	h, rec := newTestHandler(newFakeStore(sample("m1_c", "Gamma"), active, sample("m1_a", "Alpha")))

	h.ServeList(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/exhibitions?sort=title&dir=asc", nil))
	data := rec.last(t).data.(listData)
	var got []string
	for _, row := range data.Rows {
		got = append(got, row.Title)
	}
	if strings.Join(got, ",") != "Alpha,Beta,Gamma" {
		t.Errorf("sorted titles = %v", got)
	}
	if data.Columns[0].Dir != "asc" || !strings.Contains(data.Columns[0].URL, "dir=desc") {
		t.Errorf("title column = %+v", data.Columns[0])
	}

	h.ServeList(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/exhibitions?status=active", nil))
	data = rec.last(t).data.(listData)
	if len(data.Rows) != 1 || data.Rows[0].ID != "m1_b" {
		t.Errorf("filtered rows = %+v", data.Rows)
	}
	if data.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want the unfiltered page total 3", data.TotalCount)
	}
}

/* ------------------------------- actions ------------------------------ */

func TestHandleStatus(t *testing.T) {
	store := newFakeStore(sample("m1_abc", "Event A"))
	h, _ := newTestHandler(store)

	w := httptest.NewRecorder()
	r := testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/status", url.Values{"status": {"bogus"}}), "id", "m1_abc")
	h.HandleStatus(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status: code = %d, want 400", w.Code)
	}

	w = httptest.NewRecorder()
	r = testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/status", url.Values{"status": {"active"}}), "id", "m1_abc")
	h.HandleStatus(w, r)
	if w.Code != http.StatusSeeOther {
		t.Errorf("code = %d, want 303", w.Code)
	}
	if len(store.statusCalls) != 1 || store.statusCalls[0] != "m1_abc=active" {
		t.Errorf("status calls = %v", store.statusCalls)
	}
}

func TestHandleOfficialURL_Invalid(t *testing.T) {
	store := newFakeStore(sample("m1_abc", "Event A"))
	h, _ := newTestHandler(store)

	w := httptest.NewRecorder()
	r := testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/official_url", url.Values{"official_url": {"not a url"}}), "id", "m1_abc")
	h.HandleOfficialURL(w, r)
	if w.Code != http.StatusSeeOther {
		t.Errorf("code = %d, want 303 back to the list", w.Code)
	}
}

func TestHandleExclude_UnknownID(t *testing.T) {
	h, rec := newTestHandler(newFakeStore())

	w := httptest.NewRecorder()
	h.HandleExclude(w, testutil.WithChiURLParam(postForm("/exhibitions/nope/exclude", nil), "id", "nope"))
	if w.Code != http.StatusNotFound || rec.last(t).name != "error_not_found" {
		t.Errorf("code = %d", w.Code)
	}
}

func TestHandleDelete_Idempotent(t *testing.T) {
	store := newFakeStore(sample("m1_abc", "Event A"))
	h, _ := newTestHandler(store)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.HandleDelete(w, testutil.WithChiURLParam(postForm("/exhibitions/m1_abc/delete", nil), "id", "m1_abc"))
		if w.Code != http.StatusSeeOther {
			t.Errorf("delete #%d: code = %d, want 303", i+1, w.Code)
		}
	}
	if len(store.deleted) != 1 {
		t.Errorf("deleted = %v, want one delete", store.deleted)
	}
}

/* ---------------------------- store-backed ---------------------------- */

func TestRoutes_CreateTwice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	museum := testutil.NewFixtures(t, db).CreateMuseum(ctx, "Museum A")

	h := NewHandler(db, nil, nil, nil, nil, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	rec := &recorder{}
	h.render = rec.render
	router := Routes(h)

	form := url.Values{"museum_id": {museum.ID.Hex()}, "title": {"Ｅｖｅｎｔ　Ａ"}}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/", form))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("first create: code = %d, want 303", w.Code)
	}

	form.Set("title", "event a")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/", form))
	data := rec.last(t).data.(formData)
	if msg := data.FieldError("title"); msg != exhibitionstore.ErrAlreadyExists.Error() {
		t.Errorf("second create: title error = %q", msg)
	}

	n, err := db.Collection("exhibitions").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("documents = %d, want 1", n)
	}
}
