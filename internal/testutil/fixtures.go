package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/identity"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateMuseum inserts a museum with the given name and valid defaults for
// every other required field.
func (f *Fixtures) CreateMuseum(ctx context.Context, name string) models.Museum {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Museum{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Address:     "東京都台東区上野公園7-7",
		Access:      "JR上野駅 公園口から徒歩1分",
		VenueType:   models.VenueTypes[0],
		Area:        models.Areas[0],
		Region:      models.Regions[0],
		OfficialURL: "https://example.com/museum",
		ScrapeURL:   "https://example.com/museum/exhibitions",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("museums").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test museum: %v", err)
	}
	return m
}

// ExhibitionOption adjusts a fixture exhibition before insert.
type ExhibitionOption func(*models.Exhibition)

// WithStatus sets the exhibition status.
func WithStatus(status string) ExhibitionOption {
	return func(e *models.Exhibition) { e.Status = status }
}

// WithDates sets the start and end dates.
func WithDates(start, end time.Time) ExhibitionOption {
	return func(e *models.Exhibition) {
		e.StartDate = &start
		e.EndDate = &end
	}
}

// Excluded marks the exhibition as excluded.
func Excluded() ExhibitionOption {
	return func(e *models.Exhibition) { e.IsExcluded = true }
}

// CreatedAt overrides the creation timestamp, which drives list order.
func CreatedAt(ts time.Time) ExhibitionOption {
	return func(e *models.Exhibition) { e.CreatedAt = ts }
}

// CreateExhibition inserts an exhibition for museum m at its derived id.
func (f *Fixtures) CreateExhibition(ctx context.Context, m models.Museum, title string, opts ...ExhibitionOption) models.Exhibition {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Exhibition{
		ID:        identity.ExhibitionID(m.ID.Hex(), title),
		Title:     title,
		TitleCI:   text.Fold(title),
		MuseumID:  m.ID.Hex(),
		Venue:     m.Name,
		Status:    models.ExhibitionStatusPending,
		Origin:    models.OriginManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&e)
	}

	if _, err := f.db.Collection("exhibitions").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test exhibition: %v", err)
	}
	return e
}
