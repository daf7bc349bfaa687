// internal/app/store/museums/museumstore.go
package museumstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/txn"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrNotFound    = errors.New("museum not found")
	ErrMuseumInUse = errors.New("museum still has exhibitions; delete or move them first")
)

type Store struct {
	db  *mongo.Database
	c   *mongo.Collection
	log *zap.Logger
}

func New(db *mongo.Database, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: db, c: db.Collection("museums"), log: log}
}

func trimMuseum(m *models.Museum) {
	m.Name = strings.TrimSpace(m.Name)
	m.Address = strings.TrimSpace(m.Address)
	m.Access = strings.TrimSpace(m.Access)
	m.OfficialURL = strings.TrimSpace(m.OfficialURL)
	m.ScrapeURL = strings.TrimSpace(m.ScrapeURL)
	m.NameCI = text.Fold(m.Name)
}

func (s *Store) Create(ctx context.Context, m models.Museum) (models.Museum, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	trimMuseum(&m)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Museum{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Museum, error) {
	var m models.Museum
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Museum{}, ErrNotFound
	}
	if err != nil {
		return models.Museum{}, err
	}
	return m, nil
}

// ListAll returns every museum ordered by name, for select boxes.
func (s *Store) ListAll(ctx context.Context) ([]models.Museum, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"name": 1, "name_ci": 1})
	return s.Find(ctx, bson.M{}, opts)
}

// Find returns museums matching the given filter with optional find options.
// The caller is responsible for building the filter and options (pagination, sorting, projection).
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Museum, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Museum
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of museums matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Update replaces the mutable fields of a museum. Exhibitions keep the venue
// name they were created with.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, m models.Museum) error {
	trimMuseum(&m)
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":                m.Name,
		"name_ci":             m.NameCI,
		"address":             m.Address,
		"access":              m.Access,
		"opening_information": m.OpeningInformation,
		"venue_type":          m.VenueType,
		"area":                m.Area,
		"region":              m.Region,
		"official_url":        m.OfficialURL,
		"scrape_url":          m.ScrapeURL,
		"scrape_enabled":      m.ScrapeEnabled,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a museum that no exhibition references. Returns
// ErrMuseumInUse when exhibitions still point at it, and the number of
// documents deleted (0 or 1) otherwise.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var deleted int64
	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		n, err := s.db.Collection("exhibitions").CountDocuments(ctx, bson.M{"museum_id": id.Hex()})
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrMuseumInUse
		}
		res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return err
		}
		deleted = res.DeletedCount
		return nil
	})
	return deleted, err
}
