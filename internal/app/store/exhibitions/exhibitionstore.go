// internal/app/store/exhibitions/exhibitionstore.go
package exhibitionstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/identity"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/app/system/txn"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrNotFound       = errors.New("exhibition not found")
	ErrAlreadyExists  = errors.New("this exhibition is already registered")
	ErrMuseumNotFound = errors.New("museum not found")
	ErrTitleRequired  = errors.New("title is required")
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
	return &Store{db: db, c: db.Collection("exhibitions"), log: log}
}

// UsableTitle reports whether title survives both the identity
// normalization and the case-insensitive fold stored in title_ci. A title
// made only of combining marks folds to "".
func UsableTitle(title string) bool {
	return identity.NormalizeTitle(title) != "" && text.Fold(title) != ""
}

// Attributes are the caller-supplied fields of a new exhibition. Identity,
// venue, exclusion and timestamps are assigned by CreateIfAbsent.
type Attributes struct {
	StartDate   *time.Time
	EndDate     *time.Time
	OfficialURL string
	ImageURL    string
	Status      string // defaults to pending
	Origin      string // defaults to manual
}

// CreateIfAbsent inserts the exhibition identified by (museumID, title)
// unless it already exists. In one transaction it reads the museum, reads
// the derived id, bumps the museum's exhibition_seq and inserts; nothing is
// written when either check fails.
//
// Returns ErrMuseumNotFound, ErrAlreadyExists, or the store error that
// aborted the transaction. There is no retry beyond the driver's own
// transient-transaction handling.
func (s *Store) CreateIfAbsent(ctx context.Context, museumID, title string, attrs Attributes) (models.Exhibition, error) {
	title = strings.TrimSpace(title)
	if !UsableTitle(title) {
		return models.Exhibition{}, ErrTitleRequired
	}
	museumOID, err := primitive.ObjectIDFromHex(strings.TrimSpace(museumID))
	if err != nil {
		return models.Exhibition{}, ErrMuseumNotFound
	}
	id := identity.ExhibitionID(museumOID.Hex(), title)

	var created models.Exhibition
	err = txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		var museum models.Museum
		err := s.db.Collection("museums").FindOne(ctx, bson.M{"_id": museumOID},
			options.FindOne().SetProjection(bson.M{"name": 1})).Decode(&museum)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrMuseumNotFound
		}
		if err != nil {
			return fmt.Errorf("read museum: %w", err)
		}

		err = s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("read exhibition: %w", err)
		}

		// Touch the museum so a concurrent museum delete conflicts with
		// this transaction instead of committing beside it.
		res, err := s.db.Collection("museums").UpdateOne(ctx, bson.M{"_id": museumOID},
			bson.M{"$inc": bson.M{"exhibition_seq": 1}})
		if err != nil {
			return fmt.Errorf("touch museum: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrMuseumNotFound
		}

		now := time.Now().UTC()
		e := models.Exhibition{
			ID:          id,
			Title:       title,
			TitleCI:     text.Fold(title),
			MuseumID:    museumOID.Hex(),
			Venue:       museum.Name,
			StartDate:   attrs.StartDate,
			EndDate:     attrs.EndDate,
			OfficialURL: strings.TrimSpace(attrs.OfficialURL),
			ImageURL:    strings.TrimSpace(attrs.ImageURL),
			Status:      attrs.Status,
			Origin:      attrs.Origin,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if e.Status == "" {
			e.Status = models.ExhibitionStatusPending
		}
		if e.Origin == "" {
			e.Origin = models.OriginManual
		}

		if _, err := s.c.InsertOne(ctx, e); err != nil {
			if wafflemongo.IsDup(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("insert exhibition: %w", err)
		}
		created = e
		return nil
	})
	if err != nil {
		// a concurrent writer can win between the read and the insert
		if wafflemongo.IsDup(err) {
			return models.Exhibition{}, ErrAlreadyExists
		}
		return models.Exhibition{}, err
	}
	return created, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Exhibition, error) {
	var e models.Exhibition
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Exhibition{}, ErrNotFound
	}
	if err != nil {
		return models.Exhibition{}, err
	}
	return e, nil
}

// Update is the editable subset of an exhibition. Museum and venue are fixed
// at creation; the id keeps the value derived from the original title.
type Update struct {
	Title       string
	StartDate   *time.Time
	EndDate     *time.Time
	OfficialURL string
	ImageURL    string
	Status      string
}

// Update replaces the editable fields of id. Last writer wins.
func (s *Store) Update(ctx context.Context, id string, u Update) error {
	title := strings.TrimSpace(u.Title)
	if !UsableTitle(title) {
		return ErrTitleRequired
	}
	set := bson.M{
		"title":        title,
		"title_ci":     text.Fold(title),
		"official_url": strings.TrimSpace(u.OfficialURL),
		"image_url":    strings.TrimSpace(u.ImageURL),
		"updated_at":   time.Now().UTC(),
	}
	unset := bson.M{}
	if u.StartDate != nil {
		set["start_date"] = *u.StartDate
	} else {
		unset["start_date"] = ""
	}
	if u.EndDate != nil {
		set["end_date"] = *u.EndDate
	} else {
		unset["end_date"] = ""
	}
	if u.Status != "" {
		set["status"] = u.Status
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return s.updateOne(ctx, id, update)
}

func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
}

func (s *Store) UpdateOfficialURL(ctx context.Context, id, officialURL string) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"official_url": strings.TrimSpace(officialURL),
		"updated_at":   time.Now().UTC(),
	}})
}

// SetExcluded hides (true) or restores (false) an exhibition in the default listing.
func (s *Store) SetExcluded(ctx context.Context, id string, excluded bool) error {
	return s.updateOne(ctx, id, bson.M{"$set": bson.M{
		"is_excluded": excluded,
		"updated_at":  time.Now().UTC(),
	}})
}

func (s *Store) updateOne(ctx context.Context, id string, update bson.M) error {
	res, err := s.c.UpdateByID(ctx, id, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an exhibition by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByMuseum returns how many exhibitions reference museumID (hex).
func (s *Store) CountByMuseum(ctx context.Context, museumID string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"museum_id": museumID})
}

// ListFilter scopes a listing.
type ListFilter struct {
	Excluded bool
}

func (f ListFilter) query() bson.M {
	if f.Excluded {
		return bson.M{"is_excluded": true}
	}
	// documents written before the flag existed have no is_excluded field
	return bson.M{"is_excluded": bson.M{"$ne": true}}
}

// CacheKey identifies the filter in the listing count cache.
func (f ListFilter) CacheKey() string {
	return fmt.Sprintf("exhibitions:excluded=%t", f.Excluded)
}

// List returns the listing for f ordered newest first.
func (s *Store) List(f ListFilter) paging.Query[models.Exhibition] {
	return listQuery{c: s.c, filter: f.query()}
}

type listQuery struct {
	c      *mongo.Collection
	filter bson.M
}

func (q listQuery) Count(ctx context.Context) (int64, error) {
	return q.c.CountDocuments(ctx, q.filter)
}

func (q listQuery) Fetch(ctx context.Context, skip, limit int64) ([]models.Exhibition, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := q.c.Find(ctx, q.filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Exhibition
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
