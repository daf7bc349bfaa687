package metricsstore

import (
	"context"

	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of catalog totals exported as gauges.
type Counts struct {
	Museums     int64
	Exhibitions int64
	Active      int64
	Pending     int64
	Excluded    int64
}

// FetchCatalogCounts returns the catalog totals.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchCatalogCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("museums", bson.M{}, &out.Museums)
	count("exhibitions", bson.M{}, &out.Exhibitions)
	count("exhibitions", bson.M{"status": models.ExhibitionStatusActive, "is_excluded": bson.M{"$ne": true}}, &out.Active)
	count("exhibitions", bson.M{"status": models.ExhibitionStatusPending, "is_excluded": bson.M{"$ne": true}}, &out.Pending)
	count("exhibitions", bson.M{"is_excluded": true}, &out.Excluded)

	return out
}
