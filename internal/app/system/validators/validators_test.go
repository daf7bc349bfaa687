package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/validators"
	"github.com/dalemusser/exhibithub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	got := map[string]bool{}
	for _, n := range names {
		got[n] = true
	}
	for _, want := range []string{"museums", "exhibitions", "audit_events"} {
		if !got[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func validExhibition() bson.M {
	now := time.Now()
	return bson.M{
		"_id":         "m1_abc",
		"title":       "Event A",
		"title_ci":    "event a",
		"museum_id":   "m1",
		"venue":       "Museum One",
		"start_date":  now,
		"status":      "pending",
		"origin":      "manual",
		"is_excluded": false,
		"created_at":  now,
	}
}

func TestExhibitionsValidator(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(bson.M)
		wantErr bool
	}{
		{"valid", func(bson.M) {}, false},
		{"missing title", func(d bson.M) { delete(d, "title") }, true},
		{"blank venue", func(d bson.M) { d["venue"] = "   " }, true},
		{"unknown status", func(d bson.M) { d["status"] = "archived" }, true},
		{"unknown origin", func(d bson.M) { d["origin"] = "api" }, true},
		{"date as string", func(d bson.M) { d["start_date"] = "2024-01-01" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			if err := validators.EnsureAll(ctx, db); err != nil {
				t.Fatalf("EnsureAll failed: %v", err)
			}

			doc := validExhibition()
			tt.mutate(doc)
			_, err := db.Collection("exhibitions").InsertOne(ctx, doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("InsertOne err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMuseumsValidator_InvalidArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("museums").InsertOne(ctx, bson.M{
		"name":         "Museum",
		"name_ci":      "museum",
		"address":      "Tokyo",
		"access":       "Station",
		"venue_type":   "美術館",
		"area":         "大阪",
		"region":       "東京",
		"official_url": "https://example.com",
		"scrape_url":   "https://example.com/ex",
	})
	if err == nil {
		t.Error("expected validation error for unknown area")
	}
}
