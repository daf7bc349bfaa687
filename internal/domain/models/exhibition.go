// internal/domain/models/exhibition.go
package models

import "time"

// Exhibition status values. Status is toggled by an admin; it is not derived
// from the exhibition dates.
const (
	ExhibitionStatusPending = "pending"
	ExhibitionStatusActive  = "active"
)

// Exhibition origins record how a document was first written.
const (
	OriginManual = "manual"
	OriginScrape = "scrape"
)

// ExhibitionStatuses lists every accepted status value in display order.
var ExhibitionStatuses = []string{ExhibitionStatusPending, ExhibitionStatusActive}

// Exhibition is keyed by a natural id derived from the museum and the
// normalized title, so at most one document exists per pair.
type Exhibition struct {
	ID          string     `bson:"_id"`
	Title       string     `bson:"title"`
	TitleCI     string     `bson:"title_ci"`
	MuseumID    string     `bson:"museum_id"`
	Venue       string     `bson:"venue"`
	StartDate   *time.Time `bson:"start_date,omitempty"`
	EndDate     *time.Time `bson:"end_date,omitempty"`
	OfficialURL string     `bson:"official_url,omitempty"`
	ImageURL    string     `bson:"image_url,omitempty"`
	Status      string     `bson:"status"`
	Origin      string     `bson:"origin"`
	IsExcluded  bool       `bson:"is_excluded"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

// IsPubliclyVisible reports whether the exhibition is shown to the public
// site at instant now: it must be active and not yet ended.
func (e Exhibition) IsPubliclyVisible(now time.Time) bool {
	return e.Status == ExhibitionStatusActive && e.EndDate != nil && e.EndDate.After(now)
}
