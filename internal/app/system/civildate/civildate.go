// Package civildate converts between calendar dates entered in forms and the
// instants persisted for them.
//
// A date is stored as 00:00 of that day in one fixed civil time zone
// (Asia/Tokyo unless configured), independent of where the server runs.
package civildate

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // hosts and containers without a zoneinfo database
)

// Layout is the form and query representation of a date.
const Layout = "2006-01-02"

// DefaultZone is the civil time zone used when none is configured.
const DefaultZone = "Asia/Tokyo"

var (
	mu  sync.RWMutex
	loc = mustLoad(DefaultZone)
)

func mustLoad(name string) *time.Location {
	l, err := time.LoadLocation(name)
	if err != nil {
		// Tokyo has had no DST since 1951
		return time.FixedZone("JST", 9*60*60)
	}
	return l
}

// Configure sets the civil time zone by IANA name.
func Configure(zone string) error {
	if strings.TrimSpace(zone) == "" {
		zone = DefaultZone
	}
	l, err := time.LoadLocation(zone)
	if err != nil {
		return fmt.Errorf("civil time zone %q: %w", zone, err)
	}
	mu.Lock()
	loc = l
	mu.Unlock()
	return nil
}

// Location returns the configured civil time zone.
func Location() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return loc
}

// Parse reads a YYYY-MM-DD date as midnight in the civil time zone.
// An empty string yields nil with no error.
func Parse(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(Layout, s, Location())
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Valid reports whether s is empty or a well formed YYYY-MM-DD date.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format renders t as YYYY-MM-DD in the civil time zone; nil renders "".
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(Location()).Format(Layout)
}

// Event status values derived from the exhibition dates.
const (
	EventOngoing  = "ongoing"
	EventUpcoming = "upcoming"
	EventEnded    = "ended"
)

// EventStatuses lists the derived statuses in display order.
var EventStatuses = []string{EventOngoing, EventUpcoming, EventEnded}

// EventStatus classifies a date range relative to now. Both bounds are
// inclusive. An incomplete range has no status.
func EventStatus(start, end *time.Time, now time.Time) string {
	if start == nil || end == nil {
		return ""
	}
	switch {
	case now.Before(*start):
		return EventUpcoming
	case now.After(*end):
		return EventEnded
	default:
		return EventOngoing
	}
}
