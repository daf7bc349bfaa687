package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	metricsstore "github.com/dalemusser/exhibithub/internal/app/store/metrics"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCreate(t *testing.T) {
	m := New(nil)
	m.ObserveCreate(ResultCreated)
	m.ObserveCreate(ResultAlreadyExists)
	m.ObserveCreate(ResultAlreadyExists)

	if got := promtest.ToFloat64(m.createTotal.WithLabelValues(ResultCreated)); got != 1 {
		t.Errorf("created = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.createTotal.WithLabelValues(ResultAlreadyExists)); got != 2 {
		t.Errorf("already_exists = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.createTotal.WithLabelValues(ResultMuseumNotFound)); got != 0 {
		t.Errorf("museum_not_found = %v, want 0", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveCreate(ResultCreated)
	m.ObserveListing(ListingDefault, time.Second)
}

func TestHandler_ExposesCatalog(t *testing.T) {
	m := New(func(context.Context) metricsstore.Counts {
		return metricsstore.Counts{Museums: 3, Active: 5, Pending: 2, Excluded: 1}
	})
	m.ObserveListing(ListingDefault, 20*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body := w.Body.String()

	for _, want := range []string{
		`exhibithub_exhibition_create_total{result="created"} 0`,
		"exhibithub_museums 3",
		`exhibithub_exhibitions{state="active"} 5`,
		`exhibithub_listing_query_duration_seconds_count{listing="default"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
