// Package metrics owns the Prometheus registry served at /metrics.
package metrics

import (
	"context"
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/exhibithub/internal/app/store/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Creation guard outcomes.
const (
	ResultCreated        = "created"
	ResultAlreadyExists  = "already_exists"
	ResultMuseumNotFound = "museum_not_found"
	ResultError          = "error"
)

// Listing names used as the latency label.
const (
	ListingDefault  = "default"
	ListingExcluded = "excluded"
	ListingMuseums  = "museums"
)

const namespace = "exhibithub"

// Metrics holds the application collectors. A nil *Metrics records nothing.
type Metrics struct {
	reg         *prometheus.Registry
	createTotal *prometheus.CounterVec
	listLatency *prometheus.HistogramVec
}

// CountsFunc loads catalog totals at scrape time.
type CountsFunc func(ctx context.Context) metricsstore.Counts

// New builds a registry with the Go and process collectors plus the
// application metrics. counts may be nil to skip the catalog gauges.
func New(counts CountsFunc) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		createTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exhibition_create_total",
			Help:      "Exhibition creation attempts by outcome.",
		}, []string{"result"}),
		listLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "listing_query_duration_seconds",
			Help:      "Time spent counting and fetching one listing page.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"listing"}),
	}

	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.createTotal,
		m.listLatency,
	)
	if counts != nil {
		m.reg.MustRegister(&catalogCollector{counts: counts})
	}

	// pre-create outcome series so rate() works before the first event
	for _, r := range []string{ResultCreated, ResultAlreadyExists, ResultMuseumNotFound, ResultError} {
		m.createTotal.WithLabelValues(r)
	}
	return m
}

// ObserveCreate counts one creation guard outcome.
func (m *Metrics) ObserveCreate(result string) {
	if m == nil {
		return
	}
	m.createTotal.WithLabelValues(result).Inc()
}

// ObserveListing records the latency of one listing page.
func (m *Metrics) ObserveListing(listing string, d time.Duration) {
	if m == nil {
		return
	}
	m.listLatency.WithLabelValues(listing).Observe(d.Seconds())
}

// Registry exposes the registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

var (
	museumsDesc  = prometheus.NewDesc(namespace+"_museums", "Museums in the catalog.", nil, nil)
	exhibitsDesc = prometheus.NewDesc(namespace+"_exhibitions", "Exhibitions by listing state.",
		[]string{"state"}, nil)
)

type catalogCollector struct {
	counts CountsFunc
}

func (c *catalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- museumsDesc
	ch <- exhibitsDesc
}

func (c *catalogCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n := c.counts(ctx)

	ch <- prometheus.MustNewConstMetric(museumsDesc, prometheus.GaugeValue, float64(n.Museums))
	ch <- prometheus.MustNewConstMetric(exhibitsDesc, prometheus.GaugeValue, float64(n.Active), "active")
	ch <- prometheus.MustNewConstMetric(exhibitsDesc, prometheus.GaugeValue, float64(n.Pending), "pending")
	ch <- prometheus.MustNewConstMetric(exhibitsDesc, prometheus.GaugeValue, float64(n.Excluded), "excluded")
}
