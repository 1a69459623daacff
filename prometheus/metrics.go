// Package prometheus instruments prodfind services with Prometheus metrics.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/prodfind"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch kinds used as the "kind" label.
const (
	KindSitemap = "sitemap"
	KindPage    = "page"
)

// Metrics holds the collectors for fetch and discovery activity.
type Metrics struct {
	gatherer prometheus.Gatherer

	fetchTotal        *prometheus.CounterVec
	fetchDuration     *prometheus.HistogramVec
	discoveriesTotal  *prometheus.CounterVec
	discoveryProducts prometheus.Histogram
	discoveryDuration prometheus.Histogram
}

// NewMetrics registers the collectors on a new registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return NewMetricsWith(reg, reg)
}

// NewMetricsWith registers the collectors on reg and serves them from gatherer.
// It panics if a collector is already registered on reg.
func NewMetricsWith(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		fetchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodfind_fetch_total",
				Help: "Total number of fetches by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prodfind_fetch_duration_seconds",
				Help:    "Duration of fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		discoveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prodfind_discoveries_total",
				Help: "Total number of discovery runs by outcome.",
			},
			[]string{"outcome"},
		),
		discoveryProducts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prodfind_discovery_products",
				Help:    "Number of product URLs found per successful discovery.",
				Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
			},
		),
		discoveryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prodfind_discovery_duration_seconds",
				Help:    "Duration of discovery runs.",
				Buckets: []float64{1, 5, 10, 15, 30, 60, 120, 300, 600},
			},
		),
	}
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Fetcher returns next instrumented with fetch metrics labeled kind.
func (m *Metrics) Fetcher(next prodfind.Fetcher, kind string) prodfind.Fetcher {
	return &instrumentedFetcher{next: next, kind: kind, metrics: m}
}

// Discoverer returns next instrumented with discovery metrics.
func (m *Metrics) Discoverer(next prodfind.Discoverer) prodfind.Discoverer {
	return &instrumentedDiscoverer{next: next, metrics: m}
}

type instrumentedFetcher struct {
	next    prodfind.Fetcher
	kind    string
	metrics *Metrics
}

func (f *instrumentedFetcher) Fetch(ctx context.Context, url string) (*prodfind.Resource, error) {
	begin := time.Now()
	res, err := f.next.Fetch(ctx, url)
	f.metrics.fetchDuration.WithLabelValues(f.kind).Observe(time.Since(begin).Seconds())
	f.metrics.fetchTotal.WithLabelValues(f.kind, outcome(err)).Inc()
	return res, err
}

func (f *instrumentedFetcher) Close() error {
	return f.next.Close()
}

type instrumentedDiscoverer struct {
	next    prodfind.Discoverer
	metrics *Metrics
}

func (d *instrumentedDiscoverer) Discover(ctx context.Context, startURL string) ([]string, error) {
	begin := time.Now()
	urls, err := d.next.Discover(ctx, startURL)
	d.metrics.discoveriesTotal.WithLabelValues(outcome(err)).Inc()
	if err == nil {
		d.metrics.discoveryDuration.Observe(time.Since(begin).Seconds())
		d.metrics.discoveryProducts.Observe(float64(len(urls)))
	}
	return urls, err
}

// outcome labels an error as "success", "invalid" or "error".
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case prodfind.ErrorCode(err) == prodfind.EINVALID:
		return "invalid"
	default:
		return "error"
	}
}
