package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Trail metrics
	EventsRecordedTotal *prometheus.CounterVec
	SearchesTotal       prometheus.Counter
	SearchDuration      prometheus.Histogram
	ExportsTotal        *prometheus.CounterVec

	// Restore metrics
	RestoresTotal   *prometheus.CounterVec
	RestoreDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronicle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chronicle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		EventsRecordedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronicle_events_recorded_total",
				Help: "Total number of audit events recorded",
			},
			[]string{"category"},
		),
		SearchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "chronicle_searches_total",
				Help: "Total number of audit trail searches",
			},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chronicle_search_duration_seconds",
				Help:    "Audit trail search duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronicle_exports_total",
				Help: "Total number of audit trail exports",
			},
			[]string{"format"},
		),
		RestoresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chronicle_restores_total",
				Help: "Total number of restore attempts by outcome",
			},
			[]string{"outcome"},
		),
		RestoreDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chronicle_restore_duration_seconds",
				Help:    "Restore operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EventsRecordedTotal,
		m.SearchesTotal,
		m.SearchDuration,
		m.ExportsTotal,
		m.RestoresTotal,
		m.RestoreDuration,
	)

	return m
}

// Handler returns the Prometheus scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveSearch records one audit trail search.
func (m *Metrics) ObserveSearch(duration time.Duration) {
	m.SearchesTotal.Inc()
	m.SearchDuration.Observe(duration.Seconds())
}

// ObserveRestore records one restore attempt.
func (m *Metrics) ObserveRestore(outcome string, duration time.Duration) {
	m.RestoresTotal.WithLabelValues(outcome).Inc()
	m.RestoreDuration.Observe(duration.Seconds())
}
