package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request and import counters for the API.
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	importRows     *prometheus.CounterVec
	importDuration *prometheus.HistogramVec

	visits prometheus.Counter
}

// New registers the API metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests served.",
	}, []string{"method", "route", "status"})

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Spreadsheet import row outcomes by category.",
	}, []string{"category", "outcome"})
	importDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of category replace imports in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})

	visits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "visitor_pings_total",
		Help: "Presence pings received from browser sessions.",
	})

	registry.MustRegister(requestDuration, requestTotal, importRows, importDuration, visits)

	return &Metrics{
		registry:        registry,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		importRows:      importRows,
		importDuration:  importDuration,
		visits:          visits,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil || m.requestDuration == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, status).Inc()
}

// ObserveImport records the outcome counts for one category replace run.
func (m *Metrics) ObserveImport(category string, inserted, deleted, failed int, duration time.Duration) {
	if m == nil || m.importRows == nil {
		return
	}
	m.importRows.WithLabelValues(category, "inserted").Add(float64(inserted))
	m.importRows.WithLabelValues(category, "deleted").Add(float64(deleted))
	m.importRows.WithLabelValues(category, "failed").Add(float64(failed))
	m.importDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// IncVisit counts one presence ping.
func (m *Metrics) IncVisit() {
	if m == nil || m.visits == nil {
		return
	}
	m.visits.Inc()
}
