package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Feature-specific metrics live
// in their feature packages (e.g. internal/documents/metrics).
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
}

// New creates and registers all application-level Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "docmint_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "docmint_http_requests_total",
			Help: "Total HTTP requests by route and status.",
		}, []string{"route", "method", "status"}),
	}
}

// ObserveRequest records one completed HTTP request. Nil-safe so handlers can
// run without metrics in tests.
func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(route, method, status).Observe(seconds)
	m.HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
}
