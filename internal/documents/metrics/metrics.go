// Package metrics exposes Prometheus instrumentation for the documents
// feature. All helpers are nil-safe so wiring metrics stays optional in
// tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	issuanceTotal    *prometheus.CounterVec
	issuanceDuration *prometheus.HistogramVec
	verifyCacheTotal *prometheus.CounterVec
	mintDivergence   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		issuanceTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docmint",
			Subsystem: "documents",
			Name:      "issuance_total",
			Help:      "Issuance saga outcomes per operation.",
		}, []string{"operation", "outcome"}),
		issuanceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "docmint",
			Subsystem: "documents",
			Name:      "issuance_step_duration_seconds",
			Help:      "Duration of external saga steps (render, pin, mint).",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"step"}),
		verifyCacheTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "docmint",
			Subsystem: "documents",
			Name:      "verify_cache_total",
			Help:      "Verification cache lookups by result.",
		}, []string{"result"}),
		mintDivergence: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "docmint",
			Subsystem: "documents",
			Name:      "mint_divergence_total",
			Help:      "Documents marked failed whose mint may have landed on chain.",
		}),
	}
}

// ObserveOutcome records one finished operation (request, approve, revoke,
// reject, verify) with outcome success|failure.
func (m *Metrics) ObserveOutcome(operation, outcome string) {
	if m == nil {
		return
	}
	m.issuanceTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveStep records the duration of one external saga step.
func (m *Metrics) ObserveStep(step string, seconds float64) {
	if m == nil {
		return
	}
	m.issuanceDuration.WithLabelValues(step).Observe(seconds)
}

// ObserveVerifyCache records a cache lookup result: hit|miss|error.
func (m *Metrics) ObserveVerifyCache(result string) {
	if m == nil {
		return
	}
	m.verifyCacheTotal.WithLabelValues(result).Inc()
}

// ObserveMintDivergence counts a possible local/chain disagreement.
func (m *Metrics) ObserveMintDivergence() {
	if m == nil {
		return
	}
	m.mintDivergence.Inc()
}
