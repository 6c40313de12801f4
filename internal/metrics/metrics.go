// Package metrics holds the Prometheus collectors of the validation service.
//
// Metrics:
//   - esguard_validations_total: documents validated by schema and outcome
//   - esguard_issues_total: issues reported by schema and code
//   - esguard_validation_duration_seconds: decode plus validation time
//   - esguard_forwards_total: gateway forwards by schema and outcome
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	g "github.com/reoring/esguard"
	"github.com/reoring/esguard/internal/config"
)

// Outcome labels.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	forwards    *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry.
func New(cfg config.MetricsConfig) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "validations_total",
				Help:      "Documents validated, by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "issues_total",
				Help:      "Validation issues reported, by schema and code",
			},
			[]string{"schema", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "validation_duration_seconds",
				Help:      "Time spent decoding and validating a document",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100us to ~1.6s
			},
			[]string{"schema"},
		),
		forwards: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "forwards_total",
				Help:      "Canonical documents forwarded to the backend, by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
	}
	m.registry.MustRegister(m.validations, m.issues, m.duration, m.forwards)
	return m
}

// ObserveValidation records one validation.
func (m *Metrics) ObserveValidation(schema, outcome string, d time.Duration, iss g.Issues) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(schema, outcome).Inc()
	m.duration.WithLabelValues(schema).Observe(d.Seconds())
	for _, it := range iss {
		m.issues.WithLabelValues(schema, it.Code).Inc()
	}
}

// ObserveForward records one gateway call.
func (m *Metrics) ObserveForward(schema, outcome string) {
	if m == nil {
		return
	}
	m.forwards.WithLabelValues(schema, outcome).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
