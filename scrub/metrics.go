package scrub

import (
	"github.com/c360studio/semstreams/metric"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsService = "owlscrubber"

// Metrics records phase counters to Prometheus.
type Metrics struct {
	removed  *prometheus.CounterVec
	added    *prometheus.CounterVec
	errors   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the phase collectors and registers them.
func NewMetrics(registry metric.MetricsRegistrar) (*Metrics, error) {
	m := &Metrics{
		removed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsService,
			Name:      "phase_removed_total",
			Help:      "Axioms removed per scrub phase",
		}, []string{"phase"}),
		added: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsService,
			Name:      "phase_added_total",
			Help:      "Axioms added per scrub phase",
		}, []string{"phase"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsService,
			Name:      "phase_errors_total",
			Help:      "Recoverable errors per scrub phase",
		}, []string{"phase"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsService,
			Name:      "phase_duration_seconds",
			Help:      "Wall time per scrub phase",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"phase"}),
	}

	if err := registry.RegisterCounterVec(metricsService, "phase_removed_total", m.removed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(metricsService, "phase_added_total", m.added); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(metricsService, "phase_errors_total", m.errors); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogramVec(metricsService, "phase_duration_seconds", m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe records a finished phase. A nil Metrics records nothing.
func (m *Metrics) Observe(p PhaseResult) {
	if m == nil {
		return
	}
	m.removed.WithLabelValues(p.Name).Add(float64(p.Removed))
	m.added.WithLabelValues(p.Name).Add(float64(p.Added))
	m.errors.WithLabelValues(p.Name).Add(float64(p.ErrorCount()))
	m.duration.WithLabelValues(p.Name).Observe(p.Duration.Seconds())
}
