// Package observability provides Prometheus instrumentation for the reduction
// pipeline. A nil *Metrics is valid everywhere and records nothing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the orchestrators report into.
type Metrics struct {
	objectiveEvaluations prometheus.Counter
	optimizerDuration    prometheus.Histogram
	qubitsTapered        prometheus.Gauge
}

// New creates the collectors and registers them. Pass
// prometheus.DefaultRegisterer for the process-wide registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		objectiveEvaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quell_objective_evaluations_total",
			Help: "Classical objective evaluations performed by optimizers.",
		}),
		optimizerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quell_optimizer_duration_seconds",
			Help:    "Wall time of optimizer Minimize calls.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		qubitsTapered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quell_qubits_tapered",
			Help: "Qubits removed by the most recent reduction.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.objectiveEvaluations, m.optimizerDuration, m.qubitsTapered)
	}
	return m
}

// ObserveEvaluation counts one objective evaluation.
func (m *Metrics) ObserveEvaluation() {
	if m == nil {
		return
	}
	m.objectiveEvaluations.Inc()
}

// ObserveOptimizer records the duration of one optimizer run.
func (m *Metrics) ObserveOptimizer(d time.Duration) {
	if m == nil {
		return
	}
	m.optimizerDuration.Observe(d.Seconds())
}

// ObserveReduction records how many qubits the latest reduction removed.
func (m *Metrics) ObserveReduction(removed int) {
	if m == nil {
		return
	}
	m.qubitsTapered.Set(float64(removed))
}
