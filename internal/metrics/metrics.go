// Package metrics exposes Prometheus instrumentation for signal computation
// and gate evaluation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	signalsComputed *prometheus.CounterVec
	fallbacks       *prometheus.CounterVec
	gateEvaluations *prometheus.CounterVec
	computeDuration prometheus.Histogram
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		signalsComputed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trader_signals_computed_total",
				Help: "Total number of signals computed",
			},
			[]string{"strategy", "action"},
		),

		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trader_strategy_fallbacks_total",
				Help: "Total number of fallback substitutions during strategy resolution",
			},
			[]string{"from", "to"},
		),

		gateEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trader_gate_evaluations_total",
				Help: "Total number of go/no-go gate evaluations",
			},
			[]string{"mode", "result"},
		),

		computeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trader_signal_compute_duration_seconds",
				Help:    "Strategy compute duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(r.signalsComputed)
	reg.MustRegister(r.fallbacks)
	reg.MustRegister(r.gateEvaluations)
	reg.MustRegister(r.computeDuration)

	return r
}

// RecordSignal increments the signal counter for a strategy and action.
func (r *Registry) RecordSignal(strategy, action string) {
	r.signalsComputed.WithLabelValues(strategy, action).Inc()
}

// RecordFallback increments the fallback counter for a substitution.
func (r *Registry) RecordFallback(from, to string) {
	r.fallbacks.WithLabelValues(from, to).Inc()
}

// RecordGateEvaluation increments the gate counter for a mode and result.
func (r *Registry) RecordGateEvaluation(mode, result string) {
	r.gateEvaluations.WithLabelValues(mode, result).Inc()
}

// RecordComputeDuration records one strategy compute duration in seconds.
func (r *Registry) RecordComputeDuration(seconds float64) {
	r.computeDuration.Observe(seconds)
}

// Handler returns the HTTP handler serving the registry in the Prometheus
// text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{})
}
