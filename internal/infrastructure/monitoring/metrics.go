// Package monitoring provides Prometheus instrumentation for the meal
// planning engine.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes counters for generation, guard decisions and score
// cache traffic. It satisfies the planner and guard metrics interfaces.
type Metrics struct {
	generations    *prometheus.CounterVec
	batchItems     *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	cacheTraffic   *prometheus.CounterVec
}

// NewMetrics registers the engine's collectors on the given registerer.
// Passing prometheus.DefaultRegisterer is the common case.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mealengine",
				Name:      "generations_total",
				Help:      "Recipe generation attempts by tier and outcome.",
			},
			[]string{"tier", "outcome"},
		),
		batchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mealengine",
				Name:      "batch_items_total",
				Help:      "Batch generation items by outcome.",
			},
			[]string{"outcome"},
		),
		guardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mealengine",
				Name:      "guard_decisions_total",
				Help:      "Rate and quota guard decisions.",
			},
			[]string{"kind", "decision"},
		),
		cacheTraffic: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mealengine",
				Name:      "score_cache_requests_total",
				Help:      "Compatibility score cache reads by result.",
			},
			[]string{"result"},
		),
	}
}

// RecordGeneration counts one tier build attempt.
func (m *Metrics) RecordGeneration(tier string, viable bool) {
	m.generations.WithLabelValues(tier, outcome(viable, "viable", "unviable")).Inc()
}

// RecordBatchItem counts one batch item result.
func (m *Metrics) RecordBatchItem(success bool) {
	m.batchItems.WithLabelValues(outcome(success, "success", "skipped")).Inc()
}

// RecordGuardDecision counts one guard verdict. kind is "rate" or
// "quota".
func (m *Metrics) RecordGuardDecision(kind string, allowed bool) {
	m.guardDecisions.WithLabelValues(kind, outcome(allowed, "allowed", "denied")).Inc()
}

// RecordCacheRead counts one score cache read.
func (m *Metrics) RecordCacheRead(hit bool) {
	m.cacheTraffic.WithLabelValues(outcome(hit, "hit", "miss")).Inc()
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
