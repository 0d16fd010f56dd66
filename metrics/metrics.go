// Package metrics holds the solver's prometheus instruments:
// local-search iteration and swap counters plus gauges for the
// current objective's unserved-passenger and soft-cost coordinates.
// Deliberately narrow; anything beyond watching a running solve
// belongs to the caller.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collector bundles the solver's prometheus instruments. A nil
// *Collector is valid and every method on it is a no-op, so callers
// that do not want metrics can simply not construct one.
type Collector struct {
	Iterations     prometheus.Counter
	SwapsAttempted prometheus.Counter
	SwapsAccepted  prometheus.Counter
	SoftCostGauge  prometheus.Gauge
	UnservedGauge  prometheus.Gauge
}

// NewCollector builds a Collector and registers its instruments with
// reg. Pass prometheus.NewRegistry() for an isolated registry (tests,
// multiple solver runs in one process) or prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railsched",
			Subsystem: "localsearch",
			Name:      "iterations_total",
			Help:      "Number of local-search improvement rounds run.",
		}),
		SwapsAttempted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railsched",
			Subsystem: "localsearch",
			Name:      "swaps_attempted_total",
			Help:      "Number of candidate swaps evaluated across all rounds.",
		}),
		SwapsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "railsched",
			Subsystem: "localsearch",
			Name:      "swaps_accepted_total",
			Help:      "Number of swaps that strictly improved the objective and were applied.",
		}),
		SoftCostGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "railsched",
			Subsystem: "objective",
			Name:      "soft_cost",
			Help:      "Current schedule's soft-cost objective level value.",
		}),
		UnservedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "railsched",
			Subsystem: "objective",
			Name:      "unserved_passengers",
			Help:      "Current schedule's unserved-passengers count.",
		}),
	}
	reg.MustRegister(c.Iterations, c.SwapsAttempted, c.SwapsAccepted, c.SoftCostGauge, c.UnservedGauge)
	return c
}

func (c *Collector) ObserveRound(accepted bool) {
	if c == nil {
		return
	}
	c.Iterations.Inc()
	if accepted {
		c.SwapsAccepted.Inc()
	}
}

func (c *Collector) ObserveSwapAttempt() {
	if c == nil {
		return
	}
	c.SwapsAttempted.Inc()
}

func (c *Collector) SetUnserved(count int64) {
	if c == nil {
		return
	}
	c.UnservedGauge.Set(float64(count))
}

func (c *Collector) SetSoftCost(value float64) {
	if c == nil {
		return
	}
	c.SoftCostGauge.Set(value)
}
