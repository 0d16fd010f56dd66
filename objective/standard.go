package objective

import (
	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/schedule"
)

// Standard builds the solver's four-level lexicographic objective:
// unserved passengers, then vehicle count, then overhead seat-distance,
// each on a level of its own, followed by a soft-cost level folding
// dead-head distance, idle time and maintenance violation into a single
// scalar using cfg's per-unit prices.
func Standard(cfg config.Config) Objective[*schedule.Schedule] {
	unserved := NewLevel[*schedule.Schedule](Weighted[*schedule.Schedule](1, UnservedPassengers{}))
	vehicles := NewLevel[*schedule.Schedule](Weighted[*schedule.Schedule](1, VehicleCount{}))
	overhead := NewLevel[*schedule.Schedule](Weighted[*schedule.Schedule](1, OverheadSeatDistance{}))
	soft := NewLevel[*schedule.Schedule](
		LevelSummand[*schedule.Schedule]{
			Coefficient: FloatCoefficient(float64(cfg.Costs.DeadHeadTrip)),
			Indicator:   DeadHeadDistance{},
		},
		LevelSummand[*schedule.Schedule]{
			Coefficient: FloatCoefficient(float64(cfg.Costs.Idle)),
			Indicator:   durationSecondsIndicator{IdleDuration{}},
		},
		LevelSummand[*schedule.Schedule]{
			Coefficient: FloatCoefficient(float64(cfg.Costs.Maintenance)),
			Indicator:   MaintenanceBathtubCost{},
		},
	)
	return New(unserved, vehicles, overhead, soft)
}

// durationSecondsIndicator adapts a Duration-valued Indicator into an
// Integer count of seconds, so its coefficient (a plain Cost per second)
// multiplies an Integer rather than hitting Duration's
// seconds-preserving Mul path meant for Duration arithmetic, not costing.
type durationSecondsIndicator struct {
	inner Indicator[*schedule.Schedule]
}

func (d durationSecondsIndicator) Name() string { return d.inner.Name() }

func (d durationSecondsIndicator) Evaluate(s *schedule.Schedule) BaseValue {
	v := d.inner.Evaluate(s)
	if v.Kind() != KindDuration {
		return v
	}
	return Integer(v.duration.InSeconds())
}
