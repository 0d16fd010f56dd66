package localsearch

import (
	"go.uber.org/zap"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/metrics"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/schedule"
)

// Run repeatedly applies improver to s until it reports no further
// improvement or maxRounds is reached (0 means unbounded), logging
// each accepted round's objective delta. mc may be nil.
func Run(log *zap.Logger, mc *metrics.Collector, improver Improver, obj objective.Objective[*schedule.Schedule], s *schedule.Schedule, maxRounds int) (*schedule.Schedule, int, error) {
	current := s
	var lastProvider formation.VehicleID
	rounds := 0

	for maxRounds == 0 || rounds < maxRounds {
		before := obj.Evaluate(current)
		next, found, provider, err := improver.Improve(current, lastProvider)
		if err != nil {
			return nil, rounds, err
		}
		mc.ObserveRound(found)
		if !found {
			break
		}
		rounds++
		lastProvider = provider
		after := obj.Evaluate(next)
		obj.PrintWithComparison(log, after, before)
		publishGauges(mc, next, after)
		current = next
	}
	return current, rounds, nil
}

func publishGauges(mc *metrics.Collector, s *schedule.Schedule, value objective.ObjectiveValue) {
	if mc == nil {
		return
	}
	mc.SetUnserved(int64(objective.UnservedPassengers{}.Evaluate(s).AsFloat()))
	if coords := value.Coordinates(); len(coords) > 0 {
		mc.SetSoftCost(coords[len(coords)-1].AsFloat())
	}
}
