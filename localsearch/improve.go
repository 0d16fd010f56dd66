package localsearch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/metrics"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/schedule"
)

// Improver searches one Schedule's neighbourhood for a strictly better
// one, per the objective. Found reports whether a strict improvement
// was returned; lastProvider becomes the seed for the following
// Improve call's provider rotation.
type Improver interface {
	Improve(s *schedule.Schedule, lastProvider formation.VehicleID) (result *schedule.Schedule, found bool, nextProvider formation.VehicleID, err error)
}

func evaluate(obj objective.Objective[*schedule.Schedule], s *schedule.Schedule) objective.ObjectiveValue {
	return obj.Evaluate(s)
}

// Minimizer scans the full neighbourhood and keeps the single best
// strictly-improving Swap, sequentially. The exhaustive, non-parallel
// baseline improver.
type Minimizer struct {
	Objective    objective.Objective[*schedule.Schedule]
	Neighborhood Neighborhood
	Metrics      *metrics.Collector
}

func (m Minimizer) Improve(s *schedule.Schedule, lastProvider formation.VehicleID) (*schedule.Schedule, bool, formation.VehicleID, error) {
	base := evaluate(m.Objective, s)

	var best *schedule.Schedule
	var bestValue objective.ObjectiveValue
	var bestProvider formation.VehicleID
	found := false

	for _, swap := range m.Neighborhood.Generate(s, lastProvider) {
		m.Metrics.ObserveSwapAttempt()
		candidate, provider, err := swap.Apply(s)
		if err != nil {
			continue
		}
		value := evaluate(m.Objective, candidate)
		if !value.Less(base) {
			continue
		}
		if !found || value.Less(bestValue) {
			best, bestValue, bestProvider, found = candidate, value, provider, true
		}
	}
	return best, found, bestProvider, nil
}

// TakeFirstRecursion applies the first strictly-improving Swap it
// finds (in neighbourhood order) and recurses on the result up to
// MaxDepth times, returning as soon as a pass produces no further
// improvement.
type TakeFirstRecursion struct {
	Objective    objective.Objective[*schedule.Schedule]
	Neighborhood Neighborhood
	MaxDepth     int
	Metrics      *metrics.Collector
}

func (t TakeFirstRecursion) Improve(s *schedule.Schedule, lastProvider formation.VehicleID) (*schedule.Schedule, bool, formation.VehicleID, error) {
	return t.recurse(s, lastProvider, 0)
}

func (t TakeFirstRecursion) recurse(s *schedule.Schedule, lastProvider formation.VehicleID, depth int) (*schedule.Schedule, bool, formation.VehicleID, error) {
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return s, false, lastProvider, nil
	}
	base := evaluate(t.Objective, s)

	for _, swap := range t.Neighborhood.Generate(s, lastProvider) {
		t.Metrics.ObserveSwapAttempt()
		candidate, provider, err := swap.Apply(s)
		if err != nil {
			continue
		}
		if !evaluate(t.Objective, candidate).Less(base) {
			continue
		}
		next, found, nextProvider, err := t.recurse(candidate, provider, depth+1)
		if err != nil {
			return nil, false, "", err
		}
		if found {
			return next, true, nextProvider, nil
		}
		return candidate, true, provider, nil
	}
	return s, false, lastProvider, nil
}

// TakeAnyParallelRecursion evaluates the neighbourhood concurrently
// (bounded by Width candidates per round) and recurses into whichever
// improving swap's worker finishes first, cancelling its siblings.
// First-result-wins keeps the accepted schedule strictly better than
// the input, at the cost of run-to-run determinism when Width > 1.
type TakeAnyParallelRecursion struct {
	Objective    objective.Objective[*schedule.Schedule]
	Neighborhood Neighborhood
	MaxDepth     int
	Width        int // candidates per round explored concurrently; 0 means unbounded
	Metrics      *metrics.Collector
}

func (t TakeAnyParallelRecursion) Improve(s *schedule.Schedule, lastProvider formation.VehicleID) (*schedule.Schedule, bool, formation.VehicleID, error) {
	return t.recurse(context.Background(), s, lastProvider, 0)
}

type foundResult struct {
	schedule *schedule.Schedule
	provider formation.VehicleID
}

func (t TakeAnyParallelRecursion) recurse(ctx context.Context, s *schedule.Schedule, lastProvider formation.VehicleID, depth int) (*schedule.Schedule, bool, formation.VehicleID, error) {
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return s, false, lastProvider, nil
	}
	base := evaluate(t.Objective, s)
	swaps := t.Neighborhood.Generate(s, lastProvider)
	if t.Width > 0 && len(swaps) > t.Width {
		swaps = swaps[:t.Width]
	}

	groupCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, groupCtx := errgroup.WithContext(groupCtx)

	var once sync.Once
	var winner *foundResult

	for _, swap := range swaps {
		swap := swap
		g.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			t.Metrics.ObserveSwapAttempt()
			candidate, provider, err := swap.Apply(s)
			if err != nil {
				return nil
			}
			if !evaluate(t.Objective, candidate).Less(base) {
				return nil
			}
			next, found, nextProvider, err := t.recurse(groupCtx, candidate, provider, depth+1)
			if err != nil {
				return err
			}
			result := &foundResult{schedule: candidate, provider: provider}
			if found {
				result = &foundResult{schedule: next, provider: nextProvider}
			}
			once.Do(func() {
				winner = result
				cancel()
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false, "", err
	}
	if winner == nil {
		return s, false, lastProvider, nil
	}
	return winner.schedule, true, winner.provider, nil
}
