package mincostflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/obslog"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/vehicletype"
)

// Solve builds an initial Schedule by running one time-expanded
// min-cost circulation per vehicle type and spawning a vehicle for
// each decoded tour. A spawning-cost overflow is logged as a warning
// and the clamped cost used; infeasibility in any type's circulation
// aborts the whole run.
func Solve(nw *network.Network, types *vehicletype.Table, cfg *config.Config, log obslog.Logger) (*schedule.Schedule, error) {
	sched := schedule.New(nw, types, cfg)

	for _, vt := range types.Indices() {
		tn := Build(nw, types, cfg, vt)
		if tn.costOverflow {
			log.Warn("spawning cost clamped",
				zap.Int("vehicleType", int(vt)),
				zap.Error(ErrCostOverflow))
		}
		if err := tn.graph.SolveCirculation(); err != nil {
			return nil, fmt.Errorf("mincostflow: vehicle type %d: %w", vt, err)
		}
		for _, nodes := range tn.Decode() {
			next, _, err := sched.SpawnVehicleForPath(vt, nodes)
			if err != nil {
				return nil, fmt.Errorf("mincostflow: vehicle type %d: decoded tour rejected: %w", vt, err)
			}
			sched = next
		}
	}

	return sched, nil
}
