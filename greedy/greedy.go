// Package greedy builds an initial schedule by walking service trips
// in chronological order and parking each uncovered trip onto the
// latest-finishing vehicle that can reach it, spawning a fresh vehicle
// of the biggest available type when none can. It is an alternative to
// mincostflow's min-cost circulation: cheaper to compute, with no
// optimality guarantee.
package greedy

import (
	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
	"github.com/railsched/railsched/vehicletype"
)

// Solve builds a Schedule by covering every service node of nw in
// chronological order, reusing whichever already-spawned vehicle of
// the matching type finishes latest among those that can reach it, and
// spawning a fresh vehicle of the table's last (largest) type
// otherwise. A final pass reassigns end depots greedily.
func Solve(nw *network.Network, types *vehicletype.Table, cfg *config.Config) (*schedule.Schedule, error) {
	sched := schedule.New(nw, types, cfg)

	for _, trip := range nw.ServiceNodes() {
		node := nw.Node(trip)
		for sched.CoveredBy(trip).Seats() < node.Demand {
			candidate, ok := latestReachingVehicle(sched, nw, trip, node.VehicleType)
			if ok {
				next, _, err := sched.AddPathToVehicleTour(candidate, tour.NewSingleNodePath(trip, nw))
				if err != nil {
					return nil, err
				}
				sched = next
				continue
			}

			vt := types.Last()
			next, _, err := sched.SpawnVehicleForPath(vt, []network.NodeIdx{trip})
			if err != nil {
				return nil, err
			}
			sched = next
		}
	}

	return sched.ReassignEndDepotsGreedily()
}

// latestReachingVehicle returns the vehicle of type vt whose tour's
// last non-depot node reaches trip and finishes latest, so vehicles
// are reused with as little idle time as possible.
func latestReachingVehicle(sched *schedule.Schedule, nw *network.Network, trip network.NodeIdx, vt network.VehicleTypeIdx) (formation.VehicleID, bool) {
	var best formation.VehicleID
	var bestEnd timeutil.DateTime // zero value is timeutil.Earliest; any real candidate beats it
	found := false

	for _, v := range sched.Vehicles() {
		typ, err := sched.TypeOf(v)
		if err != nil || typ != vt {
			continue
		}
		t, err := sched.TourOf(v)
		if err != nil {
			continue
		}
		last := lastNonDepot(t)
		if last < 0 {
			continue
		}
		if !nw.CanReach(network.NodeIdx(last), trip) {
			continue
		}
		end := nw.Node(network.NodeIdx(last)).EndTime
		if !found || bestEnd.Less(end) {
			best, bestEnd, found = v, end, true
		}
	}
	return best, found
}

// lastNonDepot returns t's last non-depot node, or -1 if t has none.
func lastNonDepot(t tour.Tour) int {
	nodes := t.AllNodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if !isDepotNode(t, nodes[i]) {
			return int(nodes[i])
		}
	}
	return -1
}

func isDepotNode(t tour.Tour, n network.NodeIdx) bool {
	if start, ok := t.StartDepot(); ok && start == n {
		return true
	}
	if end, ok := t.EndDepot(); ok && end == n {
		return true
	}
	return false
}
