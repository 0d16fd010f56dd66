package mincostflow

import (
	"math"
	"sort"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/vehicletype"
)

// pair keys a movement arc by its endpoints.
type pair struct{ u, v network.NodeIdx }

// TypeNetwork is one vehicle type's time-expanded flow network: a pair
// of graph nodes (L/R) per candidate network node (its service trips
// plus every depot permitting this type), a service/spawn edge per
// candidate, and a movement edge for every reachable pair.
type TypeNetwork struct {
	vt    network.VehicleTypeIdx
	nw    *network.Network
	graph *Graph

	candidates []network.NodeIdx
	left       map[network.NodeIdx]int
	right      map[network.NodeIdx]int

	serviceEdge map[network.NodeIdx]*BoundedEdge
	depotEdge   map[network.NodeIdx]*BoundedEdge // keyed by StartDepot node
	movement    map[pair]*BoundedEdge

	costOverflow bool
}

// requiredVehicles returns the minimum number of vt-typed vehicles
// needed to seat node's demand.
func requiredVehicles(node network.Node, t vehicletype.Type) int {
	if t.Seats <= 0 {
		return 1
	}
	need := (node.Demand + t.Seats - 1) / t.Seats
	if need < 1 {
		need = 1
	}
	return need
}

// effectiveMaxFormation returns node's formation cap, honouring a
// per-trip override over the vehicle type's default.
func effectiveMaxFormation(node network.Node, t vehicletype.Type) int {
	if node.MaxFormation > 0 {
		return node.MaxFormation
	}
	return t.MaxFormation()
}

// maxActivityCostPerSecond is the per-second cost of the most
// expensive activity kind, used by the spawning-cost formula to
// guarantee spawning dominates every non-spawning edge.
func maxActivityCostPerSecond(cfg *config.Config) config.Cost {
	max := cfg.Costs.ServiceTrip
	if cfg.Costs.DeadHeadTrip > max {
		max = cfg.Costs.DeadHeadTrip
	}
	if cfg.Costs.Idle > max {
		max = cfg.Costs.Idle
	}
	return max
}

// spawningCostFor prices one spawned vehicle at
// maxCostPerSecond*3*planningSeconds*totalLowerBound. On int64
// overflow it clamps to a value that still dominates every realistic
// non-spawning path while leaving headroom for the solver's path-cost
// sums, and reports the overflow so Solve can warn.
func spawningCostFor(maxCostPerSecond, planningSeconds, totalLowerBound int64) (int64, bool) {
	const clamp = math.MaxInt64 >> 20
	cost := maxCostPerSecond
	for _, f := range []int64{3, planningSeconds, totalLowerBound} {
		if f == 0 || cost == 0 {
			return 0, false
		}
		if cost > clamp/f {
			return clamp, true
		}
		cost *= f
	}
	return cost, false
}

// depotEdgeCapacity converts a depot's per-type capacity into a finite
// edge capacity. Unlimited depots (capacity -1) are bounded by the
// fleet the service lower bounds could ever require; the spawning cost
// keeps the optimum from using even that many.
func depotEdgeCapacity(cap int, totalLowerBound int64) int64 {
	if cap < 0 {
		return totalLowerBound
	}
	return int64(cap)
}

// Build constructs the time-expanded flow network for vehicle type vt:
// a service/spawn edge per candidate node, and a movement edge for
// every pair the network's reachability relation permits. Spawning
// cost is priced high enough to dominate every non-spawning edge, so
// the circulation opens a new vehicle only when it must.
func Build(nw *network.Network, types *vehicletype.Table, cfg *config.Config, vt network.VehicleTypeIdx) *TypeNetwork {
	t := types.Get(vt)

	tn := &TypeNetwork{
		vt:          vt,
		nw:          nw,
		left:        make(map[network.NodeIdx]int),
		right:       make(map[network.NodeIdx]int),
		serviceEdge: make(map[network.NodeIdx]*BoundedEdge),
		depotEdge:   make(map[network.NodeIdx]*BoundedEdge),
		movement:    make(map[pair]*BoundedEdge),
	}

	for _, s := range nw.ServiceNodesOfType(vt) {
		tn.candidates = append(tn.candidates, s)
	}
	for _, d := range nw.DepotNodes() {
		node := nw.Node(d)
		if _, ok := nw.Depot(node.DepotIdx).CapacityFor(vt); ok {
			tn.candidates = append(tn.candidates, d)
		}
	}
	sort.Slice(tn.candidates, func(i, j int) bool {
		return nw.Node(tn.candidates[i]).StartTime.Less(nw.Node(tn.candidates[j]).StartTime)
	})

	tn.graph = NewGraph(0)
	for _, c := range tn.candidates {
		tn.left[c] = tn.graph.addNode()
		tn.right[c] = tn.graph.addNode()
	}

	var totalLowerBound int64
	for _, s := range nw.ServiceNodesOfType(vt) {
		node := nw.Node(s)
		lower := int64(requiredVehicles(node, t))
		upper := int64(effectiveMaxFormation(node, t))
		if lower > upper {
			lower = upper
		}
		cost := node.ActivityDuration.InSeconds() * int64(cfg.Costs.ServiceTrip)
		tn.serviceEdge[s] = tn.graph.AddBoundedEdge(tn.left[s], tn.right[s], lower, upper, cost)
		totalLowerBound += lower
	}

	planningSeconds := nw.PlanningHorizon().InSeconds()
	spawningCost, overflowed := spawningCostFor(int64(maxActivityCostPerSecond(cfg)), planningSeconds, totalLowerBound)
	tn.costOverflow = overflowed

	for _, d := range tn.candidates {
		node := nw.Node(d)
		if node.Kind != network.StartDepot {
			continue
		}
		depot := nw.Depot(node.DepotIdx)
		cap, _ := depot.CapacityFor(vt)
		tn.depotEdge[d] = tn.graph.AddBoundedEdge(tn.left[d], tn.right[d], 0, depotEdgeCapacity(cap, totalLowerBound), spawningCost)
	}
	for _, d := range tn.candidates {
		node := nw.Node(d)
		if node.Kind != network.EndDepot {
			continue
		}
		depot := nw.Depot(node.DepotIdx)
		cap, _ := depot.CapacityFor(vt)
		tn.depotEdge[d] = tn.graph.AddBoundedEdge(tn.left[d], tn.right[d], 0, depotEdgeCapacity(cap, totalLowerBound), 0)
	}

	for _, u := range tn.candidates {
		for _, v := range tn.candidates {
			if u == v {
				continue
			}
			if !nw.CanReach(u, v) {
				continue
			}
			un, vn := nw.Node(u), nw.Node(v)
			if un.Kind == network.EndDepot || vn.Kind == network.StartDepot {
				continue
			}
			dh := nw.DeadHeadTimeBetween(u, v).InSeconds()
			idle := int64(0)
			if !un.IsDepot() && !vn.IsDepot() {
				idle = nw.IdleTimeBetween(u, v).InSeconds()
			}
			cost := dh*int64(cfg.Costs.DeadHeadTrip) + idle*int64(cfg.Costs.Idle)
			upper := int64(effectiveMaxFormation(vn, t))
			if un.Kind == network.Service {
				if sUp := int64(effectiveMaxFormation(un, t)); sUp < upper {
					upper = sUp
				}
			}
			tn.movement[pair{u, v}] = tn.graph.AddBoundedEdge(tn.right[u], tn.left[v], 0, upper, cost)
		}
	}

	return tn
}
