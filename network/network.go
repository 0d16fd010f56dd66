package network

import (
	"sort"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/timeutil"
)

// Network owns all nodes, indexed by NodeIdx, plus the depot table and
// the Locations dead-head matrix. It is built once by the loader and
// never mutated afterwards; every package downstream treats *Network
// as shared, read-only context, which is what lets neighbourhood
// scans run concurrently without locks.
type Network struct {
	nodes  []Node
	depots []Depot
	loc    *Locations
	cfg    *config.Config

	serviceNodes     []NodeIdx
	maintenanceNodes []NodeIdx
	depotNodes       []NodeIdx

	// per vehicle type, service nodes sorted by start time, the order
	// the min-cost-flow solver and the greedy starter both walk.
	serviceNodesByType map[VehicleTypeIdx][]NodeIdx

	planningHorizon timeutil.Duration
}

// Build constructs a Network from a flat node list, the depot table,
// the dead-head Locations matrix, and shared Config. Nodes are
// reclassified into the service/maintenance/depot index slices and the
// per-type service ordering is precomputed once here, so the queries
// downstream packages loop over are plain slice reads.
func Build(nodes []Node, depots []Depot, loc *Locations, cfg *config.Config, planningHorizon timeutil.Duration) *Network {
	n := &Network{
		nodes:              append([]Node(nil), nodes...),
		depots:             append([]Depot(nil), depots...),
		loc:                loc,
		cfg:                cfg,
		serviceNodesByType: make(map[VehicleTypeIdx][]NodeIdx),
		planningHorizon:    planningHorizon,
	}
	for _, nd := range n.nodes {
		switch nd.Kind {
		case Service:
			n.serviceNodes = append(n.serviceNodes, nd.ID)
			n.serviceNodesByType[nd.VehicleType] = append(n.serviceNodesByType[nd.VehicleType], nd.ID)
		case Maintenance:
			n.maintenanceNodes = append(n.maintenanceNodes, nd.ID)
		case StartDepot, EndDepot:
			n.depotNodes = append(n.depotNodes, nd.ID)
		}
	}
	sortByStart := func(ids []NodeIdx) {
		sort.Slice(ids, func(i, j int) bool {
			return n.nodes[ids[i]].StartTime.Less(n.nodes[ids[j]].StartTime)
		})
	}
	sortByStart(n.serviceNodes)
	sortByStart(n.maintenanceNodes)
	for vt := range n.serviceNodesByType {
		sortByStart(n.serviceNodesByType[vt])
	}
	return n
}

// Node returns the node at idx.
func (n *Network) Node(idx NodeIdx) Node { return n.nodes[idx] }

// Size returns the number of nodes.
func (n *Network) Size() int { return len(n.nodes) }

// Config returns the shared solver configuration.
func (n *Network) Config() *config.Config { return n.cfg }

// Locations returns the dead-head matrix.
func (n *Network) Locations() *Locations { return n.loc }

// PlanningHorizon returns the total duration of the planning period.
func (n *Network) PlanningHorizon() timeutil.Duration { return n.planningHorizon }

// ServiceNodes returns every service node id, sorted by start time.
func (n *Network) ServiceNodes() []NodeIdx { return n.serviceNodes }

// ServiceNodesOfType returns service node ids of the given vehicle
// type, sorted by start time.
func (n *Network) ServiceNodesOfType(vt VehicleTypeIdx) []NodeIdx {
	return n.serviceNodesByType[vt]
}

// MaintenanceNodes returns every maintenance node id, sorted by start time.
func (n *Network) MaintenanceNodes() []NodeIdx { return n.maintenanceNodes }

// DepotNodes returns every start/end depot node id.
func (n *Network) DepotNodes() []NodeIdx { return n.depotNodes }

// Depots returns the depot table.
func (n *Network) Depots() []Depot { return n.depots }

// Depot returns the depot at idx.
func (n *Network) Depot(idx DepotIdx) Depot { return n.depots[idx] }

// TrackCountOfMaintenanceSlot returns the track count of a maintenance
// node.
func (n *Network) TrackCountOfMaintenanceSlot(idx NodeIdx) int {
	return n.nodes[idx].TrackCount
}

// DeadHeadTimeBetween returns the dead-head travel time from node1's
// end location to node2's start location.
func (n *Network) DeadHeadTimeBetween(node1, node2 NodeIdx) timeutil.Duration {
	a, b := n.nodes[node1], n.nodes[node2]
	return n.loc.TravelTime(a.EndLocation, b.StartLocation)
}

// DeadHeadDistanceBetween returns the dead-head distance from node1's
// end location to node2's start location.
func (n *Network) DeadHeadDistanceBetween(node1, node2 NodeIdx) timeutil.Distance {
	a, b := n.nodes[node1], n.nodes[node2]
	return n.loc.TravelDistance(a.EndLocation, b.StartLocation)
}

// IdleTimeBetween returns the idle (stationary) time between node1's
// end and node2's start, after the dead-head trip between them. If the
// schedule would require negative idle time (an infeasible timing) it
// returns Zero: this situation indicates a caller bug (CanReach
// should have rejected the pairing first) rather than a recoverable
// domain error.
func (n *Network) IdleTimeBetween(node1, node2 NodeIdx) timeutil.Duration {
	a, b := n.nodes[node1], n.nodes[node2]
	idleStart := a.EndTime.Add(n.DeadHeadTimeBetween(node1, node2))
	idleEnd := b.StartTime
	if !idleEnd.Less(idleStart) {
		d, err := idleEnd.Sub(idleStart)
		if err == nil {
			return d
		}
	}
	return timeutil.Zero
}

// requiredHeadway returns the minimal duration that must separate
// node1's end from node2's start for a single vehicle to serve both in
// sequence: shunting overhead, plus the dead-head trip time if the two
// activities are at different locations.
func (n *Network) requiredHeadway(node1, node2 Node) timeutil.Duration {
	shunting := n.cfg.Shunting.Minimal
	if node1.EndLocation == node2.StartLocation {
		return shunting
	}
	return n.loc.TravelTime(node1.EndLocation, node2.StartLocation).Add(shunting).Add(n.cfg.Shunting.DeadHeadTrip)
}

// CanReach reports whether node1 can reach node2: whether a vehicle
// finishing node1 can, after the required dead-head and shunting
// overhead, start node2 on time.
func (n *Network) CanReach(node1, node2 NodeIdx) bool {
	a, b := n.nodes[node1], n.nodes[node2]
	if n.cfg.ForbidDeadHeadTrip && a.EndLocation != b.StartLocation {
		return false
	}
	return !b.StartTime.Less(a.EndTime.Add(n.requiredHeadway(a, b)))
}
