package localsearch

import (
	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/tour"
)

// Neighborhood generates the Swaps to try against one Schedule.
// Providers are scanned starting right after lastProvider (the vehicle
// the previous accepted move pivoted on), wrapping around, so a long
// run of rejected moves does not keep re-trying the same early
// vehicles first.
type Neighborhood struct {
	MaxSegmentDuration      int64 // seconds; 0 means unbounded
	MinRemovableOverheadSec int64
}

// Generate yields every Swap worth trying against s, in provider-
// rotated order starting after lastProvider.
func (n Neighborhood) Generate(s *schedule.Schedule, lastProvider formation.VehicleID) []Swap {
	var swaps []Swap
	providers := rotate(s.Vehicles(), lastProvider)

	for _, provider := range providers {
		swaps = append(swaps, n.pathExchangesFrom(s, provider)...)
		swaps = append(swaps, n.removalsFrom(s, provider)...)
	}
	swaps = append(swaps, n.maintenanceSwaps(s, providers)...)
	swaps = append(swaps, n.hitchHikingSwaps(s, providers)...)
	return swaps
}

// rotate returns ids reordered to start right after last, wrapping
// around; if last is not present, ids is returned unchanged.
func rotate(ids []formation.VehicleID, last formation.VehicleID) []formation.VehicleID {
	if last == "" {
		return ids
	}
	pos := -1
	for i, id := range ids {
		if id == last {
			pos = i
			break
		}
	}
	if pos < 0 {
		return ids
	}
	out := make([]formation.VehicleID, 0, len(ids))
	out = append(out, ids[pos+1:]...)
	out = append(out, ids[:pos+1]...)
	return out
}

// pathExchangesFrom builds one PathExchange per (segment, receiver)
// pair rooted at provider's movable nodes, skipping segments whose
// smaller of preceding and subsequent overhead falls below
// MinRemovableOverheadSec (too cheap a move to be worth the search
// cost) or whose span exceeds MaxSegmentDuration.
func (n Neighborhood) pathExchangesFrom(s *schedule.Schedule, provider formation.VehicleID) []Swap {
	t, err := s.TourOf(provider)
	if err != nil {
		return nil
	}
	nw := s.Network()
	movable := t.MovableNodes()

	var swaps []Swap
	for _, seg := range n.segmentsOf(nw, movable) {
		pre, sub := t.PrecedingOverhead(seg.Start), t.SubsequentOverhead(seg.End)
		if sub.Less(pre) {
			pre = sub
		}
		if !pre.IsInfinity() && pre.InSeconds() < n.MinRemovableOverheadSec {
			continue
		}
		for _, receiver := range s.Vehicles() {
			if receiver == provider {
				continue
			}
			swaps = append(swaps, PathExchange{Segment: seg, Provider: provider, Receiver: receiver})
		}
		for _, receiver := range s.DummyVehicles() {
			swaps = append(swaps, PathExchange{Segment: seg, Provider: provider, Receiver: receiver})
		}
	}
	return swaps
}

// segmentsOf enumerates every contiguous sub-range of movable worth
// trying as a PathExchange segment: every contiguous run (single nodes
// included) whose span, from the first node's start to the last node's
// end, does not exceed MaxSegmentDuration.
func (n Neighborhood) segmentsOf(nw *network.Network, movable []network.NodeIdx) []tour.Segment {
	var segments []tour.Segment
	for i := range movable {
		for j := i; j < len(movable); j++ {
			start, end := movable[i], movable[j]
			span, err := nw.Node(end).EndTime.Sub(nw.Node(start).StartTime)
			if err != nil {
				break
			}
			if n.MaxSegmentDuration > 0 && span.InSeconds() > n.MaxSegmentDuration {
				break
			}
			segments = append(segments, tour.NewSegment(start, end))
		}
	}
	return segments
}

// removalsFrom builds one RemoveSingleNode per movable node of
// provider whose preceding and subsequent overhead are each at least
// MinRemovableOverheadSec, a cheap heuristic filter
// for "this node is mostly dead-head, try dropping it".
func (n Neighborhood) removalsFrom(s *schedule.Schedule, provider formation.VehicleID) []Swap {
	t, err := s.TourOf(provider)
	if err != nil {
		return nil
	}
	var swaps []Swap
	for _, node := range t.MovableNodes() {
		pre, sub := t.PrecedingOverhead(node), t.SubsequentOverhead(node)
		total := pre
		if sub.Less(total) {
			total = sub
		}
		if total.InSeconds() < n.MinRemovableOverheadSec {
			continue
		}
		swaps = append(swaps, RemoveSingleNode{Node: node, Vehicle: provider})
	}
	return swaps
}

// maintenanceSwaps offers forcing every maintenance slot onto every
// vehicle of providers that does not already visit it.
func (n Neighborhood) maintenanceSwaps(s *schedule.Schedule, providers []formation.VehicleID) []Swap {
	nw := s.Network()
	var swaps []Swap
	for _, slot := range nw.MaintenanceNodes() {
		for _, v := range providers {
			t, err := s.TourOf(v)
			if err != nil || t.VisitsMaintenance() {
				continue
			}
			swaps = append(swaps, SpawnVehicleForMaintenance{Slot: slot, Vehicle: v})
		}
	}
	return swaps
}

// hitchHikingSwaps offers adding every under-covered service node onto
// every vehicle that can reach it, chosen by insertion feasibility
// alone (Schedule.AddPathToVehicleTour itself rejects infeasible
// insertions).
func (n Neighborhood) hitchHikingSwaps(s *schedule.Schedule, providers []formation.VehicleID) []Swap {
	nw := s.Network()
	var swaps []Swap
	for _, node := range nw.ServiceNodes() {
		demand := nw.Node(node).Demand
		if s.CoveredBy(node).Seats() >= demand {
			continue
		}
		for _, v := range providers {
			typ, err := s.TypeOf(v)
			if err != nil || typ != nw.Node(node).VehicleType {
				continue
			}
			swaps = append(swaps, AddTripForHitchHiking{Node: node, Vehicle: v})
		}
	}
	return swaps
}
