package objective

import (
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/timeutil"
)

// UnservedPassengers counts, over every service trip, the passengers
// left uncovered by the train formation assigned to it: Σ max(0, demand -
// seats_covering).
type UnservedPassengers struct{}

func (UnservedPassengers) Name() string { return "unserved-passengers" }

func (UnservedPassengers) Evaluate(s *schedule.Schedule) BaseValue {
	nw := s.Network()
	var total int64
	for _, n := range nw.ServiceNodes() {
		node := nw.Node(n)
		covered := s.CoveredBy(n).Seats()
		if gap := node.Demand - covered; gap > 0 {
			total += int64(gap)
		}
	}
	return Integer(total)
}

// VehicleCount counts the real (non-dummy) vehicles in the schedule.
type VehicleCount struct{}

func (VehicleCount) Name() string { return "vehicle-count" }

func (VehicleCount) Evaluate(s *schedule.Schedule) BaseValue {
	return Integer(int64(len(s.Vehicles())))
}

// OverheadSeatDistance is Σ over vehicles of tour_distance*vehicle_seats
// minus Σ over service trips of trip_distance*passengers: the seat-
// kilometres operated in excess of what passenger demand required.
type OverheadSeatDistance struct{}

func (OverheadSeatDistance) Name() string { return "overhead-seat-distance" }

func (OverheadSeatDistance) Evaluate(s *schedule.Schedule) BaseValue {
	nw := s.Network()
	types := s.VehicleTypes()
	var supplied int64
	for _, v := range s.Vehicles() {
		vt, err := s.TypeOf(v)
		if err != nil {
			continue
		}
		t, err := s.TourOf(v)
		if err != nil {
			continue
		}
		meters, ok := t.TotalDistance().InMeters()
		if !ok {
			continue
		}
		supplied += meters * int64(types.Get(vt).Seats)
	}
	var required int64
	for _, n := range nw.ServiceNodes() {
		node := nw.Node(n)
		meters, ok := node.TravelDistance.InMeters()
		if !ok {
			continue
		}
		required += meters * int64(node.Demand)
	}
	return Integer(supplied - required)
}

// DeadHeadDistance sums every vehicle's dead-head (empty-running) tour
// distance.
type DeadHeadDistance struct{}

func (DeadHeadDistance) Name() string { return "dead-head-distance" }

func (DeadHeadDistance) Evaluate(s *schedule.Schedule) BaseValue {
	var total int64
	for _, v := range s.Vehicles() {
		t, err := s.TourOf(v)
		if err != nil {
			continue
		}
		meters, ok := t.DeadHeadDistance().InMeters()
		if ok {
			total += meters
		}
	}
	return Integer(total)
}

// IdleDuration sums the idle (waiting) time between consecutive non-depot
// nodes of every vehicle's tour.
type IdleDuration struct{}

func (IdleDuration) Name() string { return "idle-duration" }

func (IdleDuration) Evaluate(s *schedule.Schedule) BaseValue {
	nw := s.Network()
	total := timeutil.Zero
	for _, v := range s.Vehicles() {
		t, err := s.TourOf(v)
		if err != nil {
			continue
		}
		nodes := t.AllNodes()
		for i := 0; i+1 < len(nodes); i++ {
			if nw.Node(nodes[i]).IsDepot() || nw.Node(nodes[i+1]).IsDepot() {
				continue
			}
			total = total.Add(nw.IdleTimeBetween(nodes[i], nodes[i+1]))
		}
	}
	return DurationValue(total)
}

// MaintenanceBathtubCost penalises every vehicle type's transition cycles
// whose maintenance counter has exceeded the configured distance limit:
// Σ over vehicle types of that type's Transition.TotalViolation(),
// expressed in meters.
type MaintenanceBathtubCost struct{}

func (MaintenanceBathtubCost) Name() string { return "maintenance-violation" }

func (MaintenanceBathtubCost) Evaluate(s *schedule.Schedule) BaseValue {
	var total int64
	for _, vt := range s.VehicleTypes().Indices() {
		tr := s.TransitionOf(vt)
		if tr == nil {
			continue
		}
		total += int64(tr.TotalViolation())
	}
	return Integer(total)
}
