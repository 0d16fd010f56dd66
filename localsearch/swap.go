// Package localsearch implements the local-search engine: a
// neighbourhood of structural moves over a Schedule (path exchange,
// maintenance insertion, single-trip add/remove) and improvers that
// search that neighbourhood for a strictly better schedule,
// sequentially or raced in parallel via golang.org/x/sync/errgroup.
package localsearch

import (
	"fmt"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/tour"
)

// Swap is one elementary modification defining the local-search
// neighbourhood. Apply returns the resulting schedule and the
// "provider" vehicle the move pivoted on, used by the improver to
// reseed the next scan's rotational provider order so providers are
// iterated starting from the last successful one.
// A ConstraintViolation/NotFound error is recoverable: the
// caller simply treats this swap as infeasible and moves on.
type Swap interface {
	fmt.Stringer
	Apply(s *schedule.Schedule) (*schedule.Schedule, formation.VehicleID, error)
}

// improveAffected runs ImproveDepots over the vehicles a swap touched,
// mirroring every concrete swap's closing
// improve_depot_and_recompute_transitions call. An empty vehicle list
// is a deliberate no-op: schedule.ImproveDepots treats it as "every
// vehicle", which a single swap must never trigger.
func improveAffected(s *schedule.Schedule, vehicles []formation.VehicleID) (*schedule.Schedule, error) {
	ids := dedupExisting(s, vehicles)
	if len(ids) == 0 {
		return s, nil
	}
	return s.ImproveDepots(ids)
}

func dedupExisting(s *schedule.Schedule, vehicles []formation.VehicleID) []formation.VehicleID {
	seen := make(map[formation.VehicleID]bool, len(vehicles))
	out := make([]formation.VehicleID, 0, len(vehicles))
	for _, v := range vehicles {
		if v == "" || seen[v] || !s.IsVehicleOrDummy(v) || s.IsDummy(v) {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// PathExchange removes segment from provider's tour and inserts it
// into receiver's tour, displacing any conflicting receiver nodes into
// a fresh dummy. If provider survived the removal, an opportunistic
// fit_reassign re-parks as much of that dummy back onto provider as
// fits conflict-free; if provider was eliminated, a replacement
// vehicle of provider's type is spawned to carry the dummy instead.
type PathExchange struct {
	Segment  tour.Segment
	Provider formation.VehicleID
	Receiver formation.VehicleID
}

func (p PathExchange) String() string {
	return fmt.Sprintf("PathExchange %s from %s to %s", p.Segment, p.Provider, p.Receiver)
}

func (p PathExchange) Apply(s *schedule.Schedule) (*schedule.Schedule, formation.VehicleID, error) {
	providerWasVehicle := !s.IsDummy(p.Provider) && s.IsVehicleOrDummy(p.Provider)
	providerVT, providerTypeErr := s.TypeOf(p.Provider)

	first, newDummy, created, err := s.OverrideReassign(p.Segment, p.Provider, p.Receiver)
	if err != nil {
		return nil, "", err
	}

	var changed []formation.VehicleID
	if !s.IsDummy(p.Receiver) {
		changed = append(changed, p.Receiver)
	}

	providerSurvives := first.IsVehicleOrDummy(p.Provider)

	var result *schedule.Schedule
	switch {
	case !created:
		result = first
	case providerWasVehicle && !providerSurvives:
		if providerTypeErr != nil {
			return nil, "", providerTypeErr
		}
		next, newVehicle, err := first.SpawnVehicleToReplaceDummyTour(newDummy, providerVT)
		if err != nil {
			return nil, "", err
		}
		changed = append(changed, newVehicle)
		result = next
	case !providerWasVehicle && !providerSurvives:
		result = first
	default: // provider still present: try to re-park the dummy onto it
		changed = append(changed, p.Provider)
		dummyTour, err := first.TourOf(newDummy)
		if err != nil {
			return nil, "", err
		}
		next, _, err := first.FitReassign(tour.NewSegment(dummyTour.FirstNode(), dummyTour.LastNode()), newDummy, p.Provider)
		if err != nil {
			return nil, "", err
		}
		result = next
	}

	result, err = improveAffected(result, changed)
	if err != nil {
		return nil, "", err
	}
	return result, p.Provider, nil
}

// SpawnVehicleForMaintenance forces maintenanceSlot into vehicle's
// tour. If the slot is already at track-count capacity, its last
// current occupant is evicted first (the occupied node is simply
// dropped from the occupant's tour, left uncovered; no dummy is
// created for it).
type SpawnVehicleForMaintenance struct {
	Slot    network.NodeIdx
	Vehicle formation.VehicleID
}

func (m SpawnVehicleForMaintenance) String() string {
	return fmt.Sprintf("SpawnVehicleForMaintenance %d forced onto %s", m.Slot, m.Vehicle)
}

func (m SpawnVehicleForMaintenance) Apply(s *schedule.Schedule) (*schedule.Schedule, formation.VehicleID, error) {
	t, err := s.TourOf(m.Vehicle)
	if err != nil {
		return nil, "", err
	}
	if t.VisitsMaintenance() {
		return nil, "", fmt.Errorf("localsearch: vehicle %s already visits a maintenance slot", m.Vehicle)
	}

	occupants := s.CoveredBy(m.Slot).Iter()
	nw := s.Network()

	var changed []formation.VehicleID
	cur := s
	if len(occupants) >= nw.TrackCountOfMaintenanceSlot(m.Slot) {
		last := occupants[len(occupants)-1].ID
		next, err := cur.RemoveNode(last, m.Slot)
		if err != nil {
			return nil, "", err
		}
		cur = next
		if !cur.IsDummy(last) {
			changed = append(changed, last)
		}
	}

	next, conflict, err := cur.AddPathToVehicleTour(m.Vehicle, tour.NewSingleNodePath(m.Slot, nw))
	if err != nil {
		return nil, "", err
	}
	changed = append(changed, m.Vehicle)
	cur = next

	if !conflict.IsEmpty() {
		vt, err := cur.TypeOf(m.Vehicle)
		if err != nil {
			return nil, "", err
		}
		spawned, newVehicle, err := cur.SpawnVehicleForPath(vt, conflict.Nodes())
		if err != nil {
			return nil, "", err
		}
		changed = append(changed, newVehicle)
		cur = spawned
	}

	cur, err = improveAffected(cur, changed)
	if err != nil {
		return nil, "", err
	}
	return cur, m.Vehicle, nil
}

// AddTripForHitchHiking inserts a single uncovered service node into
// vehicle's tour, if can_reach permits it at that position.
type AddTripForHitchHiking struct {
	Node    network.NodeIdx
	Vehicle formation.VehicleID
}

func (a AddTripForHitchHiking) String() string {
	return fmt.Sprintf("AddTripForHitchHiking %d onto %s", a.Node, a.Vehicle)
}

func (a AddTripForHitchHiking) Apply(s *schedule.Schedule) (*schedule.Schedule, formation.VehicleID, error) {
	next, _, err := s.AddPathToVehicleTour(a.Vehicle, tour.NewSingleNodePath(a.Node, s.Network()))
	if err != nil {
		return nil, "", err
	}
	next, err = improveAffected(next, []formation.VehicleID{a.Vehicle})
	if err != nil {
		return nil, "", err
	}
	return next, a.Vehicle, nil
}

// RemoveSingleNode drops a single non-depot node from vehicle's tour,
// leaving it uncovered.
type RemoveSingleNode struct {
	Node    network.NodeIdx
	Vehicle formation.VehicleID
}

func (r RemoveSingleNode) String() string {
	return fmt.Sprintf("RemoveSingleNode %d from %s", r.Node, r.Vehicle)
}

func (r RemoveSingleNode) Apply(s *schedule.Schedule) (*schedule.Schedule, formation.VehicleID, error) {
	next, err := s.RemoveNode(r.Vehicle, r.Node)
	if err != nil {
		return nil, "", err
	}
	next, err = improveAffected(next, []formation.VehicleID{r.Vehicle})
	if err != nil {
		return nil, "", err
	}
	return next, r.Vehicle, nil
}
