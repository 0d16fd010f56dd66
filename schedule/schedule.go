package schedule

import (
	"fmt"
	"sort"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
	"github.com/railsched/railsched/transition"
	"github.com/railsched/railsched/vehicletype"
)

// depotKey indexes a (depot, vehicle-type) balance bucket.
type depotKey struct {
	Depot network.DepotIdx
	Type  network.VehicleTypeIdx
}

// Schedule is the persistent aggregate of every vehicle, tour, train
// formation, depot balance and per-type transition making up one
// candidate rolling-stock assignment.
type Schedule struct {
	vehicles map[formation.VehicleID]formation.Vehicle

	tours      map[formation.VehicleID]tour.Tour // real vehicles
	dummyTours map[formation.VehicleID]tour.Tour // dummy placeholders

	trainFormations map[network.NodeIdx]formation.TrainFormation

	depotUsage map[depotKey]int

	transitions map[network.VehicleTypeIdx]*transition.Transition

	vehicleIDsSorted []formation.VehicleID
	dummyIDsSorted   []formation.VehicleID
	vehicleCounter   int
	dummyCounter     int

	nw    *network.Network
	types *vehicletype.Table
	cfg   *config.Config
}

// New returns an empty Schedule over nw/types/cfg, with one empty
// train formation per node and one empty Transition per vehicle type.
func New(nw *network.Network, types *vehicletype.Table, cfg *config.Config) *Schedule {
	s := &Schedule{
		vehicles:        make(map[formation.VehicleID]formation.Vehicle),
		tours:           make(map[formation.VehicleID]tour.Tour),
		dummyTours:      make(map[formation.VehicleID]tour.Tour),
		trainFormations: make(map[network.NodeIdx]formation.TrainFormation),
		depotUsage:      make(map[depotKey]int),
		transitions:     make(map[network.VehicleTypeIdx]*transition.Transition),
		nw:              nw,
		types:           types,
		cfg:             cfg,
	}
	for i := 0; i < nw.Size(); i++ {
		s.trainFormations[network.NodeIdx(i)] = formation.Empty(types)
	}
	for _, vt := range types.Indices() {
		s.transitions[vt] = transition.NewEmpty(vt)
	}
	return s
}

// clone returns a copy of s, ready for a single modifier to change
// before returning it. Every top-level map is copied; the Tour and
// TrainFormation values in them stay shared with the source schedule.
func (s *Schedule) clone() *Schedule {
	vehicles := make(map[formation.VehicleID]formation.Vehicle, len(s.vehicles))
	for k, v := range s.vehicles {
		vehicles[k] = v
	}
	tours := make(map[formation.VehicleID]tour.Tour, len(s.tours))
	for k, v := range s.tours {
		tours[k] = v
	}
	dummyTours := make(map[formation.VehicleID]tour.Tour, len(s.dummyTours))
	for k, v := range s.dummyTours {
		dummyTours[k] = v
	}
	formations := make(map[network.NodeIdx]formation.TrainFormation, len(s.trainFormations))
	for k, v := range s.trainFormations {
		formations[k] = v
	}
	depotUsage := make(map[depotKey]int, len(s.depotUsage))
	for k, v := range s.depotUsage {
		depotUsage[k] = v
	}
	transitions := make(map[network.VehicleTypeIdx]*transition.Transition, len(s.transitions))
	for k, v := range s.transitions {
		transitions[k] = v
	}
	return &Schedule{
		vehicles:         vehicles,
		tours:            tours,
		dummyTours:       dummyTours,
		trainFormations:  formations,
		depotUsage:       depotUsage,
		transitions:      transitions,
		vehicleIDsSorted: append([]formation.VehicleID(nil), s.vehicleIDsSorted...),
		dummyIDsSorted:   append([]formation.VehicleID(nil), s.dummyIDsSorted...),
		vehicleCounter:   s.vehicleCounter,
		dummyCounter:     s.dummyCounter,
		nw:               s.nw,
		types:            s.types,
		cfg:              s.cfg,
	}
}

// Network returns the shared network context.
func (s *Schedule) Network() *network.Network { return s.nw }

// VehicleTypes returns the shared vehicle-type table.
func (s *Schedule) VehicleTypes() *vehicletype.Table { return s.types }

// Config returns the shared solver configuration.
func (s *Schedule) Config() *config.Config { return s.cfg }

// Vehicles returns every real vehicle id, sorted.
func (s *Schedule) Vehicles() []formation.VehicleID { return s.vehicleIDsSorted }

// DummyVehicles returns every dummy vehicle id, sorted.
func (s *Schedule) DummyVehicles() []formation.VehicleID { return s.dummyIDsSorted }

// TourOf returns the tour of a real or dummy vehicle.
func (s *Schedule) TourOf(v formation.VehicleID) (tour.Tour, error) {
	if t, ok := s.tours[v]; ok {
		return t, nil
	}
	if t, ok := s.dummyTours[v]; ok {
		return t, nil
	}
	return tour.Tour{}, fmt.Errorf("%w: %s", ErrVehicleNotFound, v)
}

// IsDummy reports whether v is a dummy vehicle.
func (s *Schedule) IsDummy(v formation.VehicleID) bool {
	_, ok := s.dummyTours[v]
	return ok
}

// IsVehicleOrDummy reports whether v is present as either a real or
// dummy vehicle.
func (s *Schedule) IsVehicleOrDummy(v formation.VehicleID) bool {
	if _, ok := s.tours[v]; ok {
		return true
	}
	_, ok := s.dummyTours[v]
	return ok
}

// TypeOf returns the vehicle type of a real vehicle (dummies have no type).
func (s *Schedule) TypeOf(v formation.VehicleID) (network.VehicleTypeIdx, error) {
	vh, ok := s.vehicles[v]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrVehicleNotFound, v)
	}
	return vh.Type, nil
}

// CoveredBy returns the train formation currently covering node.
func (s *Schedule) CoveredBy(node network.NodeIdx) formation.TrainFormation {
	return s.trainFormations[node]
}

// TransitionOf returns the Transition tracking vt's cycles.
func (s *Schedule) TransitionOf(vt network.VehicleTypeIdx) *transition.Transition {
	return s.transitions[vt]
}

// DepotBalance returns the usage count for (depot, type): each real
// vehicle of that type adds one for a tour starting at the depot and
// one for a tour ending there, so a vehicle leaving from and returning
// to the same depot counts twice. It is not a spawned-minus-despawned
// balance.
func (s *Schedule) DepotBalance(d network.DepotIdx, vt network.VehicleTypeIdx) int {
	return s.depotUsage[depotKey{d, vt}]
}

// tourLookupAll resolves any vehicle id (real or dummy) to its tour;
// used as a transition.TourLookup.
func (s *Schedule) tourLookupAll(v formation.VehicleID) tour.Tour {
	if t, ok := s.tours[v]; ok {
		return t
	}
	return s.dummyTours[v]
}

func insertSorted(ids []formation.VehicleID, id formation.VehicleID) []formation.VehicleID {
	pos := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	ids = append(ids, "")
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	return ids
}

func removeSorted(ids []formation.VehicleID, id formation.VehicleID) []formation.VehicleID {
	pos := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if pos < len(ids) && ids[pos] == id {
		ids = append(ids[:pos], ids[pos+1:]...)
	}
	return ids
}

// depotNodeFor returns the NodeIdx of the start- (or end-) depot node
// belonging to d, scanning the network's depot node list. Fails if no
// such node exists.
func depotNodeFor(nw *network.Network, d network.DepotIdx, kind network.NodeKind) (network.NodeIdx, error) {
	for _, idx := range nw.DepotNodes() {
		n := nw.Node(idx)
		if n.Kind == kind && n.DepotIdx == d {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: depot %d has no %s node", ErrNotADepotNode, d, kind)
}

// nearestStartDepot returns the start-depot of vt with spare capacity
// closest (by dead-head time) to loc.
func (s *Schedule) nearestStartDepot(vt network.VehicleTypeIdx, loc network.LocationIdx) (network.DepotIdx, bool) {
	best := -1
	bestTime := timeutil.Infinity
	for _, d := range s.nw.Depots() {
		cap, ok := d.CapacityFor(vt)
		if !ok {
			continue
		}
		if cap >= 0 && s.DepotBalance(d.ID, vt) >= cap {
			continue
		}
		t := s.nw.Locations().TravelTime(d.Location, loc)
		if t.Less(bestTime) {
			bestTime = t
			best = int(d.ID)
		}
	}
	if best < 0 {
		return 0, false
	}
	return network.DepotIdx(best), true
}

// nearestEndDepot is the symmetric counterpart of nearestStartDepot
// for despawning.
func (s *Schedule) nearestEndDepot(vt network.VehicleTypeIdx, loc network.LocationIdx) (network.DepotIdx, bool) {
	best := -1
	bestTime := timeutil.Infinity
	for _, d := range s.nw.Depots() {
		cap, ok := d.CapacityFor(vt)
		if !ok {
			continue
		}
		if cap >= 0 && s.DepotBalance(d.ID, vt) >= cap {
			continue
		}
		t := s.nw.Locations().TravelTime(loc, d.Location)
		if t.Less(bestTime) {
			bestTime = t
			best = int(d.ID)
		}
	}
	if best < 0 {
		return 0, false
	}
	return network.DepotIdx(best), true
}
