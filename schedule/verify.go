package schedule

import (
	"fmt"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
)

// VerifyConsistency re-derives every structural invariant a Schedule
// must maintain and returns the first violation found, wrapped in
// ErrInconsistent:
//
//   - every real vehicle has exactly one tour, every dummy vehicle
//     has exactly one dummy tour, and the two id sets are disjoint;
//   - vehicleIDsSorted/dummyIDsSorted exactly match the tours/dummyTours
//     key sets and are sorted;
//   - every node appears in the train formation of every vehicle whose
//     tour visits it, and in no other vehicle's formation;
//   - depotUsage[d][vt] equals the number of real vehicles of type vt
//     whose tour starts at depot d plus the number whose tour ends
//     there, and never exceeds capacity;
//   - every depot balance is non-negative;
//   - each vehicle type's Transition tracks exactly that type's real
//     vehicle ids, with no gaps or duplicates;
//   - every real tour starts and ends with a depot node of the vehicle's
//     own allowed set, every dummy tour is non-empty.
func (s *Schedule) VerifyConsistency() error {
	if err := s.verifyIDSets(); err != nil {
		return err
	}
	if err := s.verifyFormations(); err != nil {
		return err
	}
	if err := s.verifyDepotBalances(); err != nil {
		return err
	}
	if err := s.verifyTours(); err != nil {
		return err
	}
	for vt, tr := range s.transitions {
		if err := tr.VerifyConsistency(s.tourLookupAll, s.nw, s.cfg); err != nil {
			return fmt.Errorf("%w: type %d: %v", ErrInconsistent, vt, err)
		}
		tracked := make(map[string]bool)
		for _, c := range tr.Cycles() {
			for _, v := range c.Vehicles() {
				tracked[string(v)] = true
			}
		}
		for v, vh := range s.vehicles {
			if vh.Type != vt {
				continue
			}
			if !tracked[string(v)] {
				return fmt.Errorf("%w: vehicle %s missing from type %d's transition", ErrInconsistent, v, vt)
			}
		}
		for id := range tracked {
			vh, ok := s.vehicles[formation.VehicleID(id)]
			if !ok || vh.Type != vt {
				return fmt.Errorf("%w: transition for type %d tracks stray vehicle %s", ErrInconsistent, vt, id)
			}
		}
	}
	return nil
}

func (s *Schedule) verifyIDSets() error {
	if len(s.tours) != len(s.vehicles) {
		return fmt.Errorf("%w: %d tours but %d vehicles", ErrInconsistent, len(s.tours), len(s.vehicles))
	}
	for v := range s.tours {
		if _, ok := s.vehicles[v]; !ok {
			return fmt.Errorf("%w: tour for unknown vehicle %s", ErrInconsistent, v)
		}
		if _, ok := s.dummyTours[v]; ok {
			return fmt.Errorf("%w: %s is both a real and a dummy vehicle", ErrInconsistent, v)
		}
	}
	if len(s.vehicleIDsSorted) != len(s.tours) {
		return fmt.Errorf("%w: vehicleIDsSorted has %d entries, tours has %d", ErrInconsistent, len(s.vehicleIDsSorted), len(s.tours))
	}
	for i, id := range s.vehicleIDsSorted {
		if _, ok := s.tours[id]; !ok {
			return fmt.Errorf("%w: vehicleIDsSorted references unknown vehicle %s", ErrInconsistent, id)
		}
		if i > 0 && s.vehicleIDsSorted[i-1] >= id {
			return fmt.Errorf("%w: vehicleIDsSorted not strictly sorted at %d", ErrInconsistent, i)
		}
	}
	if len(s.dummyIDsSorted) != len(s.dummyTours) {
		return fmt.Errorf("%w: dummyIDsSorted has %d entries, dummyTours has %d", ErrInconsistent, len(s.dummyIDsSorted), len(s.dummyTours))
	}
	for i, id := range s.dummyIDsSorted {
		if _, ok := s.dummyTours[id]; !ok {
			return fmt.Errorf("%w: dummyIDsSorted references unknown dummy %s", ErrInconsistent, id)
		}
		if i > 0 && s.dummyIDsSorted[i-1] >= id {
			return fmt.Errorf("%w: dummyIDsSorted not strictly sorted at %d", ErrInconsistent, i)
		}
	}
	return nil
}

func (s *Schedule) verifyFormations() error {
	expected := make(map[network.NodeIdx]map[string]bool)
	record := func(v string, t interface{ AllNodes() []network.NodeIdx }) {
		for _, n := range t.AllNodes() {
			if s.nw.Node(n).IsDepot() {
				continue
			}
			if expected[n] == nil {
				expected[n] = make(map[string]bool)
			}
			expected[n][v] = true
		}
	}
	for v, t := range s.tours {
		record(string(v), t)
	}
	for v, t := range s.dummyTours {
		record(string(v), t)
	}
	for n, f := range s.trainFormations {
		seen := make(map[string]bool)
		for _, u := range f.Iter() {
			seen[string(u.ID)] = true
		}
		want := expected[n]
		for id := range want {
			if !seen[id] {
				return fmt.Errorf("%w: node %d missing vehicle %s from its formation", ErrInconsistent, n, id)
			}
		}
		for id := range seen {
			if !want[id] {
				return fmt.Errorf("%w: node %d has stray vehicle %s in its formation", ErrInconsistent, n, id)
			}
		}
	}
	return nil
}

func (s *Schedule) verifyDepotBalances() error {
	counted := make(map[depotKey]int)
	for v, t := range s.tours {
		vt, err := s.TypeOf(v)
		if err != nil {
			return err
		}
		if start, ok := t.StartDepot(); ok {
			counted[depotKey{s.nw.Node(start).DepotIdx, vt}]++
		}
		if end, ok := t.EndDepot(); ok {
			counted[depotKey{s.nw.Node(end).DepotIdx, vt}]++
		}
	}
	for k, want := range counted {
		if got := s.depotUsage[k]; got != want {
			return fmt.Errorf("%w: depot %d type %d balance is %d, expected %d", ErrInconsistent, k.Depot, k.Type, got, want)
		}
	}
	for k, got := range s.depotUsage {
		if got < 0 {
			return fmt.Errorf("%w: depot %d type %d has negative balance %d", ErrInconsistent, k.Depot, k.Type, got)
		}
		cap, ok := s.nw.Depot(k.Depot).CapacityFor(k.Type)
		if !ok {
			return fmt.Errorf("%w: depot %d has usage for disallowed type %d", ErrInconsistent, k.Depot, k.Type)
		}
		if cap >= 0 && got > cap {
			return fmt.Errorf("%w: depot %d type %d balance %d exceeds capacity %d", ErrInconsistent, k.Depot, k.Type, got, cap)
		}
	}
	return nil
}

func (s *Schedule) verifyTours() error {
	for v, t := range s.tours {
		if t.IsDummy() {
			return fmt.Errorf("%w: real vehicle %s has a dummy tour", ErrInconsistent, v)
		}
		if _, ok := t.StartDepot(); !ok {
			return fmt.Errorf("%w: vehicle %s's tour has no start depot", ErrInconsistent, v)
		}
		if _, ok := t.EndDepot(); !ok {
			return fmt.Errorf("%w: vehicle %s's tour has no end depot", ErrInconsistent, v)
		}
	}
	for v, t := range s.dummyTours {
		if !t.IsDummy() {
			return fmt.Errorf("%w: dummy %s has a non-dummy tour", ErrInconsistent, v)
		}
		if t.Len() == 0 {
			return fmt.Errorf("%w: dummy %s has an empty tour", ErrInconsistent, v)
		}
	}
	return nil
}
