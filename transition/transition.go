package transition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
)

// ErrVehicleNotInTransition indicates an operation referenced a vehicle
// absent from this transition's cycle_lookup.
var ErrVehicleNotInTransition = errors.New("transition: vehicle not tracked")

// Counter is a cycle's maintenance counter: cumulative cycle distance
// in meters minus the maintenance-distance credit, signed because the
// credit may exceed the distance travelled.
type Counter int64

// Violation returns max(0, c): the amount by which the cycle exceeds
// its maintenance-distance limit.
func (c Counter) Violation() Counter {
	if c < 0 {
		return 0
	}
	return c
}

// Cycle is one closed rotation of a vehicle type's tours.
type Cycle struct {
	vehicles []formation.VehicleID
	counter  Counter
}

// Vehicles returns the cycle's members in rotation order. Callers must
// not mutate the returned slice.
func (c Cycle) Vehicles() []formation.VehicleID { return c.vehicles }

// Len returns the number of vehicles in the cycle.
func (c Cycle) Len() int { return len(c.vehicles) }

// Counter returns the cycle's cached maintenance counter.
func (c Cycle) Counter() Counter { return c.counter }

// Violation returns the cycle's maintenance-limit violation.
func (c Cycle) Violation() Counter { return c.counter.Violation() }

// IsEmpty reports whether the cycle has no members (a recycled slot).
func (c Cycle) IsEmpty() bool { return len(c.vehicles) == 0 }

func (c Cycle) String() string {
	ids := make([]string, len(c.vehicles))
	for i, v := range c.vehicles {
		ids[i] = string(v)
	}
	return fmt.Sprintf("Cycle: (%s), counter: %d", strings.Join(ids, ", "), c.counter)
}

// TourLookup resolves a vehicle's current tour; Schedule supplies this
// as a thin closure over its own tour map so Transition never needs to
// hold a copy of every tour.
type TourLookup func(formation.VehicleID) tour.Tour

// Transition is the immutable per-vehicle-type partition of vehicles
// into cycles. Every modifier returns a fresh Transition; the receiver
// is left untouched.
type Transition struct {
	vehicleType network.VehicleTypeIdx
	cycles      []Cycle
	lookup      map[formation.VehicleID]int
	free        []int

	totalViolation Counter
}

// NewEmpty returns a Transition for vt with no cycles.
func NewEmpty(vt network.VehicleTypeIdx) *Transition {
	return &Transition{vehicleType: vt, lookup: make(map[formation.VehicleID]int)}
}

// VehicleType returns the vehicle type this transition tracks.
func (tr *Transition) VehicleType() network.VehicleTypeIdx { return tr.vehicleType }

// Cycles returns every cycle, including empty (recycled) slots.
func (tr *Transition) Cycles() []Cycle { return tr.cycles }

// CycleOf returns the cycle index containing v.
func (tr *Transition) CycleOf(v formation.VehicleID) (int, error) {
	idx, ok := tr.lookup[v]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrVehicleNotInTransition, v)
	}
	return idx, nil
}

// TotalViolation sums every cycle's maintenance-limit violation.
func (tr *Transition) TotalViolation() Counter { return tr.totalViolation }

// clone returns a shallow copy of tr's mutable slices/maps, ready to be
// modified by a single operation before being returned to the caller.
func (tr *Transition) clone() *Transition {
	cycles := append([]Cycle(nil), tr.cycles...)
	lookup := make(map[formation.VehicleID]int, len(tr.lookup))
	for k, v := range tr.lookup {
		lookup[k] = v
	}
	free := append([]int(nil), tr.free...)
	return &Transition{
		vehicleType:    tr.vehicleType,
		cycles:         cycles,
		lookup:         lookup,
		free:           free,
		totalViolation: tr.totalViolation,
	}
}

// cycleCounter computes a cycle's maintenance counter from scratch:
// sum of every member tour's TotalDistance, plus the inter-tour bridge
// distances closing the loop, minus the maintenance-distance limit
// once if any tour in the cycle visits a maintenance node. Recomputing
// directly (rather than only by point deltas) trades a few extra
// distance additions for a counter that cannot drift out of sync with
// the tours it summarises.
func cycleCounter(vehicles []formation.VehicleID, lookup TourLookup, nw *network.Network, cfg *config.Config) Counter {
	if len(vehicles) == 0 {
		return 0
	}
	total := timeutil.ZeroDistance
	visitsMaintenance := false
	for i, v := range vehicles {
		t := lookup(v)
		total = total.Add(t.TotalDistance())
		if t.VisitsMaintenance() {
			visitsMaintenance = true
		}
		next := vehicles[(i+1)%len(vehicles)]
		endDepot, _ := t.EndDepot()
		startDepot, _ := lookup(next).StartDepot()
		total = total.Add(nw.DeadHeadDistanceBetween(endDepot, startDepot))
	}
	meters, ok := total.InMeters()
	counter := Counter(meters)
	if !ok {
		counter = Counter(1) << 40 // Infinity stand-in: always violates.
	}
	if visitsMaintenance {
		limitMeters, limitOK := cfg.Maintenance.MaximalDistance.InMeters()
		if limitOK {
			counter -= Counter(limitMeters)
		}
	}
	return counter
}

// rebuildCycle recomputes slot idx's counter in place on a cloned
// Transition and adjusts totalViolation by the delta.
func (tr *Transition) rebuildCycle(idx int, lookup TourLookup, nw *network.Network, cfg *config.Config) {
	old := tr.cycles[idx]
	counter := cycleCounter(old.vehicles, lookup, nw, cfg)
	tr.totalViolation += counter.Violation() - old.counter.Violation()
	tr.cycles[idx] = Cycle{vehicles: old.vehicles, counter: counter}
}

// AddVehicleToOwnCycle creates a new singleton cycle for v, reusing a
// recycled slot if one is available.
func (tr *Transition) AddVehicleToOwnCycle(v formation.VehicleID, t tour.Tour, nw *network.Network, cfg *config.Config) *Transition {
	next := tr.clone()
	lookup := func(formation.VehicleID) tour.Tour { return t }
	counter := cycleCounter([]formation.VehicleID{v}, lookup, nw, cfg)
	cycle := Cycle{vehicles: []formation.VehicleID{v}, counter: counter}

	if len(next.free) > 0 {
		idx := next.free[len(next.free)-1]
		next.free = next.free[:len(next.free)-1]
		next.cycles[idx] = cycle
		next.lookup[v] = idx
	} else {
		next.cycles = append(next.cycles, cycle)
		next.lookup[v] = len(next.cycles) - 1
	}
	next.totalViolation += counter.Violation()
	return next
}

// RemoveVehicle removes v from its cycle. tours must resolve every
// other member of the cycle to its current tour (typically the
// schedule's tour map minus v). If v was the cycle's only member, the
// slot is recycled; otherwise the cycle's counter is recomputed.
func (tr *Transition) RemoveVehicle(v formation.VehicleID, tours TourLookup, nw *network.Network, cfg *config.Config) (*Transition, error) {
	idx, ok := tr.lookup[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotInTransition, v)
	}
	next := tr.clone()
	old := next.cycles[idx]
	remaining := make([]formation.VehicleID, 0, len(old.vehicles)-1)
	for _, m := range old.vehicles {
		if m != v {
			remaining = append(remaining, m)
		}
	}
	if len(remaining) == 0 {
		next.totalViolation -= old.counter.Violation()
		next.cycles[idx] = Cycle{}
		next.free = append(next.free, idx)
	} else {
		counter := cycleCounter(remaining, tours, nw, cfg)
		next.totalViolation += counter.Violation() - old.counter.Violation()
		next.cycles[idx] = Cycle{vehicles: remaining, counter: counter}
	}
	delete(next.lookup, v)
	return next, nil
}

// AddVehicleAtEnd appends v to the end of cycleIdx's rotation. tours
// must resolve every member of the target cycle plus v itself to its
// current tour.
func (tr *Transition) AddVehicleAtEnd(v formation.VehicleID, cycleIdx int, tours TourLookup, nw *network.Network, cfg *config.Config) *Transition {
	next := tr.clone()
	old := next.cycles[cycleIdx]
	members := append(append([]formation.VehicleID(nil), old.vehicles...), v)
	wasEmpty := len(old.vehicles) == 0
	if wasEmpty {
		for i, f := range next.free {
			if f == cycleIdx {
				next.free = append(next.free[:i], next.free[i+1:]...)
				break
			}
		}
	}
	counter := cycleCounter(members, tours, nw, cfg)
	next.totalViolation += counter.Violation() - old.counter.Violation()
	next.cycles[cycleIdx] = Cycle{vehicles: members, counter: counter}
	next.lookup[v] = cycleIdx
	return next
}

// UpdateVehicle replaces v's tour with newTour in place, recomputing
// its cycle's counter. tours must resolve every other member of v's
// cycle to its current tour; v itself is taken from newTour.
func (tr *Transition) UpdateVehicle(v formation.VehicleID, newTour tour.Tour, tours TourLookup, nw *network.Network, cfg *config.Config) (*Transition, error) {
	idx, ok := tr.lookup[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotInTransition, v)
	}
	next := tr.clone()
	old := next.cycles[idx]
	lookup := func(id formation.VehicleID) tour.Tour {
		if id == v {
			return newTour
		}
		return tours(id)
	}
	counter := cycleCounter(old.vehicles, lookup, nw, cfg)
	next.totalViolation += counter.Violation() - old.counter.Violation()
	next.cycles[idx] = Cycle{vehicles: old.vehicles, counter: counter}
	return next, nil
}

// MoveVehicle removes v from its current cycle and appends it to the
// end of targetCycle. tours must resolve every vehicle that remains in
// play (every member of both cycles except v).
func (tr *Transition) MoveVehicle(v formation.VehicleID, targetCycle int, tours TourLookup, nw *network.Network, cfg *config.Config) (*Transition, error) {
	removed, err := tr.RemoveVehicle(v, tours, nw, cfg)
	if err != nil {
		return nil, err
	}
	lookup := func(id formation.VehicleID) tour.Tour {
		if id == v {
			return tours(v)
		}
		return tours(id)
	}
	return removed.AddVehicleAtEnd(v, targetCycle, lookup, nw, cfg), nil
}

// ThreeOpt performs a classical three-edge reversal within a single
// cycle at positions i < j < k, swapping the bridges (i,i+1), (j,j+1),
// (k,k+1) for (i,j+1), (j,k+1), (k,i+1), and recomputes that cycle's
// counter.
func (tr *Transition) ThreeOpt(cycleIdx, i, j, k int, tours TourLookup, nw *network.Network, cfg *config.Config) *Transition {
	next := tr.clone()
	old := next.cycles[cycleIdx]
	n := len(old.vehicles)
	newMembers := make([]formation.VehicleID, 0, n)
	newMembers = append(newMembers, old.vehicles[:i+1]...)
	newMembers = append(newMembers, old.vehicles[j+1:k+1]...)
	newMembers = append(newMembers, old.vehicles[i+1:j+1]...)
	newMembers = append(newMembers, old.vehicles[k+1:]...)

	counter := cycleCounter(newMembers, tours, nw, cfg)
	next.totalViolation += counter.Violation() - old.counter.Violation()
	next.cycles[cycleIdx] = Cycle{vehicles: newMembers, counter: counter}
	for _, v := range newMembers {
		next.lookup[v] = cycleIdx
	}
	return next
}

// RebuildAll recomputes every cycle's counter from the current tours,
// leaving cycle membership and ordering untouched. Used after a
// schedule modification rewrites several vehicles' tours at once
// (override_reassign, fit_reassign) where threading the change through
// one UpdateVehicle call per affected vehicle would need to re-derive
// the same per-cycle counter repeatedly.
func (tr *Transition) RebuildAll(tours TourLookup, nw *network.Network, cfg *config.Config) *Transition {
	next := tr.clone()
	var total Counter
	for idx, c := range next.cycles {
		if c.IsEmpty() {
			continue
		}
		counter := cycleCounter(c.vehicles, tours, nw, cfg)
		next.cycles[idx] = Cycle{vehicles: c.vehicles, counter: counter}
		total += counter.Violation()
	}
	next.totalViolation = total
	return next
}

// VerifyConsistency re-derives every cycle's counter and confirms the
// cached value and the lookup table agree, returning an error
// describing the first mismatch found.
func (tr *Transition) VerifyConsistency(tours TourLookup, nw *network.Network, cfg *config.Config) error {
	seen := make(map[formation.VehicleID]bool)
	var total Counter
	for idx, c := range tr.cycles {
		for _, v := range c.vehicles {
			if got, ok := tr.lookup[v]; !ok || got != idx {
				return fmt.Errorf("transition: cycle_lookup mismatch for %s", v)
			}
			if seen[v] {
				return fmt.Errorf("transition: vehicle %s appears in multiple cycles", v)
			}
			seen[v] = true
		}
		recomputed := cycleCounter(c.vehicles, tours, nw, cfg)
		if recomputed != c.counter {
			return fmt.Errorf("transition: cycle %d counter mismatch: cached %d, recomputed %d", idx, c.counter, recomputed)
		}
		total += recomputed.Violation()
	}
	if total != tr.totalViolation {
		return fmt.Errorf("transition: total violation mismatch: cached %d, recomputed %d", tr.totalViolation, total)
	}
	if len(seen) != len(tr.lookup) {
		return errors.New("transition: cycle_lookup has stale entries")
	}
	return nil
}
