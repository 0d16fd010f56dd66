package schedule

import (
	"fmt"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/tour"
)

// SpawnVehicleForPath allocates a fresh vehicle of the given type
// covering nodes. If nodes does not start (end) with a depot, the
// nearest available start- (end-) depot is prepended (appended); it
// fails if no depot has spare capacity.
func (s *Schedule) SpawnVehicleForPath(vt network.VehicleTypeIdx, nodes []network.NodeIdx) (*Schedule, formation.VehicleID, error) {
	nodes = append([]network.NodeIdx(nil), nodes...)

	if !s.nw.Node(nodes[0]).IsDepot() {
		firstLoc := s.nw.Node(nodes[0]).StartLocation
		d, ok := s.nearestStartDepot(vt, firstLoc)
		if !ok {
			return nil, "", fmt.Errorf("%w: no start depot for vehicle type %d", ErrNoDepotAvailable, vt)
		}
		startNode, err := depotNodeFor(s.nw, d, network.StartDepot)
		if err != nil {
			return nil, "", err
		}
		nodes = append([]network.NodeIdx{startNode}, nodes...)
	} else if err := s.checkDepotCapacity(s.nw.Node(nodes[0]).DepotIdx, vt); err != nil {
		return nil, "", err
	}

	last := len(nodes) - 1
	if !s.nw.Node(nodes[last]).IsDepot() {
		lastLoc := s.nw.Node(nodes[last]).EndLocation
		d, ok := s.nearestEndDepot(vt, lastLoc)
		if !ok {
			return nil, "", fmt.Errorf("%w: no end depot for vehicle type %d", ErrNoDepotAvailable, vt)
		}
		endNode, err := depotNodeFor(s.nw, d, network.EndDepot)
		if err != nil {
			return nil, "", err
		}
		nodes = append(nodes, endNode)
	} else if err := s.checkDepotCapacity(s.nw.Node(nodes[last]).DepotIdx, vt); err != nil {
		return nil, "", err
	}

	newTour, err := tour.New(nodes, s.nw)
	if err != nil {
		return nil, "", err
	}

	next := s.clone()
	id := formation.VehicleID(fmt.Sprintf("vehicle%05d", next.vehicleCounter))
	next.vehicleCounter++

	next.vehicles[id] = formation.Vehicle{ID: id, Type: vt}
	next.tours[id] = newTour
	next.vehicleIDsSorted = insertSorted(next.vehicleIDsSorted, id)

	for _, n := range newTour.AllNodes() {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		next.trainFormations[n] = next.trainFormations[n].AddAtTail(next.vehicles[id])
	}

	startDepot, _ := newTour.StartDepot()
	endDepot, _ := newTour.EndDepot()
	next.depotUsage[depotKey{s.nw.Node(startDepot).DepotIdx, vt}]++
	next.depotUsage[depotKey{s.nw.Node(endDepot).DepotIdx, vt}]++

	next.transitions[vt] = next.transitions[vt].AddVehicleToOwnCycle(id, newTour, s.nw, s.cfg)

	return next, id, nil
}

// checkDepotCapacity fails if d has no spare capacity for vt.
func (s *Schedule) checkDepotCapacity(d network.DepotIdx, vt network.VehicleTypeIdx) error {
	cap, ok := s.nw.Depot(d).CapacityFor(vt)
	if !ok || (cap >= 0 && s.DepotBalance(d, vt) >= cap) {
		return fmt.Errorf("%w: depot %d for type %d", ErrDepotAtCapacity, d, vt)
	}
	return nil
}

// DeleteVehicle removes v (which must be real) and its tour from the
// schedule entirely.
func (s *Schedule) DeleteVehicle(v formation.VehicleID) (*Schedule, error) {
	if s.IsDummy(v) {
		return nil, fmt.Errorf("%w: %s", ErrDummyVehicle, v)
	}
	old, ok := s.tours[v]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, v)
	}
	vt, err := s.TypeOf(v)
	if err != nil {
		return nil, err
	}

	next := s.clone()
	delete(next.vehicles, v)
	delete(next.tours, v)
	next.vehicleIDsSorted = removeSorted(next.vehicleIDsSorted, v)

	for _, n := range old.AllNodes() {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		f, err := next.trainFormations[n].Remove(v)
		if err != nil {
			return nil, err
		}
		next.trainFormations[n] = f
	}

	startDepot, _ := old.StartDepot()
	endDepot, _ := old.EndDepot()
	next.depotUsage[depotKey{s.nw.Node(startDepot).DepotIdx, vt}]--
	next.depotUsage[depotKey{s.nw.Node(endDepot).DepotIdx, vt}]--

	tr, rErr := next.transitions[vt].RemoveVehicle(v, next.tourLookupAll, s.nw, s.cfg)
	if rErr != nil {
		return nil, rErr
	}
	next.transitions[vt] = tr

	return next, nil
}

// ReplaceVehicleByDummy converts a real vehicle's non-depot portion
// into a fresh dummy tour and deletes the vehicle.
func (s *Schedule) ReplaceVehicleByDummy(v formation.VehicleID) (*Schedule, formation.VehicleID, error) {
	if s.IsDummy(v) {
		return nil, "", fmt.Errorf("%w: %s", ErrDummyVehicle, v)
	}
	old, ok := s.tours[v]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrVehicleNotFound, v)
	}

	interior := append([]network.NodeIdx(nil), old.AllNodes()[1:old.Len()-1]...)
	path, err := tour.NewPath(interior, s.nw)
	if err != nil {
		return nil, "", err
	}
	dummyTour := tour.NewDummyByPath(path, s.nw)

	next, err := s.DeleteVehicle(v)
	if err != nil {
		return nil, "", err
	}

	id := formation.VehicleID(fmt.Sprintf("dummy%05d", next.dummyCounter))
	next.dummyCounter++
	next.dummyTours[id] = dummyTour
	next.dummyIDsSorted = insertSorted(next.dummyIDsSorted, id)
	for _, n := range dummyTour.AllNodes() {
		next.trainFormations[n] = next.trainFormations[n].AddAtTail(formation.Vehicle{ID: id})
	}
	return next, id, nil
}

// vehicleValue returns the formation.Vehicle value for v, zero-valued
// (a bare ID with no type) if v is a dummy.
func (s *Schedule) vehicleValue(v formation.VehicleID) formation.Vehicle {
	if vh, ok := s.vehicles[v]; ok {
		return vh
	}
	return formation.Vehicle{ID: v}
}

// AddPathToVehicleTour inserts path into v's tour, replacing v's
// start/end depot if path itself begins/ends with a different one
// (failing if the new depot has no spare capacity). Returns the
// schedule plus any path displaced by the insertion (empty if none).
func (s *Schedule) AddPathToVehicleTour(v formation.VehicleID, path tour.Path) (*Schedule, tour.Path, error) {
	old, err := s.TourOf(v)
	if err != nil {
		return nil, tour.Path{}, err
	}

	isDummy := s.IsDummy(v)
	var vt network.VehicleTypeIdx
	if !isDummy {
		vt, err = s.TypeOf(v)
		if err != nil {
			return nil, tour.Path{}, err
		}
	}

	next := s.clone()

	var oldStart, oldEnd network.NodeIdx
	if !isDummy {
		oldStart, _ = old.StartDepot()
		oldEnd, _ = old.EndDepot()
	}

	newTour, displaced, err := old.Insert(path)
	if err != nil {
		return nil, tour.Path{}, err
	}

	if !isDummy {
		if err := next.swapDepotIfChanged(oldStart, newTour.FirstNode(), vt); err != nil {
			return nil, tour.Path{}, err
		}
		if err := next.swapDepotIfChanged(oldEnd, newTour.LastNode(), vt); err != nil {
			return nil, tour.Path{}, err
		}
	}

	for _, n := range path.Nodes() {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		next.trainFormations[n] = next.trainFormations[n].AddAtTail(next.vehicleValue(v))
	}
	if !displaced.IsEmpty() {
		for _, n := range displaced.Nodes() {
			if next.nw.Node(n).IsDepot() {
				continue
			}
			if f, rErr := next.trainFormations[n].Remove(v); rErr == nil {
				next.trainFormations[n] = f
			}
		}
	}

	if isDummy {
		next.dummyTours[v] = newTour
	} else {
		next.tours[v] = newTour
		tr, tErr := next.transitions[vt].UpdateVehicle(v, newTour, next.tourLookupAll, next.nw, next.cfg)
		if tErr != nil {
			return nil, tour.Path{}, tErr
		}
		next.transitions[vt] = tr
	}

	return next, displaced, nil
}

// RemoveNode removes a single non-depot node from v's tour, discarding
// it rather than parking it in a dummy (unlike OverrideReassign and
// ReplaceVehicleByDummy); the node simply becomes uncovered. Fails if
// v does not contain node, or if the gap it leaves breaks can_reach on
// either side (Tour.Remove's own invariants). Removing v's only
// non-depot node succeeds and leaves its tour with just its two depots.
func (s *Schedule) RemoveNode(v formation.VehicleID, node network.NodeIdx) (*Schedule, error) {
	old, err := s.TourOf(v)
	if err != nil {
		return nil, err
	}
	shrunk, removed, err := old.Remove(tour.NewSegment(node, node))
	if err != nil {
		return nil, err
	}

	isDummy := s.IsDummy(v)
	var vt network.VehicleTypeIdx
	if !isDummy {
		vt, err = s.TypeOf(v)
		if err != nil {
			return nil, err
		}
	}

	next := s.clone()
	for _, n := range removed.Nodes() {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		if f, rErr := next.trainFormations[n].Remove(v); rErr == nil {
			next.trainFormations[n] = f
		}
	}

	if shrunk.Len() == 0 {
		// only reachable for dummy tours: a non-dummy tour can never be
		// emptied by removing a single node (Tour.Remove forbids it).
		delete(next.dummyTours, v)
		next.dummyIDsSorted = removeSorted(next.dummyIDsSorted, v)
		return next, nil
	}

	if isDummy {
		next.dummyTours[v] = shrunk
		return next, nil
	}

	next.tours[v] = shrunk
	tr, tErr := next.transitions[vt].UpdateVehicle(v, shrunk, next.tourLookupAll, next.nw, next.cfg)
	if tErr != nil {
		return nil, tErr
	}
	next.transitions[vt] = tr
	return next, nil
}

// swapDepotIfChanged adjusts depot balances when a tour's start or end
// node moved from oldNode's depot to newNode's depot, failing if the
// new depot has no spare capacity. A no-op if the two nodes belong to
// the same depot (or neither is a depot node).
func (s *Schedule) swapDepotIfChanged(oldNode, newNode network.NodeIdx, vt network.VehicleTypeIdx) error {
	if !s.nw.Node(newNode).IsDepot() || oldNode == newNode {
		return nil
	}
	newD := s.nw.Node(newNode).DepotIdx
	oldD := s.nw.Node(oldNode).DepotIdx
	if newD == oldD {
		return nil
	}
	if err := s.checkDepotCapacity(newD, vt); err != nil {
		return err
	}
	s.depotUsage[depotKey{oldD, vt}]--
	s.depotUsage[depotKey{newD, vt}]++
	return nil
}

// SpawnVehicleToReplaceDummyTour spawns a vehicle of vt covering
// exactly the dummy's nodes, then deletes the dummy.
func (s *Schedule) SpawnVehicleToReplaceDummyTour(dummy formation.VehicleID, vt network.VehicleTypeIdx) (*Schedule, formation.VehicleID, error) {
	dummyTour, ok := s.dummyTours[dummy]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrVehicleNotFound, dummy)
	}
	next, id, err := s.SpawnVehicleForPath(vt, dummyTour.AllNodes())
	if err != nil {
		return nil, "", err
	}
	for _, n := range dummyTour.AllNodes() {
		if f, rErr := next.trainFormations[n].Remove(dummy); rErr == nil {
			next.trainFormations[n] = f
		}
	}
	delete(next.dummyTours, dummy)
	next.dummyIDsSorted = removeSorted(next.dummyIDsSorted, dummy)
	return next, id, nil
}

// OverrideReassign removes segment from provider's tour and inserts it
// into receiver's tour, displacing any conflicting nodes of receiver
// into a freshly created dummy tour. Returns the new dummy's id and
// true if one was created.
func (s *Schedule) OverrideReassign(segment tour.Segment, provider, receiver formation.VehicleID) (*Schedule, formation.VehicleID, bool, error) {
	tourProvider, err := s.TourOf(provider)
	if err != nil {
		return nil, "", false, err
	}
	tourReceiver, err := s.TourOf(receiver)
	if err != nil {
		return nil, "", false, err
	}

	shrunkProvider, movedPath, err := tourProvider.Remove(segment)
	if err != nil {
		return nil, "", false, err
	}
	newTourReceiver, replacedPath, err := tourReceiver.Insert(movedPath)
	if err != nil {
		return nil, "", false, err
	}

	next := s.clone()
	receiverVehicle := next.vehicleValue(receiver)
	for _, n := range movedPath.Nodes() {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		if f, rErr := next.trainFormations[n].Replace(provider, receiverVehicle); rErr == nil {
			next.trainFormations[n] = f
		} else {
			next.trainFormations[n] = next.trainFormations[n].AddAtTail(receiverVehicle)
		}
	}

	providerWasDummy := next.IsDummy(provider)
	var providerVT network.VehicleTypeIdx
	if !providerWasDummy {
		providerVT, _ = next.TypeOf(provider)
	}
	providerSurvives := !providerWasDummy || shrunkProvider.Len() > 0

	if providerSurvives {
		if providerWasDummy {
			next.dummyTours[provider] = shrunkProvider
		} else {
			next.tours[provider] = shrunkProvider
		}
	} else {
		delete(next.dummyTours, provider)
		next.dummyIDsSorted = removeSorted(next.dummyIDsSorted, provider)
	}

	receiverWasDummy := next.IsDummy(receiver)
	if receiverWasDummy {
		next.dummyTours[receiver] = newTourReceiver
	} else {
		next.tours[receiver] = newTourReceiver
	}

	var newDummy formation.VehicleID
	createdDummy := false
	if !replacedPath.IsEmpty() {
		createdDummy = true
		newDummy = formation.VehicleID(fmt.Sprintf("dummy%05d", next.dummyCounter))
		next.dummyCounter++
		for _, n := range replacedPath.Nodes() {
			if next.nw.Node(n).IsDepot() {
				continue
			}
			if f, rErr := next.trainFormations[n].Replace(receiver, formation.Vehicle{ID: newDummy}); rErr == nil {
				next.trainFormations[n] = f
			} else {
				next.trainFormations[n] = next.trainFormations[n].AddAtTail(formation.Vehicle{ID: newDummy})
			}
		}
		next.dummyTours[newDummy] = tour.NewDummyByPath(replacedPath, next.nw)
		next.dummyIDsSorted = insertSorted(next.dummyIDsSorted, newDummy)
	}

	touchedTypes := make(map[network.VehicleTypeIdx]bool)
	if !providerWasDummy && providerSurvives {
		touchedTypes[providerVT] = true
	}
	if !receiverWasDummy {
		rvt, _ := next.TypeOf(receiver)
		touchedTypes[rvt] = true
	}
	for vt := range touchedTypes {
		next.transitions[vt] = next.transitions[vt].RebuildAll(next.tourLookupAll, next.nw, next.cfg)
	}

	return next, newDummy, createdDummy, nil
}

// FitReassign moves the maximal sub-segments of segment (taken from
// provider's tour) that fit into receiver's tour without any conflict,
// leaving whatever cannot be fit in place with provider. Returns the
// number of nodes actually moved. Unlike OverrideReassign this never
// creates a new dummy tour; nodes that do not fit simply stay put.
func (s *Schedule) FitReassign(segment tour.Segment, provider, receiver formation.VehicleID) (*Schedule, int, error) {
	tourProvider, err := s.TourOf(provider)
	if err != nil {
		return nil, 0, err
	}
	tourReceiver, err := s.TourOf(receiver)
	if err != nil {
		return nil, 0, err
	}
	remaining, err := tourProvider.SubPath(segment)
	if err != nil {
		return nil, 0, err
	}

	curProvider := tourProvider
	curReceiver := tourReceiver
	var moved []network.NodeIdx

	nodes := remaining.Nodes()
	for len(nodes) > 0 {
		start := nodes[0]
		fitted := false
		for end := len(nodes) - 1; end >= 0; end-- {
			seg := tour.NewSegment(start, nodes[end])
			if !curProvider.Removable(seg) {
				continue
			}
			conflict, cErr := curReceiver.Conflict(seg)
			if cErr != nil || conflict.Len() > 0 {
				continue
			}
			shrunkProvider, movedPath, rErr := curProvider.Remove(seg)
			if rErr != nil {
				continue
			}
			grownReceiver, _, iErr := curReceiver.Insert(movedPath)
			if iErr != nil {
				continue
			}
			curProvider = shrunkProvider
			curReceiver = grownReceiver
			moved = append(moved, nodes[:end+1]...)
			nodes = nodes[end+1:]
			fitted = true
			break
		}
		if !fitted {
			nodes = nodes[1:]
		}
	}

	if len(moved) == 0 {
		return s, 0, nil
	}

	next := s.clone()
	receiverVehicle := next.vehicleValue(receiver)
	for _, n := range moved {
		if next.nw.Node(n).IsDepot() {
			continue
		}
		if f, rErr := next.trainFormations[n].Replace(provider, receiverVehicle); rErr == nil {
			next.trainFormations[n] = f
		}
	}

	providerWasDummy := next.IsDummy(provider)
	if providerWasDummy {
		next.dummyTours[provider] = curProvider
	} else {
		next.tours[provider] = curProvider
	}
	receiverWasDummy := next.IsDummy(receiver)
	if receiverWasDummy {
		next.dummyTours[receiver] = curReceiver
	} else {
		next.tours[receiver] = curReceiver
	}

	touchedTypes := make(map[network.VehicleTypeIdx]bool)
	if !providerWasDummy {
		vt, _ := next.TypeOf(provider)
		touchedTypes[vt] = true
	}
	if !receiverWasDummy {
		vt, _ := next.TypeOf(receiver)
		touchedTypes[vt] = true
	}
	for vt := range touchedTypes {
		next.transitions[vt] = next.transitions[vt].RebuildAll(next.tourLookupAll, next.nw, next.cfg)
	}

	return next, len(moved), nil
}

// ImproveDepots greedily moves each vehicle in ids (every real vehicle,
// if ids is empty) to whichever reachable start depot minimises
// dead-head to its first non-depot node, and symmetrically for the end
// depot, subject to capacity.
func (s *Schedule) ImproveDepots(ids []formation.VehicleID) (*Schedule, error) {
	if len(ids) == 0 {
		ids = s.vehicleIDsSorted
	}
	next := s.clone()
	touchedTypes := make(map[network.VehicleTypeIdx]bool)
	for _, v := range ids {
		vt, err := next.TypeOf(v)
		if err != nil {
			return nil, err
		}
		t := next.tours[v]
		if t.Len() < 2 {
			continue
		}
		changed := false

		firstNonDepot := t.NthNode(1)
		if d, ok := next.nearestStartDepot(vt, next.nw.Node(firstNonDepot).StartLocation); ok {
			newStart, err := depotNodeFor(next.nw, d, network.StartDepot)
			if err != nil {
				return nil, err
			}
			if newStart != t.FirstNode() {
				if rebuilt, err := next.rebuildTourEnd(t, true, newStart, vt); err == nil {
					t = rebuilt
					changed = true
				}
			}
		}

		lastNonDepot := t.NthNode(t.Len() - 2)
		if d, ok := next.nearestEndDepot(vt, next.nw.Node(lastNonDepot).EndLocation); ok {
			newEnd, err := depotNodeFor(next.nw, d, network.EndDepot)
			if err != nil {
				return nil, err
			}
			if newEnd != t.LastNode() {
				if rebuilt, err := next.rebuildTourEnd(t, false, newEnd, vt); err == nil {
					t = rebuilt
					changed = true
				}
			}
		}

		if changed {
			next.tours[v] = t
			touchedTypes[vt] = true
		}
	}
	for vt := range touchedTypes {
		next.transitions[vt] = next.transitions[vt].RebuildAll(next.tourLookupAll, next.nw, next.cfg)
	}
	return next, nil
}

// ReassignEndDepotsGreedily is ImproveDepots scoped to end-depots only,
// run once across every real vehicle after a greedy initial solution
// is built.
func (s *Schedule) ReassignEndDepotsGreedily() (*Schedule, error) {
	next := s.clone()
	touchedTypes := make(map[network.VehicleTypeIdx]bool)
	for _, v := range next.vehicleIDsSorted {
		vt, err := next.TypeOf(v)
		if err != nil {
			return nil, err
		}
		t := next.tours[v]
		if t.Len() < 2 {
			continue
		}
		lastNonDepot := t.NthNode(t.Len() - 2)
		d, ok := next.nearestEndDepot(vt, next.nw.Node(lastNonDepot).EndLocation)
		if !ok {
			continue
		}
		newEnd, err := depotNodeFor(next.nw, d, network.EndDepot)
		if err != nil {
			return nil, err
		}
		if newEnd == t.LastNode() {
			continue
		}
		rebuilt, err := next.rebuildTourEnd(t, false, newEnd, vt)
		if err != nil {
			continue
		}
		next.tours[v] = rebuilt
		touchedTypes[vt] = true
	}
	for vt := range touchedTypes {
		next.transitions[vt] = next.transitions[vt].RebuildAll(next.tourLookupAll, next.nw, next.cfg)
	}
	return next, nil
}

// rebuildTourEnd replaces t's start (atStart true) or end depot node
// with newNode, rebuilding the tour's aggregates from scratch and
// updating depot balances. Fails (without mutating next) if newNode's
// depot has no spare capacity.
func (s *Schedule) rebuildTourEnd(t tour.Tour, atStart bool, newNode network.NodeIdx, vt network.VehicleTypeIdx) (tour.Tour, error) {
	nodes := append([]network.NodeIdx(nil), t.AllNodes()...)
	var oldNode network.NodeIdx
	if atStart {
		oldNode = nodes[0]
		nodes[0] = newNode
	} else {
		oldNode = nodes[len(nodes)-1]
		nodes[len(nodes)-1] = newNode
	}
	newTour, err := tour.New(nodes, s.nw)
	if err != nil {
		return tour.Tour{}, err
	}
	newD := s.nw.Node(newNode).DepotIdx
	oldD := s.nw.Node(oldNode).DepotIdx
	if newD != oldD {
		if err := s.checkDepotCapacity(newD, vt); err != nil {
			return tour.Tour{}, err
		}
		s.depotUsage[depotKey{oldD, vt}]--
		s.depotUsage[depotKey{newD, vt}]++
	}
	return newTour, nil
}
