package tour

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
)

// ErrNodeNotInTour indicates a node was looked up by position that is
// not part of the tour.
var ErrNodeNotInTour = errors.New("tour: node not part of tour")

// ErrEmptyInsert indicates Insert was given an empty path (after
// dropping dummy-tour depot prefixes/suffixes, if any).
var ErrEmptyInsert = errors.New("tour: cannot insert empty path")

// Tour represents the route of a single vehicle, or (when IsDummy is
// true) an unassigned chain of trips waiting for a vehicle. A real
// Tour always starts and ends at a depot; a dummy Tour has no such
// obligation. Tour is immutable: Insert and Remove each return a
// fresh Tour, never mutating the receiver.
type Tour struct {
	nodes   []network.NodeIdx
	isDummy bool

	overheadTime     timeutil.Duration
	serviceDistance  timeutil.Distance
	deadHeadDistance timeutil.Distance

	nw *network.Network
}

func mustDuration(d timeutil.Duration, err error) timeutil.Duration {
	if err != nil {
		panic(err)
	}
	return d
}

// spanDuration returns the elapsed time between the start of first and
// the end of last, i.e. node(last).end_time - node(first).start_time.
func spanDuration(nw *network.Network, first, last network.NodeIdx) timeutil.Duration {
	return mustDuration(nw.Node(last).EndTime.Sub(nw.Node(first).StartTime))
}

// gapDuration returns the time elapsed between the end of a and the
// start of b (dead-head travel plus idle time combined).
func gapDuration(nw *network.Network, a, b network.NodeIdx) timeutil.Duration {
	return mustDuration(nw.Node(b).StartTime.Sub(nw.Node(a).EndTime))
}

// basic accessors

// IsDummy reports whether this is a dummy (unassigned) tour.
func (t Tour) IsDummy() bool { return t.isDummy }

// Len returns the number of nodes in the tour.
func (t Tour) Len() int { return len(t.nodes) }

// AllNodes returns every node in the tour, in time order. Callers must
// not mutate the returned slice.
func (t Tour) AllNodes() []network.NodeIdx { return t.nodes }

// MovableNodes returns the nodes that can be individually removed or
// exchanged: for a real tour this skips the start and end depot, for a
// dummy tour every node is movable.
func (t Tour) MovableNodes() []network.NodeIdx {
	if t.isDummy {
		return t.nodes
	}
	if len(t.nodes) <= 2 {
		return nil
	}
	return t.nodes[1 : len(t.nodes)-1]
}

// DeadHeadDistance returns the total dead-head distance of the tour.
func (t Tour) DeadHeadDistance() timeutil.Distance { return t.deadHeadDistance }

// OverheadTime returns the total overhead time (dead-head + idle) of
// the tour.
func (t Tour) OverheadTime() timeutil.Duration { return t.overheadTime }

// ServiceDistance returns the total service distance of the tour.
func (t Tour) ServiceDistance() timeutil.Distance { return t.serviceDistance }

// PrecedingOverhead returns the overhead time between node's
// predecessor and node itself; Infinity if node is the tour's first.
func (t Tour) PrecedingOverhead(node network.NodeIdx) timeutil.Duration {
	if node == t.FirstNode() {
		return timeutil.Infinity
	}
	pos, err := t.positionOf(node)
	if err != nil {
		panic(err)
	}
	return gapDuration(t.nw, t.nodes[pos-1], node)
}

// SubsequentOverhead returns the overhead time between node and its
// successor; Infinity if node is the tour's last.
func (t Tour) SubsequentOverhead(node network.NodeIdx) timeutil.Duration {
	if node == t.LastNode() {
		return timeutil.Infinity
	}
	pos, err := t.positionOf(node)
	if err != nil {
		panic(err)
	}
	return gapDuration(t.nw, node, t.nodes[pos+1])
}

// FirstNode returns the tour's first node.
func (t Tour) FirstNode() network.NodeIdx { return t.nodes[0] }

// LastNode returns the tour's last node.
func (t Tour) LastNode() network.NodeIdx { return t.nodes[len(t.nodes)-1] }

// NthNode returns the node at the given position; panics if out of range.
func (t Tour) NthNode(pos int) network.NodeIdx { return t.nodes[pos] }

// StartDepot returns the tour's first node and true, if the tour is
// non-dummy (real tours always start with a start-depot node).
func (t Tour) StartDepot() (network.NodeIdx, bool) {
	if t.isDummy {
		return 0, false
	}
	return t.nodes[0], true
}

// EndDepot returns the tour's last node and true, if the tour is
// non-dummy (real tours always end with an end-depot node).
func (t Tour) EndDepot() (network.NodeIdx, bool) {
	if t.isDummy {
		return 0, false
	}
	return t.nodes[len(t.nodes)-1], true
}

// VisitsMaintenance reports whether any node of the tour is a
// maintenance slot.
func (t Tour) VisitsMaintenance() bool {
	for _, n := range t.nodes {
		if t.nw.Node(n).Kind == network.Maintenance {
			return true
		}
	}
	return false
}

// TotalDistance returns ServiceDistance + DeadHeadDistance, the
// quantity the transition cycle's maintenance counter accumulates.
func (t Tour) TotalDistance() timeutil.Distance {
	return t.serviceDistance.Add(t.deadHeadDistance)
}

// Compare orders tours by length first, then by the node start times
// pairwise. Returns -1, 0 or 1.
func (t Tour) Compare(other Tour) int {
	if len(t.nodes) != len(other.nodes) {
		if len(t.nodes) < len(other.nodes) {
			return -1
		}
		return 1
	}
	for i := range t.nodes {
		a := t.nw.Node(t.nodes[i]).StartTime
		b := other.nw.Node(other.nodes[i]).StartTime
		if c := a.Compare(b); c != 0 {
			return c
		}
	}
	return 0
}

// String renders the tour as its node labels joined by " - ".
func (t Tour) String() string {
	var b strings.Builder
	for i, n := range t.nodes {
		if i > 0 {
			b.WriteString(" - ")
		}
		label := t.nw.Node(n).Label
		if label == "" {
			fmt.Fprintf(&b, "%d", n)
		} else {
			b.WriteString(label)
		}
	}
	return b.String()
}

// modification methods

// Conflict returns the path of nodes that would be displaced if
// segment were inserted into the tour. Fails if the insertion would
// not yield a valid tour (e.g. the segment would replace a depot
// without itself starting/ending at one).
func (t Tour) Conflict(segment Segment) (Path, error) {
	startPos, endPos := t.getInsertPositions(segment)
	if err := t.testIfValidReplacement(segment, startPos, endPos); err != nil {
		return Path{}, err
	}
	conflicted := append([]network.NodeIdx(nil), t.nodes[startPos:endPos]...)
	return NewTrustedPath(conflicted, t.nw), nil
}

// Insert returns a tour with path inserted at its time-correct
// position, displacing any clashing nodes. The path is assumed
// feasible (trusted, not re-validated node-by-node). If the receiver
// is a dummy tour and path begins or ends with a depot, that depot is
// dropped first. For non-dummy tours, replacing the start or end depot
// requires the path itself to start/end with a depot. The displaced
// nodes are returned as a Path (empty when nothing was displaced).
func (t Tour) Insert(path Path) (Tour, Path, error) {
	if path.IsEmpty() {
		return Tour{}, Path{}, ErrEmptyInsert
	}
	p := path
	if t.isDummy && t.nw.Node(p.First()).IsDepot() {
		p = p.DropFirst()
	}
	if t.isDummy && !p.IsEmpty() && t.nw.Node(p.Last()).IsDepot() {
		p = p.DropLast()
	}
	if p.IsEmpty() {
		return Tour{}, Path{}, ErrEmptyInsert
	}

	segment := NewSegment(p.First(), p.Last())
	startPos, endPos := t.getInsertPositions(segment)
	if err := t.testIfValidReplacement(segment, startPos, endPos); err != nil {
		return Tour{}, Path{}, err
	}

	pathNodes := p.Nodes()

	pathUsefulTime := timeutil.Zero
	pathServiceDistance := timeutil.ZeroDistance
	for _, n := range pathNodes {
		pathUsefulTime = pathUsefulTime.Add(t.nw.Node(n).ActivityDuration)
		pathServiceDistance = pathServiceDistance.Add(t.nw.Node(n).TravelDistance)
	}

	pathDeadHeadDistance := timeutil.ZeroDistance
	if startPos != 0 {
		pathDeadHeadDistance = pathDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[startPos-1], pathNodes[0]))
	}
	for i := 0; i+1 < len(pathNodes); i++ {
		pathDeadHeadDistance = pathDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(pathNodes[i], pathNodes[i+1]))
	}
	if endPos < len(t.nodes) {
		pathDeadHeadDistance = pathDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(pathNodes[len(pathNodes)-1], t.nodes[endPos]))
	}

	removedUsefulTime := timeutil.Zero
	removedServiceDistance := timeutil.ZeroDistance
	for i := startPos; i < endPos; i++ {
		removedUsefulTime = removedUsefulTime.Add(t.nw.Node(t.nodes[i]).ActivityDuration)
		removedServiceDistance = removedServiceDistance.Add(t.nw.Node(t.nodes[i]).TravelDistance)
	}

	removedDeadHeadDistance := timeutil.ZeroDistance
	if startPos != 0 && startPos < len(t.nodes) {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[startPos-1], t.nodes[startPos]))
	}
	for i := startPos; i+1 < endPos; i++ {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[i], t.nodes[i+1]))
	}
	if !(endPos == len(t.nodes) || (startPos == endPos && startPos > 0) || endPos == 0) {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[endPos-1], t.nodes[endPos]))
	}

	newNodes := make([]network.NodeIdx, 0, len(t.nodes)-(endPos-startPos)+len(pathNodes))
	newNodes = append(newNodes, t.nodes[:startPos]...)
	newNodes = append(newNodes, pathNodes...)
	newNodes = append(newNodes, t.nodes[endPos:]...)

	var overheadTime timeutil.Duration
	if startPos == 0 || endPos == len(t.nodes) {
		totalOriginal := spanDuration(t.nw, t.nodes[0], t.nodes[len(t.nodes)-1])
		totalNew := spanDuration(t.nw, newNodes[0], newNodes[len(newNodes)-1])
		overheadTime = t.overheadTime.Add(totalNew).Add(removedUsefulTime).Sub(pathUsefulTime).Sub(totalOriginal)
	} else {
		overheadTime = t.overheadTime.Add(removedUsefulTime).Sub(pathUsefulTime)
	}
	serviceDistance := t.serviceDistance.Add(pathServiceDistance).Sub(removedServiceDistance)
	deadHeadDistance := t.deadHeadDistance.Add(pathDeadHeadDistance).Sub(removedDeadHeadDistance)

	displaced := append([]network.NodeIdx(nil), t.nodes[startPos:endPos]...)
	return newPrecomputed(newNodes, t.isDummy, overheadTime, serviceDistance, deadHeadDistance, t.nw), NewTrustedPath(displaced, t.nw), nil
}

// Removable reports whether segment can be removed from the tour
// without the result being invalid.
func (t Tour) Removable(segment Segment) bool {
	startPos, err1 := t.positionOf(segment.Start)
	endPos, err2 := t.positionOf(segment.End)
	if err1 != nil || err2 != nil {
		return false
	}
	return t.testIfSequenceIsRemovable(startPos, endPos) == nil
}

// Remove removes the sub-path between segment.Start and segment.End
// (inclusive) from the tour, returning the shortened tour and the
// removed nodes as a Path. Fails if either end of segment is not part
// of the tour, or if the start/end depot of a non-dummy tour would be
// removed, or if closing the resulting gap is not itself feasible.
func (t Tour) Remove(segment Segment) (Tour, Path, error) {
	startPos, err := t.positionOf(segment.Start)
	if err != nil {
		return Tour{}, Path{}, err
	}
	endPos, err := t.positionOf(segment.End)
	if err != nil {
		return Tour{}, Path{}, err
	}
	if err := t.testIfSequenceIsRemovable(startPos, endPos); err != nil {
		return Tour{}, Path{}, err
	}

	removedUsefulTime := timeutil.Zero
	removedServiceDistance := timeutil.ZeroDistance
	for i := startPos; i <= endPos; i++ {
		removedUsefulTime = removedUsefulTime.Add(t.nw.Node(t.nodes[i]).ActivityDuration)
		removedServiceDistance = removedServiceDistance.Add(t.nw.Node(t.nodes[i]).TravelDistance)
	}

	removedDeadHeadDistance := timeutil.ZeroDistance
	if startPos != 0 {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[startPos-1], t.nodes[startPos]))
	}
	for i := startPos; i < endPos; i++ {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[i], t.nodes[i+1]))
	}
	if endPos != len(t.nodes)-1 {
		removedDeadHeadDistance = removedDeadHeadDistance.Add(t.nw.DeadHeadDistanceBetween(t.nodes[endPos], t.nodes[endPos+1]))
	}

	addedDeadHeadDistance := timeutil.ZeroDistance
	if !(startPos == 0 || endPos == len(t.nodes)-1) {
		addedDeadHeadDistance = t.nw.DeadHeadDistanceBetween(t.nodes[startPos-1], t.nodes[endPos+1])
	}

	newNodes := make([]network.NodeIdx, 0, len(t.nodes)-(endPos-startPos+1))
	newNodes = append(newNodes, t.nodes[:startPos]...)
	newNodes = append(newNodes, t.nodes[endPos+1:]...)
	removedNodes := append([]network.NodeIdx(nil), t.nodes[startPos:endPos+1]...)

	var overheadTime timeutil.Duration
	if startPos == 0 || endPos == len(t.nodes)-1 {
		if len(newNodes) == 0 {
			overheadTime = timeutil.Zero
		} else {
			totalOriginal := spanDuration(t.nw, t.nodes[0], t.nodes[len(t.nodes)-1])
			totalNew := spanDuration(t.nw, newNodes[0], newNodes[len(newNodes)-1])
			overheadTime = t.overheadTime.Add(removedUsefulTime).Add(totalNew).Sub(totalOriginal)
		}
	} else {
		overheadTime = t.overheadTime.Add(removedUsefulTime)
	}
	serviceDistance := t.serviceDistance.Sub(removedServiceDistance)
	deadHeadDistance := t.deadHeadDistance.Add(addedDeadHeadDistance).Sub(removedDeadHeadDistance)

	newTour := newPrecomputed(newNodes, t.isDummy, overheadTime, serviceDistance, deadHeadDistance, t.nw)
	return newTour, NewTrustedPath(removedNodes, t.nw), nil
}

// SubPath returns the path of nodes lying between segment.Start and
// segment.End (inclusive), both of which must be exact members of the
// tour (not merely reachable positions).
func (t Tour) SubPath(segment Segment) (Path, error) {
	startPos, ok := t.earliestNotReachingNode(segment.Start)
	if !ok || t.nodes[startPos] != segment.Start {
		return Path{}, fmt.Errorf("%w: segment start", ErrNodeNotInTour)
	}
	endPos, ok := t.earliestNotReachingNode(segment.End)
	if !ok || t.nodes[endPos] != segment.End {
		return Path{}, fmt.Errorf("%w: segment end", ErrNodeNotInTour)
	}
	return NewTrustedPath(append([]network.NodeIdx(nil), t.nodes[startPos:endPos+1]...), t.nw), nil
}

// private position-query helpers

func (t Tour) positionOf(node network.NodeIdx) (int, error) {
	target := t.nw.Node(node).StartTime
	idx := sort.Search(len(t.nodes), func(i int) bool {
		return !t.nw.Node(t.nodes[i]).StartTime.Less(target)
	})
	if idx == len(t.nodes) || t.nw.Node(t.nodes[idx]).StartTime.Compare(target) != 0 || t.nodes[idx] != node {
		return 0, ErrNodeNotInTour
	}
	return idx, nil
}

// getInsertPositions returns the half-open range [start,end) of
// existing nodes that must be replaced for segment to be inserted at
// its time-correct position; a depot at either end of segment forces
// the insertion to the corresponding end of the tour.
func (t Tour) getInsertPositions(segment Segment) (int, int) {
	first, last := segment.Start, segment.End

	startPos := len(t.nodes)
	if t.nw.Node(first).IsDepot() {
		startPos = 0
	} else if pos, ok := t.earliestNotReachingNode(first); ok {
		startPos = pos
	}

	endPos := 0
	if t.nw.Node(last).IsDepot() {
		endPos = len(t.nodes)
	} else if pos, ok := t.latestNotReachedByNode(last); ok {
		endPos = pos + 1
	}
	return startPos, endPos
}

// earliestNotReachingNode returns the position of the earliest
// tour-node that cannot reach node; ok is false if every tour-node
// (including the last) can reach it.
func (t Tour) earliestNotReachingNode(node network.NodeIdx) (int, bool) {
	if t.nw.CanReach(t.nodes[len(t.nodes)-1], node) {
		return 0, false
	}
	candidate, ok := t.earliestArrivalAfter(t.nw.Node(node).StartTime, 0, len(t.nodes))
	pos := len(t.nodes) - 1
	if ok {
		pos = candidate
	}
	for pos > 0 && !t.nw.CanReach(t.nodes[pos-1], node) {
		pos--
	}
	return pos, true
}

func (t Tour) earliestArrivalAfter(target timeutil.DateTime, left, right int) (int, bool) {
	if left+1 == right {
		if !t.nw.Node(t.nodes[left]).EndTime.Less(target) {
			return left, true
		}
		return 0, false
	}
	mid := left + (right-left)/2
	if !t.nw.Node(t.nodes[mid-1]).EndTime.Less(target) {
		return t.earliestArrivalAfter(target, left, mid)
	}
	return t.earliestArrivalAfter(target, mid, right)
}

// latestNotReachedByNode returns the position of the latest tour-node
// that node cannot reach; ok is false if node can reach every tour-node
// (including the first).
func (t Tour) latestNotReachedByNode(node network.NodeIdx) (int, bool) {
	if t.nw.CanReach(node, t.nodes[0]) {
		return 0, false
	}
	candidate, ok := t.latestDepartureBefore(t.nw.Node(node).EndTime, 0, len(t.nodes))
	pos := 0
	if ok {
		pos = candidate
	}
	for pos < len(t.nodes)-1 && !t.nw.CanReach(node, t.nodes[pos+1]) {
		pos++
	}
	return pos, true
}

func (t Tour) latestDepartureBefore(target timeutil.DateTime, left, right int) (int, bool) {
	if left+1 == right {
		if !target.Less(t.nw.Node(t.nodes[left]).StartTime) {
			return left, true
		}
		return 0, false
	}
	mid := left + (right-left)/2
	if !target.Less(t.nw.Node(t.nodes[mid]).StartTime) {
		return t.latestDepartureBefore(target, mid, right)
	}
	return t.latestDepartureBefore(target, left, mid)
}

// testIfValidReplacement rejects insertions that would replace a
// non-dummy tour's start or end depot with a segment that does not
// itself start or end with a depot.
func (t Tour) testIfValidReplacement(segment Segment, startPos, endPos int) error {
	if startPos == 0 && !t.isDummy && !t.nw.Node(segment.Start).IsDepot() {
		return errors.New("tour: cannot replace start depot with a segment not starting with a depot")
	}
	if endPos == len(t.nodes) && !t.isDummy && !t.nw.Node(segment.End).IsDepot() {
		return errors.New("tour: cannot replace end depot with a segment not ending with a depot")
	}
	return nil
}

// testIfSequenceIsRemovable rejects removing a non-dummy tour's start
// or end depot, an inverted range, or a range whose removal would
// leave the surrounding nodes unable to reach one another.
func (t Tour) testIfSequenceIsRemovable(startPos, endPos int) error {
	if !t.isDummy && startPos == 0 {
		return errors.New("tour: start depot cannot be removed")
	}
	if !t.isDummy && endPos == len(t.nodes)-1 {
		return errors.New("tour: end depot cannot be removed")
	}
	if startPos > endPos {
		return errors.New("tour: start position comes after end position")
	}
	if startPos > 0 && endPos < len(t.nodes)-1 && !t.nw.CanReach(t.nodes[startPos-1], t.nodes[endPos+1]) {
		return fmt.Errorf("tour: removing nodes %d..%d makes the tour invalid: dead-head trip is slower than service trips", t.nodes[startPos], t.nodes[endPos])
	}
	return nil
}

// constructors

// New creates a tour from a node sequence, failing if it does not
// start with a depot, end with a depot, contain only service or
// maintenance nodes in between, or if any node cannot reach its
// successor.
func New(nodes []network.NodeIdx, nw *network.Network) (Tour, error) {
	t, err := NewAllowInvalid(nodes, nw)
	if err != nil {
		return Tour{}, err
	}
	return t, nil
}

// NewAllowInvalid behaves like New but returns the (invalid) tour
// alongside the error, so a caller can inspect what would have been
// built. When some node cannot reach its successor, the returned tour's
// aggregates (overhead time, service and dead-head distance) are zero.
func NewAllowInvalid(nodes []network.NodeIdx, nw *network.Network) (Tour, error) {
	var msg strings.Builder
	if !nw.Node(nodes[0]).IsDepot() {
		fmt.Fprintf(&msg, "tour needs to start with a depot, not with: %d.\n", nodes[0])
	}
	if !nw.Node(nodes[len(nodes)-1]).IsDepot() {
		fmt.Fprintf(&msg, "tour needs to end with a depot, not with: %d.\n", nodes[len(nodes)-1])
	}
	for i := 1; i < len(nodes)-1; i++ {
		n := nw.Node(nodes[i])
		if n.Kind != network.Service && n.Kind != network.Maintenance {
			fmt.Fprintf(&msg, "tour can only have service or maintenance nodes in the middle, not: %d.\n", nodes[i])
		}
	}
	reachable := true
	for i := 0; i+1 < len(nodes); i++ {
		if !nw.CanReach(nodes[i], nodes[i+1]) {
			fmt.Fprintf(&msg, "not a valid tour: %d cannot reach %d.\n", nodes[i], nodes[i+1])
			reachable = false
		}
	}
	var t Tour
	if reachable {
		t = newComputing(nodes, false, nw)
	} else {
		t = newPrecomputed(nodes, false, timeutil.Zero, timeutil.ZeroDistance, timeutil.ZeroDistance, nw)
	}
	if msg.Len() > 0 {
		return t, errors.New(strings.TrimSuffix(msg.String(), "\n"))
	}
	return t, nil
}

// NewDummy creates a dummy tour, failing only if some node cannot
// reach its successor (depots are not required).
func NewDummy(nodes []network.NodeIdx, nw *network.Network) (Tour, error) {
	for i := 0; i+1 < len(nodes); i++ {
		if !nw.CanReach(nodes[i], nodes[i+1]) {
			return Tour{}, fmt.Errorf("tour: not a valid dummy tour: %d cannot reach %d", nodes[i], nodes[i+1])
		}
	}
	return newComputing(nodes, true, nw), nil
}

// NewDummyByPath creates a dummy tour from an already-validated Path.
func NewDummyByPath(path Path, nw *network.Network) Tour {
	return newComputing(path.Nodes(), true, nw)
}

func newComputing(nodes []network.NodeIdx, isDummy bool, nw *network.Network) Tour {
	overheadTime := timeutil.Zero
	deadHeadDistance := timeutil.ZeroDistance
	for i := 0; i+1 < len(nodes); i++ {
		overheadTime = overheadTime.Add(gapDuration(nw, nodes[i], nodes[i+1]))
		deadHeadDistance = deadHeadDistance.Add(nw.DeadHeadDistanceBetween(nodes[i], nodes[i+1]))
	}
	serviceDistance := timeutil.ZeroDistance
	for _, n := range nodes {
		serviceDistance = serviceDistance.Add(nw.Node(n).TravelDistance)
	}
	return newPrecomputed(nodes, isDummy, overheadTime, serviceDistance, deadHeadDistance, nw)
}

// newPrecomputed builds a Tour trusting that the supplied aggregates
// are already correct for nodes, avoiding a full rescan; Insert and
// Remove use this to apply their delta updates.
func newPrecomputed(nodes []network.NodeIdx, isDummy bool, overheadTime timeutil.Duration, serviceDistance, deadHeadDistance timeutil.Distance, nw *network.Network) Tour {
	return Tour{
		nodes:            append([]network.NodeIdx(nil), nodes...),
		isDummy:          isDummy,
		overheadTime:     overheadTime,
		serviceDistance:  serviceDistance,
		deadHeadDistance: deadHeadDistance,
		nw:               nw,
	}
}
