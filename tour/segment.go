package tour

import "github.com/railsched/railsched/network"

// Segment designates a sub-path of some tour by its first and last
// node; it carries no reference to which tour it came from, so the
// same Segment value can be tested against multiple tours (as
// PathExchange and override_reassign do, testing a segment of the
// provider's tour for removability and, separately, building a Path
// from it to insert elsewhere).
type Segment struct {
	Start, End network.NodeIdx
}

// NewSegment builds a Segment.
func NewSegment(start, end network.NodeIdx) Segment {
	return Segment{Start: start, End: end}
}
