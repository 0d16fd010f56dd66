package network

import "github.com/railsched/railsched/timeutil"

// Locations holds the pairwise dead-head travel time/distance matrix
// between locations, mirroring the input schema's deadHeadTrips
// table. Locations is immutable once built.
type Locations struct {
	n         int
	durations [][]timeutil.Duration
	distances [][]timeutil.Distance
	// dayLimit is the per-location optional maximum dead-head the
	// planning horizon tolerates; zero length means no limit.
	dayLimit []timeutil.Duration
}

// NewLocations builds a Locations table for n locations. durations and
// distances must each be an n×n row-major matrix (durations[i][j] is
// the dead-head time from location i to location j); dayLimit may be
// nil (no limit for any location).
func NewLocations(n int, durations [][]timeutil.Duration, distances [][]timeutil.Distance, dayLimit []timeutil.Duration) *Locations {
	if dayLimit == nil {
		dayLimit = make([]timeutil.Duration, n)
		for i := range dayLimit {
			dayLimit[i] = timeutil.Infinity
		}
	}
	return &Locations{n: n, durations: durations, distances: distances, dayLimit: dayLimit}
}

// Size returns the number of locations.
func (l *Locations) Size() int { return l.n }

// TravelTime returns the dead-head duration between two locations; Zero
// when from == to.
func (l *Locations) TravelTime(from, to LocationIdx) timeutil.Duration {
	if from == to {
		return timeutil.Zero
	}
	return l.durations[from][to]
}

// TravelDistance returns the dead-head distance between two locations;
// ZeroDistance when from == to.
func (l *Locations) TravelDistance(from, to LocationIdx) timeutil.Distance {
	if from == to {
		return timeutil.ZeroDistance
	}
	return l.distances[from][to]
}

// DayLimit returns the configured maximal dead-head duration tolerated
// when departing from loc, or Infinity if unset.
func (l *Locations) DayLimit(loc LocationIdx) timeutil.Duration {
	if int(loc) >= len(l.dayLimit) {
		return timeutil.Infinity
	}
	return l.dayLimit[loc]
}
