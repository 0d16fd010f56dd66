package timeutil

import "fmt"

// Distance is either a non-negative meter count or Infinity.
type Distance struct {
	meters   int64
	infinite bool
}

// ZeroDistance is the additive identity.
var ZeroDistance = Distance{}

// InfiniteDistance compares greater than every finite Distance.
var InfiniteDistance = Distance{infinite: true}

// FromMeters builds a finite Distance. Panics on a negative input.
func FromMeters(meters int64) Distance {
	if meters < 0 {
		panic(fmt.Sprintf("timeutil: FromMeters called with negative value %d", meters))
	}
	return Distance{meters: meters}
}

// FromKilometers builds a finite Distance from a kilometer count.
func FromKilometers(km float64) Distance {
	return FromMeters(int64(km * 1000.0))
}

// IsInfinity reports whether d is the infinite sentinel.
func (d Distance) IsInfinity() bool { return d.infinite }

// InMeters returns d's length in meters, and false if d is infinite.
func (d Distance) InMeters() (int64, bool) {
	if d.infinite {
		return 0, false
	}
	return d.meters, true
}

// Add returns d+other, Infinity absorbing.
func (d Distance) Add(other Distance) Distance {
	if d.infinite || other.infinite {
		return InfiniteDistance
	}
	return FromMeters(d.meters + other.meters)
}

// Sub returns d-other. Panics if other is Infinity while d is not, or if
// the result would be negative.
func (d Distance) Sub(other Distance) Distance {
	if d.infinite {
		return InfiniteDistance
	}
	if other.infinite {
		panic("timeutil: cannot subtract InfiniteDistance from a finite Distance")
	}
	if d.meters < other.meters {
		panic(fmt.Sprintf("timeutil: cannot subtract %s from %s", other, d))
	}
	return FromMeters(d.meters - other.meters)
}

// SubMaxZero returns max(0, d-other); never panics.
func (d Distance) SubMaxZero(other Distance) Distance {
	if d.infinite {
		return InfiniteDistance
	}
	if other.infinite {
		return ZeroDistance
	}
	if d.meters < other.meters {
		return ZeroDistance
	}
	return FromMeters(d.meters - other.meters)
}

// Less reports d < other.
func (d Distance) Less(other Distance) bool {
	if d.infinite {
		return false
	}
	if other.infinite {
		return true
	}
	return d.meters < other.meters
}

// SumDistances folds Add over ds starting from ZeroDistance.
func SumDistances(ds ...Distance) Distance {
	total := ZeroDistance
	for _, d := range ds {
		total = total.Add(d)
	}
	return total
}

// String renders "km.mmmkm" (e.g. "1.500km") or "INF km".
func (d Distance) String() string {
	if d.infinite {
		return "INF km"
	}
	km := d.meters / 1000
	m := d.meters % 1000
	return fmt.Sprintf("%d.%03dkm", km, m)
}
