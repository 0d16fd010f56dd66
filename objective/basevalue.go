package objective

import (
	"fmt"
	"math"

	"github.com/railsched/railsched/timeutil"
)

// Kind identifies which variant of BaseValue a value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindDuration
	KindMaximum
	KindZero
)

// BaseValue is the value an Indicator produces for one schedule: a count,
// a cost, a duration, the saturating Maximum, or the additive identity
// Zero. Only values of the same Kind (or involving Zero/Maximum) can be
// combined; Add/Sub/Mul panic otherwise, since a level mixing incompatible
// indicator kinds is a programming error caught at evaluation time, not a
// recoverable runtime condition.
type BaseValue struct {
	kind     Kind
	integer  int64
	float    float64
	duration timeutil.Duration
}

// Integer builds an integer-valued BaseValue.
func Integer(v int64) BaseValue { return BaseValue{kind: KindInteger, integer: v} }

// Float builds a float-valued BaseValue.
func Float(v float64) BaseValue { return BaseValue{kind: KindFloat, float: v} }

// DurationValue builds a duration-valued BaseValue.
func DurationValue(d timeutil.Duration) BaseValue { return BaseValue{kind: KindDuration, duration: d} }

// Max is the saturating value: Max + anything = Max, and it always
// compares greatest.
var Max = BaseValue{kind: KindMaximum}

// ZeroValue is the additive identity, combinable with every other kind.
var ZeroValue = BaseValue{kind: KindZero}

// Kind reports which variant v holds.
func (v BaseValue) Kind() Kind { return v.kind }

// Add returns v + other.
func (v BaseValue) Add(other BaseValue) BaseValue {
	if v.kind == KindZero {
		return other
	}
	if other.kind == KindZero {
		return v
	}
	if v.kind == KindMaximum || other.kind == KindMaximum {
		return Max
	}
	if v.kind != other.kind {
		panic(fmt.Sprintf("objective: cannot add kind %d and %d", v.kind, other.kind))
	}
	switch v.kind {
	case KindInteger:
		return Integer(v.integer + other.integer)
	case KindFloat:
		return Float(v.float + other.float)
	case KindDuration:
		return DurationValue(v.duration.Add(other.duration))
	default:
		panic(fmt.Sprintf("objective: cannot add kind %d", v.kind))
	}
}

// Sub returns v - other.
func (v BaseValue) Sub(other BaseValue) BaseValue {
	if other.kind == KindZero {
		return v
	}
	if v.kind == KindMaximum {
		return Max
	}
	if v.kind == KindZero {
		switch other.kind {
		case KindInteger:
			return Integer(-other.integer)
		case KindFloat:
			return Float(-other.float)
		default:
			panic(fmt.Sprintf("objective: cannot subtract kind %d from Zero", other.kind))
		}
	}
	if v.kind != other.kind {
		panic(fmt.Sprintf("objective: cannot subtract kind %d and %d", v.kind, other.kind))
	}
	switch v.kind {
	case KindInteger:
		return Integer(v.integer - other.integer)
	case KindFloat:
		return Float(v.float - other.float)
	case KindDuration:
		if v.duration.Less(other.duration) {
			// a negative duration difference collapses to zero rather
			// than propagating a fallible path through Level.evaluate.
			return DurationValue(timeutil.Zero)
		}
		return DurationValue(v.duration.Sub(other.duration))
	default:
		panic(fmt.Sprintf("objective: cannot subtract kind %d", v.kind))
	}
}

// MulCoefficient scales v by an integer or float coefficient.
func (v BaseValue) MulCoefficient(c Coefficient) BaseValue {
	if v.kind == KindMaximum || v.kind == KindZero {
		return v
	}
	switch v.kind {
	case KindInteger:
		if c.isFloat {
			return Integer(int64(c.float * float64(v.integer)))
		}
		return Integer(c.integer * v.integer)
	case KindFloat:
		if c.isFloat {
			return Float(c.float * v.float)
		}
		return Float(float64(c.integer) * v.float)
	case KindDuration:
		seconds := v.duration.InSeconds()
		if c.isFloat {
			return DurationValue(timeutil.FromSeconds(int64(c.float * float64(seconds))))
		}
		return DurationValue(timeutil.FromSeconds(c.integer * seconds))
	default:
		panic(fmt.Sprintf("objective: cannot scale kind %d", v.kind))
	}
}

// Less reports whether v sorts strictly before other, with Max greatest
// and equal kinds compared by their underlying value. Two Zero values, or
// a Zero compared against the additive identity of another kind, compare
// equal to zero.
func (v BaseValue) Less(other BaseValue) bool {
	if v.kind == KindMaximum {
		return false
	}
	if other.kind == KindMaximum {
		return true
	}
	av, bv := v.numeric(), other.numeric()
	return av < bv
}

// numeric returns a comparable float64 projection used only for ordering,
// never for arithmetic (Duration and Integer stay exact in Add/Sub).
func (v BaseValue) numeric() float64 {
	switch v.kind {
	case KindInteger:
		return float64(v.integer)
	case KindFloat:
		return v.float
	case KindDuration:
		return float64(v.duration.InSeconds())
	case KindZero:
		return 0
	default:
		return 0
	}
}

// AsFloat returns the value projected to a float64 for export to
// numeric sinks (gauges, reports). Duration projects to seconds,
// Maximum to +Inf.
func (v BaseValue) AsFloat() float64 {
	if v.kind == KindMaximum {
		return math.Inf(1)
	}
	return v.numeric()
}

// Equal reports value equality (Zero and a zero-valued same-kind
// BaseValue compare equal).
func (v BaseValue) Equal(other BaseValue) bool {
	if v.kind == KindMaximum || other.kind == KindMaximum {
		return v.kind == other.kind
	}
	return v.numeric() == other.numeric()
}

func (v BaseValue) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.integer)
	case KindFloat:
		return fmt.Sprintf("%g", v.float)
	case KindDuration:
		return v.duration.String()
	case KindMaximum:
		return "MAX"
	case KindZero:
		return "0"
	default:
		return "?"
	}
}

// Coefficient is an integer or float multiplier applied to a BaseValue by
// a Level when summing its indicators.
type Coefficient struct {
	isFloat bool
	integer int64
	float   float64
}

// IntCoefficient builds an integer Coefficient.
func IntCoefficient(v int64) Coefficient { return Coefficient{integer: v} }

// FloatCoefficient builds a float Coefficient.
func FloatCoefficient(v float64) Coefficient { return Coefficient{isFloat: true, float: v} }

// IsOne reports whether the coefficient is the multiplicative identity,
// used to omit "1*" when rendering a level's formula.
func (c Coefficient) IsOne() bool {
	if c.isFloat {
		return c.float == 1
	}
	return c.integer == 1
}

func (c Coefficient) String() string {
	if c.isFloat {
		return fmt.Sprintf("%g", c.float)
	}
	return fmt.Sprintf("%d", c.integer)
}
