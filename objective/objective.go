package objective

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Indicator evaluates one atomic aspect of a solution of type T, e.g.
// "count of dummy tours" or "total dead-head distance", to a BaseValue.
type Indicator[T any] interface {
	Evaluate(solution T) BaseValue
	Name() string
}

// summand pairs a coefficient with the indicator it scales inside a Level.
type summand[T any] struct {
	coefficient Coefficient
	indicator   Indicator[T]
}

// Level is one entry of an Objective's hierarchy: a weighted sum of
// indicators, evaluated to a single BaseValue.
type Level[T any] struct {
	summands []summand[T]
}

// NewLevel builds a Level from coefficient/indicator pairs. A nil or
// IntCoefficient(1) coefficient is rendered without the multiplier in
// String.
func NewLevel[T any](summands ...LevelSummand[T]) Level[T] {
	l := Level[T]{summands: make([]summand[T], len(summands))}
	for i, s := range summands {
		l.summands[i] = summand[T]{coefficient: s.Coefficient, indicator: s.Indicator}
	}
	return l
}

// LevelSummand is one coefficient/indicator pair passed to NewLevel.
type LevelSummand[T any] struct {
	Coefficient Coefficient
	Indicator   Indicator[T]
}

// Weighted builds a LevelSummand with an integer coefficient.
func Weighted[T any](coefficient int64, indicator Indicator[T]) LevelSummand[T] {
	return LevelSummand[T]{Coefficient: IntCoefficient(coefficient), Indicator: indicator}
}

// WeightedFloat builds a LevelSummand with a float coefficient.
func WeightedFloat[T any](coefficient float64, indicator Indicator[T]) LevelSummand[T] {
	return LevelSummand[T]{Coefficient: FloatCoefficient(coefficient), Indicator: indicator}
}

func (l Level[T]) evaluate(solution T) BaseValue {
	total := ZeroValue
	for _, s := range l.summands {
		total = total.Add(s.indicator.Evaluate(solution).MulCoefficient(s.coefficient))
	}
	return total
}

func (l Level[T]) String() string {
	parts := make([]string, len(l.summands))
	for i, s := range l.summands {
		if s.coefficient.IsOne() {
			parts[i] = s.indicator.Name()
		} else {
			parts[i] = fmt.Sprintf("%s*%s", s.coefficient, s.indicator.Name())
		}
	}
	return strings.Join(parts, " + ")
}

// Objective is a hierarchical, lexicographically ordered list of Levels
// evaluating a solution of type T. It is fixed throughout optimization;
// only the solutions it evaluates change.
type Objective[T any] struct {
	levels []Level[T]
}

// New builds an Objective from its hierarchy of levels, most important
// first.
func New[T any](levels ...Level[T]) Objective[T] {
	return Objective[T]{levels: levels}
}

// Evaluate computes solution's ObjectiveValue: one coordinate per level.
func (o Objective[T]) Evaluate(solution T) ObjectiveValue {
	vector := make([]BaseValue, len(o.levels))
	for i, level := range o.levels {
		vector[i] = level.evaluate(solution)
	}
	return ObjectiveValue{vector: vector}
}

// Print logs value at info level, one structured field per hierarchy
// level.
func (o Objective[T]) Print(log *zap.Logger, value ObjectiveValue) {
	fields := make([]zap.Field, 0, len(o.levels))
	for i, level := range o.levels {
		fields = append(fields, zap.String(level.String(), value.vector[i].String()))
	}
	log.Info("objective value", fields...)
}

// PrintWithComparison logs value at info level with a "delta" field per
// hierarchy level showing how it differs from comparison (e.g. the
// schedule before a local-search swap). The sign and magnitude of each
// level's change become log fields rather than terminal colouring, so
// the diff survives in a structured log stream.
func (o Objective[T]) PrintWithComparison(log *zap.Logger, value, comparison ObjectiveValue) {
	fields := make([]zap.Field, 0, len(o.levels)*2)
	for i, level := range o.levels {
		v, c := value.vector[i], comparison.vector[i]
		fields = append(fields, zap.String(level.String(), v.String()))
		if delta := baseValueDelta(v, c); delta != "" {
			fields = append(fields, zap.String(level.String()+".delta", delta))
		}
	}
	log.Info("objective value", fields...)
}

// baseValueDelta renders how value differs from comparison, empty if they
// are equal or either side is Maximum (a saturated level has no
// meaningful delta).
func baseValueDelta(value, comparison BaseValue) string {
	if value.Equal(comparison) {
		return ""
	}
	if value.kind == KindMaximum || comparison.kind == KindMaximum {
		return ""
	}
	if value.numeric() > comparison.numeric() {
		return fmt.Sprintf("+%s", value.Sub(comparison))
	}
	return fmt.Sprintf("-%s", comparison.Sub(value))
}

// ObjectiveValue is the hierarchical value of one solution: a tuple with
// one coordinate per Objective level. Comparison is lexicographic,
// most-important level first.
type ObjectiveValue struct {
	vector []BaseValue
}

// Less reports whether v sorts strictly before other in lexicographic
// order (v is a strictly better, lower-cost objective value).
func (v ObjectiveValue) Less(other ObjectiveValue) bool {
	for i := range v.vector {
		if i >= len(other.vector) {
			break
		}
		if v.vector[i].Less(other.vector[i]) {
			return true
		}
		if other.vector[i].Less(v.vector[i]) {
			return false
		}
	}
	return false
}

// Equal reports whether every coordinate of v and other is equal.
func (v ObjectiveValue) Equal(other ObjectiveValue) bool {
	if len(v.vector) != len(other.vector) {
		return false
	}
	for i := range v.vector {
		if !v.vector[i].Equal(other.vector[i]) {
			return false
		}
	}
	return true
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than
// other, in lexicographic order.
func (v ObjectiveValue) Compare(other ObjectiveValue) int {
	if v.Equal(other) {
		return 0
	}
	if v.Less(other) {
		return -1
	}
	return 1
}

// Components returns the string rendering of each hierarchy level's
// coordinate, most important first, used by ioschema to populate the
// output document's objectiveValue object without exposing the
// internal BaseValue representation.
func (v ObjectiveValue) Components() []string {
	parts := make([]string, len(v.vector))
	for i, bv := range v.vector {
		parts[i] = bv.String()
	}
	return parts
}

// Coordinates returns the per-level values, most important first.
func (v ObjectiveValue) Coordinates() []BaseValue { return v.vector }

func (v ObjectiveValue) String() string {
	parts := make([]string, len(v.vector))
	for i, bv := range v.vector {
		parts[i] = bv.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
