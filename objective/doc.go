// Package objective implements a generic hierarchical, lexicographically
// ordered objective: an Objective[T] is an ordered list of Levels, each a
// weighted sum of Indicators evaluating a solution of type T to a
// BaseValue. Solutions are compared level by level, most important first.
package objective
