// Package mincostflow builds a time-expanded flow network per vehicle
// type from a rolling-stock network and solves the resulting min-cost
// circulation with lower bounds, decoding the result into a schedule's
// worth of tours. The solver is a self-contained successive-shortest-
// augmenting-path implementation over a residual graph.
package mincostflow
