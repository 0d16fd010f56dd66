// Package transition tracks, per vehicle type, how that type's tours
// are chained into cyclic rotations across the planning horizon. A
// cycle's maintenance counter accumulates cumulative travel distance
// against the configured maintenance-distance credit; a schedule is
// only maintenance-feasible when every cycle's violation is zero.
package transition
