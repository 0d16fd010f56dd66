// Package tour implements the Tour/Path/Segment algebra: an immutable,
// time-sorted sequence of node indices with cached aggregates (overhead
// time, service distance and dead-head distance), plus the
// insertion/removal delta algorithms that update those aggregates in
// O(|path|) rather than by a full rescan. No useful-duration total or
// maintenance-visit flag is cached; VisitsMaintenance scans the nodes.
//
// A Tour is never mutated; Insert and Remove each return a fresh Tour
// sharing the node network with their predecessor, so an
// older schedule holding the predecessor stays valid.
package tour
