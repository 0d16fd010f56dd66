// Package schedule holds the persistent Schedule aggregate: every
// vehicle, tour, train formation, depot balance and per-type
// transition that together make up one candidate rolling-stock
// assignment. Every modifier takes *Schedule by value semantics (a
// pointer to an immutable value) and returns a freshly built
// *Schedule, never mutating its receiver; callers that hold a
// reference to an older Schedule keep observing it unchanged.
package schedule
