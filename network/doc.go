// Package network implements the timetable graph: an immutable set of
// typed nodes (start-depot, end-depot, service trip, maintenance slot)
// plus reachability, dead-head time/distance and idle-time queries
// over them. Every other railsched package treats a *Network as read-only
// shared context, referencing nodes, locations, depots and vehicle
// types by small integer indices rather than pointers. This sidesteps
// the cyclic-ownership issues that would otherwise appear between a
// node, the tours that contain it and the formation that covers it.
package network
