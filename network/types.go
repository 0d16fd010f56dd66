package network

import (
	"errors"

	"github.com/railsched/railsched/timeutil"
)

// Sentinel errors for network construction and lookup.
var (
	// ErrNodeNotFound indicates an operation referenced a NodeIdx absent
	// from the Network.
	ErrNodeNotFound = errors.New("network: node not found")

	// ErrDepotNotFound indicates an operation referenced a DepotIdx
	// absent from the Network.
	ErrDepotNotFound = errors.New("network: depot not found")

	// ErrBadNodeKind indicates an operation expected a node of a
	// different kind (e.g. a depot where a service node was given).
	ErrBadNodeKind = errors.New("network: unexpected node kind")
)

// NodeIdx indexes Network.nodes.
type NodeIdx int

// LocationIdx indexes Network's Locations table.
type LocationIdx int

// DepotIdx indexes a depot (a location hosting start/end capacity).
type DepotIdx int

// VehicleTypeIdx indexes the vehicle-type table (owned by package
// vehicletype, referenced here only by index).
type VehicleTypeIdx int

// NodeKind tags Node's variant: start-depot, end-depot, service trip or
// maintenance slot. Dispatch throughout railsched is by this tag, never
// by subtype polymorphism.
type NodeKind uint8

const (
	// StartDepot nodes have start/end time Earliest and carry a DepotIdx.
	StartDepot NodeKind = iota
	// EndDepot nodes have start/end time Latest and carry a DepotIdx.
	EndDepot
	// Service nodes are passenger-carrying trips; carry VehicleTypeIdx
	// and passenger Demand.
	Service
	// Maintenance nodes are (location, window, track-count) triples.
	Maintenance
)

func (k NodeKind) String() string {
	switch k {
	case StartDepot:
		return "StartDepot"
	case EndDepot:
		return "EndDepot"
	case Service:
		return "Service"
	case Maintenance:
		return "Maintenance"
	default:
		return "Unknown"
	}
}

// Node is a tagged entity with identity, start/end time, start/end
// location, duration, travel distance, and a type tag. Only the fields
// relevant to Kind are meaningful; the others are zero-valued.
type Node struct {
	ID    NodeIdx
	Kind  NodeKind
	Label string // human-readable id from the input (trip/depot/slot id)

	StartTime, EndTime           timeutil.DateTime
	StartLocation, EndLocation   LocationIdx
	ActivityDuration             timeutil.Duration
	TravelDistance               timeutil.Distance

	DepotIdx       DepotIdx       // StartDepot, EndDepot
	VehicleType    VehicleTypeIdx // Service
	Demand         int            // Service: passenger count
	Seated         int            // Service: seated passenger count
	MaxFormation   int            // Service: maximal_formation_count override, 0 = use type default
	TrackCount     int            // Maintenance
}

// IsDepot reports whether n is a start- or end-depot node.
func (n Node) IsDepot() bool { return n.Kind == StartDepot || n.Kind == EndDepot }
