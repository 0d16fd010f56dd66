package schedule

import "errors"

// Sentinel errors, wrapped with fmt.Errorf("%w: ...") at the call
// site.
var (
	// ErrVehicleNotFound indicates a VehicleID absent from both the
	// real and dummy tour maps.
	ErrVehicleNotFound = errors.New("schedule: vehicle not found")

	// ErrDummyVehicle indicates an operation that requires a real
	// vehicle was given a dummy instead.
	ErrDummyVehicle = errors.New("schedule: vehicle is a dummy, not a real vehicle")

	// ErrNoDepotAvailable indicates no depot of the requested vehicle
	// type has spare capacity.
	ErrNoDepotAvailable = errors.New("schedule: no depot available")

	// ErrDepotAtCapacity indicates the specific depot requested by the
	// caller has no spare capacity for the vehicle type.
	ErrDepotAtCapacity = errors.New("schedule: depot at capacity")

	// ErrNotADepotNode indicates a node expected to be a start- or
	// end-depot was not.
	ErrNotADepotNode = errors.New("schedule: node is not a depot of the expected kind")

	// ErrInconsistent indicates verify_consistency found a structural
	// invariant violation.
	ErrInconsistent = errors.New("schedule: structural invariant violated")
)
