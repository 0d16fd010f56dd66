package formation

import "github.com/railsched/railsched/network"

// VehicleID identifies one physical rolling-stock unit, stable across
// the whole planning horizon (e.g. the schedule's tours and the
// transition cycles are keyed by it).
type VehicleID string

// Vehicle is one physical unit of a given vehicle type.
type Vehicle struct {
	ID   VehicleID
	Type network.VehicleTypeIdx
}
