package network

// Depot is a location where vehicles of one or more types may be
// spawned and despawned, each with its own capacity. When the input
// omits depots entirely, every location hosts an implicit unlimited
// depot for every vehicle type.
type Depot struct {
	ID       DepotIdx
	Label    string
	Location LocationIdx
	// Capacity maps VehicleTypeIdx -> per-type capacity. A type absent
	// from this map is not allowed to spawn/despawn at this depot.
	Capacity map[VehicleTypeIdx]int
}

// CapacityFor returns the capacity this depot offers vehicle type vt,
// and whether the type is permitted at all.
func (d Depot) CapacityFor(vt VehicleTypeIdx) (int, bool) {
	c, ok := d.Capacity[vt]
	return c, ok
}
