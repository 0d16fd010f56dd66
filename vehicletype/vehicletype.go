// Package vehicletype holds the fixed table of vehicle types (capacity,
// seats, maximal formation count) that the JSON input's vehicleTypes[]
// array supplies. The table is immutable after construction; every
// other package references a type by its VehicleTypeIdx into this
// table rather than by pointer.
package vehicletype

import "github.com/railsched/railsched/network"

// Type describes one vehicle type.
type Type struct {
	ID                   string
	Capacity             int // passenger capacity (standing+seated)
	Seats                int // seated capacity
	MaximalFormationCount int // max vehicles of this type coupled together; 0 means 1
}

// MaxFormation returns t's maximal formation count, defaulting to 1
// when unset.
func (t Type) MaxFormation() int {
	if t.MaximalFormationCount <= 0 {
		return 1
	}
	return t.MaximalFormationCount
}

// Table is an immutable, index-addressed list of vehicle types.
type Table struct {
	types []Type
}

// NewTable builds a Table from types in index order (types[i] is
// VehicleTypeIdx(i)).
func NewTable(types []Type) *Table {
	cp := make([]Type, len(types))
	copy(cp, types)
	return &Table{types: cp}
}

// Get returns the Type at idx.
func (t *Table) Get(idx network.VehicleTypeIdx) Type {
	return t.types[idx]
}

// Len returns the number of vehicle types.
func (t *Table) Len() int { return len(t.types) }

// Indices returns every VehicleTypeIdx in table order.
func (t *Table) Indices() []network.VehicleTypeIdx {
	out := make([]network.VehicleTypeIdx, len(t.types))
	for i := range t.types {
		out[i] = network.VehicleTypeIdx(i)
	}
	return out
}

// Last returns the vehicle type with the highest index, used by the
// greedy starter when no vehicle can reach a trip and a fresh one is
// spawned. The loader orders the table by seats, so for a loaded
// instance this is the type with the most seats; Last does not sort.
func (t *Table) Last() network.VehicleTypeIdx {
	return network.VehicleTypeIdx(len(t.types) - 1)
}

// BestFor returns the vehicle type with the fewest seats that still
// covers demand; if none does, it falls back to the last (biggest)
// type in the table. Assumes the table is sorted ascending by seat
// count; the loader is responsible for that ordering.
func (t *Table) BestFor(demand int) network.VehicleTypeIdx {
	for i, vt := range t.types {
		if vt.Seats >= demand {
			return network.VehicleTypeIdx(i)
		}
	}
	return t.Last()
}
