package formation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/railsched/railsched/vehicletype"
)

// ErrVehicleNotInFormation indicates Replace or Remove targeted a
// VehicleID absent from the formation.
var ErrVehicleNotInFormation = errors.New("formation: vehicle not part of formation")

// TrainFormation is the ordered list of vehicles coupled together to
// cover one node. It is immutable: every modifier returns a new value.
type TrainFormation struct {
	units []Vehicle
	table *vehicletype.Table
}

// Empty returns a TrainFormation with no units.
func Empty(table *vehicletype.Table) TrainFormation {
	return TrainFormation{table: table}
}

// New builds a TrainFormation from an explicit unit list, in coupling order.
func New(units []Vehicle, table *vehicletype.Table) TrainFormation {
	return TrainFormation{units: append([]Vehicle(nil), units...), table: table}
}

// Iter returns the formation's units in coupling order. Callers must
// not mutate the returned slice.
func (f TrainFormation) Iter() []Vehicle { return f.units }

// Len returns the number of coupled units.
func (f TrainFormation) Len() int { return len(f.units) }

// Replace returns a TrainFormation with old swapped out for new,
// failing if old is not part of the formation.
func (f TrainFormation) Replace(old VehicleID, nw Vehicle) (TrainFormation, error) {
	pos := f.positionOf(old)
	if pos < 0 {
		return TrainFormation{}, fmt.Errorf("%w: %s", ErrVehicleNotInFormation, old)
	}
	units := append([]Vehicle(nil), f.units...)
	units[pos] = nw
	return TrainFormation{units: units, table: f.table}, nil
}

// Remove returns a TrainFormation without the given vehicle, failing
// if it is not part of the formation.
func (f TrainFormation) Remove(id VehicleID) (TrainFormation, error) {
	pos := f.positionOf(id)
	if pos < 0 {
		return TrainFormation{}, fmt.Errorf("%w: %s", ErrVehicleNotInFormation, id)
	}
	units := make([]Vehicle, 0, len(f.units)-1)
	units = append(units, f.units[:pos]...)
	units = append(units, f.units[pos+1:]...)
	return TrainFormation{units: units, table: f.table}, nil
}

// AddAtTail returns a TrainFormation with v appended.
func (f TrainFormation) AddAtTail(v Vehicle) TrainFormation {
	units := append(append([]Vehicle(nil), f.units...), v)
	return TrainFormation{units: units, table: f.table}
}

func (f TrainFormation) positionOf(id VehicleID) int {
	for i, v := range f.units {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// Seats returns the combined seated capacity of every coupled unit.
func (f TrainFormation) Seats() int {
	total := 0
	for _, v := range f.units {
		total += f.table.Get(v.Type).Seats
	}
	return total
}

// Capacity returns the combined passenger capacity (seated + standing)
// of every coupled unit.
func (f TrainFormation) Capacity() int {
	total := 0
	for _, v := range f.units {
		total += f.table.Get(v.Type).Capacity
	}
	return total
}

// String renders the formation as "[unit]->[unit]->...", or "---" when empty.
func (f TrainFormation) String() string {
	if len(f.units) == 0 {
		return "---"
	}
	var b strings.Builder
	for _, v := range f.units {
		fmt.Fprintf(&b, "[%s]->", v.ID)
	}
	return b.String()
}
