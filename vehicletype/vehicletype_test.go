package vehicletype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/vehicletype"
)

func buildTable() *vehicletype.Table {
	return vehicletype.NewTable([]vehicletype.Type{
		{ID: "DMU", Capacity: 90, Seats: 60},
		{ID: "EMU", Capacity: 200, Seats: 120, MaximalFormationCount: 3},
	})
}

func TestTableAccessors(t *testing.T) {
	table := buildTable()

	require.Equal(t, 2, table.Len())
	require.Equal(t, []network.VehicleTypeIdx{0, 1}, table.Indices())
	require.Equal(t, "DMU", table.Get(0).ID)
	require.Equal(t, network.VehicleTypeIdx(1), table.Last())
}

func TestMaxFormationDefaultsToOne(t *testing.T) {
	table := buildTable()

	require.Equal(t, 1, table.Get(0).MaxFormation())
	require.Equal(t, 3, table.Get(1).MaxFormation())
}

func TestBestForPicksSmallestSufficientType(t *testing.T) {
	table := buildTable()

	require.Equal(t, network.VehicleTypeIdx(0), table.BestFor(50))
	require.Equal(t, network.VehicleTypeIdx(1), table.BestFor(100))
	// nothing seats 500; fall back to the biggest type
	require.Equal(t, network.VehicleTypeIdx(1), table.BestFor(500))
}
