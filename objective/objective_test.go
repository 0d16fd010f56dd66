package objective_test

import (
	"testing"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/vehicletype"
	"github.com/stretchr/testify/require"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func buildFixture(t *testing.T, demand int) (*network.Network, *vehicletype.Table, *config.Config) {
	t.Helper()
	loc := network.NewLocations(1,
		[][]timeutil.Duration{{timeutil.Zero}},
		[][]timeutil.Distance{{timeutil.ZeroDistance}},
		nil,
	)
	cfg := config.Default()
	nodes := []network.Node{
		{ID: 0, Kind: network.StartDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T00:00:00"), EndTime: mustDT(t, "2024-01-01T00:00:00")},
		{ID: 1, Kind: network.EndDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-02T00:00:00"), EndTime: mustDT(t, "2024-01-02T00:00:00")},
		{ID: 2, Kind: network.Service, VehicleType: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00"),
			TravelDistance: timeutil.FromMeters(5000), Demand: demand},
	}
	depots := []network.Depot{
		{ID: 0, Location: 0, Capacity: map[network.VehicleTypeIdx]int{0: -1}},
	}
	nw := network.Build(nodes, depots, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	types := vehicletype.NewTable([]vehicletype.Type{{ID: "EMU", Capacity: 200, Seats: 120}})
	return nw, types, &cfg
}

func TestUnservedPassengersCountsGap(t *testing.T) {
	nw, types, cfg := buildFixture(t, 150)
	s := schedule.New(nw, types, cfg)
	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	got := objective.UnservedPassengers{}.Evaluate(s)
	require.Equal(t, "30", got.String())
}

func TestUnservedPassengersZeroWhenCovered(t *testing.T) {
	nw, types, cfg := buildFixture(t, 100)
	s := schedule.New(nw, types, cfg)
	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	got := objective.UnservedPassengers{}.Evaluate(s)
	require.Equal(t, "0", got.String())
}

func TestVehicleCount(t *testing.T) {
	nw, types, cfg := buildFixture(t, 0)
	s := schedule.New(nw, types, cfg)
	require.Equal(t, "0", objective.VehicleCount{}.Evaluate(s).String())

	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)
	require.Equal(t, "1", objective.VehicleCount{}.Evaluate(s).String())
}

func TestObjectiveValueLexicographicOrder(t *testing.T) {
	better := objective.Standard(config.Default())
	nw, types, cfg := buildFixture(t, 150)
	s := schedule.New(nw, types, cfg)
	emptyValue := better.Evaluate(s)

	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)
	coveredValue := better.Evaluate(s)

	require.True(t, coveredValue.Less(emptyValue))
	require.False(t, emptyValue.Less(coveredValue))
	require.Equal(t, 0, coveredValue.Compare(coveredValue))
}

func TestBaseValueArithmetic(t *testing.T) {
	a := objective.Integer(5)
	b := objective.Integer(3)
	require.Equal(t, "8", a.Add(b).String())
	require.Equal(t, "2", a.Sub(b).String())
	require.True(t, objective.ZeroValue.Add(a).Equal(a))
	require.True(t, objective.Max.Add(a).Equal(objective.Max))
}
