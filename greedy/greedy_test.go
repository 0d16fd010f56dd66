package greedy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/greedy"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/vehicletype"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

// buildFixture is a single-location network with one unlimited depot
// and two service trips; overlapping controls whether one vehicle can
// chain them or a second must be spawned.
func buildFixture(t *testing.T, overlapping bool) (*network.Network, *vehicletype.Table, *config.Config) {
	t.Helper()
	loc := network.NewLocations(1,
		[][]timeutil.Duration{{timeutil.Zero}},
		[][]timeutil.Distance{{timeutil.ZeroDistance}},
		nil,
	)
	cfg := config.Default()

	secondStart, secondEnd := "2024-01-01T09:00:00", "2024-01-01T09:30:00"
	if overlapping {
		secondStart, secondEnd = "2024-01-01T08:00:00", "2024-01-01T08:30:00"
	}
	nodes := []network.Node{
		{ID: 0, Kind: network.StartDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T00:00:00"), EndTime: mustDT(t, "2024-01-01T00:00:00")},
		{ID: 1, Kind: network.EndDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-02T00:00:00"), EndTime: mustDT(t, "2024-01-02T00:00:00")},
		{ID: 2, Kind: network.Service, VehicleType: 0, Demand: 100, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00"),
			ActivityDuration: timeutil.FromSeconds(1800), TravelDistance: timeutil.FromMeters(5000)},
		{ID: 3, Kind: network.Service, VehicleType: 0, Demand: 100, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, secondStart), EndTime: mustDT(t, secondEnd),
			ActivityDuration: timeutil.FromSeconds(1800), TravelDistance: timeutil.FromMeters(7000)},
	}
	depots := []network.Depot{
		{ID: 0, Location: 0, Capacity: map[network.VehicleTypeIdx]int{0: -1}},
	}
	nw := network.Build(nodes, depots, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	types := vehicletype.NewTable([]vehicletype.Type{{ID: "EMU", Capacity: 200, Seats: 120}})
	return nw, types, &cfg
}

func TestSolveChainsReachableTrips(t *testing.T) {
	nw, types, cfg := buildFixture(t, false)

	s, err := greedy.Solve(nw, types, cfg)
	require.NoError(t, err)
	require.NoError(t, s.VerifyConsistency())

	require.Len(t, s.Vehicles(), 1)
	tr, err := s.TourOf(s.Vehicles()[0])
	require.NoError(t, err)
	require.Equal(t, []network.NodeIdx{0, 2, 3, 1}, tr.AllNodes())
	for _, n := range nw.ServiceNodes() {
		require.GreaterOrEqual(t, s.CoveredBy(n).Seats(), nw.Node(n).Demand)
	}
}

func TestSolveSpawnsWhenNoVehicleReaches(t *testing.T) {
	nw, types, cfg := buildFixture(t, true)

	s, err := greedy.Solve(nw, types, cfg)
	require.NoError(t, err)
	require.NoError(t, s.VerifyConsistency())

	require.Len(t, s.Vehicles(), 2)
	for _, n := range nw.ServiceNodes() {
		require.GreaterOrEqual(t, s.CoveredBy(n).Seats(), nw.Node(n).Demand)
	}
}

// ringFixture mirrors a small timetable ring: five locations, one
// unlimited depot at location 0, a chainable ring of five trips plus
// two overlapping return trips that force a second vehicle.
func ringFixture(t *testing.T) (*network.Network, *vehicletype.Table, *config.Config) {
	t.Helper()
	const n = 5
	durations := make([][]timeutil.Duration, n)
	distances := make([][]timeutil.Distance, n)
	for i := 0; i < n; i++ {
		durations[i] = make([]timeutil.Duration, n)
		distances[i] = make([]timeutil.Distance, n)
		for j := 0; j < n; j++ {
			if i == j {
				durations[i][j] = timeutil.Zero
				distances[i][j] = timeutil.ZeroDistance
			} else {
				durations[i][j] = timeutil.FromSeconds(600)
				distances[i][j] = timeutil.FromMeters(10000)
			}
		}
	}
	loc := network.NewLocations(n, durations, distances, nil)
	cfg := config.Default()

	trip := func(id network.NodeIdx, from, to network.LocationIdx, start, end string) network.Node {
		return network.Node{ID: id, Kind: network.Service, VehicleType: 0, Demand: 100,
			StartLocation: from, EndLocation: to,
			StartTime: mustDT(t, start), EndTime: mustDT(t, end),
			ActivityDuration: timeutil.FromSeconds(1800), TravelDistance: timeutil.FromMeters(12000)}
	}
	nodes := []network.Node{
		{ID: 0, Kind: network.StartDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T00:00:00"), EndTime: mustDT(t, "2024-01-01T00:00:00")},
		{ID: 1, Kind: network.EndDepot, DepotIdx: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-02T00:00:00"), EndTime: mustDT(t, "2024-01-02T00:00:00")},
		trip(2, 0, 1, "2024-01-01T08:00:00", "2024-01-01T08:30:00"),
		trip(3, 1, 2, "2024-01-01T09:00:00", "2024-01-01T09:30:00"),
		trip(4, 2, 3, "2024-01-01T10:00:00", "2024-01-01T10:30:00"),
		trip(5, 3, 4, "2024-01-01T11:00:00", "2024-01-01T11:30:00"),
		trip(6, 4, 0, "2024-01-01T12:00:00", "2024-01-01T12:30:00"),
		trip(7, 2, 0, "2024-01-01T10:00:00", "2024-01-01T10:30:00"),
		trip(8, 0, 3, "2024-01-01T11:00:00", "2024-01-01T11:30:00"),
	}
	depots := []network.Depot{
		{ID: 0, Location: 0, Capacity: map[network.VehicleTypeIdx]int{0: -1}},
	}
	nw := network.Build(nodes, depots, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	types := vehicletype.NewTable([]vehicletype.Type{{ID: "EMU", Capacity: 200, Seats: 120}})
	return nw, types, &cfg
}

func TestSolveRingCoversAllTripsWithTwoVehicles(t *testing.T) {
	nw, types, cfg := ringFixture(t)

	s, err := greedy.Solve(nw, types, cfg)
	require.NoError(t, err)
	require.NoError(t, s.VerifyConsistency())

	require.Len(t, s.Vehicles(), 2)
	for _, n := range nw.ServiceNodes() {
		require.GreaterOrEqual(t, s.CoveredBy(n).Seats(), nw.Node(n).Demand, "trip %d under-covered", n)
	}
}
