package localsearch_test

import (
	"testing"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/localsearch"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
	"github.com/railsched/railsched/vehicletype"
	"github.com/stretchr/testify/require"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

// buildFixture builds a single-location network with three service
// trips and one maintenance slot, all reachable from one another in
// any order (zero dead-head time/distance), so swaps are free to
// recombine them without tripping can_reach.
func buildFixture(t *testing.T) (*network.Network, *vehicletype.Table, *config.Config) {
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
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00")},
		{ID: 3, Kind: network.Service, VehicleType: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T09:00:00"), EndTime: mustDT(t, "2024-01-01T09:30:00")},
		{ID: 4, Kind: network.Service, VehicleType: 0, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T10:00:00"), EndTime: mustDT(t, "2024-01-01T10:30:00")},
		{ID: 5, Kind: network.Maintenance, StartLocation: 0, EndLocation: 0, TrackCount: 1,
			StartTime: mustDT(t, "2024-01-01T11:00:00"), EndTime: mustDT(t, "2024-01-01T11:30:00")},
	}
	depots := []network.Depot{
		{ID: 0, Location: 0, Capacity: map[network.VehicleTypeIdx]int{0: -1}},
	}
	nw := network.Build(nodes, depots, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	types := vehicletype.NewTable([]vehicletype.Type{{ID: "EMU", Capacity: 200, Seats: 120}})
	return nw, types, &cfg
}

func TestPathExchangeMovesSegmentBetweenVehicles(t *testing.T) {
	nw, types, cfg := buildFixture(t)
	s := schedule.New(nw, types, cfg)
	s, v1, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)
	s, v2, err := s.SpawnVehicleForPath(0, []network.NodeIdx{3})
	require.NoError(t, err)

	swap := localsearch.PathExchange{Segment: tour.NewSegment(2, 2), Provider: v1, Receiver: v2}
	next, provider, err := swap.Apply(s)
	require.NoError(t, err)
	require.Equal(t, v1, provider)
	require.NoError(t, next.VerifyConsistency())

	t1, err := next.TourOf(v1)
	require.NoError(t, err)
	require.Equal(t, []network.NodeIdx{0, 1}, t1.AllNodes())

	t2, err := next.TourOf(v2)
	require.NoError(t, err)
	require.Equal(t, []network.NodeIdx{0, 2, 3, 1}, t2.AllNodes())
}

func TestSpawnVehicleForMaintenanceForcesSlotOntoVehicle(t *testing.T) {
	nw, types, cfg := buildFixture(t)
	s := schedule.New(nw, types, cfg)
	s, v1, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	swap := localsearch.SpawnVehicleForMaintenance{Slot: 5, Vehicle: v1}
	next, provider, err := swap.Apply(s)
	require.NoError(t, err)
	require.Equal(t, v1, provider)
	require.NoError(t, next.VerifyConsistency())

	tr, err := next.TourOf(v1)
	require.NoError(t, err)
	require.True(t, tr.VisitsMaintenance())
}

func TestSpawnVehicleForMaintenanceRejectsVehicleAlreadyVisiting(t *testing.T) {
	nw, types, cfg := buildFixture(t)
	s := schedule.New(nw, types, cfg)
	s, v1, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2, 5})
	require.NoError(t, err)

	swap := localsearch.SpawnVehicleForMaintenance{Slot: 5, Vehicle: v1}
	_, _, err = swap.Apply(s)
	require.Error(t, err)
}

func TestRemoveSingleNodeLeavesNodeUncovered(t *testing.T) {
	nw, types, cfg := buildFixture(t)
	s := schedule.New(nw, types, cfg)
	s, v1, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2, 3})
	require.NoError(t, err)

	swap := localsearch.RemoveSingleNode{Node: 3, Vehicle: v1}
	next, provider, err := swap.Apply(s)
	require.NoError(t, err)
	require.Equal(t, v1, provider)
	require.NoError(t, next.VerifyConsistency())
	require.Equal(t, 0, next.CoveredBy(3).Len())
}

func TestAddTripForHitchHikingCoversTrip(t *testing.T) {
	nw, types, cfg := buildFixture(t)
	s := schedule.New(nw, types, cfg)
	s, v1, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	swap := localsearch.AddTripForHitchHiking{Node: 3, Vehicle: v1}
	next, provider, err := swap.Apply(s)
	require.NoError(t, err)
	require.Equal(t, v1, provider)
	require.NoError(t, next.VerifyConsistency())
	require.Equal(t, 1, next.CoveredBy(3).Len())
}
