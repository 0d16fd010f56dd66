package transition_test

import (
	"testing"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
	"github.com/railsched/railsched/transition"
	"github.com/stretchr/testify/require"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

// buildFixture builds a single-location network with one start and one
// end depot and two one-trip tours of 5000m and 7000m sharing them;
// with a single location every dead-head, including the bridge that
// closes a cycle, is 0m.
func buildFixture(t *testing.T) (*network.Network, tour.Tour, tour.Tour) {
	t.Helper()
	loc := network.NewLocations(1,
		[][]timeutil.Duration{{timeutil.Zero}},
		[][]timeutil.Distance{{timeutil.ZeroDistance}},
		nil,
	)
	cfg := config.Default()
	nodes := []network.Node{
		{ID: 0, Kind: network.StartDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:00:00")},
		{ID: 1, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00"),
			TravelDistance: timeutil.FromMeters(5000)},
		{ID: 2, Kind: network.EndDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T10:00:00"), EndTime: mustDT(t, "2024-01-01T10:00:00")},
		{ID: 3, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T09:00:00"), EndTime: mustDT(t, "2024-01-01T09:30:00"),
			TravelDistance: timeutil.FromMeters(7000)},
	}
	nw := network.Build(nodes, nil, loc, &cfg, timeutil.FromSeconds(7*24*3600))

	t1, err := tour.New([]network.NodeIdx{0, 1, 2}, nw)
	require.NoError(t, err)
	t2, err := tour.New([]network.NodeIdx{0, 3, 2}, nw)
	require.NoError(t, err)
	return nw, t1, t2
}

func TestAddVehicleToOwnCycleAndTotalViolation(t *testing.T) {
	nw, t1, _ := buildFixture(t)
	cfg := config.Default()

	tr := transition.NewEmpty(0)
	tr = tr.AddVehicleToOwnCycle("veh0", t1, nw, &cfg)

	require.Equal(t, 1, len(tr.Cycles()))
	cycle := tr.Cycles()[0]
	require.Equal(t, []formation.VehicleID{"veh0"}, cycle.Vehicles())
	require.Equal(t, transition.Counter(5000), cycle.Counter())
	require.Equal(t, transition.Counter(5000), tr.TotalViolation())
}

func TestAddVehicleAtEndAndRemove(t *testing.T) {
	nw, t1, t2 := buildFixture(t)
	cfg := config.Default()
	tours := map[formation.VehicleID]tour.Tour{"veh0": t1, "veh1": t2}
	lookup := func(v formation.VehicleID) tour.Tour { return tours[v] }

	tr := transition.NewEmpty(0)
	tr = tr.AddVehicleToOwnCycle("veh0", t1, nw, &cfg)
	tr = tr.AddVehicleAtEnd("veh1", 0, lookup, nw, &cfg)

	require.Equal(t, 1, len(tr.Cycles()))
	require.Equal(t, []formation.VehicleID{"veh0", "veh1"}, tr.Cycles()[0].Vehicles())
	require.Equal(t, transition.Counter(12000), tr.Cycles()[0].Counter())

	tr2, err := tr.RemoveVehicle("veh1", lookup, nw, &cfg)
	require.NoError(t, err)
	require.Equal(t, []formation.VehicleID{"veh0"}, tr2.Cycles()[0].Vehicles())
	require.Equal(t, transition.Counter(5000), tr2.Cycles()[0].Counter())

	require.NoError(t, tr2.VerifyConsistency(lookup, nw, &cfg))
}

func TestMaintenanceCredit(t *testing.T) {
	loc := network.NewLocations(1,
		[][]timeutil.Duration{{timeutil.Zero}},
		[][]timeutil.Distance{{timeutil.ZeroDistance}},
		nil,
	)
	cfg := config.Default()
	cfg.Maintenance.MaximalDistance = timeutil.FromMeters(3000)
	nodes := []network.Node{
		{ID: 0, Kind: network.StartDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:00:00")},
		{ID: 1, Kind: network.Maintenance, StartLocation: 0, EndLocation: 0, TrackCount: 1,
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00")},
		{ID: 2, Kind: network.EndDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:30:00"), EndTime: mustDT(t, "2024-01-01T08:30:00")},
	}
	nw := network.Build(nodes, nil, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	maintTour, err := tour.New([]network.NodeIdx{0, 1, 2}, nw)
	require.NoError(t, err)

	tr := transition.NewEmpty(0)
	tr = tr.AddVehicleToOwnCycle("veh0", maintTour, nw, &cfg)
	// distance 0 (maintenance node has zero TravelDistance) - 3000 credit = -3000, violation 0.
	require.Equal(t, transition.Counter(-3000), tr.Cycles()[0].Counter())
	require.Equal(t, transition.Counter(0), tr.TotalViolation())
}
