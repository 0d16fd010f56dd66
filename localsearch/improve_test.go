package localsearch_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/localsearch"
	"github.com/railsched/railsched/metrics"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/schedule"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/vehicletype"
	"github.com/stretchr/testify/require"
)

// demandFixture builds a smaller network than buildFixture (a start
// and an end depot and two trips, nodes 0-3) in which trip node 3
// carries passenger demand that its own lack of coverage leaves
// unserved, so a hitch-hiking
// AddTripForHitchHiking swap is a strict UnservedPassengers
// improvement the Minimizer must find.
func demandFixture(t *testing.T) (*network.Network, *vehicletype.Table, *config.Config) {
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
		{ID: 3, Kind: network.Service, VehicleType: 0, StartLocation: 0, EndLocation: 0, Demand: 50,
			StartTime: mustDT(t, "2024-01-01T09:00:00"), EndTime: mustDT(t, "2024-01-01T09:30:00")},
	}
	depots := []network.Depot{
		{ID: 0, Location: 0, Capacity: map[network.VehicleTypeIdx]int{0: -1}},
	}
	nw := network.Build(nodes, depots, loc, &cfg, timeutil.FromSeconds(7*24*3600))
	types := vehicletype.NewTable([]vehicletype.Type{{ID: "EMU", Capacity: 200, Seats: 120}})
	return nw, types, &cfg
}

func TestMinimizerFindsHitchHikingImprovement(t *testing.T) {
	nw, types, cfg := demandFixture(t)
	s := schedule.New(nw, types, cfg)
	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	obj := objective.Standard(*cfg)
	require.Equal(t, int64(50), unservedGap(obj, s))

	m := localsearch.Minimizer{Objective: obj, Neighborhood: localsearch.Neighborhood{}}
	next, found, provider, err := m.Improve(s, "")
	require.NoError(t, err)
	require.True(t, found)
	require.NotEmpty(t, provider)
	require.NoError(t, next.VerifyConsistency())
	require.Equal(t, int64(0), unservedGap(obj, next))
}

func unservedGap(obj objective.Objective[*schedule.Schedule], s *schedule.Schedule) int64 {
	var total int64
	for _, n := range s.Network().ServiceNodes() {
		node := s.Network().Node(n)
		if gap := node.Demand - s.CoveredBy(n).Seats(); gap > 0 {
			total += int64(gap)
		}
	}
	return total
}

func TestRunStopsWhenNoFurtherImprovement(t *testing.T) {
	nw, types, cfg := demandFixture(t)
	s := schedule.New(nw, types, cfg)
	s, _, err := s.SpawnVehicleForPath(0, []network.NodeIdx{2})
	require.NoError(t, err)

	obj := objective.Standard(*cfg)
	mc := metrics.NewCollector(prometheus.NewRegistry())
	m := localsearch.Minimizer{Objective: obj, Neighborhood: localsearch.Neighborhood{}, Metrics: mc}

	final, rounds, err := localsearch.Run(zap.NewNop(), mc, m, obj, s, 0)
	require.NoError(t, err)
	require.Greater(t, rounds, 0)
	require.NoError(t, final.VerifyConsistency())
	require.Equal(t, int64(0), unservedGap(obj, final))

	require.Equal(t, float64(rounds+1), testutil.ToFloat64(mc.Iterations))
	require.Greater(t, testutil.ToFloat64(mc.SwapsAttempted), float64(0))
	require.Equal(t, float64(0), testutil.ToFloat64(mc.UnservedGauge))
}
