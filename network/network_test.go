package network_test

import (
	"testing"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/stretchr/testify/require"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

func TestNetworkCanReachAndDeadHead(t *testing.T) {
	loc := network.NewLocations(2,
		[][]timeutil.Duration{{timeutil.Zero, timeutil.FromSeconds(600)}, {timeutil.FromSeconds(600), timeutil.Zero}},
		[][]timeutil.Distance{{timeutil.ZeroDistance, timeutil.FromMeters(5000)}, {timeutil.FromMeters(5000), timeutil.ZeroDistance}},
		nil,
	)
	cfg := config.Default()
	nodes := []network.Node{
		{ID: 0, Kind: network.Service, StartLocation: 1, EndLocation: 0, StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:30:00")},
		{ID: 1, Kind: network.Service, StartLocation: 1, EndLocation: 0, StartTime: mustDT(t, "2024-01-01T09:00:00"), EndTime: mustDT(t, "2024-01-01T09:30:00")},
		{ID: 2, Kind: network.Service, StartLocation: 1, EndLocation: 0, StartTime: mustDT(t, "2024-01-01T08:35:00"), EndTime: mustDT(t, "2024-01-01T09:05:00")},
	}
	nw := network.Build(nodes, nil, loc, &cfg, timeutil.FromSeconds(86400))

	require.True(t, nw.CanReach(0, 1)) // 08:30 + 10min dead-head = 08:40 <= 09:00
	require.False(t, nw.CanReach(0, 2)) // 08:30 + 10min = 08:40 > 08:35
	require.Equal(t, []network.NodeIdx{0, 2, 1}, nw.ServiceNodes())
}
