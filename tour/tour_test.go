package tour_test

import (
	"testing"

	"github.com/railsched/railsched/config"
	"github.com/railsched/railsched/network"
	"github.com/railsched/railsched/timeutil"
	"github.com/railsched/railsched/tour"
	"github.com/stretchr/testify/require"
)

func mustDT(t *testing.T, s string) timeutil.DateTime {
	t.Helper()
	dt, err := timeutil.ParseDateTime(s)
	require.NoError(t, err)
	return dt
}

// buildFixtureNetwork builds a single-location network with a real
// 7-node tour (depot, 5 trips with one 30-minute gap, depot) and two
// extra service nodes used to build a dummy tour.
func buildFixtureNetwork(t *testing.T) *network.Network {
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
			TravelDistance: timeutil.FromMeters(3000)},
		{ID: 2, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:30:00"), EndTime: mustDT(t, "2024-01-01T09:00:00"),
			TravelDistance: timeutil.FromMeters(3000)},
		{ID: 3, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T09:30:00"), EndTime: mustDT(t, "2024-01-01T10:00:00"),
			TravelDistance: timeutil.FromMeters(3000)},
		{ID: 4, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T10:05:00"), EndTime: mustDT(t, "2024-01-01T10:35:00"),
			TravelDistance: timeutil.FromMeters(3000)},
		{ID: 5, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T10:35:00"), EndTime: mustDT(t, "2024-01-01T11:05:00"),
			TravelDistance: timeutil.FromMeters(3000)},
		{ID: 6, Kind: network.EndDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T11:05:00"), EndTime: mustDT(t, "2024-01-01T11:05:00")},
		{ID: 7, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T12:00:00"), EndTime: mustDT(t, "2024-01-01T12:30:00"),
			TravelDistance: timeutil.FromMeters(6000)},
		{ID: 8, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T13:00:00"), EndTime: mustDT(t, "2024-01-01T13:30:00"),
			TravelDistance: timeutil.FromMeters(7000)},
	}
	return network.Build(nodes, nil, loc, &cfg, timeutil.FromSeconds(7*24*3600))
}

func TestTourRealTourAggregates(t *testing.T) {
	nw := buildFixtureNetwork(t)

	tr, err := tour.New([]network.NodeIdx{0, 1, 2, 3, 4, 5, 6}, nw)
	require.NoError(t, err)

	require.False(t, tr.IsDummy())
	require.Equal(t, 7, tr.Len())
	require.Len(t, tr.MovableNodes(), 5)
	require.Equal(t, timeutil.FromSeconds(2100), tr.OverheadTime())
	require.Equal(t, timeutil.FromMeters(15000), tr.ServiceDistance())
	require.Equal(t, timeutil.ZeroDistance, tr.DeadHeadDistance())
	require.Equal(t, timeutil.FromSeconds(1800), tr.PrecedingOverhead(3))
	require.Equal(t, timeutil.FromSeconds(1800), tr.SubsequentOverhead(2))
	require.Equal(t, network.NodeIdx(0), tr.FirstNode())
	require.Equal(t, network.NodeIdx(6), tr.LastNode())
	require.Equal(t, network.NodeIdx(3), tr.NthNode(3))
}

func TestTourDummyTourAggregates(t *testing.T) {
	nw := buildFixtureNetwork(t)

	p, err := tour.NewPath([]network.NodeIdx{7, 8}, nw)
	require.NoError(t, err)
	dummy := tour.NewDummyByPath(p, nw)

	require.True(t, dummy.IsDummy())
	require.Equal(t, 2, dummy.Len())
	require.Len(t, dummy.MovableNodes(), 2)
	require.Equal(t, timeutil.FromSeconds(1800), dummy.OverheadTime())
	require.Equal(t, timeutil.FromMeters(13000), dummy.ServiceDistance())
	require.Equal(t, timeutil.ZeroDistance, dummy.DeadHeadDistance())
	require.Equal(t, timeutil.Infinity, dummy.PrecedingOverhead(7))
	require.Equal(t, timeutil.FromSeconds(1800), dummy.SubsequentOverhead(7))
	require.Equal(t, network.NodeIdx(7), dummy.FirstNode())
	require.Equal(t, network.NodeIdx(8), dummy.LastNode())
	require.Equal(t, network.NodeIdx(8), dummy.NthNode(1))
}

func TestTourRemoveAndInsertRoundTrip(t *testing.T) {
	nw := buildFixtureNetwork(t)

	tr, err := tour.New([]network.NodeIdx{0, 1, 2, 3, 4, 5, 6}, nw)
	require.NoError(t, err)

	require.True(t, tr.Removable(tour.NewSegment(3, 3)))
	shortened, removed, err := tr.Remove(tour.NewSegment(3, 3))
	require.NoError(t, err)
	require.Equal(t, 6, shortened.Len())
	require.Equal(t, []network.NodeIdx{3}, removed.Nodes())
	require.Equal(t, timeutil.FromMeters(12000), shortened.ServiceDistance())

	restored, _, err := shortened.Insert(removed)
	require.NoError(t, err)
	require.Equal(t, tr.Len(), restored.Len())
	require.Equal(t, tr.ServiceDistance(), restored.ServiceDistance())
	require.Equal(t, tr.OverheadTime(), restored.OverheadTime())
	require.Equal(t, []network.NodeIdx{0, 1, 2, 3, 4, 5, 6}, restored.AllNodes())
}

func TestTourRemoveRejectsDepots(t *testing.T) {
	nw := buildFixtureNetwork(t)
	tr, err := tour.New([]network.NodeIdx{0, 1, 2, 3, 4, 5, 6}, nw)
	require.NoError(t, err)

	require.False(t, tr.Removable(tour.NewSegment(0, 0)))
	_, _, err = tr.Remove(tour.NewSegment(0, 0))
	require.Error(t, err)

	require.False(t, tr.Removable(tour.NewSegment(6, 6)))
	_, _, err = tr.Remove(tour.NewSegment(6, 6))
	require.Error(t, err)
}

// buildGapNetwork builds a small network whose nodes leave a genuine
// (non-touching) time gap on both sides of the node under test, to
// exercise Conflict without the insert-position boundary ambiguity
// that exact start==end touches create.
func buildGapNetwork(t *testing.T) *network.Network {
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
			StartTime: mustDT(t, "2024-01-01T08:00:00"), EndTime: mustDT(t, "2024-01-01T08:20:00")},
		{ID: 2, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T08:30:00"), EndTime: mustDT(t, "2024-01-01T08:50:00")},
		{ID: 3, Kind: network.Service, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T09:00:00"), EndTime: mustDT(t, "2024-01-01T09:20:00")},
		{ID: 4, Kind: network.EndDepot, StartLocation: 0, EndLocation: 0,
			StartTime: mustDT(t, "2024-01-01T09:20:00"), EndTime: mustDT(t, "2024-01-01T09:20:00")},
	}
	return network.Build(nodes, nil, loc, &cfg, timeutil.FromSeconds(7*24*3600))
}

func TestTourConflictDetectsDisplacedNodes(t *testing.T) {
	nw := buildGapNetwork(t)
	tr, err := tour.New([]network.NodeIdx{0, 1, 3, 4}, nw)
	require.NoError(t, err)

	conflict, err := tr.Conflict(tour.NewSegment(2, 2))
	require.NoError(t, err)
	require.Empty(t, conflict.Nodes())

	p, err := tour.NewPath([]network.NodeIdx{2}, nw)
	require.NoError(t, err)
	withGap, _, err := tr.Insert(p)
	require.NoError(t, err)
	require.Equal(t, []network.NodeIdx{0, 1, 2, 3, 4}, withGap.AllNodes())
}

func TestNewRejectsMissingDepots(t *testing.T) {
	nw := buildFixtureNetwork(t)
	_, err := tour.New([]network.NodeIdx{1, 2, 3, 4, 5}, nw)
	require.Error(t, err)
}

func TestTourCompareOrdersByLengthThenStartTimes(t *testing.T) {
	nw := buildFixtureNetwork(t)

	long, err := tour.New([]network.NodeIdx{0, 1, 2, 3, 4, 5, 6}, nw)
	require.NoError(t, err)
	short, err := tour.New([]network.NodeIdx{0, 1, 2, 3, 6}, nw)
	require.NoError(t, err)
	later, err := tour.New([]network.NodeIdx{0, 2, 3, 4, 6}, nw)
	require.NoError(t, err)

	require.Equal(t, 0, long.Compare(long))
	require.Equal(t, -1, short.Compare(long))
	require.Equal(t, 1, long.Compare(short))
	require.Equal(t, -1, short.Compare(later))
	require.Equal(t, 1, later.Compare(short))
}
