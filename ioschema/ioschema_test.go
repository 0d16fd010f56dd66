package ioschema_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/railsched/railsched/greedy"
	"github.com/railsched/railsched/ioschema"
	"github.com/railsched/railsched/objective"
	"github.com/railsched/railsched/obslog"
	"github.com/stretchr/testify/require"
)

const sampleInstance = `{
  "vehicleTypes": [{"id": "EMU", "capacity": 200, "seats": 120}],
  "locations": [{"id": "A"}, {"id": "B"}],
  "routes": [{
    "id": "R1",
    "vehicleType": "EMU",
    "segments": [{"id": "S1", "order": 1, "origin": "A", "destination": "B", "distance": 15000, "duration": 1800}]
  }],
  "departures": [{
    "id": "D1",
    "route": "R1",
    "segments": [{"id": "DS1", "routeSegment": "S1", "departure": "2024-01-01T08:00:00", "passengers": 80, "seated": 80}]
  }],
  "deadHeadTrips": {
    "indices": ["A", "B"],
    "durations": [[0, 1800], [1800, 0]],
    "distances": [[0, 15000], [15000, 0]]
  },
  "parameters": {
    "shunting": {"minimalDuration": 300, "deadHeadTripDuration": 0},
    "costs": {"staff": 1, "serviceTrip": 1, "deadHeadTrip": 1, "idle": 1}
  }
}`

func TestLoadInstanceBuildsNetwork(t *testing.T) {
	log := obslog.New(zap.NewNop())
	inst, err := ioschema.LoadInstance(strings.NewReader(sampleInstance), log)
	require.NoError(t, err)

	require.Equal(t, 2, inst.Network.Locations().Size())
	require.Len(t, inst.Network.ServiceNodes(), 1)
	node := inst.Network.Node(inst.Network.ServiceNodes()[0])
	require.Equal(t, 80, node.Demand)
	require.Equal(t, "DS1", node.Label)

	// every location gets an implicit unlimited depot since none were declared
	require.Len(t, inst.Network.DepotNodes(), 4) // 2 locations * (start+end)
}

func TestLoadInstanceRejectsUnknownReferences(t *testing.T) {
	log := obslog.New(zap.NewNop())
	bad := strings.Replace(sampleInstance, `"origin": "A"`, `"origin": "nope"`, 1)
	_, err := ioschema.LoadInstance(strings.NewReader(bad), log)
	require.Error(t, err)
}

func TestLoadSolveWriteRoundTrip(t *testing.T) {
	log := obslog.New(zap.NewNop())
	inst, err := ioschema.LoadInstance(strings.NewReader(sampleInstance), log)
	require.NoError(t, err)

	sched, err := greedy.Solve(inst.Network, inst.VehicleTypes, &inst.Config)
	require.NoError(t, err)
	require.NoError(t, sched.VerifyConsistency())

	obj := objective.Standard(inst.Config)
	value := obj.Evaluate(sched)

	var buf bytes.Buffer
	err = ioschema.WriteResult(&buf, sched, value, ioschema.RunInfo{
		RunningTime:     time.Second,
		NumberOfThreads: 4,
		Timestamp:       time.Unix(0, 0).UTC(),
		Hostname:        "test-host",
	})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, "test-host", out["info"].(map[string]any)["hostname"])
	schedules := out["schedule"].([]any)
	require.Len(t, schedules, 1)
	vehicle := schedules[0].(map[string]any)
	require.Equal(t, "EMU", vehicle["vehicleType"])
	tourEntries := vehicle["tour"].([]any)
	require.NotEmpty(t, tourEntries)
}
