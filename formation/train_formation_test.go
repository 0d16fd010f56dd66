package formation_test

import (
	"testing"

	"github.com/railsched/railsched/formation"
	"github.com/railsched/railsched/vehicletype"
	"github.com/stretchr/testify/require"
)

func TestTrainFormationReplaceRemoveAdd(t *testing.T) {
	table := vehicletype.NewTable([]vehicletype.Type{
		{ID: "small", Capacity: 100, Seats: 80},
		{ID: "large", Capacity: 200, Seats: 150},
	})

	f := formation.Empty(table)
	require.Equal(t, "---", f.String())
	require.Equal(t, 0, f.Len())

	f = f.AddAtTail(formation.Vehicle{ID: "v1", Type: 0})
	f = f.AddAtTail(formation.Vehicle{ID: "v2", Type: 1})
	require.Equal(t, 2, f.Len())
	require.Equal(t, 230, f.Seats())
	require.Equal(t, 300, f.Capacity())

	f2, err := f.Replace("v1", formation.Vehicle{ID: "v3", Type: 1})
	require.NoError(t, err)
	require.Equal(t, 300, f2.Seats())
	require.Equal(t, []formation.Vehicle{{ID: "v3", Type: 1}, {ID: "v2", Type: 1}}, f2.Iter())

	f3, err := f2.Remove("v2")
	require.NoError(t, err)
	require.Equal(t, 1, f3.Len())

	_, err = f3.Remove("not-there")
	require.ErrorIs(t, err, formation.ErrVehicleNotInFormation)
}
