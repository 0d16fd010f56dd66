package timeutil_test

import (
	"testing"

	"github.com/railsched/railsched/timeutil"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := timeutil.ParseDuration("01:30")
	require.NoError(t, err)
	require.Equal(t, int64(5400), d.InSeconds())
	require.Equal(t, "01:30h", d.String())

	d2, err := timeutil.ParseDuration("00:00:45")
	require.NoError(t, err)
	require.Equal(t, int64(45), d2.InSeconds())
	require.Equal(t, "00:00:45h", d2.String())

	_, err = timeutil.ParseDuration("99")
	require.ErrorIs(t, err, timeutil.ErrParse)

	_, err = timeutil.ParseDuration("01:70")
	require.ErrorIs(t, err, timeutil.ErrParse)
}

func TestParseISODuration(t *testing.T) {
	d, err := timeutil.ParseISODuration("P10DT0H31M2S")
	require.NoError(t, err)
	require.Equal(t, int64(10*86400+31*60+2), d.InSeconds())

	d2, err := timeutil.ParseISODuration("P0DT5H0M0S")
	require.NoError(t, err)
	require.Equal(t, int64(5*3600), d2.InSeconds())
}

func TestDurationAddInfinityAbsorbs(t *testing.T) {
	d := timeutil.FromSeconds(10)
	require.True(t, d.Add(timeutil.Infinity).IsInfinity())
	require.True(t, timeutil.Infinity.Add(d).IsInfinity())
}

func TestDurationSubPanicsOnNegativeResult(t *testing.T) {
	a := timeutil.FromSeconds(5)
	b := timeutil.FromSeconds(10)
	require.Panics(t, func() { a.Sub(b) })
}

func TestDurationOrdering(t *testing.T) {
	a := timeutil.FromSeconds(5)
	b := timeutil.FromSeconds(10)
	require.True(t, a.Less(b))
	require.False(t, timeutil.Infinity.Less(b))
	require.True(t, b.Less(timeutil.Infinity))
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 0, a.Compare(a))
}

func TestSumDurations(t *testing.T) {
	total := timeutil.SumDurations(timeutil.FromSeconds(1), timeutil.FromSeconds(2), timeutil.FromSeconds(3))
	require.Equal(t, int64(6), total.InSeconds())
}
