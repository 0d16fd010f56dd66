package timeutil_test

import (
	"testing"

	"github.com/railsched/railsched/timeutil"
	"github.com/stretchr/testify/require"
)

func TestParseDateTime(t *testing.T) {
	dt, err := timeutil.ParseDateTime("2009-06-15T13:45:13")
	require.NoError(t, err)
	require.Equal(t, "2009-06-15T13:45:13", dt.String())

	dt2, err := timeutil.ParseDateTime("2009-04-15T12:10")
	require.NoError(t, err)
	require.Equal(t, "2009-04-15T12:10:00", dt2.String())

	_, err = timeutil.ParseDateTime("not-a-date")
	require.ErrorIs(t, err, timeutil.ErrParse)
}

func TestDateTimeOrderingSentinels(t *testing.T) {
	p, err := timeutil.ParseDateTime("2009-06-15T13:45:13")
	require.NoError(t, err)
	require.True(t, timeutil.Earliest.Less(p))
	require.True(t, p.Less(timeutil.Latest))
	require.False(t, timeutil.Latest.Less(p))
}

func TestDateTimeAddSaturatesAtLatest(t *testing.T) {
	p, err := timeutil.ParseDateTime("2009-06-15T13:45:13")
	require.NoError(t, err)
	require.True(t, p.Add(timeutil.Infinity).IsLatest())
	require.True(t, timeutil.Earliest.Add(timeutil.Infinity).IsLatest())
}

func TestDateTimeSubFailsWhenNegative(t *testing.T) {
	early, _ := timeutil.ParseDateTime("2009-06-15T13:45:13")
	later, _ := timeutil.ParseDateTime("2009-06-15T14:00:00")
	_, err := early.Sub(later)
	require.ErrorIs(t, err, timeutil.ErrNegativeDuration)

	d, err := later.Sub(early)
	require.NoError(t, err)
	require.Equal(t, int64(14*60+47), d.InSeconds())
}

func TestDateTimeAddDurationRollsOverMonthAndLeapYear(t *testing.T) {
	feb28, err := timeutil.NewPoint(2024, 2, 28, 23, 0, 0)
	require.NoError(t, err)
	dur, err := timeutil.ParseDuration("25:00")
	require.NoError(t, err)
	next := feb28.Add(dur)
	// 2024 is a leap year, so Feb has 29 days.
	require.Equal(t, "2024-03-01T00:00:00", next.String())
}

func TestDateTimeAddDurationNonLeapYearFebruary(t *testing.T) {
	feb27, err := timeutil.NewPoint(2023, 2, 27, 0, 0, 0)
	require.NoError(t, err)
	dur, err := timeutil.ParseDuration("48:00")
	require.NoError(t, err)
	next := feb27.Add(dur)
	require.Equal(t, "2023-03-01T00:00:00", next.String())
}

func TestNewPointRejectsInvalidCalendarFields(t *testing.T) {
	_, err := timeutil.NewPoint(2023, 2, 29, 0, 0, 0) // not a leap year
	require.ErrorIs(t, err, timeutil.ErrParse)

	_, err = timeutil.NewPoint(2023, 13, 1, 0, 0, 0)
	require.ErrorIs(t, err, timeutil.ErrParse)
}
