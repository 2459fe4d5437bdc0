package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridLines_AlignedSeriesSampling(t *testing.T) {
	vp := Viewport{Start: date(2024, 1, 1), End: date(2024, 2, 1), PixelsPerDay: 10}

	series := make([]time.Time, 30)
	for i := range series {
		series[i] = AddDays(date(2024, 1, 1), i)
	}

	lines := GridLines(vp, series)
	// ceil(30/6) = 5 → indices 0,5,10,15,20,25 → 6 lines.
	require.Len(t, lines, 6)

	assert.Equal(t, "Jan 1", lines[0].Label)
	assert.True(t, lines[0].Major)
	assert.Equal(t, "6", lines[1].Label)
	assert.False(t, lines[1].Major)
	assert.Equal(t, 50.0, lines[1].X)
}

func TestGridLines_AlignedMonthStartLabeled(t *testing.T) {
	vp := Viewport{Start: date(2024, 1, 30), End: date(2024, 2, 10), PixelsPerDay: 10}
	series := []time.Time{date(2024, 1, 30), date(2024, 1, 31), date(2024, 2, 1)}

	lines := GridLines(vp, series)
	require.Len(t, lines, 3)
	assert.Equal(t, "Feb 1", lines[2].Label) // last point and month start
	assert.True(t, lines[2].Major)
}

func TestGridLines_DailyTierUnder60Days(t *testing.T) {
	vp := Viewport{Start: date(2024, 1, 1), End: date(2024, 1, 31), PixelsPerDay: 10}
	lines := GridLines(vp, nil)

	require.Len(t, lines, 31)
	for _, l := range lines {
		if l.Date.Weekday() == time.Sunday {
			assert.True(t, l.Major, "Sunday %s should be major", l.Date)
		} else {
			assert.False(t, l.Major, "%s should be minor", l.Date)
		}
	}
}

func TestGridLines_WeeklyTierUnderAYear(t *testing.T) {
	vp := Viewport{Start: date(2024, 1, 1), End: date(2024, 6, 30), PixelsPerDay: 4}
	lines := GridLines(vp, nil)

	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.Equal(t, time.Sunday, l.Date.Weekday())
	}
	// First weekly tick of each month is major.
	assert.True(t, lines[0].Major)
	majors := 0
	for _, l := range lines {
		if l.Major {
			majors++
		}
	}
	assert.Equal(t, 6, majors) // Jan through Jun
}

func TestGridLines_MonthlyTierOverAYear(t *testing.T) {
	vp := Viewport{Start: date(2023, 3, 15), End: date(2025, 3, 15), PixelsPerDay: 2}
	lines := GridLines(vp, nil)

	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.Equal(t, 1, l.Date.Day())
		if l.Date.Month() == time.January {
			assert.True(t, l.Major)
			assert.Equal(t, l.Date.Format("Jan 2006"), l.Label)
		} else {
			assert.False(t, l.Major)
		}
	}
	assert.Equal(t, date(2023, 4, 1), lines[0].Date)
}
