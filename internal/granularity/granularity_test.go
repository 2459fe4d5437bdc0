package granularity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		months int
		want   Granularity
	}{
		{1, Daily},
		{3, Daily},
		{4, Weekly},
		{12, Weekly},
		{13, Monthly},
		{24, Monthly},
		{25, Quarterly},
		{60, Quarterly},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.months), "months=%d", tc.months)
	}
}

func TestMonthsSpanning(t *testing.T) {
	assert.Equal(t, 1, MonthsSpanning(date(2024, 1, 5), date(2024, 1, 25)))
	assert.Equal(t, 3, MonthsSpanning(date(2024, 1, 1), date(2024, 3, 31)))
	assert.Equal(t, 4, MonthsSpanning(date(2024, 1, 15), date(2024, 4, 1)))
	assert.Equal(t, 13, MonthsSpanning(date(2024, 1, 1), date(2025, 1, 1)))
	assert.Equal(t, 0, MonthsSpanning(date(2024, 2, 1), date(2024, 1, 1)))
}

func TestForRange_BoundarySpans(t *testing.T) {
	// Exactly 3 months → daily; 4 → weekly; 13 → monthly; 25 → quarterly.
	assert.Equal(t, Daily, ForRange(date(2024, 1, 1), date(2024, 3, 15)))
	assert.Equal(t, Weekly, ForRange(date(2024, 1, 1), date(2024, 4, 15)))
	assert.Equal(t, Monthly, ForRange(date(2024, 1, 1), date(2025, 1, 15)))
	assert.Equal(t, Quarterly, ForRange(date(2024, 1, 1), date(2026, 1, 15)))
}

func TestBuckets_Daily(t *testing.T) {
	buckets := Buckets(date(2024, 1, 1), date(2024, 1, 5), Daily)
	require.Len(t, buckets, 5)
	assert.Equal(t, date(2024, 1, 3), buckets[2].Start)
	assert.Equal(t, buckets[2].Start, buckets[2].End)
}

func TestBuckets_WeeklyAnchoredToSunday(t *testing.T) {
	// 2024-01-01 is a Monday; first Sunday boundary is 2024-01-07.
	buckets := Buckets(date(2024, 1, 1), date(2024, 1, 20), Weekly)
	require.Len(t, buckets, 3)

	// Leading partial week: Mon Jan 1 – Sat Jan 6.
	assert.Equal(t, date(2024, 1, 1), buckets[0].Start)
	assert.Equal(t, date(2024, 1, 6), buckets[0].End)

	// Full week starting Sunday.
	assert.Equal(t, date(2024, 1, 7), buckets[1].Start)
	assert.Equal(t, time.Sunday, buckets[1].Start.Weekday())
	assert.Equal(t, date(2024, 1, 13), buckets[1].End)

	// Trailing bucket truncated to the data end, not overrun.
	assert.Equal(t, date(2024, 1, 14), buckets[2].Start)
	assert.Equal(t, date(2024, 1, 20), buckets[2].End)
}

func TestBuckets_MonthlyCalendarAnchored(t *testing.T) {
	buckets := Buckets(date(2024, 1, 15), date(2024, 4, 10), Monthly)
	require.Len(t, buckets, 4)

	assert.Equal(t, date(2024, 1, 15), buckets[0].Start)
	assert.Equal(t, date(2024, 1, 31), buckets[0].End)
	assert.Equal(t, date(2024, 2, 1), buckets[1].Start)
	assert.Equal(t, date(2024, 2, 29), buckets[1].End)
	assert.Equal(t, date(2024, 4, 1), buckets[3].Start)
	assert.Equal(t, date(2024, 4, 10), buckets[3].End) // truncated
}

func TestBuckets_QuarterlyCalendarAnchored(t *testing.T) {
	buckets := Buckets(date(2024, 2, 10), date(2024, 11, 20), Quarterly)
	require.Len(t, buckets, 4)

	assert.Equal(t, date(2024, 2, 10), buckets[0].Start)
	assert.Equal(t, date(2024, 3, 31), buckets[0].End)
	assert.Equal(t, date(2024, 4, 1), buckets[1].Start)
	assert.Equal(t, date(2024, 6, 30), buckets[1].End)
	assert.Equal(t, date(2024, 10, 1), buckets[3].Start)
	assert.Equal(t, date(2024, 11, 20), buckets[3].End) // truncated
}

func TestAggregate_AveragesPerRole(t *testing.T) {
	buckets := Buckets(date(2024, 1, 1), date(2024, 1, 20), Weekly)
	series := map[string][]DayValue{
		"engineer": {
			{Date: date(2024, 1, 1), Value: 8},
			{Date: date(2024, 1, 2), Value: 4},
			{Date: date(2024, 1, 8), Value: 6},
		},
		"designer": {
			{Date: date(2024, 1, 15), Value: 2},
		},
	}

	got := Aggregate(series, buckets)
	require.Len(t, got["engineer"], 3)

	assert.InDelta(t, 6.0, got["engineer"][0].Value, 1e-9) // (8+4)/2
	assert.InDelta(t, 6.0, got["engineer"][1].Value, 1e-9)
	assert.Equal(t, 0.0, got["engineer"][2].Value) // empty bucket

	assert.Equal(t, 0.0, got["designer"][0].Value)
	assert.InDelta(t, 2.0, got["designer"][2].Value, 1e-9)
}

func TestBrushRange_ReclassifiesSubRange(t *testing.T) {
	// Multi-year series, 30-day brush window → daily again.
	start, end := date(2022, 1, 1), date(2025, 1, 1)
	s, e, g := BrushRange(start, end, 100, 130)

	assert.Equal(t, date(2022, 4, 11), s) // Jan 1 + 100 days (2022 is not a leap year)
	assert.Equal(t, date(2022, 5, 11), e)
	assert.Equal(t, Daily, g)
}

func TestBrushRange_ClampsAndSwaps(t *testing.T) {
	start, end := date(2024, 1, 1), date(2024, 1, 31)
	s, e, g := BrushRange(start, end, 500, -10)

	assert.Equal(t, date(2024, 1, 1), s)
	assert.Equal(t, date(2024, 1, 31), e)
	assert.Equal(t, Daily, g)
}
