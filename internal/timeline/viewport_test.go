package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveViewport_ExternalUsedVerbatim(t *testing.T) {
	ext := Viewport{Start: date(2024, 1, 1), End: date(2024, 6, 30), PixelsPerDay: 4}
	got := DeriveViewport(nil, ViewportOptions{External: &ext})
	assert.Equal(t, ext, got)
}

func TestDeriveViewport_ExternalWithWidthRescales(t *testing.T) {
	ext := Viewport{Start: date(2024, 1, 1), End: date(2024, 1, 11), PixelsPerDay: 4}
	got := DeriveViewport(nil, ViewportOptions{External: &ext, AvailableWidth: 500})

	assert.Equal(t, ext.Start, got.Start)
	assert.Equal(t, ext.End, got.End)
	assert.InDelta(t, 50.0, got.PixelsPerDay, 1e-9) // 500px / 10 days
}

func TestDeriveViewport_ExternalWithWidthFloorsScale(t *testing.T) {
	ext := Viewport{Start: date(2020, 1, 1), End: date(2030, 1, 1), PixelsPerDay: 4}
	got := DeriveViewport(nil, ViewportOptions{External: &ext, AvailableWidth: 100})
	assert.Equal(t, 0.5, got.PixelsPerDay)
}

func TestDeriveViewport_MalformedExternalFallsBack(t *testing.T) {
	items := []Item{{ID: "a", Start: date(2024, 3, 1), End: date(2024, 4, 1)}}

	for _, bad := range []Viewport{
		{},
		{Start: date(2024, 1, 1)},
		{Start: date(2024, 2, 1), End: date(2024, 1, 1), PixelsPerDay: 4},
		{Start: date(2024, 1, 1), End: date(2024, 2, 1), PixelsPerDay: 0},
	} {
		got := DeriveViewport(items, ViewportOptions{External: &bad})
		require.True(t, got.Valid(), "fallback must be valid for %+v", bad)
		assert.True(t, got.Start.Before(items[0].Start), "fallback should pad before item extent")
	}
}

func TestDeriveViewport_CompactDefaultsToCurrentYear(t *testing.T) {
	now := date(2024, 7, 15)
	got := DeriveViewport(nil, ViewportOptions{Compact: true, Now: now})

	assert.Equal(t, date(2024, 1, 1), got.Start)
	assert.Equal(t, date(2024, 12, 31), got.End)
	assert.True(t, got.Valid())
}

func TestDeriveViewport_StandaloneExtentPadding(t *testing.T) {
	// 31-day span: 5% is ~2 days, so the 30-day minimum applies.
	items := []Item{
		{ID: "a", Start: date(2024, 3, 1), End: date(2024, 3, 15)},
		{ID: "b", Start: date(2024, 3, 10), End: date(2024, 4, 1)},
	}
	got := DeriveViewport(items, ViewportOptions{})

	assert.Equal(t, date(2024, 1, 31), got.Start) // Mar 1 - 30d
	assert.Equal(t, date(2024, 5, 1), got.End)    // Apr 1 + 30d
	assert.GreaterOrEqual(t, got.PixelsPerDay, 2.0)
	assert.LessOrEqual(t, got.PixelsPerDay, 12.0)
}

func TestDeriveViewport_StandaloneProportionalPadding(t *testing.T) {
	// ~3-year span: 5% (~55 days) beats the 30-day minimum.
	items := []Item{{ID: "a", Start: date(2021, 1, 1), End: date(2024, 1, 1)}}
	got := DeriveViewport(items, ViewportOptions{})

	padDays := DaysBetween(got.Start, items[0].Start)
	assert.Greater(t, padDays, 30)
	assert.Equal(t, 2.0, got.PixelsPerDay) // 1400 / ~1205 days clamps to the floor
}

func TestDeriveViewport_NoItemsNoExternal(t *testing.T) {
	got := DeriveViewport(nil, ViewportOptions{Now: date(2025, 2, 1)})
	assert.True(t, got.Valid())
	assert.Equal(t, 2025, got.Start.Year())
}

func TestYearViewport_ZeroNowUsesClock(t *testing.T) {
	got := yearViewport(time.Time{})
	assert.True(t, got.Valid())
	assert.Equal(t, time.Now().Year(), got.Start.Year())
}
