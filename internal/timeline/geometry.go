package timeline

import (
	"math"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
)

// Item is a phase projected onto the timeline. Start and End are
// normalized to local midnight. Phase carries the backing record for
// tooltips and edit actions; it is never mutated by the timeline.
type Item struct {
	ID    string
	Name  string
	Start time.Time
	End   time.Time
	Color string
	Phase *domain.Phase
}

// ItemsFromPhases projects phases onto timeline items, normalizing
// dates to midnight.
func ItemsFromPhases(phases []*domain.Phase) []Item {
	items := make([]Item, 0, len(phases))
	for _, p := range phases {
		items = append(items, Item{
			ID:    p.ID,
			Name:  p.Name,
			Start: Midnight(p.StartDate),
			End:   Midnight(p.EndDate),
			Color: p.Color,
			Phase: p,
		})
	}
	return items
}

// Viewport is the visible date window and horizontal scale.
// Invariant: End after Start, PixelsPerDay > 0.
type Viewport struct {
	Start        time.Time
	End          time.Time
	PixelsPerDay float64
}

// MinItemWidth is the hard floor for rendered item width so that
// zero-duration or heavily zoomed-out items remain selectable.
const MinItemWidth = 20.0

// Valid reports whether the viewport satisfies its invariants.
func (vp Viewport) Valid() bool {
	return !vp.Start.IsZero() && !vp.End.IsZero() &&
		vp.End.After(vp.Start) && vp.PixelsPerDay > 0
}

// TotalDays is the viewport span in whole calendar days.
func (vp Viewport) TotalDays() int {
	return DaysBetween(vp.Start, vp.End)
}

// Width is the rendered width of the full viewport in pixels.
func (vp Viewport) Width() float64 {
	return float64(vp.TotalDays()) * vp.PixelsPerDay
}

// Midnight truncates t to local midnight. Repeated pixel/date
// conversions go through this so time-of-day drift never accumulates.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the calendar-day difference b - a. Both inputs
// are midnight-normalized first; the result is rounded so DST
// transitions (23h/25h days) do not skew the count.
func DaysBetween(a, b time.Time) int {
	diff := Midnight(b).Sub(Midnight(a))
	return int(math.Round(diff.Hours() / 24))
}

// AddDays returns t shifted by n calendar days, at midnight.
func AddDays(t time.Time, n int) time.Time {
	return Midnight(t).AddDate(0, 0, n)
}

// ItemPosition projects an item onto the viewport, returning its left
// offset and width in pixels. Width never drops below MinItemWidth.
func ItemPosition(it Item, vp Viewport) (left, width float64) {
	left = float64(DaysBetween(vp.Start, it.Start)) * vp.PixelsPerDay
	width = float64(DaysBetween(it.Start, it.End)) * vp.PixelsPerDay
	if width < MinItemWidth {
		width = MinItemWidth
	}
	return left, width
}

// DateAtPixel converts a horizontal pixel offset back to a calendar
// date, rounding to the nearest whole day. Inverse of ItemPosition's
// left edge up to day rounding.
func DateAtPixel(x float64, vp Viewport) time.Time {
	days := int(math.Round(x / vp.PixelsPerDay))
	return AddDays(vp.Start, days)
}

// DayIndex converts a pixel offset to a day offset from the viewport
// start, used by brush selections.
func DayIndex(x float64, vp Viewport) int {
	return int(math.Round(x / vp.PixelsPerDay))
}
