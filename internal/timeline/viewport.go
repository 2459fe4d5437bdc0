package timeline

import (
	"math"
	"time"
)

// ViewportOptions controls how DeriveViewport chooses the visible
// window. External viewports take priority so sibling charts can share
// a synchronized pan/zoom; AvailableWidth forces pixel-exact alignment
// with a known render width.
type ViewportOptions struct {
	// External is a caller-supplied viewport, used verbatim when valid.
	External *Viewport

	// AvailableWidth, when > 0 together with External, rescales
	// PixelsPerDay so the external date range spans exactly this width.
	AvailableWidth float64

	// Compact selects the embedded fallback: a default current-year
	// window while external control is pending.
	Compact bool

	// Now anchors the compact fallback window; zero means time.Now().
	Now time.Time
}

const (
	// targetWidth is the render width the standalone policy aims for.
	targetWidth = 1400.0

	minPixelsPerDay = 2.0
	maxPixelsPerDay = 12.0

	// minPadDays is the minimum padding added on each side of the item
	// extent in standalone mode.
	minPadDays = 30
)

// DeriveViewport computes the visible date window, in priority order:
//  1. external viewport + available width: keep the external dates,
//     recompute scale so the render spans the width exactly;
//  2. external viewport alone: use verbatim;
//  3. compact mode with no external viewport: default one-year window;
//  4. standalone: derive from item extents with padding.
//
// A malformed external viewport is silently replaced by the computed
// fallback, never rejected.
func DeriveViewport(items []Item, opts ViewportOptions) Viewport {
	if opts.External != nil && opts.External.Valid() {
		vp := *opts.External
		if opts.AvailableWidth > 0 {
			totalDays := vp.TotalDays()
			if totalDays < 1 {
				totalDays = 1
			}
			vp.PixelsPerDay = math.Max(0.5, opts.AvailableWidth/float64(totalDays))
		}
		return vp
	}

	if opts.Compact {
		return yearViewport(opts.Now)
	}

	return viewportFromExtents(items, opts.Now)
}

// yearViewport is the compact-mode fallback: the current calendar year.
func yearViewport(now time.Time) Viewport {
	if now.IsZero() {
		now = time.Now()
	}
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	return Viewport{
		Start:        start,
		End:          end,
		PixelsPerDay: clampPixelsPerDay(targetWidth / float64(DaysBetween(start, end))),
	}
}

// viewportFromExtents computes the standalone viewport from the min/max
// item dates: pad = max(30, ceil(span*0.05)) days on each side, scale
// clamped to [2, 12] px/day targeting a ~1400px render.
func viewportFromExtents(items []Item, now time.Time) Viewport {
	if len(items) == 0 {
		return yearViewport(now)
	}

	minStart := items[0].Start
	maxEnd := items[0].End
	for _, it := range items[1:] {
		if it.Start.Before(minStart) {
			minStart = it.Start
		}
		if it.End.After(maxEnd) {
			maxEnd = it.End
		}
	}

	spanDays := DaysBetween(minStart, maxEnd)
	pad := int(math.Ceil(float64(spanDays) * 0.05))
	if pad < minPadDays {
		pad = minPadDays
	}

	start := AddDays(minStart, -pad)
	end := AddDays(maxEnd, pad)
	totalDays := DaysBetween(start, end)
	if totalDays < 1 {
		totalDays = 1
	}

	return Viewport{
		Start:        start,
		End:          end,
		PixelsPerDay: clampPixelsPerDay(targetWidth / float64(totalDays)),
	}
}

func clampPixelsPerDay(ppd float64) float64 {
	if ppd < minPixelsPerDay {
		return minPixelsPerDay
	}
	if ppd > maxPixelsPerDay {
		return maxPixelsPerDay
	}
	return ppd
}
