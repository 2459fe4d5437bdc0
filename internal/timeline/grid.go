package timeline

import (
	"math"
	"strconv"
	"time"
)

// GridLine is a vertical tick on the timeline canvas.
type GridLine struct {
	Date  time.Time
	X     float64
	Major bool
	Label string
}

// Tick-density thresholds for self-generated grids. The same
// three-tier policy drives granularity classification for report
// aggregation; keep the two in sync.
const (
	dailyTickMaxDays  = 60
	weeklyTickMaxDays = 365
)

// GridLines generates the vertical ticks for a viewport. When an
// externally aligned time series is supplied, ticks are sampled from
// it every ceil(N/6)-th point so the timeline lines up with a sibling
// chart; otherwise ticks are self-generated at daily, weekly, or
// monthly resolution depending on the span.
func GridLines(vp Viewport, aligned []time.Time) []GridLine {
	if len(aligned) > 0 {
		return alignedGridLines(vp, aligned)
	}
	return generatedGridLines(vp)
}

func alignedGridLines(vp Viewport, series []time.Time) []GridLine {
	step := int(math.Ceil(float64(len(series)) / 6.0))
	if step < 1 {
		step = 1
	}

	var lines []GridLine
	for i := 0; i < len(series); i += step {
		d := Midnight(series[i])
		label := strconv.Itoa(d.Day())
		major := false
		if i == 0 || i == len(series)-1 || d.Day() == 1 {
			label = d.Format("Jan 2")
			major = true
		}
		lines = append(lines, GridLine{
			Date:  d,
			X:     float64(DaysBetween(vp.Start, d)) * vp.PixelsPerDay,
			Major: major,
			Label: label,
		})
	}
	return lines
}

func generatedGridLines(vp Viewport) []GridLine {
	span := vp.TotalDays()
	switch {
	case span <= dailyTickMaxDays:
		return dailyTicks(vp)
	case span <= weeklyTickMaxDays:
		return weeklyTicks(vp)
	default:
		return monthlyTicks(vp)
	}
}

// dailyTicks marks every day; week starts (Sunday) are major.
func dailyTicks(vp Viewport) []GridLine {
	var lines []GridLine
	for d := Midnight(vp.Start); !d.After(vp.End); d = AddDays(d, 1) {
		major := d.Weekday() == time.Sunday
		label := strconv.Itoa(d.Day())
		if major {
			label = d.Format("Jan 2")
		}
		lines = append(lines, GridLine{
			Date:  d,
			X:     float64(DaysBetween(vp.Start, d)) * vp.PixelsPerDay,
			Major: major,
			Label: label,
		})
	}
	return lines
}

// weeklyTicks marks each Sunday; the first tick in a new month is major.
func weeklyTicks(vp Viewport) []GridLine {
	var lines []GridLine
	d := Midnight(vp.Start)
	for d.Weekday() != time.Sunday {
		d = AddDays(d, 1)
	}
	prevMonth := time.Month(0)
	for ; !d.After(vp.End); d = AddDays(d, 7) {
		major := d.Month() != prevMonth
		prevMonth = d.Month()
		lines = append(lines, GridLine{
			Date:  d,
			X:     float64(DaysBetween(vp.Start, d)) * vp.PixelsPerDay,
			Major: major,
			Label: d.Format("Jan 2"),
		})
	}
	return lines
}

// monthlyTicks marks the first of each month; January is major.
func monthlyTicks(vp Viewport) []GridLine {
	var lines []GridLine
	d := Midnight(vp.Start)
	if d.Day() != 1 {
		d = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, 1, 0)
	}
	for ; !d.After(vp.End); d = d.AddDate(0, 1, 0) {
		major := d.Month() == time.January
		label := d.Format("Jan")
		if major {
			label = d.Format("Jan 2006")
		}
		lines = append(lines, GridLine{
			Date:  d,
			X:     float64(DaysBetween(vp.Start, d)) * vp.PixelsPerDay,
			Major: major,
			Label: label,
		})
	}
	return lines
}
