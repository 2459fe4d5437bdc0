// Package granularity classifies date ranges into time buckets and
// aggregates daily series into them. Report charts and the timeline
// grid share its three-tier policy: short ranges stay daily, longer
// ones coarsen to weekly, monthly, then quarterly buckets.
package granularity

import (
	"time"
)

type Granularity string

const (
	Daily     Granularity = "daily"
	Weekly    Granularity = "weekly"
	Monthly   Granularity = "monthly"
	Quarterly Granularity = "quarterly"
)

// Classify maps a range length in calendar months to a bucket size.
// Boundaries: ≤3 daily, 4–12 weekly, 13–24 monthly, >24 quarterly.
func Classify(months int) Granularity {
	switch {
	case months <= 3:
		return Daily
	case months <= 12:
		return Weekly
	case months <= 24:
		return Monthly
	default:
		return Quarterly
	}
}

// MonthsSpanning counts the calendar months touched by [start, end],
// inclusive on both ends.
func MonthsSpanning(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}

// ForRange classifies the granularity for a start/end date pair.
func ForRange(start, end time.Time) Granularity {
	return Classify(MonthsSpanning(start, end))
}

// Bucket is one aggregation window. Start and End are inclusive dates;
// the final bucket of a range is truncated to the actual data end
// rather than overrunning it.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// Buckets generates canonical bucket boundaries covering [start, end].
// Weeks are anchored to Sunday; months and quarters to calendar
// boundaries. Leading and trailing partial buckets are truncated to
// the range rather than extended past it.
func Buckets(start, end time.Time, g Granularity) []Bucket {
	start = midnight(start)
	end = midnight(end)
	if end.Before(start) {
		return nil
	}

	switch g {
	case Daily:
		return dailyBuckets(start, end)
	case Weekly:
		return anchoredBuckets(start, end, nextSunday, "Jan 2")
	case Monthly:
		return anchoredBuckets(start, end, nextMonthStart, "Jan 2006")
	default:
		return anchoredBuckets(start, end, nextQuarterStart, "Jan 2006")
	}
}

func dailyBuckets(start, end time.Time) []Bucket {
	var buckets []Bucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		buckets = append(buckets, Bucket{Start: d, End: d, Label: d.Format("Jan 2")})
	}
	return buckets
}

// anchoredBuckets walks from start to end, cutting a bucket at each
// canonical anchor produced by next.
func anchoredBuckets(start, end time.Time, next func(time.Time) time.Time, labelFmt string) []Bucket {
	var buckets []Bucket
	cur := start
	for !cur.After(end) {
		boundary := next(cur)
		last := boundary.AddDate(0, 0, -1)
		if last.After(end) {
			last = end
		}
		buckets = append(buckets, Bucket{Start: cur, End: last, Label: cur.Format(labelFmt)})
		cur = boundary
	}
	return buckets
}

// nextSunday returns the first Sunday strictly after t... unless t is
// mid-week, in which case it is the upcoming Sunday. Buckets therefore
// always break on Sundays.
func nextSunday(t time.Time) time.Time {
	days := (7 - int(t.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return t.AddDate(0, 0, days)
}

func nextMonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

func nextQuarterStart(t time.Time) time.Time {
	qStartMonth := time.Month(((int(t.Month())-1)/3)*3 + 1)
	return time.Date(t.Year(), qStartMonth, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 3, 0)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
