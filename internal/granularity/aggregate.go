package granularity

import "time"

// DayValue is one point of a daily series.
type DayValue struct {
	Date  time.Time
	Value float64
}

// BucketValue is an aggregated point: the average of all daily values
// whose date falls inside the bucket.
type BucketValue struct {
	Bucket Bucket
	Value  float64
}

// Aggregate averages each role's daily series into the given buckets.
// Days with no value simply don't contribute; an empty bucket averages
// to zero.
func Aggregate(series map[string][]DayValue, buckets []Bucket) map[string][]BucketValue {
	out := make(map[string][]BucketValue, len(series))
	for role, days := range series {
		vals := make([]BucketValue, len(buckets))
		for i, b := range buckets {
			var sum float64
			var n int
			for _, dv := range days {
				d := midnight(dv.Date)
				if d.Before(b.Start) || d.After(b.End) {
					continue
				}
				sum += dv.Value
				n++
			}
			bv := BucketValue{Bucket: b}
			if n > 0 {
				bv.Value = sum / float64(n)
			}
			vals[i] = bv
		}
		out[role] = vals
	}
	return out
}

// BrushRange re-derives granularity for the sub-range a brush
// selection covers, so zooming into a short window inside a multi-year
// series switches back to fine resolution. Indexes are day offsets
// from rangeStart, clamped to the range.
func BrushRange(rangeStart, rangeEnd time.Time, startIndex, endIndex int) (time.Time, time.Time, Granularity) {
	if startIndex > endIndex {
		startIndex, endIndex = endIndex, startIndex
	}
	if startIndex < 0 {
		startIndex = 0
	}
	totalDays := int(midnight(rangeEnd).Sub(midnight(rangeStart)).Hours() / 24)
	if endIndex > totalDays {
		endIndex = totalDays
	}
	start := midnight(rangeStart).AddDate(0, 0, startIndex)
	end := midnight(rangeStart).AddDate(0, 0, endIndex)
	return start, end, ForRange(start, end)
}
