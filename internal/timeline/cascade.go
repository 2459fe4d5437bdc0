package timeline

import (
	"sort"
	"time"
)

// Edge identifies which end of an item a resize gesture moves.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

// adjacency snapshots an item's immediate neighbors in start-date
// order at gesture start, with the pre-drag gaps in days.
type adjacency struct {
	prevID      string
	nextID      string
	prevGapDays int // gap between prev.End and item.Start
	nextGapDays int // gap between item.End and next.Start
}

// Shift is a pending rigid move of a neighboring item produced by the
// cascade: both endpoints move by Days, preserving duration and gaps.
type Shift struct {
	ItemID string
	Start  time.Time
	End    time.Time
	Days   int
}

// sortedByStart returns a copy of items ordered by start date.
func sortedByStart(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// findAdjacency locates the items immediately before and after the
// given item in start order and records the pre-drag gaps.
func findAdjacency(items []Item, id string) adjacency {
	sorted := sortedByStart(items)
	var adj adjacency
	for i, it := range sorted {
		if it.ID != id {
			continue
		}
		if i > 0 {
			prev := sorted[i-1]
			adj.prevID = prev.ID
			adj.prevGapDays = DaysBetween(prev.End, it.Start)
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			adj.nextID = next.ID
			adj.nextGapDays = DaysBetween(it.End, next.Start)
		}
		break
	}
	return adj
}

// CascadePreview reports the shifts a commit of newStart/newEnd for the
// given item would cascade onto its neighbors, without applying them.
// A pure move (both edges shifted equally) cascades nothing; an edge
// resize pushes the chain on that side exactly as a drag would.
func CascadePreview(items []Item, itemID string, newStart, newEnd time.Time) []Shift {
	var orig *Item
	for i := range items {
		if items[i].ID == itemID {
			orig = &items[i]
			break
		}
	}
	if orig == nil {
		return nil
	}

	startDelta := DaysBetween(orig.Start, newStart)
	endDelta := DaysBetween(orig.End, newEnd)
	if startDelta == endDelta {
		return nil
	}

	var shifts []Shift
	if startDelta != 0 {
		shifts = append(shifts, cascadeShifts(items, itemID, EdgeStart, startDelta)...)
	}
	if endDelta != 0 {
		shifts = append(shifts, cascadeShifts(items, itemID, EdgeEnd, endDelta)...)
	}
	return shifts
}

// cascadeShifts computes the "push the whole chain" policy: resizing an
// item's end shifts every item after it in start order rigidly by
// deltaDays; resizing its start shifts every item before it. All gaps
// are preserved exactly.
func cascadeShifts(items []Item, itemID string, edge Edge, deltaDays int) []Shift {
	if deltaDays == 0 {
		return nil
	}
	sorted := sortedByStart(items)

	idx := -1
	for i, it := range sorted {
		if it.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	var affected []Item
	if edge == EdgeEnd {
		affected = sorted[idx+1:]
	} else {
		affected = sorted[:idx]
	}

	shifts := make([]Shift, 0, len(affected))
	for _, it := range affected {
		shifts = append(shifts, Shift{
			ItemID: it.ID,
			Start:  AddDays(it.Start, deltaDays),
			End:    AddDays(it.End, deltaDays),
			Days:   deltaDays,
		})
	}
	return shifts
}
