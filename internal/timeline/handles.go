package timeline

import (
	"sort"
	"time"
)

// HandleKind identifies the drag affordance a handle offers.
type HandleKind string

const (
	// HandleExtendLeft resizes the start of the earliest item.
	HandleExtendLeft HandleKind = "extend-left"
	// HandleExtendRight resizes the end of the latest item.
	HandleExtendRight HandleKind = "extend-right"
	// HandleAdjustBoth drags the shared boundary between two adjacent
	// items, resizing both simultaneously.
	HandleAdjustBoth HandleKind = "adjust-both"
)

// Handle is a hit-test and rendering aid recomputed on every render
// from the sorted item list; it is never persisted.
type Handle struct {
	ID              string
	PhaseID         string
	Kind            HandleKind
	Position        time.Time
	X               float64
	AdjacentPhaseID string
}

// Handles derives the drag handles for the given items: an extend-left
// handle on the earliest item, an extend-right handle on the latest,
// and an adjust-both handle at each boundary between neighbors.
func Handles(items []Item, vp Viewport) []Handle {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var handles []Handle

	first := sorted[0]
	handles = append(handles, Handle{
		ID:       first.ID + ":extend-left",
		PhaseID:  first.ID,
		Kind:     HandleExtendLeft,
		Position: first.Start,
		X:        float64(DaysBetween(vp.Start, first.Start)) * vp.PixelsPerDay,
	})

	for i := 0; i < len(sorted)-1; i++ {
		left, right := sorted[i], sorted[i+1]
		boundary := left.End
		handles = append(handles, Handle{
			ID:              left.ID + ":adjust-both",
			PhaseID:         left.ID,
			Kind:            HandleAdjustBoth,
			Position:        boundary,
			X:               float64(DaysBetween(vp.Start, boundary)) * vp.PixelsPerDay,
			AdjacentPhaseID: right.ID,
		})
	}

	last := sorted[len(sorted)-1]
	handles = append(handles, Handle{
		ID:       last.ID + ":extend-right",
		PhaseID:  last.ID,
		Kind:     HandleExtendRight,
		Position: last.End,
		X:        float64(DaysBetween(vp.Start, last.End)) * vp.PixelsPerDay,
	})

	return handles
}
