package timeline

import (
	"math"
	"time"
)

// GestureKind identifies the active gesture.
type GestureKind int

const (
	GestureNone GestureKind = iota
	GestureBrush
	GestureMove
	GestureResizeStart
	GestureResizeEnd
	GestureBoundary
)

func (k GestureKind) String() string {
	switch k {
	case GestureBrush:
		return "brush"
	case GestureMove:
		return "move"
	case GestureResizeStart:
		return "resize-start"
	case GestureResizeEnd:
		return "resize-end"
	case GestureBoundary:
		return "boundary"
	default:
		return "idle"
	}
}

// ── events ───────────────────────────────────────────────────────────────────

// Event is an input to the gesture machine: one of Press, Drag,
// Release, Cancel.
type Event interface{ isEvent() }

// TargetKind classifies what a press landed on.
type TargetKind int

const (
	// TargetCanvas starts a brush selection.
	TargetCanvas TargetKind = iota
	// TargetItemBody starts a move.
	TargetItemBody
	// TargetItemStart starts a resize of the item's start edge.
	TargetItemStart
	// TargetItemEnd starts a resize of the item's end edge.
	TargetItemEnd
	// TargetBoundary starts an adjust-both drag of the shared boundary
	// between ItemID (left) and AdjacentID (right).
	TargetBoundary
)

// Target is the hit-test result carried by a Press.
type Target struct {
	Kind       TargetKind
	ItemID     string
	AdjacentID string
}

// Press begins a gesture at pixel offset X within the canvas.
type Press struct {
	X      float64
	Target Target
}

// Drag moves the pointer during an active gesture. Handlers are
// expected to be attached above the item layer so the gesture survives
// the pointer leaving the pressed element.
type Drag struct {
	X float64
}

// Release ends the active gesture, committing any preview.
type Release struct{}

// Cancel aborts the active gesture without committing.
type Cancel struct{}

func (Press) isEvent()   {}
func (Drag) isEvent()    {}
func (Release) isEvent() {}
func (Cancel) isEvent()  {}

// ── effects ──────────────────────────────────────────────────────────────────

// Effect is an output of the gesture machine. The machine never
// mutates the item list; callers apply effects through their own
// mutation path.
type Effect interface{ isEffect() }

// BrushChanged reports the selected day-offset range. It fires on every
// drag of a brush gesture, not just on release.
type BrushChanged struct {
	StartIndex int
	EndIndex   int
}

// ItemMoved commits a move: duration is preserved exactly.
type ItemMoved struct {
	ItemID string
	Start  time.Time
	End    time.Time
}

// ItemResized commits one item's new dates. A cascading resize emits
// one ItemResized per affected item, ordered by start date so no
// intermediate commit observes an out-of-order neighbor.
type ItemResized struct {
	ItemID string
	Start  time.Time
	End    time.Time
}

// BoundaryAdjusted commits a boundary drag: the left item's end and the
// right item's start land on the same date.
type BoundaryAdjusted struct {
	LeftID     string
	LeftEnd    time.Time
	RightID    string
	RightStart time.Time
}

// BoundaryRejected reports a boundary drag whose commit would invert
// the predecessor/successor order. Nothing is mutated.
type BoundaryRejected struct {
	LeftID  string
	RightID string
	Reason  string
}

func (BrushChanged) isEffect()     {}
func (ItemMoved) isEffect()        {}
func (ItemResized) isEffect()      {}
func (BoundaryAdjusted) isEffect() {}
func (BoundaryRejected) isEffect() {}

// ── state variants ───────────────────────────────────────────────────────────

// state is the tagged union of gesture variants; each carries only the
// fields its gesture needs.
type state interface{ kind() GestureKind }

type idleState struct{}

type brushState struct {
	startX   float64
	currentX float64
}

type moveState struct {
	itemID       string
	startX       float64
	currentX     float64
	origStart    time.Time
	origEnd      time.Time
	previewStart time.Time
	previewEnd   time.Time
	dragged      bool
}

type resizeState struct {
	edge         Edge
	itemID       string
	startX       float64
	currentX     float64
	origStart    time.Time
	origEnd      time.Time
	previewStart time.Time
	previewEnd   time.Time
	neighbors    adjacency
	shifts       []Shift
	dragged      bool
}

type boundaryState struct {
	leftID        string
	rightID       string
	startX        float64
	currentX      float64
	origBoundary  time.Time
	preview       time.Time
	leftOrigStart time.Time
	rightOrigEnd  time.Time
	dragged       bool
}

func (idleState) kind() GestureKind  { return GestureNone }
func (brushState) kind() GestureKind { return GestureBrush }
func (s moveState) kind() GestureKind {
	return GestureMove
}
func (s resizeState) kind() GestureKind {
	if s.edge == EdgeStart {
		return GestureResizeStart
	}
	return GestureResizeEnd
}
func (boundaryState) kind() GestureKind { return GestureBoundary }

// ── machine ──────────────────────────────────────────────────────────────────

// Machine runs the single-active-gesture state machine over an
// immutable item snapshot. It holds preview state between events and
// emits commit effects on release; it never mutates the snapshot.
type Machine struct {
	items           []Item
	vp              Viewport
	minItemDuration int // days
	st              state
}

// MachineOption configures a Machine.
type MachineOption func(*Machine)

// WithMinItemDuration overrides the default 1-day duration floor.
func WithMinItemDuration(days int) MachineOption {
	return func(m *Machine) {
		if days > 0 {
			m.minItemDuration = days
		}
	}
}

// NewMachine creates an idle gesture machine over the given snapshot.
func NewMachine(items []Item, vp Viewport, opts ...MachineOption) *Machine {
	m := &Machine{
		items:           items,
		vp:              vp,
		minItemDuration: 1,
		st:              idleState{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSnapshot replaces the item snapshot and viewport. Only legal while
// idle; a no-op during an active gesture.
func (m *Machine) SetSnapshot(items []Item, vp Viewport) {
	if m.Kind() != GestureNone {
		return
	}
	m.items = items
	m.vp = vp
}

// Kind returns the active gesture kind.
func (m *Machine) Kind() GestureKind { return m.st.kind() }

// Handle feeds one event through the transition function and returns
// the effects to apply.
func (m *Machine) Handle(ev Event) []Effect {
	next, effects := m.transition(m.st, ev)
	m.st = next
	return effects
}

// transition is the single state transition function. Press only
// applies from idle (single active gesture); Release resets to idle
// unconditionally, even when no commit fires.
func (m *Machine) transition(st state, ev Event) (state, []Effect) {
	switch ev := ev.(type) {
	case Press:
		if st.kind() != GestureNone {
			return st, nil
		}
		return m.press(ev), nil

	case Drag:
		return m.drag(st, ev)

	case Release:
		return idleState{}, m.release(st)

	case Cancel:
		return idleState{}, nil
	}
	return st, nil
}

func (m *Machine) press(ev Press) state {
	switch ev.Target.Kind {
	case TargetCanvas:
		return brushState{startX: ev.X, currentX: ev.X}

	case TargetItemBody:
		it, ok := m.item(ev.Target.ItemID)
		if !ok {
			return idleState{}
		}
		return moveState{
			itemID:       it.ID,
			startX:       ev.X,
			currentX:     ev.X,
			origStart:    it.Start,
			origEnd:      it.End,
			previewStart: it.Start,
			previewEnd:   it.End,
		}

	case TargetItemStart, TargetItemEnd:
		it, ok := m.item(ev.Target.ItemID)
		if !ok {
			return idleState{}
		}
		edge := EdgeStart
		if ev.Target.Kind == TargetItemEnd {
			edge = EdgeEnd
		}
		return resizeState{
			edge:         edge,
			itemID:       it.ID,
			startX:       ev.X,
			currentX:     ev.X,
			origStart:    it.Start,
			origEnd:      it.End,
			previewStart: it.Start,
			previewEnd:   it.End,
			neighbors:    findAdjacency(m.items, it.ID),
		}

	case TargetBoundary:
		left, okL := m.item(ev.Target.ItemID)
		right, okR := m.item(ev.Target.AdjacentID)
		if !okL || !okR {
			return idleState{}
		}
		return boundaryState{
			leftID:        left.ID,
			rightID:       right.ID,
			startX:        ev.X,
			currentX:      ev.X,
			origBoundary:  left.End,
			preview:       left.End,
			leftOrigStart: left.Start,
			rightOrigEnd:  right.End,
		}
	}
	return idleState{}
}

func (m *Machine) drag(st state, ev Drag) (state, []Effect) {
	switch s := st.(type) {
	case brushState:
		s.currentX = ev.X
		lo, hi := DayIndex(s.startX, m.vp), DayIndex(s.currentX, m.vp)
		if lo > hi {
			lo, hi = hi, lo
		}
		return s, []Effect{BrushChanged{StartIndex: lo, EndIndex: hi}}

	case moveState:
		s.currentX = ev.X
		delta := m.deltaDays(s.startX, s.currentX)
		s.previewStart = AddDays(s.origStart, delta)
		s.previewEnd = AddDays(s.origEnd, delta)
		s.dragged = true
		return s, nil

	case resizeState:
		s.currentX = ev.X
		delta := m.deltaDays(s.startX, s.currentX)
		s.previewStart, s.previewEnd = m.clampResize(s.edge, s.origStart, s.origEnd, delta)

		// Effective delta after clamping drives the cascade so
		// neighbors never move further than the resized edge did.
		var effective int
		if s.edge == EdgeStart {
			effective = DaysBetween(s.origStart, s.previewStart)
		} else {
			effective = DaysBetween(s.origEnd, s.previewEnd)
		}
		s.shifts = cascadeShifts(m.items, s.itemID, s.edge, effective)
		s.dragged = true
		return s, nil

	case boundaryState:
		s.currentX = ev.X
		delta := m.deltaDays(s.startX, s.currentX)
		s.preview = AddDays(s.origBoundary, delta)
		s.dragged = true
		return s, nil
	}
	return st, nil
}

func (m *Machine) release(st state) []Effect {
	switch s := st.(type) {
	case moveState:
		if !s.dragged {
			return nil
		}
		return []Effect{ItemMoved{ItemID: s.itemID, Start: s.previewStart, End: s.previewEnd}}

	case resizeState:
		if !s.dragged {
			return nil
		}
		effects := []Effect{ItemResized{ItemID: s.itemID, Start: s.previewStart, End: s.previewEnd}}
		for _, sh := range s.shifts {
			effects = append(effects, ItemResized{ItemID: sh.ItemID, Start: sh.Start, End: sh.End})
		}
		return sortResizes(effects)

	case boundaryState:
		if !s.dragged {
			return nil
		}
		// Same-instant guard: a boundary past either item's far edge
		// would put the successor before the predecessor.
		if !s.preview.After(s.leftOrigStart) {
			return []Effect{BoundaryRejected{
				LeftID:  s.leftID,
				RightID: s.rightID,
				Reason:  "boundary would end the predecessor before it starts",
			}}
		}
		if !s.preview.Before(s.rightOrigEnd) {
			return []Effect{BoundaryRejected{
				LeftID:  s.leftID,
				RightID: s.rightID,
				Reason:  "boundary would start the successor after it ends",
			}}
		}
		return []Effect{BoundaryAdjusted{
			LeftID:     s.leftID,
			LeftEnd:    s.preview,
			RightID:    s.rightID,
			RightStart: s.preview,
		}}
	}
	return nil
}

// PreviewItems returns the snapshot with the live preview applied:
// the dragged item's preview dates plus any cascade shifts. Used by
// the rendering layer; commits never read from here.
func (m *Machine) PreviewItems() []Item {
	out := make([]Item, len(m.items))
	copy(out, m.items)

	apply := func(id string, start, end time.Time) {
		for i := range out {
			if out[i].ID == id {
				out[i].Start = start
				out[i].End = end
				return
			}
		}
	}

	switch s := m.st.(type) {
	case moveState:
		apply(s.itemID, s.previewStart, s.previewEnd)
	case resizeState:
		apply(s.itemID, s.previewStart, s.previewEnd)
		for _, sh := range s.shifts {
			apply(sh.ItemID, sh.Start, sh.End)
		}
	case boundaryState:
		if l, ok := m.item(s.leftID); ok {
			apply(s.leftID, l.Start, s.preview)
		}
		if r, ok := m.item(s.rightID); ok {
			apply(s.rightID, s.preview, r.End)
		}
	}
	return out
}

// deltaDays converts a horizontal drag distance to whole days.
func (m *Machine) deltaDays(fromX, toX float64) int {
	return int(math.Round((toX - fromX) / m.vp.PixelsPerDay))
}

// clampResize applies the minimum-duration floor by pushing the moving
// end back, never rejecting the input.
func (m *Machine) clampResize(edge Edge, origStart, origEnd time.Time, delta int) (time.Time, time.Time) {
	start, end := origStart, origEnd
	if edge == EdgeStart {
		start = AddDays(origStart, delta)
		latest := AddDays(end, -m.minItemDuration)
		if start.After(latest) {
			start = latest
		}
	} else {
		end = AddDays(origEnd, delta)
		earliest := AddDays(start, m.minItemDuration)
		if end.Before(earliest) {
			end = earliest
		}
	}
	return start, end
}

func (m *Machine) item(id string) (Item, bool) {
	for _, it := range m.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// sortResizes orders ItemResized effects by their new start date so a
// sequential commit never transiently violates item ordering.
func sortResizes(effects []Effect) []Effect {
	resizes := make([]ItemResized, 0, len(effects))
	for _, e := range effects {
		resizes = append(resizes, e.(ItemResized))
	}
	for i := 1; i < len(resizes); i++ {
		for j := i; j > 0 && resizes[j].Start.Before(resizes[j-1].Start); j-- {
			resizes[j], resizes[j-1] = resizes[j-1], resizes[j]
		}
	}
	out := make([]Effect, len(resizes))
	for i, r := range resizes {
		out[i] = r
	}
	return out
}
