package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/ptarrant/phaseline/internal/constraint"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/service"
	"github.com/ptarrant/phaseline/internal/timeline"
)

// Layout constants shared by Update (mouse hit testing) and View.
const (
	nameColWidth = 16
	chartLeft    = nameColWidth + 2
	// chartTop is the number of lines above the first phase row:
	// title, axis labels, tick marks.
	chartTop = 3
	// minChartWidth keeps the canvas usable on narrow terminals.
	minChartWidth = 40
)

// ── messages ─────────────────────────────────────────────────────────────────

type snapshotMsg struct {
	project    *domain.Project
	phases     []*domain.Phase
	deps       []domain.Dependency
	violations []constraint.Violation
	err        error
}

type commitMsg struct {
	result *service.CommitResult
	err    error
}

type fixesMsg struct {
	fixes []constraint.Fix
	err   error
}

type demandMsg struct {
	report *service.DemandReport
	err    error
}

type violationsMsg struct {
	violations []constraint.Violation
	err        error
}

type phaseSavedMsg struct {
	name string
	err  error
}

type phaseDeletedMsg struct {
	name string
	err  error
}

// brushSpan is the last committed brush selection, in day offsets from
// the viewport start.
type brushSpan struct {
	startIdx int
	endIdx   int
}

// timelineModel is the interactive timeline TUI. All date arithmetic is
// delegated to the gesture machine; the model only translates key and
// mouse input into machine events and applies the resulting effects
// through PhaseService.
type timelineModel struct {
	app       *App
	projectID string
	project   *domain.Project

	items   []timeline.Item
	deps    []domain.Dependency
	vp      timeline.Viewport
	machine *timeline.Machine

	width  int
	height int

	selected int
	cursorX  float64

	brush      *brushSpan
	demand     *service.DemandReport
	violations []constraint.Violation
	status     string
	err        error

	form     *huh.Form
	formVals *phaseFormValues
	editID   string

	showHelp bool
}

func newTimelineModel(app *App, projectID string) *timelineModel {
	return &timelineModel{
		app:       app,
		projectID: projectID,
		machine:   timeline.NewMachine(nil, timeline.Viewport{}),
		width:     120,
		height:    40,
	}
}

func (m *timelineModel) Init() tea.Cmd {
	return m.loadCmd()
}

// ── commands ─────────────────────────────────────────────────────────────────

func (m *timelineModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		project, err := m.app.Projects.GetByID(ctx, m.projectID)
		if err != nil {
			return snapshotMsg{err: err}
		}
		phases, err := m.app.Phases.ListByProject(ctx, m.projectID)
		if err != nil {
			return snapshotMsg{err: err}
		}
		deps, err := m.app.Deps.ListByProject(ctx, m.projectID)
		if err != nil {
			return snapshotMsg{err: err}
		}
		violations, err := m.app.Phases.Validate(ctx, m.projectID)
		if err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{project: project, phases: phases, deps: deps, violations: violations}
	}
}

func (m *timelineModel) applyCmd(effects []timeline.Effect) tea.Cmd {
	return func() tea.Msg {
		result, err := m.app.Phases.ApplyEffects(context.Background(), m.projectID, effects)
		return commitMsg{result: result, err: err}
	}
}

func (m *timelineModel) fixCmd() tea.Cmd {
	return func() tea.Msg {
		fixes, err := m.app.Phases.FixAll(context.Background(), m.projectID)
		return fixesMsg{fixes: fixes, err: err}
	}
}

func (m *timelineModel) demandCmd(span brushSpan) tea.Cmd {
	return func() tea.Msg {
		report, err := m.app.Reports.DemandRange(context.Background(), m.projectID, span.startIdx, span.endIdx)
		return demandMsg{report: report, err: err}
	}
}

func (m *timelineModel) savePhaseCmd(vals phaseFormValues, editID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		start, err := time.Parse("2006-01-02", vals.Start)
		if err != nil {
			return phaseSavedMsg{err: err}
		}
		end, err := time.Parse("2006-01-02", vals.End)
		if err != nil {
			return phaseSavedMsg{err: err}
		}

		if editID == "" {
			p := &domain.Phase{
				ProjectID: m.projectID,
				Name:      vals.Name,
				StartDate: start,
				EndDate:   end,
				Color:     vals.Color,
			}
			if err := m.app.Phases.Create(ctx, p); err != nil {
				return phaseSavedMsg{err: err}
			}
			return phaseSavedMsg{name: p.Name}
		}

		p, err := m.app.Phases.GetByID(ctx, editID)
		if err != nil {
			return phaseSavedMsg{err: err}
		}
		p.Name = vals.Name
		p.StartDate = start
		p.EndDate = end
		p.Color = vals.Color
		if err := m.app.Phases.Update(ctx, p); err != nil {
			return phaseSavedMsg{err: err}
		}
		return phaseSavedMsg{name: p.Name}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (m *timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcViewport()
		return m, nil

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.project = msg.project
		m.items = timeline.ItemsFromPhases(msg.phases)
		m.deps = msg.deps
		m.violations = msg.violations
		if m.selected >= len(m.items) {
			m.selected = len(m.items) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		m.recalcViewport()
		return m, nil

	case commitMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.violations = msg.result.Violations
		m.status = fmt.Sprintf("Committed %d phase(s)", len(msg.result.Updated))
		return m, m.loadCmd()

	case fixesMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if len(msg.fixes) == 0 {
			m.status = "Nothing to fix"
			return m, nil
		}
		m.status = fmt.Sprintf("Fixed %d phase(s)", len(msg.fixes))
		return m, m.loadCmd()

	case demandMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.demand = msg.report
		return m, nil

	case violationsMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.violations = msg.violations
		return m, nil

	case phaseSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Saved phase %s", msg.name)
		return m, m.loadCmd()

	case phaseDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Removed phase %s", msg.name)
		return m, m.loadCmd()
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m *timelineModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	f, cmd := m.form.Update(msg)
	if form, ok := f.(*huh.Form); ok {
		m.form = form
	}

	switch m.form.State {
	case huh.StateCompleted:
		vals := *m.formVals
		editID := m.editID
		m.form = nil
		m.formVals = nil
		m.editID = ""
		return m, m.savePhaseCmd(vals, editID)
	case huh.StateAborted:
		m.form = nil
		m.formVals = nil
		m.editID = ""
		return m, nil
	}
	return m, cmd
}

func (m *timelineModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gestureActive := m.machine.Kind() != timeline.GestureNone

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "r":
		if !gestureActive {
			return m, m.loadCmd()
		}

	case "up", "k":
		if !gestureActive && m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if !gestureActive && m.selected < len(m.items)-1 {
			m.selected++
		}
		return m, nil

	case "left", "h":
		if gestureActive {
			return m, m.dragBy(-1)
		}
		return m, nil

	case "right", "l":
		if gestureActive {
			return m, m.dragBy(1)
		}
		return m, nil

	case "H", "shift+left":
		if gestureActive {
			return m, m.dragBy(-7)
		}
		return m, nil

	case "L", "shift+right":
		if gestureActive {
			return m, m.dragBy(7)
		}
		return m, nil

	case "enter", " ":
		if gestureActive {
			return m, m.release()
		}
		return m, nil

	case "esc":
		if gestureActive {
			m.machine.Handle(timeline.Cancel{})
			m.status = "Gesture cancelled"
			return m, nil
		}
		if m.brush != nil {
			m.brush = nil
			m.demand = nil
			return m, nil
		}
		return m, nil

	case "m":
		return m, m.grab(timeline.TargetItemBody)
	case "s":
		return m, m.grab(timeline.TargetItemStart)
	case "e":
		return m, m.grab(timeline.TargetItemEnd)
	case "b":
		return m, m.grabBoundary()
	case "x":
		return m, m.grabBrush()

	case "v":
		if !gestureActive {
			return m, func() tea.Msg {
				violations, err := m.app.Phases.Validate(context.Background(), m.projectID)
				return violationsMsg{violations: violations, err: err}
			}
		}

	case "f":
		if !gestureActive {
			return m, m.fixCmd()
		}

	case "a":
		if !gestureActive {
			m.formVals = &phaseFormValues{}
			m.form = newPhaseForm(m.formVals)
			m.editID = ""
			return m, m.form.Init()
		}

	case "d":
		if !gestureActive && m.selected < len(m.items) {
			it := m.items[m.selected]
			return m, func() tea.Msg {
				err := m.app.Phases.Delete(context.Background(), it.ID)
				return phaseDeletedMsg{name: it.Name, err: err}
			}
		}

	case "i":
		if !gestureActive && m.selected < len(m.items) {
			it := m.items[m.selected]
			m.formVals = &phaseFormValues{
				Name:  it.Name,
				Start: it.Start.Format("2006-01-02"),
				End:   it.End.Format("2006-01-02"),
				Color: it.Color,
			}
			m.form = newPhaseForm(m.formVals)
			m.editID = it.ID
			return m, m.form.Init()
		}
	}
	return m, nil
}

func (m *timelineModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	px := float64(msg.X - chartLeft)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		row := msg.Y - chartTop
		if row >= 0 && row < len(m.items) {
			m.selected = row
		}
		target := m.hitTest(px, row)
		m.cursorX = px
		m.machine.Handle(timeline.Press{X: px, Target: target})
		return m, nil

	case tea.MouseActionMotion:
		if m.machine.Kind() == timeline.GestureNone {
			return m, nil
		}
		m.cursorX = px
		m.applyDragEffects(m.machine.Handle(timeline.Drag{X: px}))
		return m, nil

	case tea.MouseActionRelease:
		if m.machine.Kind() == timeline.GestureNone {
			return m, nil
		}
		return m, m.release()
	}
	return m, nil
}

// hitTest classifies a press position the way the pointer layer does:
// boundary handles win over edges, edges over bodies, anything else is
// the brush canvas.
func (m *timelineModel) hitTest(px float64, row int) timeline.Target {
	if row < 0 || row >= len(m.items) {
		return timeline.Target{Kind: timeline.TargetCanvas}
	}
	it := m.items[row]
	left, width := timeline.ItemPosition(it, m.vp)

	// Boundary handle: within one cell of a shared boundary with the
	// next item in start order.
	for _, h := range timeline.Handles(m.items, m.vp) {
		if h.Kind != timeline.HandleAdjustBoth || h.PhaseID != it.ID {
			continue
		}
		if px >= h.X-1 && px <= h.X+1 {
			return timeline.Target{Kind: timeline.TargetBoundary, ItemID: h.PhaseID, AdjacentID: h.AdjacentPhaseID}
		}
	}

	switch {
	case px < left || px > left+width:
		return timeline.Target{Kind: timeline.TargetCanvas}
	case px <= left+1:
		return timeline.Target{Kind: timeline.TargetItemStart, ItemID: it.ID}
	case px >= left+width-1:
		return timeline.Target{Kind: timeline.TargetItemEnd, ItemID: it.ID}
	default:
		return timeline.Target{Kind: timeline.TargetItemBody, ItemID: it.ID}
	}
}

// grab starts a keyboard gesture on the selected item.
func (m *timelineModel) grab(kind timeline.TargetKind) tea.Cmd {
	if m.machine.Kind() != timeline.GestureNone || m.selected >= len(m.items) {
		return nil
	}
	it := m.items[m.selected]
	left, width := timeline.ItemPosition(it, m.vp)

	var x float64
	switch kind {
	case timeline.TargetItemStart:
		x = left
	case timeline.TargetItemEnd:
		x = left + width
	default:
		x = left + width/2
	}

	m.cursorX = x
	m.machine.Handle(timeline.Press{X: x, Target: timeline.Target{Kind: kind, ItemID: it.ID}})
	m.status = fmt.Sprintf("Dragging %s (%s); ←/→ to move, enter to commit, esc to cancel",
		it.Name, m.machine.Kind())
	return nil
}

// grabBoundary starts a boundary drag between the selected item and its
// successor in start order.
func (m *timelineModel) grabBoundary() tea.Cmd {
	if m.machine.Kind() != timeline.GestureNone || m.selected >= len(m.items) {
		return nil
	}
	it := m.items[m.selected]
	for _, h := range timeline.Handles(m.items, m.vp) {
		if h.Kind != timeline.HandleAdjustBoth || h.PhaseID != it.ID {
			continue
		}
		m.cursorX = h.X
		m.machine.Handle(timeline.Press{X: h.X, Target: timeline.Target{
			Kind:       timeline.TargetBoundary,
			ItemID:     h.PhaseID,
			AdjacentID: h.AdjacentPhaseID,
		}})
		m.status = "Dragging boundary; ←/→ to move, enter to commit, esc to cancel"
		return nil
	}
	m.status = "No boundary to the right of this phase"
	return nil
}

// grabBrush starts a brush selection anchored at the selected item's
// start, or the viewport start when there are no items.
func (m *timelineModel) grabBrush() tea.Cmd {
	if m.machine.Kind() != timeline.GestureNone {
		return nil
	}
	x := 0.0
	if m.selected < len(m.items) {
		x, _ = timeline.ItemPosition(m.items[m.selected], m.vp)
	}
	m.cursorX = x
	m.machine.Handle(timeline.Press{X: x, Target: timeline.Target{Kind: timeline.TargetCanvas}})
	m.applyDragEffects(m.machine.Handle(timeline.Drag{X: x}))
	m.status = "Brushing; ←/→ to extend, enter to report demand, esc to cancel"
	return nil
}

// dragBy moves the active gesture by whole days.
func (m *timelineModel) dragBy(days int) tea.Cmd {
	m.cursorX += float64(days) * m.vp.PixelsPerDay
	m.applyDragEffects(m.machine.Handle(timeline.Drag{X: m.cursorX}))
	return nil
}

// applyDragEffects consumes effects emitted during drag. Only brush
// gestures emit anything before release.
func (m *timelineModel) applyDragEffects(effects []timeline.Effect) {
	for _, e := range effects {
		if b, ok := e.(timeline.BrushChanged); ok {
			m.brush = &brushSpan{startIdx: b.StartIndex, endIdx: b.EndIndex}
		}
	}
}

// release commits the active gesture: date effects go through the phase
// service; a finished brush queries the demand report for its range.
func (m *timelineModel) release() tea.Cmd {
	wasBrush := m.machine.Kind() == timeline.GestureBrush
	effects := m.machine.Handle(timeline.Release{})

	if wasBrush {
		if m.brush != nil && len(m.items) > 0 {
			return m.demandCmd(m.spanBrush(*m.brush))
		}
		return nil
	}

	var commits []timeline.Effect
	for _, e := range effects {
		switch e := e.(type) {
		case timeline.ItemMoved, timeline.ItemResized, timeline.BoundaryAdjusted:
			commits = append(commits, e)
		case timeline.BoundaryRejected:
			m.status = "Rejected: " + e.Reason
		}
	}
	if len(commits) == 0 {
		return nil
	}
	return m.applyCmd(commits)
}

// spanBrush converts brush indexes from viewport-start offsets to
// project-span offsets, which is what the demand report expects. The
// viewport pads the span, so the two origins differ by the padding.
func (m *timelineModel) spanBrush(b brushSpan) brushSpan {
	spanStart := m.items[0].Start
	for _, it := range m.items[1:] {
		if it.Start.Before(spanStart) {
			spanStart = it.Start
		}
	}
	off := timeline.DaysBetween(m.vp.Start, spanStart)
	return brushSpan{startIdx: b.startIdx - off, endIdx: b.endIdx - off}
}

// ── geometry ─────────────────────────────────────────────────────────────────

func (m *timelineModel) chartWidth() int {
	w := m.width - chartLeft - 1
	if w < minChartWidth {
		w = minChartWidth
	}
	return w
}

// recalcViewport derives the viewport from item extents, then rescales
// it so one day maps onto a whole number of cells filling the chart.
func (m *timelineModel) recalcViewport() {
	base := timeline.DeriveViewport(m.items, timeline.ViewportOptions{})
	m.vp = timeline.DeriveViewport(m.items, timeline.ViewportOptions{
		External:       &base,
		AvailableWidth: float64(m.chartWidth()),
	})
	m.machine.SetSnapshot(m.items, m.vp)
}
