package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/timeline"
)

var (
	barDefaultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6"))
	barPreviewStyle  = lipgloss.NewStyle().Foreground(formatter.ColorYellow)
	brushStyle       = lipgloss.NewStyle().Foreground(formatter.ColorPurple)
	selectedRowStyle = lipgloss.NewStyle().Foreground(formatter.ColorFg).Bold(true)
)

func (m *timelineModel) View() string {
	if m.err != nil {
		return formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n" +
			formatter.Dim("Press r to retry, q to quit.") + "\n"
	}
	if m.project == nil {
		return formatter.Dim("Loading...") + "\n"
	}
	if m.form != nil {
		title := "Add Phase"
		if m.editID != "" {
			title = "Edit Phase"
		}
		return formatter.Header(title) + "\n\n" + m.form.View()
	}

	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderAxis())
	b.WriteString("\n")
	b.WriteString(m.renderTicks())
	b.WriteString("\n")

	preview := m.machine.PreviewItems()
	markers := m.depMarkers()
	for i := range preview {
		previewing := !preview[i].Start.Equal(m.items[i].Start) || !preview[i].End.Equal(m.items[i].End)
		b.WriteString(m.renderRow(preview[i], markers[preview[i].ID], i == m.selected, previewing))
		b.WriteString("\n")
	}
	if len(m.items) == 0 {
		b.WriteString(formatter.Dim("  No phases yet. Press a to add one.") + "\n")
	}

	if m.brush != nil {
		b.WriteString(m.renderBrush())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatter.FormatViolations(m.violations))
	b.WriteString("\n")

	if m.demand != nil {
		b.WriteString("\n")
		b.WriteString(formatter.FormatDemand(m.demand))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n" + formatter.Dim(m.status) + "\n")
	}

	b.WriteString("\n" + m.renderFooter() + "\n")
	return b.String()
}

func (m *timelineModel) renderTitle() string {
	title := fmt.Sprintf("%s  %s", m.project.ShortID, m.project.Name)
	span := fmt.Sprintf("%s .. %s", m.vp.Start.Format("Jan 2 2006"), m.vp.End.Format("Jan 2 2006"))
	gesture := ""
	if m.machine.Kind() != timeline.GestureNone {
		gesture = "  " + formatter.StyleYellow.Render("["+m.machine.Kind().String()+"]")
	}
	return formatter.StyleHeader.Render(title) + "  " + formatter.Dim(span) + gesture
}

// renderAxis paints grid labels at their pixel offsets.
func (m *timelineModel) renderAxis() string {
	cw := m.chartWidth()
	row := blankRow(cw)
	for _, gl := range timeline.GridLines(m.vp, nil) {
		if !gl.Major {
			continue
		}
		placeLabel(row, int(gl.X), gl.Label)
	}
	return strings.Repeat(" ", chartLeft) + formatter.Dim(string(row))
}

// renderTicks paints the tick marks under the labels, plus the today
// marker when it falls inside the viewport.
func (m *timelineModel) renderTicks() string {
	cw := m.chartWidth()
	row := blankRow(cw)
	for _, gl := range timeline.GridLines(m.vp, nil) {
		x := int(gl.X)
		if x < 0 || x >= cw {
			continue
		}
		if gl.Major {
			row[x] = '│'
		} else {
			row[x] = '┊'
		}
	}
	if x := m.todayX(); x >= 0 && x < cw {
		row[x] = '▼'
	}
	return strings.Repeat(" ", chartLeft) + formatter.Dim(string(row))
}

// todayX is today's pixel offset from the viewport start.
func (m *timelineModel) todayX() int {
	return int(float64(timeline.DaysBetween(m.vp.Start, timeline.Midnight(time.Now()))) * m.vp.PixelsPerDay)
}

// depMarkers computes, per successor item, the pixel positions of the
// earliest permissible dates imposed by its dependency edges. They are
// drawn as small arrows in the grid so a bar dragged left of its marker
// is visibly in violation territory.
func (m *timelineModel) depMarkers() map[string][]int {
	if len(m.deps) == 0 {
		return nil
	}
	byID := make(map[string]timeline.Item, len(m.items))
	for _, it := range m.items {
		byID[it.ID] = it
	}
	marks := make(map[string][]int)
	for _, d := range m.deps {
		pred, ok := byID[d.PredecessorID]
		if !ok {
			continue
		}
		anchor := pred.End
		if d.Type == domain.StartToStart || d.Type == domain.StartToFinish {
			anchor = pred.Start
		}
		bound := timeline.AddDays(anchor, d.LagDays)
		x := int(float64(timeline.DaysBetween(m.vp.Start, bound)) * m.vp.PixelsPerDay)
		marks[d.SuccessorID] = append(marks[d.SuccessorID], x)
	}
	return marks
}

// renderRow draws one phase bar over the grid. During a gesture the
// dragged item and any cascaded neighbors render in the preview color.
func (m *timelineModel) renderRow(it timeline.Item, markers []int, selected, previewing bool) string {
	cw := m.chartWidth()

	name := it.Name
	if len(name) > nameColWidth {
		name = name[:nameColWidth-1] + "…"
	}
	marker := "  "
	if selected {
		marker = formatter.StyleHeader.Render("▸ ")
	}
	nameCell := fmt.Sprintf("%-*s", nameColWidth, name)
	if selected {
		nameCell = selectedRowStyle.Render(nameCell)
	} else {
		nameCell = formatter.StyleFg.Render(nameCell)
	}

	left, width := timeline.ItemPosition(it, m.vp)
	li := clampInt(int(left), 0, cw)
	ri := clampInt(int(left+width), li+1, cw)

	grid := blankRow(cw)
	for _, gl := range timeline.GridLines(m.vp, nil) {
		x := int(gl.X)
		if x >= 0 && x < cw && gl.Major {
			grid[x] = '┊'
		}
	}
	if x := m.todayX(); x >= 0 && x < cw {
		grid[x] = '╎'
	}
	for _, x := range markers {
		if x >= 0 && x < cw {
			grid[x] = '▸'
		}
	}

	barStyle := barDefaultStyle
	if it.Color != "" {
		barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(it.Color))
	}
	if previewing {
		barStyle = barPreviewStyle
	}
	if selected {
		barStyle = barStyle.Bold(true)
	}

	barCells := ri - li
	bar := strings.Repeat("█", barCells)
	if selected && barCells >= 2 {
		bar = "▐" + strings.Repeat("█", barCells-2) + "▌"
	}

	prefix := formatter.Dim(string(grid[:li]))
	suffix := formatter.Dim(string(grid[ri:]))
	return marker + nameCell + prefix + barStyle.Render(bar) + suffix
}

// renderBrush draws the brushed day range as an underline beneath the rows.
func (m *timelineModel) renderBrush() string {
	cw := m.chartWidth()
	row := blankRow(cw)
	lo := clampInt(int(float64(m.brush.startIdx)*m.vp.PixelsPerDay), 0, cw-1)
	hi := clampInt(int(float64(m.brush.endIdx)*m.vp.PixelsPerDay), lo, cw-1)
	for x := lo; x <= hi; x++ {
		row[x] = '▔'
	}
	return strings.Repeat(" ", chartLeft) + brushStyle.Render(string(row))
}

func (m *timelineModel) renderFooter() string {
	if m.showHelp {
		var rows []string
		for _, group := range timelineFullHelp() {
			rows = append(rows, renderHints(group))
		}
		return strings.Join(rows, "\n")
	}
	return renderHints(timelineShortHelp())
}

func renderHints(bindings []key.Binding) string {
	var hints []string
	for _, b := range bindings {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	return strings.Join(hints, "  ")
}

func blankRow(w int) []rune {
	row := make([]rune, w)
	for i := range row {
		row[i] = ' '
	}
	return row
}

// placeLabel writes s into row at x, clipping to the row bounds.
func placeLabel(row []rune, x int, s string) {
	for i, r := range []rune(s) {
		pos := x + i
		if pos < 0 || pos >= len(row) {
			return
		}
		row[pos] = r
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
