package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ptarrant/phaseline/internal/constraint"
	"github.com/ptarrant/phaseline/internal/domain"
)

// FormatPhaseList renders phases as an aligned table in start-date order.
func FormatPhaseList(phases []*domain.Phase) string {
	headers := []string{"ID", "PHASE", "START", "END", "DAYS"}
	rows := make([][]string, 0, len(phases))
	for _, p := range phases {
		name := p.Name
		if p.Color != "" {
			name = lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■ ") + name
		}
		rows = append(rows, []string{
			TruncID(p.ID),
			name,
			p.StartDate.Format("2006-01-02"),
			p.EndDate.Format("2006-01-02"),
			fmt.Sprintf("%d", p.DurationDays()),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDependencyList renders dependency edges with phase names resolved.
func FormatDependencyList(deps []domain.Dependency, phases []*domain.Phase) string {
	names := make(map[string]string, len(phases))
	for _, p := range phases {
		names[p.ID] = p.Name
	}
	nameOf := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return TruncIDPlain(id)
	}

	headers := []string{"ID", "PREDECESSOR", "TYPE", "SUCCESSOR", "LAG"}
	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		lag := Dim("--")
		if d.LagDays != 0 {
			lag = fmt.Sprintf("%+dd", d.LagDays)
		}
		rows = append(rows, []string{
			TruncID(d.ID),
			nameOf(d.PredecessorID),
			StyleBlue.Render(string(d.Type)),
			nameOf(d.SuccessorID),
			lag,
		})
	}
	return RenderTable(headers, rows)
}

// FormatViolations renders dependency violations, one per line, with a
// warning marker. Returns an all-clear line when there are none.
func FormatViolations(violations []constraint.Violation) string {
	if len(violations) == 0 {
		return StyleGreen.Render("✔ All dependency constraints satisfied.")
	}
	var b strings.Builder
	for _, v := range violations {
		b.WriteString(StyleRed.Render("▲ "))
		b.WriteString(v.Message)
		b.WriteString("\n")
	}
	b.WriteString(Dim(fmt.Sprintf("%d violation(s). Run `phase fix` to correct.", len(violations))))
	return b.String()
}

// FormatFixes renders the corrections FixAll applied.
func FormatFixes(fixes []constraint.Fix) string {
	if len(fixes) == 0 {
		return Dim("Nothing to fix.")
	}
	var b strings.Builder
	for _, f := range fixes {
		b.WriteString(StyleGreen.Render("✔ "))
		b.WriteString(fmt.Sprintf("%s → %s .. %s\n", f.Name,
			f.Start.Format("2006-01-02"), f.End.Format("2006-01-02")))
	}
	b.WriteString(Dim(fmt.Sprintf("%d phase(s) corrected.", len(fixes))))
	return b.String()
}
