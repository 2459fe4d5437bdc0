package formatter

import (
	"fmt"
	"strings"

	"github.com/ptarrant/phaseline/internal/domain"
)

// FormatProjectList renders projects as an aligned table.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "STATUS", "START", "TARGET"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		target := Dim("--")
		if p.TargetDate != nil {
			target = p.TargetDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			StyleBlue.Render(p.ShortID),
			p.Name,
			StatusPill(p.Status),
			p.StartDate.Format("2006-01-02"),
			target,
		})
	}
	return RenderTable(headers, rows)
}

// ProjectInspectData bundles everything the inspect view shows.
type ProjectInspectData struct {
	Project     *domain.Project
	Phases      []*domain.Phase
	Deps        []domain.Dependency
	Assignments []*domain.Assignment
	People      map[string]*domain.Person
}

// FormatProjectInspect renders the full project detail view: header,
// phase table, dependency edges, and staffing assignments.
func FormatProjectInspect(data ProjectInspectData) string {
	p := data.Project
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("%s  %s", p.ShortID, p.Name)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s  %s", StatusPill(p.Status), Dim(TruncIDPlain(p.ID))))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Start %s", p.StartDate.Format("2006-01-02")))
	if p.TargetDate != nil {
		b.WriteString(fmt.Sprintf("  Target %s (%s)", p.TargetDate.Format("2006-01-02"), RelativeDate(*p.TargetDate)))
	}
	b.WriteString("\n")

	if len(data.Phases) > 0 {
		b.WriteString("\n" + Header("Phases") + "\n")
		b.WriteString(FormatPhaseList(data.Phases))
	}

	if len(data.Deps) > 0 {
		b.WriteString("\n" + Header("Dependencies") + "\n")
		b.WriteString(FormatDependencyList(data.Deps, data.Phases))
	}

	if len(data.Assignments) > 0 {
		b.WriteString("\n" + Header("Assignments") + "\n")
		b.WriteString(FormatAssignmentList(data.Assignments, data.People))
	}

	return b.String()
}

// TruncIDPlain returns the first 8 characters of an ID without styling.
func TruncIDPlain(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
