package formatter

import (
	"fmt"

	"github.com/ptarrant/phaseline/internal/domain"
)

// FormatPersonList renders people as an aligned table.
func FormatPersonList(people []*domain.Person) string {
	headers := []string{"ID", "NAME", "ROLE", "HOURS/WK", "STATUS"}
	rows := make([][]string, 0, len(people))
	for _, p := range people {
		rows = append(rows, []string{
			TruncID(p.ID),
			p.Name,
			RoleBadge(p.Role),
			FormatHours(p.WeeklyHours),
			PersonStatusPill(p.Status),
		})
	}
	return RenderTable(headers, rows)
}

// FormatAssignmentList renders assignments with person names resolved
// from the given lookup.
func FormatAssignmentList(assignments []*domain.Assignment, people map[string]*domain.Person) string {
	headers := []string{"ID", "PERSON", "ROLE", "ALLOC", "START", "END"}
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		name := TruncIDPlain(a.PersonID)
		if p, ok := people[a.PersonID]; ok {
			name = p.Name
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			name,
			RoleBadge(a.Role),
			fmt.Sprintf("%d%%", a.AllocationPct),
			a.StartDate.Format("2006-01-02"),
			a.EndDate.Format("2006-01-02"),
		})
	}
	return RenderTable(headers, rows)
}
