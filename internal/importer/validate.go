package importer

import (
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
)

// ValidatePlanSchema checks a plan for errors before conversion.
// Returns every validation error found, not just the first.
func ValidatePlanSchema(schema *PlanSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	phaseRefs := make(map[string]bool)
	errs = append(errs, validatePhases(schema.Phases, phaseRefs)...)
	errs = append(errs, validateDependencies(schema.Dependencies, phaseRefs)...)

	personRefs := make(map[string]bool)
	errs = append(errs, validatePeople(schema.People, personRefs)...)
	errs = append(errs, validateAssignments(schema.Assignments, personRefs)...)

	return errs
}

func validateProject(p *ProjectPlan) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := time.Parse("2006-01-02", p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}
	if p.TargetDate != nil {
		if _, err := time.Parse("2006-01-02", *p.TargetDate); err != nil {
			errs = append(errs, fmt.Errorf("project.target_date: invalid date format %q (expected YYYY-MM-DD)", *p.TargetDate))
		} else if p.StartDate != "" {
			start, startErr := time.Parse("2006-01-02", p.StartDate)
			target, targetErr := time.Parse("2006-01-02", *p.TargetDate)
			if startErr == nil && targetErr == nil && !target.After(start) {
				errs = append(errs, fmt.Errorf("project.target_date %q must be after start_date %q", *p.TargetDate, p.StartDate))
			}
		}
	}

	return errs
}

func validatePhases(phases []PhasePlan, phaseRefs map[string]bool) []error {
	var errs []error

	if len(phases) == 0 {
		errs = append(errs, fmt.Errorf("at least one phase is required"))
	}

	for i, ph := range phases {
		prefix := fmt.Sprintf("phases[%d]", i)

		if ph.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if phaseRefs[ph.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, ph.Ref))
		} else {
			phaseRefs[ph.Ref] = true
		}

		if ph.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		start, startErrs := requireDate(prefix+".start_date", ph.StartDate)
		end, endErrs := requireDate(prefix+".end_date", ph.EndDate)
		errs = append(errs, startErrs...)
		errs = append(errs, endErrs...)
		if len(startErrs) == 0 && len(endErrs) == 0 && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s: end_date %q precedes start_date %q", prefix, ph.EndDate, ph.StartDate))
		}
	}

	return errs
}

func validateDependencies(deps []DependencyPlan, phaseRefs map[string]bool) []error {
	var errs []error

	for i, d := range deps {
		prefix := fmt.Sprintf("dependencies[%d]", i)

		if d.PredecessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref is required", prefix))
		} else if !phaseRefs[d.PredecessorRef] {
			errs = append(errs, fmt.Errorf("%s.predecessor_ref: ref %q not found in phases", prefix, d.PredecessorRef))
		}

		if d.SuccessorRef == "" {
			errs = append(errs, fmt.Errorf("%s.successor_ref is required", prefix))
		} else if !phaseRefs[d.SuccessorRef] {
			errs = append(errs, fmt.Errorf("%s.successor_ref: ref %q not found in phases", prefix, d.SuccessorRef))
		}

		if d.PredecessorRef != "" && d.PredecessorRef == d.SuccessorRef {
			errs = append(errs, fmt.Errorf("%s: self-dependency (predecessor_ref == successor_ref == %q)", prefix, d.PredecessorRef))
		}

		if d.Type != "" && !domain.ValidDependencyTypes[d.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q (want FS, SS, FF or SF)", prefix, d.Type))
		}
	}

	if len(deps) > 1 {
		errs = append(errs, detectCycles(deps)...)
	}

	return errs
}

func detectCycles(deps []DependencyPlan) []error {
	graph := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, d := range deps {
		if d.PredecessorRef != "" && d.SuccessorRef != "" && d.PredecessorRef != d.SuccessorRef {
			graph[d.PredecessorRef] = append(graph[d.PredecessorRef], d.SuccessorRef)
			nodes[d.PredecessorRef] = true
			nodes[d.SuccessorRef] = true
		}
	}

	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // fully processed
	)

	color := make(map[string]int)
	var errs []error

	var visit func(node string) bool
	visit = func(node string) bool {
		color[node] = gray
		for _, neighbor := range graph[node] {
			if color[neighbor] == gray {
				errs = append(errs, fmt.Errorf("circular dependency detected involving %q and %q", node, neighbor))
				return true
			}
			if color[neighbor] == white {
				if visit(neighbor) {
					return true
				}
			}
		}
		color[node] = black
		return false
	}

	for node := range nodes {
		if color[node] == white {
			visit(node)
		}
	}

	return errs
}

func validatePeople(people []PersonPlan, personRefs map[string]bool) []error {
	var errs []error

	for i, p := range people {
		prefix := fmt.Sprintf("people[%d]", i)

		if p.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if personRefs[p.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, p.Ref))
		} else {
			personRefs[p.Ref] = true
		}

		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.Role != "" && !domain.ValidRoles[p.Role] {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, p.Role))
		}
		if p.WeeklyHours != nil && *p.WeeklyHours <= 0 {
			errs = append(errs, fmt.Errorf("%s.weekly_hours must be positive", prefix))
		}
	}

	return errs
}

func validateAssignments(assignments []AssignmentPlan, personRefs map[string]bool) []error {
	var errs []error

	for i, a := range assignments {
		prefix := fmt.Sprintf("assignments[%d]", i)

		if a.PersonRef == "" {
			errs = append(errs, fmt.Errorf("%s.person_ref is required", prefix))
		} else if !personRefs[a.PersonRef] {
			errs = append(errs, fmt.Errorf("%s.person_ref: ref %q not found in people", prefix, a.PersonRef))
		}

		if a.Role != "" && !domain.ValidRoles[a.Role] {
			errs = append(errs, fmt.Errorf("%s.role: invalid value %q", prefix, a.Role))
		}
		if a.AllocationPct != nil && (*a.AllocationPct < 0 || *a.AllocationPct > 100) {
			errs = append(errs, fmt.Errorf("%s.allocation_pct must be between 0 and 100", prefix))
		}

		start, startErrs := requireDate(prefix+".start_date", a.StartDate)
		end, endErrs := requireDate(prefix+".end_date", a.EndDate)
		errs = append(errs, startErrs...)
		errs = append(errs, endErrs...)
		if len(startErrs) == 0 && len(endErrs) == 0 && end.Before(start) {
			errs = append(errs, fmt.Errorf("%s: end_date %q precedes start_date %q", prefix, a.EndDate, a.StartDate))
		}
	}

	return errs
}

func requireDate(field, value string) (time.Time, []error) {
	if value == "" {
		return time.Time{}, []error{fmt.Errorf("%s is required", field)}
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
	}
	return t, nil
}
