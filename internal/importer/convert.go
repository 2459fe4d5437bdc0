package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/google/uuid"
)

// ConvertedPlan holds the domain objects produced from a plan file,
// ready for persistence in one transaction.
type ConvertedPlan struct {
	Project      *domain.Project
	Phases       []*domain.Phase
	Dependencies []domain.Dependency
	People       []*domain.Person
	Assignments  []*domain.Assignment
}

// Convert transforms a validated PlanSchema into domain objects.
// Call ValidatePlanSchema first; Convert assumes the schema is valid.
func Convert(schema *PlanSchema) (*ConvertedPlan, error) {
	now := time.Now().UTC()

	startDate, err := time.Parse("2006-01-02", schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}

	var targetDate *time.Time
	if schema.Project.TargetDate != nil {
		t, err := time.Parse("2006-01-02", *schema.Project.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("parsing target_date: %w", err)
		}
		targetDate = &t
	}

	project := &domain.Project{
		ID:         uuid.New().String(),
		ShortID:    strings.ToUpper(schema.Project.ShortID),
		Name:       schema.Project.Name,
		StartDate:  startDate,
		TargetDate: targetDate,
		Status:     domain.ProjectActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	phaseIDs := make(map[string]string) // ref -> UUID
	phases := make([]*domain.Phase, 0, len(schema.Phases))
	for _, ph := range schema.Phases {
		realID := uuid.New().String()
		phaseIDs[ph.Ref] = realID

		start, err := time.Parse("2006-01-02", ph.StartDate)
		if err != nil {
			return nil, fmt.Errorf("phase %q: parsing start_date: %w", ph.Ref, err)
		}
		end, err := time.Parse("2006-01-02", ph.EndDate)
		if err != nil {
			return nil, fmt.Errorf("phase %q: parsing end_date: %w", ph.Ref, err)
		}

		phases = append(phases, &domain.Phase{
			ID:         realID,
			ProjectID:  project.ID,
			Name:       ph.Name,
			StartDate:  start,
			EndDate:    end,
			Color:      ph.Color,
			OrderIndex: ph.Order,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	var deps []domain.Dependency
	for _, d := range schema.Dependencies {
		predID, ok := phaseIDs[d.PredecessorRef]
		if !ok {
			return nil, fmt.Errorf("predecessor_ref %q not found", d.PredecessorRef)
		}
		succID, ok := phaseIDs[d.SuccessorRef]
		if !ok {
			return nil, fmt.Errorf("successor_ref %q not found", d.SuccessorRef)
		}
		depType := d.Type
		if depType == "" {
			depType = string(domain.FinishToStart)
		}
		deps = append(deps, domain.Dependency{
			ID:            uuid.New().String(),
			ProjectID:     project.ID,
			PredecessorID: predID,
			SuccessorID:   succID,
			Type:          domain.DependencyType(depType),
			LagDays:       d.LagDays,
			CreatedAt:     now,
		})
	}

	personIDs := make(map[string]string)
	people := make([]*domain.Person, 0, len(schema.People))
	for _, p := range schema.People {
		realID := uuid.New().String()
		personIDs[p.Ref] = realID

		role := p.Role
		if role == "" {
			role = "generic"
		}
		hours := 40.0
		if p.WeeklyHours != nil {
			hours = *p.WeeklyHours
		}

		people = append(people, &domain.Person{
			ID:          realID,
			Name:        p.Name,
			Role:        role,
			WeeklyHours: hours,
			Status:      domain.PersonActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	assignments := make([]*domain.Assignment, 0, len(schema.Assignments))
	for _, a := range schema.Assignments {
		personID, ok := personIDs[a.PersonRef]
		if !ok {
			return nil, fmt.Errorf("person_ref %q not found", a.PersonRef)
		}

		start, err := time.Parse("2006-01-02", a.StartDate)
		if err != nil {
			return nil, fmt.Errorf("assignment for %q: parsing start_date: %w", a.PersonRef, err)
		}
		end, err := time.Parse("2006-01-02", a.EndDate)
		if err != nil {
			return nil, fmt.Errorf("assignment for %q: parsing end_date: %w", a.PersonRef, err)
		}

		role := a.Role
		if role == "" {
			role = "generic"
		}
		pct := 100
		if a.AllocationPct != nil {
			pct = *a.AllocationPct
		}

		assignments = append(assignments, &domain.Assignment{
			ID:            uuid.New().String(),
			ProjectID:     project.ID,
			PersonID:      personID,
			Role:          role,
			AllocationPct: pct,
			StartDate:     start,
			EndDate:       end,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return &ConvertedPlan{
		Project:      project,
		Phases:       phases,
		Dependencies: deps,
		People:       people,
		Assignments:  assignments,
	}, nil
}
