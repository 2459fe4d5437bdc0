package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ptarrant/phaseline/internal/db"
	"github.com/ptarrant/phaseline/internal/importer"
	"github.com/ptarrant/phaseline/internal/repository"
)

type planService struct {
	uow         db.UnitOfWork
	projects    repository.ProjectRepo
	phases      repository.PhaseRepo
	deps        repository.DependencyRepo
	people      repository.PersonRepo
	assignments repository.AssignmentRepo
}

func NewPlanService(
	uow db.UnitOfWork,
	projects repository.ProjectRepo,
	phases repository.PhaseRepo,
	deps repository.DependencyRepo,
	people repository.PersonRepo,
	assignments repository.AssignmentRepo,
) PlanService {
	return &planService{
		uow:         uow,
		projects:    projects,
		phases:      phases,
		deps:        deps,
		people:      people,
		assignments: assignments,
	}
}

func (s *planService) Import(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadPlanSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading plan file: %w", err)
	}
	return s.ImportFromSchema(ctx, schema)
}

// ImportFromSchema validates, converts and persists a plan in one
// transaction. A failure anywhere rolls back everything.
func (s *planService) ImportFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error) {
	if errs := importer.ValidatePlanSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("plan validation failed: %w", errors.Join(errs...))
	}

	plan, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}

	if existing, err := s.projects.GetByShortID(ctx, plan.Project.ShortID); err == nil {
		return nil, fmt.Errorf("project with short ID %q already exists (%s)", existing.ShortID, existing.Name)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		phases := repository.NewSQLitePhaseRepo(tx)
		deps := repository.NewSQLiteDependencyRepo(tx)
		people := repository.NewSQLitePersonRepo(tx)
		assignments := repository.NewSQLiteAssignmentRepo(tx)

		if err := projects.Create(ctx, plan.Project); err != nil {
			return err
		}
		for _, p := range plan.Phases {
			if err := phases.Create(ctx, p); err != nil {
				return err
			}
		}
		for i := range plan.Dependencies {
			if err := deps.Create(ctx, &plan.Dependencies[i]); err != nil {
				return err
			}
		}
		for _, p := range plan.People {
			if err := people.Create(ctx, p); err != nil {
				return err
			}
		}
		for _, a := range plan.Assignments {
			if err := assignments.Create(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:         plan.Project,
		PhaseCount:      len(plan.Phases),
		DependencyCount: len(plan.Dependencies),
		PersonCount:     len(plan.People),
		AssignmentCount: len(plan.Assignments),
	}, nil
}

// Export serializes a project's plan with file-local refs, suitable for
// re-import into another database.
func (s *planService) Export(ctx context.Context, projectID string, format importer.Format) ([]byte, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	schema := &importer.PlanSchema{
		Project: importer.ProjectPlan{
			ShortID:   project.ShortID,
			Name:      project.Name,
			StartDate: project.StartDate.Format(dateLayout),
		},
	}
	if project.TargetDate != nil {
		target := project.TargetDate.Format(dateLayout)
		schema.Project.TargetDate = &target
	}

	phaseRefs := make(map[string]string, len(phases))
	for i, p := range phases {
		ref := fmt.Sprintf("phase-%d", i+1)
		phaseRefs[p.ID] = ref
		schema.Phases = append(schema.Phases, importer.PhasePlan{
			Ref:       ref,
			Name:      p.Name,
			StartDate: p.StartDate.Format(dateLayout),
			EndDate:   p.EndDate.Format(dateLayout),
			Color:     p.Color,
			Order:     p.OrderIndex,
		})
	}

	for _, d := range deps {
		predRef, okP := phaseRefs[d.PredecessorID]
		succRef, okS := phaseRefs[d.SuccessorID]
		if !okP || !okS {
			continue
		}
		schema.Dependencies = append(schema.Dependencies, importer.DependencyPlan{
			PredecessorRef: predRef,
			SuccessorRef:   succRef,
			Type:           string(d.Type),
			LagDays:        d.LagDays,
		})
	}

	personRefs := make(map[string]string)
	for _, a := range assignments {
		if _, seen := personRefs[a.PersonID]; seen {
			continue
		}
		person, err := s.people.GetByID(ctx, a.PersonID)
		if err != nil {
			return nil, err
		}
		ref := fmt.Sprintf("person-%d", len(personRefs)+1)
		personRefs[a.PersonID] = ref
		hours := person.WeeklyHours
		schema.People = append(schema.People, importer.PersonPlan{
			Ref:         ref,
			Name:        person.Name,
			Role:        person.Role,
			WeeklyHours: &hours,
		})
	}
	for _, a := range assignments {
		pct := a.AllocationPct
		schema.Assignments = append(schema.Assignments, importer.AssignmentPlan{
			PersonRef:     personRefs[a.PersonID],
			Role:          a.Role,
			AllocationPct: &pct,
			StartDate:     a.StartDate.Format(dateLayout),
			EndDate:       a.EndDate.Format(dateLayout),
		})
	}

	return importer.MarshalPlanSchema(schema, format)
}
