package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/constraint"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/google/uuid"
)

type dependencyService struct {
	deps   repository.DependencyRepo
	phases repository.PhaseRepo
}

func NewDependencyService(deps repository.DependencyRepo, phases repository.PhaseRepo) DependencyService {
	return &dependencyService{deps: deps, phases: phases}
}

// Create adds a dependency edge. Self-edges, duplicate edges of the
// same type, cross-project edges and cycle-closing edges are rejected
// up front rather than left for the validator to flag forever.
func (s *dependencyService) Create(ctx context.Context, d *domain.Dependency) error {
	if d.PredecessorID == d.SuccessorID {
		return fmt.Errorf("a phase cannot depend on itself")
	}
	if !domain.ValidDependencyTypes[string(d.Type)] {
		return fmt.Errorf("invalid dependency type %q (want FS, SS, FF or SF)", d.Type)
	}

	pred, err := s.phases.GetByID(ctx, d.PredecessorID)
	if err != nil {
		return fmt.Errorf("predecessor: %w", err)
	}
	succ, err := s.phases.GetByID(ctx, d.SuccessorID)
	if err != nil {
		return fmt.Errorf("successor: %w", err)
	}
	if pred.ProjectID != succ.ProjectID {
		return fmt.Errorf("phases %q and %q belong to different projects", pred.Name, succ.Name)
	}
	d.ProjectID = pred.ProjectID

	existing, err := s.deps.ListByProject(ctx, d.ProjectID)
	if err != nil {
		return err
	}
	for _, e := range existing {
		if e.PredecessorID == d.PredecessorID && e.SuccessorID == d.SuccessorID && e.Type == d.Type {
			return fmt.Errorf("dependency %s %s -> %s already exists", d.Type, pred.Name, succ.Name)
		}
	}
	if constraint.WouldCreateCycle(existing, d.PredecessorID, d.SuccessorID) {
		return fmt.Errorf("dependency %s -> %s would create a cycle", pred.Name, succ.Name)
	}

	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.CreatedAt = time.Now().UTC()
	return s.deps.Create(ctx, d)
}

func (s *dependencyService) Delete(ctx context.Context, id string) error {
	return s.deps.Delete(ctx, id)
}

func (s *dependencyService) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}
