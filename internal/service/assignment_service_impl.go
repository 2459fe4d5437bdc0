package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/timeline"
	"github.com/google/uuid"
)

type assignmentService struct {
	assignments repository.AssignmentRepo
	people      repository.PersonRepo
	projects    repository.ProjectRepo
}

func NewAssignmentService(assignments repository.AssignmentRepo, people repository.PersonRepo, projects repository.ProjectRepo) AssignmentService {
	return &assignmentService{assignments: assignments, people: people, projects: projects}
}

func (s *assignmentService) Create(ctx context.Context, a *domain.Assignment) error {
	if err := s.validate(ctx, a); err != nil {
		return err
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.AllocationPct == 0 {
		a.AllocationPct = 100
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.assignments.Create(ctx, a)
}

func (s *assignmentService) ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error) {
	return s.assignments.ListByProject(ctx, projectID)
}

func (s *assignmentService) ListByPerson(ctx context.Context, personID string) ([]*domain.Assignment, error) {
	return s.assignments.ListByPerson(ctx, personID)
}

func (s *assignmentService) Update(ctx context.Context, a *domain.Assignment) error {
	if err := s.validate(ctx, a); err != nil {
		return err
	}
	a.UpdatedAt = time.Now().UTC()
	return s.assignments.Update(ctx, a)
}

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	return s.assignments.Delete(ctx, id)
}

func (s *assignmentService) validate(ctx context.Context, a *domain.Assignment) error {
	if a.Role != "" && !domain.ValidRoles[a.Role] {
		return fmt.Errorf("invalid role %q", a.Role)
	}
	if a.AllocationPct < 0 || a.AllocationPct > 100 {
		return fmt.Errorf("allocation must be between 0 and 100, got %d", a.AllocationPct)
	}

	a.StartDate = timeline.Midnight(a.StartDate)
	a.EndDate = timeline.Midnight(a.EndDate)
	if a.EndDate.Before(a.StartDate) {
		return fmt.Errorf("assignment ends before it starts")
	}

	if _, err := s.people.GetByID(ctx, a.PersonID); err != nil {
		return fmt.Errorf("person: %w", err)
	}
	if _, err := s.projects.GetByID(ctx, a.ProjectID); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	return nil
}
