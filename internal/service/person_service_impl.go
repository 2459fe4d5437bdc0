package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/google/uuid"
)

type personService struct {
	people repository.PersonRepo
}

func NewPersonService(people repository.PersonRepo) PersonService {
	return &personService{people: people}
}

func (s *personService) Create(ctx context.Context, p *domain.Person) error {
	if p.Role != "" && !domain.ValidRoles[p.Role] {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Role == "" {
		p.Role = "generic"
	}
	if p.WeeklyHours <= 0 {
		p.WeeklyHours = 40
	}
	if p.Status == "" {
		p.Status = domain.PersonActive
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.people.Create(ctx, p)
}

func (s *personService) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	return s.people.GetByID(ctx, id)
}

func (s *personService) List(ctx context.Context, includeInactive bool) ([]*domain.Person, error) {
	return s.people.List(ctx, includeInactive)
}

func (s *personService) Update(ctx context.Context, p *domain.Person) error {
	if p.Role != "" && !domain.ValidRoles[p.Role] {
		return fmt.Errorf("invalid role %q", p.Role)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.people.Update(ctx, p)
}

func (s *personService) Deactivate(ctx context.Context, id string) error {
	p, err := s.people.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Status = domain.PersonInactive
	p.UpdatedAt = time.Now().UTC()
	return s.people.Update(ctx, p)
}

func (s *personService) Delete(ctx context.Context, id string) error {
	return s.people.Delete(ctx, id)
}
