package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ptarrant/phaseline/internal/constraint"
	"github.com/ptarrant/phaseline/internal/db"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/timeline"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type phaseService struct {
	phases   repository.PhaseRepo
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPhaseService(phases repository.PhaseRepo, deps repository.DependencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) PhaseService {
	return &phaseService{
		phases:   phases,
		deps:     deps,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *phaseService) Create(ctx context.Context, p *domain.Phase) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	p.StartDate = timeline.Midnight(p.StartDate)
	p.EndDate = timeline.Midnight(p.EndDate)
	if earliest := timeline.AddDays(p.StartDate, domain.MinPhaseDurationDays); p.EndDate.Before(earliest) {
		p.EndDate = earliest
	}
	return s.phases.Create(ctx, p)
}

func (s *phaseService) GetByID(ctx context.Context, id string) (*domain.Phase, error) {
	return s.phases.GetByID(ctx, id)
}

func (s *phaseService) ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error) {
	return s.phases.ListByProject(ctx, projectID)
}

func (s *phaseService) Update(ctx context.Context, p *domain.Phase) error {
	p.UpdatedAt = time.Now().UTC()
	p.StartDate = timeline.Midnight(p.StartDate)
	p.EndDate = timeline.Midnight(p.EndDate)
	if earliest := timeline.AddDays(p.StartDate, domain.MinPhaseDurationDays); p.EndDate.Before(earliest) {
		p.EndDate = earliest
	}
	return s.phases.Update(ctx, p)
}

func (s *phaseService) Delete(ctx context.Context, id string) error {
	return s.phases.Delete(ctx, id)
}

// Move shifts both endpoints by deltaDays and re-validates. A move
// never cascades; only edge resizes push the chain.
func (s *phaseService) Move(ctx context.Context, phaseID string, deltaDays int) (*CommitResult, error) {
	started := time.Now()

	p, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	newStart := timeline.AddDays(p.StartDate, deltaDays)
	newEnd := timeline.AddDays(p.EndDate, deltaDays)

	result, err := s.commitDates(ctx, p.ProjectID, map[string][2]time.Time{
		phaseID: {newStart, newEnd},
	})
	s.observe(ctx, "phase.move", started, err, map[string]any{
		"phase_id":   phaseID,
		"delta_days": deltaDays,
	})
	return result, err
}

// Resize moves one edge by deltaDays, clamped so the phase never drops
// below the minimum duration, then shifts the rest of the chain by the
// effective delta.
func (s *phaseService) Resize(ctx context.Context, phaseID string, edge timeline.Edge, deltaDays int) (*CommitResult, error) {
	started := time.Now()

	p, err := s.phases.GetByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.phases.ListByProject(ctx, p.ProjectID)
	if err != nil {
		return nil, err
	}

	newStart, newEnd := clampedResize(p, edge, deltaDays)

	writes := map[string][2]time.Time{phaseID: {newStart, newEnd}}
	items := timeline.ItemsFromPhases(siblings)
	for _, sh := range timeline.CascadePreview(items, phaseID, newStart, newEnd) {
		writes[sh.ItemID] = [2]time.Time{sh.Start, sh.End}
	}

	result, err := s.commitDates(ctx, p.ProjectID, writes)
	s.observe(ctx, "phase.resize", started, err, map[string]any{
		"phase_id":   phaseID,
		"delta_days": deltaDays,
		"cascaded":   len(writes) - 1,
	})
	return result, err
}

// ApplyEffects commits gesture machine output in one transaction.
// BoundaryRejected and BrushChanged effects write nothing.
func (s *phaseService) ApplyEffects(ctx context.Context, projectID string, effects []timeline.Effect) (*CommitResult, error) {
	started := time.Now()

	writes := make(map[string][2]time.Time)
	for _, e := range effects {
		switch e := e.(type) {
		case timeline.ItemMoved:
			writes[e.ItemID] = [2]time.Time{e.Start, e.End}
		case timeline.ItemResized:
			writes[e.ItemID] = [2]time.Time{e.Start, e.End}
		case timeline.BoundaryAdjusted:
			left, err := s.phases.GetByID(ctx, e.LeftID)
			if err != nil {
				return nil, err
			}
			right, err := s.phases.GetByID(ctx, e.RightID)
			if err != nil {
				return nil, err
			}
			writes[e.LeftID] = [2]time.Time{left.StartDate, e.LeftEnd}
			writes[e.RightID] = [2]time.Time{e.RightStart, right.EndDate}
		}
	}
	if len(writes) == 0 {
		return &CommitResult{}, nil
	}

	result, err := s.commitDates(ctx, projectID, writes)
	s.observe(ctx, "phase.apply_effects", started, err, map[string]any{
		"project_id": projectID,
		"writes":     len(writes),
	})
	return result, err
}

func (s *phaseService) CascadePreview(ctx context.Context, projectID, phaseID string, newStart, newEnd time.Time) ([]timeline.Shift, error) {
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	items := timeline.ItemsFromPhases(phases)
	return timeline.CascadePreview(items, phaseID, timeline.Midnight(newStart), timeline.Midnight(newEnd)), nil
}

func (s *phaseService) Validate(ctx context.Context, projectID string) ([]constraint.Violation, error) {
	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var all []constraint.Violation
	seen := make(map[string]bool)
	for _, p := range phases {
		for _, v := range constraint.ValidatePhase(p, phases, deps) {
			// Each broken edge shows up from both endpoints; report it once.
			key := v.Dependency.ID
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, v)
		}
	}
	return all, nil
}

func (s *phaseService) FixAll(ctx context.Context, projectID string) ([]constraint.Fix, error) {
	started := time.Now()

	phases, err := s.phases.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	deps, err := s.deps.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	fixes := constraint.FixAll(phases, deps)
	if len(fixes) == 0 {
		s.observe(ctx, "phase.fix_all", started, nil, map[string]any{"project_id": projectID, "fixes": 0})
		return nil, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePhaseRepo(tx)
		for _, f := range fixes {
			if err := repo.UpdateDates(ctx, f.PhaseID, f.Start.Format(dateLayout), f.End.Format(dateLayout)); err != nil {
				return fmt.Errorf("applying fix for %s: %w", f.Name, err)
			}
		}
		return nil
	})
	s.observe(ctx, "phase.fix_all", started, err, map[string]any{
		"project_id": projectID,
		"fixes":      len(fixes),
	})
	if err != nil {
		return nil, err
	}
	return fixes, nil
}

// commitDates writes all date changes in one transaction, then
// re-validates every touched phase against the project's dependencies.
func (s *phaseService) commitDates(ctx context.Context, projectID string, writes map[string][2]time.Time) (*CommitResult, error) {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLitePhaseRepo(tx)
		for id, dates := range writes {
			start := timeline.Midnight(dates[0]).Format(dateLayout)
			end := timeline.Midnight(dates[1]).Format(dateLayout)
			if err := repo.UpdateDates(ctx, id, start, end); err != nil {
				return err
			}
		}
		return nil
	})
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

	result := &CommitResult{}
	for _, p := range phases {
		if _, touched := writes[p.ID]; !touched {
			continue
		}
		result.Updated = append(result.Updated, p)
		result.Violations = append(result.Violations, constraint.ValidatePhase(p, phases, deps)...)
	}
	return result, nil
}

func (s *phaseService) observe(ctx context.Context, name string, started time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		Duration:  time.Since(started),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
		StartedAt: started,
	})
}

func clampedResize(p *domain.Phase, edge timeline.Edge, deltaDays int) (time.Time, time.Time) {
	start := timeline.Midnight(p.StartDate)
	end := timeline.Midnight(p.EndDate)
	if edge == timeline.EdgeStart {
		start = timeline.AddDays(start, deltaDays)
		if latest := timeline.AddDays(end, -domain.MinPhaseDurationDays); start.After(latest) {
			start = latest
		}
	} else {
		end = timeline.AddDays(end, deltaDays)
		if earliest := timeline.AddDays(start, domain.MinPhaseDurationDays); end.Before(earliest) {
			end = earliest
		}
	}
	return start, end
}
