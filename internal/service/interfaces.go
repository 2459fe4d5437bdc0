package service

import (
	"context"
	"time"

	"github.com/ptarrant/phaseline/internal/constraint"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/granularity"
	"github.com/ptarrant/phaseline/internal/importer"
	"github.com/ptarrant/phaseline/internal/timeline"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

// CommitResult reports what a gesture commit changed and any dependency
// violations found by re-validating the shifted phases afterwards. The
// adjacency cascade and the dependency validator are separate
// mechanisms; the commit succeeds even when violations remain.
type CommitResult struct {
	Updated    []*domain.Phase
	Violations []constraint.Violation
}

type PhaseService interface {
	Create(ctx context.Context, p *domain.Phase) error
	GetByID(ctx context.Context, id string) (*domain.Phase, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Phase, error)
	Update(ctx context.Context, p *domain.Phase) error
	Delete(ctx context.Context, id string) error

	// Move shifts a phase rigidly by deltaDays, preserving duration.
	Move(ctx context.Context, phaseID string, deltaDays int) (*CommitResult, error)
	// Resize moves one edge by deltaDays, clamped to the minimum
	// duration, and cascades the effective delta onto the chain.
	Resize(ctx context.Context, phaseID string, edge timeline.Edge, deltaDays int) (*CommitResult, error)
	// ApplyEffects commits gesture machine output transactionally.
	ApplyEffects(ctx context.Context, projectID string, effects []timeline.Effect) (*CommitResult, error)
	// CascadePreview reports the neighbor shifts a commit of the given
	// dates would trigger, without writing anything.
	CascadePreview(ctx context.Context, projectID, phaseID string, newStart, newEnd time.Time) ([]timeline.Shift, error)

	Validate(ctx context.Context, projectID string) ([]constraint.Violation, error)
	FixAll(ctx context.Context, projectID string) ([]constraint.Fix, error)
}

type DependencyService interface {
	Create(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
}

type PersonService interface {
	Create(ctx context.Context, p *domain.Person) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context, includeInactive bool) ([]*domain.Person, error)
	Update(ctx context.Context, p *domain.Person) error
	Deactivate(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type AssignmentService interface {
	Create(ctx context.Context, a *domain.Assignment) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Assignment, error)
	ListByPerson(ctx context.Context, personID string) ([]*domain.Assignment, error)
	Update(ctx context.Context, a *domain.Assignment) error
	Delete(ctx context.Context, id string) error
}

// DemandReport is a project's per-role staffing demand, bucketed at the
// granularity its date span calls for.
type DemandReport struct {
	Start       time.Time
	End         time.Time
	Granularity granularity.Granularity
	Buckets     []granularity.Bucket
	Series      map[string][]granularity.BucketValue
}

type ReportService interface {
	// Demand computes the report over the project's full span.
	Demand(ctx context.Context, projectID string) (*DemandReport, error)
	// DemandRange restricts the report to a brush sub-range given as day
	// offsets from the project span's start.
	DemandRange(ctx context.Context, projectID string, startIndex, endIndex int) (*DemandReport, error)
}

// ImportResult holds the outcome of a plan import.
type ImportResult struct {
	Project         *domain.Project
	PhaseCount      int
	DependencyCount int
	PersonCount     int
	AssignmentCount int
}

type PlanService interface {
	Import(ctx context.Context, filePath string) (*ImportResult, error)
	ImportFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error)
	Export(ctx context.Context, projectID string, format importer.Format) ([]byte, error)
}
