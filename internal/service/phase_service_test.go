package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/service"
	"github.com/ptarrant/phaseline/internal/testutil"
	"github.com/ptarrant/phaseline/internal/timeline"
)

type fixture struct {
	db       *sql.DB
	projects service.ProjectService
	phases   service.PhaseService
	deps     service.DependencyService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)

	projectRepo := repository.NewSQLiteProjectRepo(database)
	phaseRepo := repository.NewSQLitePhaseRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)

	return &fixture{
		db:       database,
		projects: service.NewProjectService(projectRepo),
		phases:   service.NewPhaseService(phaseRepo, depRepo, uow),
		deps:     service.NewDependencyService(depRepo, phaseRepo),
	}
}

func (f *fixture) seedProject(t *testing.T, ctx context.Context) *domain.Project {
	t.Helper()
	project := testutil.NewTestProject("Timeline")
	require.NoError(t, f.projects.Create(ctx, project))
	return project
}

func (f *fixture) seedPhase(t *testing.T, ctx context.Context, projectID, name string, start, end time.Time) *domain.Phase {
	t.Helper()
	p := testutil.NewTestPhase(projectID, name, start, end)
	require.NoError(t, f.phases.Create(ctx, p))
	return p
}

func TestPhaseService_CreateClampsDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	p := testutil.NewTestPhase(project.ID, "Inverted",
		testutil.Date(2025, time.March, 10), testutil.Date(2025, time.March, 5))
	require.NoError(t, f.phases.Create(ctx, p))

	got, err := f.phases.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-03-11", got.EndDate.Format("2006-01-02"))
}

func TestPhaseService_MovePreservesDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)
	p := f.seedPhase(t, ctx, project.ID, "Build",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))

	result, err := f.phases.Move(ctx, p.ID, 5)
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)

	got := result.Updated[0]
	assert.Equal(t, "2025-01-06", got.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-15", got.EndDate.Format("2006-01-02"))
	assert.Equal(t, 9, got.DurationDays())
	assert.Empty(t, result.Violations)
}

func TestPhaseService_ResizeEndCascadesLaterPhases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	a := f.seedPhase(t, ctx, project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	b := f.seedPhase(t, ctx, project.ID, "B",
		testutil.Date(2025, time.January, 12), testutil.Date(2025, time.January, 20))
	c := f.seedPhase(t, ctx, project.ID, "C",
		testutil.Date(2025, time.January, 25), testutil.Date(2025, time.February, 5))

	result, err := f.phases.Resize(ctx, a.ID, timeline.EdgeEnd, 3)
	require.NoError(t, err)
	assert.Len(t, result.Updated, 3)

	gotA, err := f.phases.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-13", gotA.EndDate.Format("2006-01-02"))

	gotB, err := f.phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", gotB.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-23", gotB.EndDate.Format("2006-01-02"))

	gotC, err := f.phases.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-28", gotC.StartDate.Format("2006-01-02"))

	// Gaps are preserved: A.End to B.Start stays 2 days.
	assert.Equal(t, 2, timeline.DaysBetween(gotA.EndDate, gotB.StartDate))
}

func TestPhaseService_ResizeClampsToMinDuration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)
	p := f.seedPhase(t, ctx, project.ID, "Short",
		testutil.Date(2025, time.April, 1), testutil.Date(2025, time.April, 5))

	// Dragging the end 30 days left cannot invert the phase.
	result, err := f.phases.Resize(ctx, p.ID, timeline.EdgeEnd, -30)
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)

	got := result.Updated[0]
	assert.Equal(t, "2025-04-01", got.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-04-02", got.EndDate.Format("2006-01-02"))
}

func TestPhaseService_CommitReportsViolations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	a := f.seedPhase(t, ctx, project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	b := f.seedPhase(t, ctx, project.ID, "B",
		testutil.Date(2025, time.January, 10), testutil.Date(2025, time.January, 20))

	dep := testutil.NewTestDependency(project.ID, a.ID, b.ID)
	require.NoError(t, f.deps.Create(ctx, dep))

	// Moving B before A's end breaks the FS edge; the commit still
	// lands but the result surfaces the violation.
	result, err := f.phases.Move(ctx, b.ID, -5)
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, dep.ID, result.Violations[0].Dependency.ID)

	got, err := f.phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-05", got.StartDate.Format("2006-01-02"))
}

func TestPhaseService_FixAllPushesSuccessorForward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	a := f.seedPhase(t, ctx, project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 15))
	b := f.seedPhase(t, ctx, project.ID, "B",
		testutil.Date(2025, time.January, 10), testutil.Date(2025, time.January, 20))

	require.NoError(t, f.deps.Create(ctx, testutil.NewTestDependency(project.ID, a.ID, b.ID)))

	fixes, err := f.phases.FixAll(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, fixes, 1)
	assert.Equal(t, b.ID, fixes[0].PhaseID)

	got, err := f.phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", got.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-25", got.EndDate.Format("2006-01-02"))

	violations, err := f.phases.Validate(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestPhaseService_ApplyEffectsCommitsGestureOutput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	a := f.seedPhase(t, ctx, project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	b := f.seedPhase(t, ctx, project.ID, "B",
		testutil.Date(2025, time.January, 12), testutil.Date(2025, time.January, 20))

	phases, err := f.phases.ListByProject(ctx, project.ID)
	require.NoError(t, err)

	vp := timeline.Viewport{
		Start:        testutil.Date(2025, time.January, 1),
		End:          testutil.Date(2025, time.February, 1),
		PixelsPerDay: 10,
	}
	m := timeline.NewMachine(timeline.ItemsFromPhases(phases), vp)
	m.Handle(timeline.Press{X: 50, Target: timeline.Target{Kind: timeline.TargetItemBody, ItemID: a.ID}})
	m.Handle(timeline.Drag{X: 70})
	effects := m.Handle(timeline.Release{})
	require.NotEmpty(t, effects)

	result, err := f.phases.ApplyEffects(ctx, project.ID, effects)
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)

	got, err := f.phases.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-03", got.StartDate.Format("2006-01-02"))
	assert.Equal(t, "2025-01-12", got.EndDate.Format("2006-01-02"))

	// b untouched.
	gotB, err := f.phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-12", gotB.StartDate.Format("2006-01-02"))
}

func TestPhaseService_CascadePreviewDoesNotWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	project := f.seedProject(t, ctx)

	a := f.seedPhase(t, ctx, project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	b := f.seedPhase(t, ctx, project.ID, "B",
		testutil.Date(2025, time.January, 12), testutil.Date(2025, time.January, 20))

	shifts, err := f.phases.CascadePreview(ctx, project.ID, a.ID,
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 14))
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, b.ID, shifts[0].ItemID)
	assert.Equal(t, 4, shifts[0].Days)

	// Nothing written.
	gotB, err := f.phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-12", gotB.StartDate.Format("2006-01-02"))
}
