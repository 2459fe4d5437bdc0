package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/testutil"
)

func seedTwoPhases(t *testing.T, ctx context.Context, projects repository.ProjectRepo, phases repository.PhaseRepo) (*domain.Project, *domain.Phase, *domain.Phase) {
	t.Helper()
	project := testutil.NewTestProject("Deps")
	require.NoError(t, projects.Create(ctx, project))

	a := testutil.NewTestPhase(project.ID, "A",
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 10))
	b := testutil.NewTestPhase(project.ID, "B",
		testutil.Date(2025, time.January, 12), testutil.Date(2025, time.January, 20))
	require.NoError(t, phases.Create(ctx, a))
	require.NoError(t, phases.Create(ctx, b))
	return project, a, b
}

func TestDependencyRepo_CreateAndList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(database)
	phases := repository.NewSQLitePhaseRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)

	project, a, b := seedTwoPhases(t, ctx, projects, phases)

	dep := testutil.NewTestDependency(project.ID, a.ID, b.ID,
		testutil.WithDepType(domain.StartToStart), testutil.WithLagDays(3))
	require.NoError(t, deps.Create(ctx, dep))

	list, err := deps.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StartToStart, list[0].Type)
	assert.Equal(t, 3, list[0].LagDays)
	assert.Equal(t, a.ID, list[0].PredecessorID)
	assert.Equal(t, b.ID, list[0].SuccessorID)
}

func TestDependencyRepo_DuplicateEdgeRejected(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(database)
	phases := repository.NewSQLitePhaseRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)

	project, a, b := seedTwoPhases(t, ctx, projects, phases)

	require.NoError(t, deps.Create(ctx, testutil.NewTestDependency(project.ID, a.ID, b.ID)))

	err := deps.Create(ctx, testutil.NewTestDependency(project.ID, a.ID, b.ID))
	require.Error(t, err)

	// A different type between the same pair is a distinct edge.
	other := testutil.NewTestDependency(project.ID, a.ID, b.ID,
		testutil.WithDepType(domain.FinishToFinish))
	require.NoError(t, deps.Create(ctx, other))
}

func TestDependencyRepo_PredecessorsAndSuccessors(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(database)
	phases := repository.NewSQLitePhaseRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)

	project, a, b := seedTwoPhases(t, ctx, projects, phases)
	require.NoError(t, deps.Create(ctx, testutil.NewTestDependency(project.ID, a.ID, b.ID)))

	preds, err := deps.ListPredecessors(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, a.ID, preds[0].PredecessorID)

	succs, err := deps.ListSuccessors(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, succs, 1)
	assert.Equal(t, b.ID, succs[0].SuccessorID)

	none, err := deps.ListPredecessors(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDependencyRepo_DeletedWithPhase(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	projects := repository.NewSQLiteProjectRepo(database)
	phases := repository.NewSQLitePhaseRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)

	project, a, b := seedTwoPhases(t, ctx, projects, phases)
	require.NoError(t, deps.Create(ctx, testutil.NewTestDependency(project.ID, a.ID, b.ID)))

	require.NoError(t, phases.Delete(ctx, a.ID))

	list, err := deps.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	// b itself survives.
	_, err = phases.GetByID(ctx, b.ID)
	require.NoError(t, err)
}
