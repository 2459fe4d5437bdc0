package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/importer"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/service"
	"github.com/ptarrant/phaseline/internal/testutil"
)

func strPtr(s string) *string { return &s }

func samplePlan() *importer.PlanSchema {
	return &importer.PlanSchema{
		Project: importer.ProjectPlan{
			ShortID:    "WEB",
			Name:       "Website Redesign",
			StartDate:  "2025-01-01",
			TargetDate: strPtr("2025-06-30"),
		},
		Phases: []importer.PhasePlan{
			{Ref: "discovery", Name: "Discovery", StartDate: "2025-01-01", EndDate: "2025-01-31"},
			{Ref: "design", Name: "Design", StartDate: "2025-02-03", EndDate: "2025-03-14"},
			{Ref: "build", Name: "Build", StartDate: "2025-03-17", EndDate: "2025-05-30"},
		},
		Dependencies: []importer.DependencyPlan{
			{PredecessorRef: "discovery", SuccessorRef: "design"},
			{PredecessorRef: "design", SuccessorRef: "build", Type: "SS", LagDays: 14},
		},
		People: []importer.PersonPlan{
			{Ref: "dana", Name: "Dana", Role: "designer"},
			{Ref: "eli", Name: "Eli", Role: "engineer"},
		},
		Assignments: []importer.AssignmentPlan{
			{PersonRef: "dana", Role: "designer", StartDate: "2025-02-03", EndDate: "2025-03-14"},
			{PersonRef: "eli", Role: "engineer", StartDate: "2025-03-17", EndDate: "2025-05-30"},
		},
	}
}

func newPlanService(t *testing.T) (service.PlanService, *planDeps) {
	t.Helper()
	database := testutil.NewTestDB(t)
	d := &planDeps{
		projects:    repository.NewSQLiteProjectRepo(database),
		phases:      repository.NewSQLitePhaseRepo(database),
		deps:        repository.NewSQLiteDependencyRepo(database),
		people:      repository.NewSQLitePersonRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
	}
	svc := service.NewPlanService(testutil.NewTestUoW(database), d.projects, d.phases, d.deps, d.people, d.assignments)
	return svc, d
}

type planDeps struct {
	projects    *repository.SQLiteProjectRepo
	phases      *repository.SQLitePhaseRepo
	deps        *repository.SQLiteDependencyRepo
	people      *repository.SQLitePersonRepo
	assignments *repository.SQLiteAssignmentRepo
}

func TestPlanService_ImportPersistsEverything(t *testing.T) {
	svc, d := newPlanService(t)
	ctx := context.Background()

	result, err := svc.ImportFromSchema(ctx, samplePlan())
	require.NoError(t, err)
	assert.Equal(t, 3, result.PhaseCount)
	assert.Equal(t, 2, result.DependencyCount)
	assert.Equal(t, 2, result.PersonCount)
	assert.Equal(t, 2, result.AssignmentCount)

	project, err := d.projects.GetByShortID(ctx, "web")
	require.NoError(t, err)
	assert.Equal(t, "Website Redesign", project.Name)

	phases, err := d.phases.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, phases, 3)
	assert.Equal(t, "Discovery", phases[0].Name)

	deps, err := d.deps.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, deps, 2)
}

func TestPlanService_ImportRejectsInvalidSchema(t *testing.T) {
	svc, _ := newPlanService(t)

	plan := samplePlan()
	plan.Dependencies = append(plan.Dependencies, importer.DependencyPlan{
		PredecessorRef: "build", SuccessorRef: "missing",
	})

	_, err := svc.ImportFromSchema(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestPlanService_ImportRejectsDuplicateShortID(t *testing.T) {
	svc, _ := newPlanService(t)
	ctx := context.Background()

	_, err := svc.ImportFromSchema(ctx, samplePlan())
	require.NoError(t, err)

	_, err = svc.ImportFromSchema(ctx, samplePlan())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestPlanService_ImportRollsBackOnFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	d := &planDeps{
		projects:    repository.NewSQLiteProjectRepo(database),
		phases:      repository.NewSQLitePhaseRepo(database),
		deps:        repository.NewSQLiteDependencyRepo(database),
		people:      repository.NewSQLitePersonRepo(database),
		assignments: repository.NewSQLiteAssignmentRepo(database),
	}

	// Fail on the 3rd insert (the second phase) mid-import.
	injected := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected}
	svc := service.NewPlanService(uow, d.projects, d.phases, d.deps, d.people, d.assignments)

	_, err := svc.ImportFromSchema(context.Background(), samplePlan())
	require.ErrorIs(t, err, injected)

	// Nothing persisted.
	projects, err := d.projects.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestPlanService_ExportRoundTrips(t *testing.T) {
	svc, _ := newPlanService(t)
	ctx := context.Background()

	result, err := svc.ImportFromSchema(ctx, samplePlan())
	require.NoError(t, err)

	for _, format := range []importer.Format{importer.FormatJSON, importer.FormatYAML} {
		data, err := svc.Export(ctx, result.Project.ID, format)
		require.NoError(t, err)

		parsed, err := importer.ParsePlanSchema(data, format)
		require.NoError(t, err)
		assert.Equal(t, "WEB", parsed.Project.ShortID)
		assert.Len(t, parsed.Phases, 3)
		assert.Len(t, parsed.Dependencies, 2)
		assert.Len(t, parsed.People, 2)
		assert.Len(t, parsed.Assignments, 2)

		// An exported plan re-validates cleanly.
		assert.Empty(t, importer.ValidatePlanSchema(parsed))
	}
}
