package cli

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/repository"
	"github.com/ptarrant/phaseline/internal/service"
	"github.com/ptarrant/phaseline/internal/teatest"
	"github.com/ptarrant/phaseline/internal/testutil"
	"github.com/ptarrant/phaseline/internal/timeline"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	database := testutil.NewTestDB(t)

	projects := repository.NewSQLiteProjectRepo(database)
	phases := repository.NewSQLitePhaseRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	people := repository.NewSQLitePersonRepo(database)
	assignments := repository.NewSQLiteAssignmentRepo(database)
	uow := testutil.NewTestUoW(database)

	return &App{
		Projects:    service.NewProjectService(projects),
		Phases:      service.NewPhaseService(phases, deps, uow),
		Deps:        service.NewDependencyService(deps, phases),
		People:      service.NewPersonService(people),
		Assignments: service.NewAssignmentService(assignments, people, projects),
		Plans:       service.NewPlanService(uow, projects, phases, deps, people, assignments),
		Reports:     service.NewReportService(phases, assignments, people),
	}
}

func seedTimelineProject(t *testing.T, app *App) *domain.Project {
	t.Helper()
	ctx := context.Background()

	project := testutil.NewTestProject("Rollout")
	require.NoError(t, app.Projects.Create(ctx, project))

	a := &domain.Phase{
		ProjectID: project.ID, Name: "Build",
		StartDate: testutil.Date(2025, time.January, 1),
		EndDate:   testutil.Date(2025, time.January, 10),
	}
	require.NoError(t, app.Phases.Create(ctx, a))

	b := &domain.Phase{
		ProjectID: project.ID, Name: "Verify",
		StartDate: testutil.Date(2025, time.January, 12),
		EndDate:   testutil.Date(2025, time.January, 20),
	}
	require.NoError(t, app.Phases.Create(ctx, b))

	return project
}

func newTimelineDriver(t *testing.T, app *App, projectID string) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newTimelineModel(app, projectID), teatest.WithSize(120, 40))
	d.DrainInit()
	return d
}

func phaseDates(t *testing.T, app *App, projectID, name string) (time.Time, time.Time) {
	t.Helper()
	phases, err := app.Phases.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	for _, p := range phases {
		if p.Name == name {
			return p.StartDate, p.EndDate
		}
	}
	t.Fatalf("phase %q not found", name)
	return time.Time{}, time.Time{}
}

func TestTimeline_ResizeEndCommitsAndCascades(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	// Grab the end edge of the first phase and drag it three days out.
	d.PressKey('e')
	d.PressKey('l')
	d.PressKey('l')
	d.PressKey('l')
	d.PressEnter()

	_, aEnd := phaseDates(t, app, project.ID, "Build")
	bStart, bEnd := phaseDates(t, app, project.ID, "Verify")

	assert.Equal(t, "2025-01-13", aEnd.Format("2006-01-02"))
	// The neighbor shifted rigidly, preserving the two-day gap.
	assert.Equal(t, "2025-01-15", bStart.Format("2006-01-02"))
	assert.Equal(t, "2025-01-23", bEnd.Format("2006-01-02"))
}

func TestTimeline_EscCancelsGesture(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	d.PressKey('m')
	d.PressKey('l')
	d.PressKey('l')
	d.PressEsc()

	aStart, aEnd := phaseDates(t, app, project.ID, "Build")
	assert.Equal(t, "2025-01-01", aStart.Format("2006-01-02"))
	assert.Equal(t, "2025-01-10", aEnd.Format("2006-01-02"))

	model := d.Model.(*timelineModel)
	assert.Equal(t, timeline.GestureNone, model.machine.Kind())
}

func TestTimeline_MouseDragMovesPhase(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	model := d.Model.(*timelineModel)
	left, width := timeline.ItemPosition(model.items[0], model.vp)
	bodyX := chartLeft + int(left+width/2)
	dx := int(math.Ceil(4 * model.vp.PixelsPerDay))
	wantDays := int(math.Round(float64(dx) / model.vp.PixelsPerDay))
	require.Greater(t, wantDays, 0)

	d.Send(tea.MouseMsg{X: bodyX, Y: chartTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	d.Send(tea.MouseMsg{X: bodyX + dx, Y: chartTop, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	d.Send(tea.MouseMsg{X: bodyX + dx, Y: chartTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	aStart, aEnd := phaseDates(t, app, project.ID, "Build")
	wantStart := timeline.AddDays(testutil.Date(2025, time.January, 1), wantDays)
	assert.Equal(t, wantStart.Format("2006-01-02"), aStart.Format("2006-01-02"))
	// Duration preserved.
	assert.Equal(t, 9, timeline.DaysBetween(aStart, aEnd))

	// A pure move cascades nothing.
	bStart, _ := phaseDates(t, app, project.ID, "Verify")
	assert.Equal(t, "2025-01-12", bStart.Format("2006-01-02"))
}

func TestTimeline_BrushReportsDemand(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	ctx := context.Background()

	person := testutil.NewTestPerson("Eli", testutil.WithRole("engineer"))
	require.NoError(t, app.People.Create(ctx, person))
	require.NoError(t, app.Assignments.Create(ctx, testutil.NewTestAssignment(
		project.ID, person.ID,
		testutil.Date(2025, time.January, 1), testutil.Date(2025, time.January, 20),
		testutil.WithAssignmentRole("engineer"))))

	d := newTimelineDriver(t, app, project.ID)

	d.PressKey('x')
	d.PressKey('L')
	d.PressEnter()

	model := d.Model.(*timelineModel)
	require.NotNil(t, model.brush)
	require.NotNil(t, model.demand)
	require.Contains(t, model.demand.Series, "engineer")
	assert.Contains(t, d.View(), "Demand")
}

func TestTimeline_FixAllClearsViolations(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	ctx := context.Background()

	phases, err := app.Phases.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.NoError(t, app.Deps.Create(ctx, &domain.Dependency{
		PredecessorID: phases[0].ID,
		SuccessorID:   phases[1].ID,
		Type:          domain.FinishToStart,
	}))

	// Pull the successor back over its predecessor.
	_, err = app.Phases.Move(ctx, phases[1].ID, -8)
	require.NoError(t, err)

	d := newTimelineDriver(t, app, project.ID)
	model := d.Model.(*timelineModel)
	require.NotEmpty(t, model.violations)

	d.PressKey('f')

	model = d.Model.(*timelineModel)
	assert.Empty(t, model.violations)

	bStart, _ := phaseDates(t, app, project.ID, "Verify")
	assert.Equal(t, "2025-01-10", bStart.Format("2006-01-02"))
}

func TestTimeline_AddPhaseForm(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	d.PressKey('a')
	require.NotNil(t, d.Model.(*timelineModel).form)

	d.Type("Launch")
	d.PressEnter()
	d.Type("2025-02-01")
	d.PressEnter()
	d.Type("2025-02-14")
	d.PressEnter()
	d.PressEnter() // leave color blank

	phases, err := app.Phases.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, phases, 3)

	var found bool
	for _, p := range phases {
		if p.Name == "Launch" {
			found = true
			assert.Equal(t, "2025-02-01", p.StartDate.Format("2006-01-02"))
			assert.Equal(t, "2025-02-14", p.EndDate.Format("2006-01-02"))
		}
	}
	assert.True(t, found)
	assert.Nil(t, d.Model.(*timelineModel).form)
}

func TestTimeline_DeleteSelectedPhase(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	d.PressKey('j')
	d.PressKey('d')

	phases, err := app.Phases.ListByProject(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, phases, 1)
	assert.Equal(t, "Build", phases[0].Name)
}

func TestTimeline_ViewShowsBarsAndViolations(t *testing.T) {
	app := newTestApp(t)
	project := seedTimelineProject(t, app)
	d := newTimelineDriver(t, app, project.ID)

	view := d.View()
	assert.Contains(t, view, "Build")
	assert.Contains(t, view, "Verify")
	assert.Contains(t, view, "█")
	assert.True(t, strings.Contains(view, "constraints satisfied"))
}
