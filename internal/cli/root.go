package cli

import (
	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Phases      service.PhaseService
	Deps        service.DependencyService
	People      service.PersonService
	Assignments service.AssignmentService
	Plans       service.PlanService
	Reports     service.ReportService

	// IsInteractive reports whether stdin is a terminal; the timeline
	// command refuses to start its TUI without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "phaseline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "phaseline",
		Short: "Capacity planner with an interactive phase timeline",
	}

	root.AddCommand(
		newProjectCmd(app),
		newPhaseCmd(app),
		newDepCmd(app),
		newPersonCmd(app),
		newAssignCmd(app),
		newPlanCmd(app),
		newReportCmd(app),
		newTimelineCmd(app),
	)

	return root
}
