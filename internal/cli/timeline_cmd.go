package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/svg"
	"github.com/ptarrant/phaseline/internal/timeline"
)

func newTimelineCmd(app *App) *cobra.Command {
	var svgPath string

	cmd := &cobra.Command{
		Use:   "timeline PROJECT",
		Short: "Interactive phase timeline",
		Long: "Opens an interactive timeline where phases can be moved and resized\n" +
			"with the keyboard or mouse. Resizing an edge cascades onto neighboring\n" +
			"phases; every commit is re-validated against the project's dependency\n" +
			"edges. With --svg the timeline is rendered to a file instead.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			if svgPath != "" {
				return exportTimelineSVG(ctx, app, projectID, svgPath)
			}

			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("timeline requires an interactive terminal; use --svg for non-interactive export")
			}

			p := tea.NewProgram(
				newTimelineModel(app, projectID),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "Render the timeline to an SVG file and exit")

	return cmd
}

func exportTimelineSVG(ctx context.Context, app *App, projectID, path string) error {
	project, err := app.Projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	phases, err := app.Phases.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}

	items := timeline.ItemsFromPhases(phases)
	vp := timeline.DeriveViewport(items, timeline.ViewportOptions{})

	out, err := svg.Render(items, vp, svg.Options{
		Title: fmt.Sprintf("%s %s", project.ShortID, project.Name),
		Now:   time.Now(),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Rendered timeline to %s\n", path)
	return nil
}
