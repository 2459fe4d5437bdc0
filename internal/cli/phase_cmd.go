package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/domain"
	"github.com/ptarrant/phaseline/internal/service"
	"github.com/ptarrant/phaseline/internal/timeline"
)

// resolvePhaseID matches a phase within a project by exact ID, ID
// prefix, or case-insensitive name.
func resolvePhaseID(ctx context.Context, app *App, projectID, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("phase ID is required")
	}

	phases, err := app.Phases.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	for _, p := range phases {
		if p.ID == input || strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range phases {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("phase not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("phase ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage project phases",
	}

	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseListCmd(app),
		newPhaseUpdateCmd(app),
		newPhaseMoveCmd(app),
		newPhaseResizeCmd(app),
		newPhaseRemoveCmd(app),
		newPhaseValidateCmd(app),
		newPhaseFixCmd(app),
	)

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var name, start, end, color string

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a phase to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", end, err)
			}

			p := &domain.Phase{
				ProjectID: projectID,
				Name:      name,
				StartDate: startDate,
				EndDate:   endDate,
				Color:     color,
			}
			if err := app.Phases.Create(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Added phase %s (%s .. %s)\n", p.Name,
				p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "Bar color (hex, e.g. #3b82f6)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newPhaseListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's phases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phases, err := app.Phases.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}

			if len(phases) == 0 {
				fmt.Println("No phases found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatPhaseList(phases))
			return nil
		},
	}
}

func newPhaseUpdateCmd(app *App) *cobra.Command {
	var name, start, end, color string

	cmd := &cobra.Command{
		Use:   "update PROJECT PHASE",
		Short: "Update a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phaseID, err := resolvePhaseID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			p, err := app.Phases.GetByID(ctx, phaseID)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("start") {
				startDate, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				p.StartDate = startDate
			}
			if cmd.Flags().Changed("end") {
				endDate, err := time.Parse("2006-01-02", end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				p.EndDate = endDate
			}
			if cmd.Flags().Changed("color") {
				p.Color = color
			}

			if err := app.Phases.Update(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Updated phase %s (%s .. %s)\n", p.Name,
				p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&color, "color", "", "Bar color (hex)")

	return cmd
}

func newPhaseMoveCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "move PROJECT PHASE",
		Short: "Shift a phase by whole days, preserving duration",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phaseID, err := resolvePhaseID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}

			result, err := app.Phases.Move(ctx, phaseID, days)
			if err != nil {
				return err
			}

			printCommitResult(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Day delta (negative shifts earlier)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func newPhaseResizeCmd(app *App) *cobra.Command {
	var days int
	var edgeStr string

	cmd := &cobra.Command{
		Use:   "resize PROJECT PHASE",
		Short: "Move one edge of a phase, cascading onto its neighbors",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phaseID, err := resolvePhaseID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}

			var edge timeline.Edge
			switch edgeStr {
			case "start":
				edge = timeline.EdgeStart
			case "end":
				edge = timeline.EdgeEnd
			default:
				return fmt.Errorf("invalid edge %q, expected start or end", edgeStr)
			}

			result, err := app.Phases.Resize(ctx, phaseID, edge, days)
			if err != nil {
				return err
			}

			printCommitResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&edgeStr, "edge", "end", "Edge to move (start|end)")
	cmd.Flags().IntVar(&days, "days", 0, "Day delta (negative shrinks from the end edge)")
	_ = cmd.MarkFlagRequired("days")

	return cmd
}

func printCommitResult(result *service.CommitResult) {
	for _, p := range result.Updated {
		fmt.Printf("%s → %s .. %s\n", p.Name,
			p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
	}
	if len(result.Violations) > 0 {
		fmt.Printf("%s\n", formatter.FormatViolations(result.Violations))
	}
}

func newPhaseRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT PHASE",
		Short: "Remove a phase",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			phaseID, err := resolvePhaseID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			if err := app.Phases.Delete(ctx, phaseID); err != nil {
				return err
			}
			fmt.Printf("Removed phase %s\n", phaseID)
			return nil
		},
	}
}

func newPhaseValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PROJECT",
		Short: "Check all phases against their dependency constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			violations, err := app.Phases.Validate(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatViolations(violations))
			return nil
		},
	}
}

func newPhaseFixCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fix PROJECT",
		Short: "Correct all dependency violations in start-date order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			fixes, err := app.Phases.FixAll(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatFixes(fixes))
			return nil
		},
	}
}
