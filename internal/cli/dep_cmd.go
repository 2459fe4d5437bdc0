package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/domain"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage phase dependencies",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var depType string
	var lag int

	cmd := &cobra.Command{
		Use:   "add PROJECT PREDECESSOR SUCCESSOR",
		Short: "Add a dependency edge between two phases",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			predID, err := resolvePhaseID(ctx, app, projectID, args[1])
			if err != nil {
				return err
			}
			succID, err := resolvePhaseID(ctx, app, projectID, args[2])
			if err != nil {
				return err
			}

			d := &domain.Dependency{
				PredecessorID: predID,
				SuccessorID:   succID,
				Type:          domain.DependencyType(strings.ToUpper(depType)),
				LagDays:       lag,
			}
			if err := app.Deps.Create(ctx, d); err != nil {
				return err
			}

			fmt.Printf("Added %s dependency %s → %s\n", d.Type, args[1], args[2])
			return nil
		},
	}

	cmd.Flags().StringVar(&depType, "type", "FS", "Dependency type (FS|SS|FF|SF)")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days (negative for overlap)")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's dependency edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			deps, err := app.Deps.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}

			if len(deps) == 0 {
				fmt.Println("No dependencies found.")
				return nil
			}

			phases, err := app.Phases.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatDependencyList(deps, phases))
			return nil
		},
	}
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a dependency edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Deps.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed dependency %s\n", args[0])
			return nil
		},
	}
}
