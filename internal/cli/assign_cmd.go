package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/domain"
)

func newAssignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Manage staffing assignments",
	}

	cmd.AddCommand(
		newAssignAddCmd(app),
		newAssignListCmd(app),
		newAssignUpdateCmd(app),
		newAssignRemoveCmd(app),
	)

	return cmd
}

func newAssignAddCmd(app *App) *cobra.Command {
	var role, start, end string
	var pct int

	cmd := &cobra.Command{
		Use:   "add PROJECT PERSON",
		Short: "Assign a person to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			personID, err := resolvePersonID(ctx, app, args[1])
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

			a := &domain.Assignment{
				ProjectID:     projectID,
				PersonID:      personID,
				Role:          role,
				AllocationPct: pct,
				StartDate:     startDate,
				EndDate:       endDate,
			}
			if err := app.Assignments.Create(ctx, a); err != nil {
				return err
			}

			fmt.Printf("Assigned %s at %d%% (%s .. %s)\n", args[1], a.AllocationPct,
				a.StartDate.Format("2006-01-02"), a.EndDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role the person fills on this project")
	cmd.Flags().IntVar(&pct, "pct", 100, "Allocation percentage (0-100)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newAssignListCmd(app *App) *cobra.Command {
	var byPerson bool

	cmd := &cobra.Command{
		Use:   "list REF",
		Short: "List assignments for a project, or a person with --person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var assignments []*domain.Assignment
			var err error
			if byPerson {
				personID, rerr := resolvePersonID(ctx, app, args[0])
				if rerr != nil {
					return rerr
				}
				assignments, err = app.Assignments.ListByPerson(ctx, personID)
			} else {
				projectID, rerr := resolveProjectID(ctx, app, args[0])
				if rerr != nil {
					return rerr
				}
				assignments, err = app.Assignments.ListByProject(ctx, projectID)
			}
			if err != nil {
				return err
			}

			if len(assignments) == 0 {
				fmt.Println("No assignments found.")
				return nil
			}

			people := make(map[string]*domain.Person, len(assignments))
			for _, a := range assignments {
				if _, ok := people[a.PersonID]; ok {
					continue
				}
				if p, err := app.People.GetByID(ctx, a.PersonID); err == nil {
					people[a.PersonID] = p
				}
			}

			fmt.Printf("%s\n", formatter.FormatAssignmentList(assignments, people))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byPerson, "person", false, "Treat REF as a person instead of a project")

	return cmd
}

func newAssignUpdateCmd(app *App) *cobra.Command {
	var role, start, end string
	var pct int

	cmd := &cobra.Command{
		Use:   "update PROJECT ID",
		Short: "Update an assignment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			assignments, err := app.Assignments.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			var a *domain.Assignment
			for _, cand := range assignments {
				if cand.ID == args[1] || (len(args[1]) >= 4 && strings.HasPrefix(cand.ID, args[1])) {
					a = cand
					break
				}
			}
			if a == nil {
				return fmt.Errorf("assignment not found: %q", args[1])
			}

			if cmd.Flags().Changed("role") {
				a.Role = role
			}
			if cmd.Flags().Changed("pct") {
				a.AllocationPct = pct
			}
			if cmd.Flags().Changed("start") {
				startDate, err := time.Parse("2006-01-02", start)
				if err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
				a.StartDate = startDate
			}
			if cmd.Flags().Changed("end") {
				endDate, err := time.Parse("2006-01-02", end)
				if err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
				a.EndDate = endDate
			}

			if err := app.Assignments.Update(ctx, a); err != nil {
				return err
			}

			fmt.Printf("Updated assignment %s\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().IntVar(&pct, "pct", 0, "Allocation percentage (0-100)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")

	return cmd
}

func newAssignRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Assignments.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed assignment %s\n", args[0])
			return nil
		},
	}
}
