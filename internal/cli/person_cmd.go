package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/domain"
)

// resolvePersonID matches a person by exact ID, ID prefix, or
// case-insensitive name.
func resolvePersonID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("person ID is required")
	}

	people, err := app.People.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range people {
		if p.ID == input || strings.EqualFold(p.Name, input) {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range people {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("person not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("person ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newPersonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "person",
		Short: "Manage people",
	}

	cmd.AddCommand(
		newPersonAddCmd(app),
		newPersonListCmd(app),
		newPersonUpdateCmd(app),
		newPersonDeactivateCmd(app),
		newPersonRemoveCmd(app),
	)

	return cmd
}

func newPersonAddCmd(app *App) *cobra.Command {
	var name, role string
	var hours float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &domain.Person{
				Name:        name,
				Role:        role,
				WeeklyHours: hours,
			}
			if err := app.People.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Added %s (%s, %sh/week)\n", p.Name, p.Role, trimFloat(p.WeeklyHours))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Person name")
	cmd.Flags().StringVar(&role, "role", "", "Role (engineer|designer|pm|qa|analyst|architect|ops|generic)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Weekly hours (default 40)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

func newPersonListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List people",
		RunE: func(cmd *cobra.Command, args []string) error {
			people, err := app.People.List(context.Background(), all)
			if err != nil {
				return err
			}

			if len(people) == 0 {
				fmt.Println("No people found.")
				return nil
			}

			fmt.Printf("%s\n", formatter.FormatPersonList(people))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include inactive people")

	return cmd
}

func newPersonUpdateCmd(app *App) *cobra.Command {
	var name, role string
	var hours float64

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			personID, err := resolvePersonID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.People.GetByID(ctx, personID)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("role") {
				p.Role = role
			}
			if cmd.Flags().Changed("hours") {
				p.WeeklyHours = hours
			}

			if err := app.People.Update(ctx, p); err != nil {
				return err
			}

			fmt.Printf("Updated %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Person name")
	cmd.Flags().StringVar(&role, "role", "", "Role")
	cmd.Flags().Float64Var(&hours, "hours", 0, "Weekly hours")

	return cmd
}

func newPersonDeactivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate ID",
		Short: "Mark a person inactive, keeping their assignment history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			personID, err := resolvePersonID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.People.Deactivate(ctx, personID); err != nil {
				return err
			}
			fmt.Printf("Deactivated person %s\n", personID)
			return nil
		},
	}
}

func newPersonRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			personID, err := resolvePersonID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.People.Delete(ctx, personID); err != nil {
				return err
			}
			fmt.Printf("Removed person %s\n", personID)
			return nil
		},
	}
}
