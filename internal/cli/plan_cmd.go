package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/importer"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import and export whole project plans",
	}

	cmd.AddCommand(
		newPlanImportCmd(app),
		newPlanExportCmd(app),
	)

	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a project plan from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Plans.Import(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported project %s [%s]: %d phases, %d dependencies, %d people, %d assignments\n",
				result.Project.Name, result.Project.ShortID,
				result.PhaseCount, result.DependencyCount,
				result.PersonCount, result.AssignmentCount)
			return nil
		},
	}
}

func newPlanExportCmd(app *App) *cobra.Command {
	var formatStr, out string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export a project plan to JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			format := importer.FormatJSON
			switch formatStr {
			case "", "json":
			case "yaml", "yml":
				format = importer.FormatYAML
			default:
				return fmt.Errorf("invalid format %q, expected json or yaml", formatStr)
			}
			if formatStr == "" && out != "" {
				format = importer.FormatForPath(out)
			}

			data, err := app.Plans.Export(ctx, projectID, format)
			if err != nil {
				return err
			}

			if out == "" {
				fmt.Print(string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Printf("Exported plan to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&formatStr, "format", "", "Output format (json|yaml); inferred from --out when omitted")
	cmd.Flags().StringVar(&out, "out", "", "Output file (stdout when omitted)")

	return cmd
}
