package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarrant/phaseline/internal/cli/formatter"
	"github.com/ptarrant/phaseline/internal/service"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Capacity and demand reports",
	}

	cmd.AddCommand(newReportDemandCmd(app))

	return cmd
}

func newReportDemandCmd(app *App) *cobra.Command {
	var fromDay, toDay int

	cmd := &cobra.Command{
		Use:   "demand PROJECT",
		Short: "Show per-role staffing demand over the project span",
		Long: "Shows average daily demand hours per role, bucketed by the span's\n" +
			"granularity. --from-day/--to-day restrict the report to a sub-range\n" +
			"given as day offsets from the span start, re-deriving granularity\n" +
			"for the narrower window.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			brushed := cmd.Flags().Changed("from-day") || cmd.Flags().Changed("to-day")
			var report *service.DemandReport
			if brushed {
				report, err = app.Reports.DemandRange(ctx, projectID, fromDay, toDay)
			} else {
				report, err = app.Reports.Demand(ctx, projectID)
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatDemand(report))
			return nil
		},
	}

	cmd.Flags().IntVar(&fromDay, "from-day", 0, "Range start as a day offset from the span start")
	cmd.Flags().IntVar(&toDay, "to-day", 0, "Range end as a day offset from the span start")

	return cmd
}
