package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/stay-packages/pkg/core/services"
)

// ViewMatchRunsCmd creates the viewMatchRuns command
func ViewMatchRunsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewMatchRuns <booking_id>",
		Short: "View a booking's matching history and current selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := services.ViewMatchRuns(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			printMatchHistory(args[0], history)
			return nil
		},
	}
}

func printMatchHistory(bookingID string, history *services.MatchHistory) {
	fmt.Printf("\nMatch history for booking %s\n\n", bookingID)

	if len(history.Runs) == 0 {
		fmt.Println(colorize(colorDim, "No matching passes recorded."))
	} else {
		fmt.Printf("%-22s %4s %-15s %6s %8s %8s  %s\n", "WHEN", "GEN", "CARE", "HOURS", "CATALOG", "ELIGIBLE", "OUTCOME")
		for _, run := range history.Runs {
			outcome := run.SelectedPackageID
			switch {
			case run.NoMatchMessage != "":
				outcome = colorize(colorRed, run.NoMatchMessage)
			case outcome == "":
				outcome = colorize(colorDim, "no selection")
			}
			fmt.Printf("%-22s %4d %-15s %6.2f %8d %8d  %s\n",
				run.CreatedAt, run.Generation, run.CarePattern, run.TotalHoursPerDay,
				run.CatalogCount, run.EligibleCount, outcome)
		}
	}
	fmt.Println()

	switch s := history.Selection; {
	case s == nil || s.PackageID == "":
		fmt.Println("Current selection: none")
	case s.AutoSelected:
		fmt.Printf("Current selection: %s (auto-selected %s)\n", colorize(colorGreen, s.PackageID), s.UpdatedAt)
	default:
		fmt.Printf("Current selection: %s (chosen %s)\n", colorize(colorGreen, s.PackageID), s.UpdatedAt)
	}
	fmt.Println()
}
