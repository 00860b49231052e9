package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/services"
)

// MatchPackagesCmd creates the matchPackages command
func MatchPackagesCmd(app *AppContext) *cobra.Command {
	var bestMatch, dryRun bool

	cmd := &cobra.Command{
		Use:   "matchPackages <booking_id>",
		Short: "Find the packages a booking is eligible for and apply auto-selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(app, args[0], bestMatch, dryRun)
		},
	}

	cmd.Flags().BoolVar(&bestMatch, "best-match", false, "Select the top-ranked package and show only it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the decision without saving it or sending alerts")

	return cmd
}

// runMatch runs one matching pass, superseding any pass still running for the same booking
func runMatch(app *AppContext, bookingID string, bestMatch, dryRun bool) error {
	ctx, generation, done := app.BeginMatch(bookingID)
	defer done()

	app.Logger.Debug("matchPackages command",
		zap.String("booking_id", bookingID),
		zap.Int64("generation", generation),
		zap.Bool("best_match", bestMatch),
		zap.Bool("dry_run", dryRun))

	var notifier services.Notifier
	if !dryRun {
		notifier = app.Notifier()
	}

	result, err := services.MatchPackages(ctx, app.Database, notifier, app.Tracker, app.Cfg, app.Logger,
		services.MatchRequest{
			BookingID:  bookingID,
			Generation: generation,
			BestMatch:  bestMatch,
			DryRun:     dryRun,
		})
	if err != nil {
		return err
	}

	outputMu.Lock()
	defer outputMu.Unlock()
	printMatchResult(result)
	return nil
}

func printMatchResult(result *services.MatchResult) {
	c := result.Criteria

	fmt.Printf("\nMatching for booking %s\n\n", result.Booking.ID)
	if result.Superseded {
		fmt.Println(colorize(colorYellow, "A newer request for this booking has started; this result was not saved."))
		fmt.Println()
	}

	sta := "unknown"
	if c.STAInPlan != nil {
		sta = formatOptionalBool(c.STAInPlan)
	}
	fmt.Printf("Funder:        %s\n", c.FunderType)
	if c.NDISPackageType != "" {
		fmt.Printf("NDIS type:     %s (STA in plan: %s)\n", c.NDISPackageType, sta)
	}
	fmt.Printf("Care:          %s, %d hours/day\n", result.Analysis.CarePattern, c.CareHours)
	fmt.Printf("Course:        %t (offered: %t)\n", c.HasCourse, c.CourseOffered)
	fmt.Printf("Mode:          %s\n\n", result.Mode)

	if result.Decision.NoMatch != nil {
		fmt.Printf("%s %s\n\n", colorize(colorRed, "✗"), result.Decision.NoMatch.Message())
	} else {
		fmt.Printf("Eligible packages (%d shown):\n", len(result.Decision.Visible))
		for i, p := range result.Decision.Visible {
			var tags []string
			if p.ID == result.Decision.State.SelectedPackageID {
				tags = append(tags, colorize(colorGreen, "selected"))
			}
			if p.IsRecommended {
				tags = append(tags, "recommended")
			}
			if p.ExactNoCareMatch {
				tags = append(tags, "no-care match")
			}
			fmt.Printf("  %2d. %-16s %-36s %s\n", i+1, p.PackageCode, p.Name, strings.Join(tags, ", "))
		}
		fmt.Println()
	}

	if len(result.Outcome.Rejections) > 0 {
		fmt.Println(colorize(colorDim, "Rejected:"))
		for _, r := range result.Outcome.Rejections {
			fmt.Println(colorize(colorDim, fmt.Sprintf("  %-16s %s", r.PackageCode, strings.Join(r.Failed, ", "))))
		}
		fmt.Println()
	}

	switch {
	case result.MatchRunID != "":
		fmt.Printf("Recorded as match run %s\n\n", result.MatchRunID)
	case !result.Superseded:
		fmt.Printf("%s\n\n", colorize(colorDim, "Dry run, nothing saved."))
	}
}
