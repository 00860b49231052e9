package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/careanalysis"
	"github.com/jakechorley/stay-packages/pkg/core/model"
	"github.com/jakechorley/stay-packages/pkg/core/services"
)

// AnalyzeCareCmd creates the analyzeCare command
func AnalyzeCareCmd(app *AppContext) *cobra.Command {
	var morning, afternoon, evening string

	cmd := &cobra.Command{
		Use:   "analyzeCare <booking_id>",
		Short: "Analyse a booking's care schedule, or a same-every-day care template",
		Long: `Analyse the care schedule stored with a booking.

Passing any of --morning, --afternoon or --evening analyses that template instead,
repeated over the booking's stay using the configured care template rule.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookingID := args[0]
			template := buildTemplate(morning, afternoon, evening)

			app.Logger.Debug("analyzeCare command", zap.String("booking_id", bookingID), zap.Int("template_periods", len(template)))

			analysis, err := services.AnalyzeCare(app.Ctx, app.Database, app.Cfg, app.Logger, bookingID, template)
			if err != nil {
				return err
			}

			printCareAnalysis(analysis)
			return nil
		},
	}

	cmd.Flags().StringVar(&morning, "morning", "", "Morning care duration for a template, e.g. \"1 hour\"")
	cmd.Flags().StringVar(&afternoon, "afternoon", "", "Afternoon care duration for a template")
	cmd.Flags().StringVar(&evening, "evening", "", "Evening care duration for a template")

	return cmd
}

func buildTemplate(morning, afternoon, evening string) careanalysis.CareTemplate {
	template := careanalysis.CareTemplate{}
	for period, duration := range map[model.CarePeriod]string{
		model.CarePeriodMorning:   morning,
		model.CarePeriodAfternoon: afternoon,
		model.CarePeriodEvening:   evening,
	} {
		if strings.TrimSpace(duration) != "" {
			template[period] = duration
		}
	}
	return template
}

func printCareAnalysis(analysis *services.CareAnalysis) {
	result := analysis.Result
	source := "stored care data"
	if analysis.FromTemplate {
		source = "care template"
	}

	fmt.Printf("\nCare analysis for booking %s (%s)\n\n", analysis.Booking.ID, source)
	fmt.Printf("Care pattern:       %s\n", colorize(colorYellow, string(result.CarePattern)))
	fmt.Printf("Hours per day:      %.2f (%d for eligibility)\n", result.TotalHoursPerDay, result.CareHours())
	fmt.Printf("Recommended NDIS:   %s\n", strings.Join(result.RecommendedPackages.NDIS, ", "))
	fmt.Printf("Recommended other:  %s\n\n", strings.Join(result.RecommendedPackages.NonNDIS, ", "))

	dates := result.Dates()
	if len(dates) == 0 {
		fmt.Println(colorize(colorDim, "No care entries."))
		fmt.Println()
		return
	}

	fmt.Printf("%-12s %8s %10s %8s %7s\n", "DATE", "MORNING", "AFTERNOON", "EVENING", "TOTAL")
	for _, date := range dates {
		day := result.DailyBreakdown[date]
		fmt.Printf("%-12s %8.2f %10.2f %8.2f %7.2f\n", date, day.Morning, day.Afternoon, day.Evening, day.Total)
	}
	fmt.Println()
}
