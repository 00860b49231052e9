package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/services"
)

// ImportFormResponseCmd creates the importFormResponse command
func ImportFormResponseCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importFormResponse <booking_id> <form_id>",
		Short: "Import the latest Google Form response into a booking's answers",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookingID, formID := args[0], args[1]

			app.Logger.Debug("importFormResponse command", zap.String("booking_id", bookingID), zap.String("form_id", formID))

			formsClient, err := app.FormsClient()
			if err != nil {
				return err
			}

			result, err := services.ImportFormResponse(app.Ctx, app.Database, formsClient, app.Logger, bookingID, formID)
			if err != nil {
				return err
			}

			if result.Added == 0 && result.Updated == 0 {
				fmt.Printf("\nNo new answers for booking %s.\n\n", bookingID)
				return nil
			}

			fmt.Printf("\n%s Imported answers for booking %s: %d added, %d updated\n\n",
				colorize(colorGreen, "✓"), bookingID, result.Added, result.Updated)
			for _, pair := range result.Answers {
				fmt.Printf("  %-60s %s\n", pair.Question, pair.Answer)
			}
			fmt.Println()

			return nil
		},
	}
}
