package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/services"
)

// ListPackagesCmd creates the listPackages command
func ListPackagesCmd(app *AppContext) *cobra.Command {
	var funder string

	cmd := &cobra.Command{
		Use:   "listPackages",
		Short: "List the package catalog with each package's requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("listPackages command", zap.String("funder", funder))

			packages, err := services.ListPackages(app.Ctx, app.Database, app.Logger, funder)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d packages:\n\n", len(packages))
			fmt.Printf("%-16s %-36s %-9s %-6s %-8s %-9s %-7s %-7s %s\n",
				"CODE", "NAME", "FUNDER", "SCORE", "NO CARE", "HOURS", "COURSE", "COMPAT", "STA")
			for _, p := range packages {
				noCare, hours, course, compat, sta := "any", "-", "any", "any", "-"
				if r := p.Requirement; r != nil {
					noCare = formatOptionalBool(r.RequiresNoCare)
					hours = formatOptionalInt(r.CareHoursMin) + ".." + formatOptionalInt(r.CareHoursMax)
					course = formatOptionalBool(r.RequiresCourse)
					compat = formatOptionalBool(r.CompatibleWithCourse)
					if r.STARequirements != nil {
						sta = *r.STARequirements
					}
				} else {
					noCare = colorize(colorDim, "open")
				}
				fmt.Printf("%-16s %-36s %-9s %-6s %-8s %-9s %-7s %-7s %s\n",
					p.PackageCode, p.Name, p.Funder, formatScore(p.MatchScore), noCare, hours, course, compat, sta)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&funder, "funder", "", "Only list packages for this funder (NDIS or Non-NDIS)")

	return cmd
}
