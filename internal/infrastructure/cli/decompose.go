package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var decomposeCmd = &cobra.Command{
	Use:   "decompose <request>",
	Short: "Break a work request into dispatchable tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		request := strings.Join(args, " ")
		d, err := services.Decompose.Decompose(cmd.Context(), request)
		if err != nil {
			return MapError(fmt.Errorf("decompose failed: %w", err))
		}

		fmt.Printf("Decomposed into %d tasks (%.0f min total estimate)\n", len(d.Tasks), d.TotalEstimateMinutes)
		if d.Rationale != "" {
			fmt.Printf("Rationale: %s\n", d.Rationale)
		}
		fmt.Println()
		for _, t := range d.Tasks {
			deps := ""
			if len(t.DependsOn) > 0 {
				parts := make([]string, len(t.DependsOn))
				for i, dep := range t.DependsOn {
					parts[i] = fmt.Sprintf("%d", dep)
				}
				deps = fmt.Sprintf(" (after %s)", strings.Join(parts, ", "))
			}
			fmt.Printf("  %2d. [%s] %s: %.0f min, %d files%s\n", t.ID, t.Type, t.Title, t.EstimateMinutes, len(t.Files), deps)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(decomposeCmd)
}
