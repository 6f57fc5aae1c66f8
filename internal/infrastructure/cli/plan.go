package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage execution plans",
}

var planAutoSplit bool

var planBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an execution plan from the current decomposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, violations, err := services.Plan.BuildPlan(planAutoSplit)
		if err != nil {
			return MapError(fmt.Errorf("failed to build plan: %w", err))
		}

		printPlan(plan)

		if len(violations) > 0 {
			fmt.Println("\nSize violations:")
			for _, v := range violations {
				fmt.Printf("  task %d (%s): %s\n", v.TaskID, v.Title, v.Recommendation)
			}
		}
		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved execution plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, err := services.Workspace.Repo.LoadPlan()
		if err != nil {
			return MapError(fmt.Errorf("no plan found, run 'planwave plan build' first: %w", err))
		}

		printPlan(plan)
		return nil
	},
}

var planCoverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Run coverage advisors over the current decomposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		advisories, err := services.Plan.CheckCoverage()
		if err != nil {
			return MapError(err)
		}

		if len(advisories) == 0 {
			fmt.Println("No coverage gaps detected.")
			return nil
		}
		for _, a := range advisories {
			fmt.Printf("[ADVISORY] %s\n", a)
		}
		return nil
	},
}

func printPlan(plan *planning.ExecutionPlan) {
	fmt.Printf("Execution plan: %d waves, strategy %s\n", len(plan.Waves), plan.Strategy)
	fmt.Printf("Estimate: %.0f min raw, %d min calibrated\n", plan.TotalEstimateMinutes, plan.CalibratedEstimateMinutes)
	if plan.RecommendTeam {
		fmt.Println("Recommendation: dispatch with a team, at least one wave runs tasks in parallel")
	}

	for _, w := range plan.Waves {
		if w.IsReviewCheckpoint {
			fmt.Printf("\nWave %d: REVIEW CHECKPOINT\n", w.WaveNumber)
			continue
		}
		fmt.Printf("\nWave %d (%d tasks):\n", w.WaveNumber, len(w.Tasks))
		for _, t := range w.Tasks {
			fmt.Printf("  %2d. [%s] %s (%.0f min)\n", t.ID, t.Type, t.Title, t.EstimateMinutes)
		}
		if w.HasConflicts {
			fmt.Println("  CONFLICTS:")
			for _, c := range w.FileConflicts {
				fmt.Printf("    %s\n", c)
			}
		}
	}

	if len(plan.Advisories) > 0 {
		fmt.Println("\nAdvisories:")
		for _, a := range plan.Advisories {
			fmt.Printf("  - %s\n", a)
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

func init() {
	planBuildCmd.Flags().BoolVar(&planAutoSplit, "auto-split", false, "Split tasks exceeding the file limit before planning")
	planCmd.AddCommand(planBuildCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planCoverageCmd)
	RootCmd.AddCommand(planCmd)
}
