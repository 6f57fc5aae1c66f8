package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Inspect and validate the current task decomposition",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks in the current decomposition",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		d, err := services.Workspace.Repo.LoadDecomposition()
		if err != nil {
			return MapError(fmt.Errorf("no decomposition found, run 'planwave decompose' first: %w", err))
		}

		for _, t := range d.Tasks {
			fmt.Printf("%2d. [%s] %s (%.0f min)\n", t.ID, t.Type, t.Title, t.EstimateMinutes)
			for _, f := range t.Files {
				fmt.Printf("      %s\n", f)
			}
		}
		return nil
	},
}

var tasksValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report tasks whose file ownership exceeds the policy limit",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		violations, err := services.Plan.ValidateSizes()
		if err != nil {
			return MapError(err)
		}

		if len(violations) == 0 {
			fmt.Println("All tasks fit the configured file limit.")
			return nil
		}
		for _, v := range violations {
			fmt.Printf("task %d (%s): %s\n", v.TaskID, v.Title, v.Recommendation)
		}
		return nil
	},
}

var tasksSplitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split oversized tasks into chained sub-tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		plan, violations, err := services.Plan.BuildPlan(true)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Split applied; plan rebuilt with %d waves.\n", len(plan.Waves))
		if len(violations) > 0 {
			fmt.Println("Remaining violations:")
			for _, v := range violations {
				fmt.Printf("  task %d (%s): %s\n", v.TaskID, v.Title, v.Recommendation)
			}
		}
		return nil
	},
}

func init() {
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksValidateCmd)
	tasksCmd.AddCommand(tasksSplitCmd)
	RootCmd.AddCommand(tasksCmd)
}
