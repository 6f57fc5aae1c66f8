package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planwave/internal/infrastructure/watch"
)

var watchDebounceMs int

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the execution plan automatically when planning inputs change",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		watcher, err := watch.NewPlanWatcher(root, time.Duration(watchDebounceMs)*time.Millisecond, func(changed string) {
			fmt.Printf("\n%s changed at %s, replanning...\n", changed, time.Now().Format("15:04:05"))
			plan, violations, err := services.Plan.BuildPlan(false)
			if err != nil {
				fmt.Printf("Replan failed: %v\n", err)
				return
			}
			fmt.Printf("Plan rebuilt: %d waves, strategy %s, %d min calibrated.\n",
				len(plan.Waves), plan.Strategy, plan.CalibratedEstimateMinutes)
			for _, v := range violations {
				fmt.Printf("  [SIZE] task %d: %s\n", v.TaskID, v.Recommendation)
			}
		})
		if err != nil {
			return MapError(err)
		}

		fmt.Println("Watching .planwave/ for changes... (ctrl+c to stop)")
		return watcher.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchDebounceMs, "debounce", 500, "Debounce window in milliseconds")
	RootCmd.AddCommand(watchCmd)
}
