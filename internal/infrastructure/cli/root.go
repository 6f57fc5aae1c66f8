package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "planwave",
	Version: Version,
	Short:   "AI-assisted task planning with iterative quality refinement",
	Long: `Planwave breaks work requests into dispatchable tasks, schedules
them into parallel execution waves, and refines AI-generated output
through a generate-evaluate loop until it meets a quality bar.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&projectPath, "path", "p", "", "Project root (defaults to the current directory)")
}
