package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a planwave workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		if services.Workspace.Repo.IsInitialized() {
			fmt.Println("Workspace already initialized.")
			return nil
		}

		if err := services.Workspace.Repo.Initialize(); err != nil {
			return MapError(fmt.Errorf("failed to initialize workspace: %w", err))
		}

		if err := services.Audit.Log("workspace.init", "human", nil); err != nil {
			return MapError(err)
		}

		fmt.Println("Initialized planwave workspace in .planwave/")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
