package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit and verify workspace history",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the integrity of the workspace audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		fmt.Println("Verifying audit trail integrity...")
		broken, err := services.Audit.VerifyIntegrity()
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}

		if broken < 0 {
			fmt.Println("Audit trail is intact and verified.")
			return nil
		}

		fmt.Printf("Audit chain broken at event index %d.\n", broken)
		os.Exit(1)
		return nil
	},
}

var auditLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List recorded audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		events, err := services.Workspace.Repo.LoadEvents()
		if err != nil {
			return MapError(err)
		}

		if len(events) == 0 {
			fmt.Println("No events recorded yet.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-20s %s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor)
		}
		return nil
	},
}

func init() {
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditLogCmd)
	RootCmd.AddCommand(auditCmd)
}
