package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage workspace policy",
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		policy, err := services.Workspace.Repo.LoadPolicy()
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("AI Allowed:        %v\n", policy.AllowAI)
		if policy.TokenLimit > 0 {
			fmt.Printf("Token Limit:       %d\n", policy.TokenLimit)
		} else {
			fmt.Println("Token Limit:       unlimited")
		}
		fmt.Printf("File Limit:        %d files per task\n", policy.FileLimit)
		fmt.Printf("Quality Threshold: %.1f/10\n", policy.QualityThreshold)
		fmt.Printf("Max Iterations:    %d\n", policy.MaxIterations)
		return nil
	},
}

var (
	policyAllowAI    bool
	policyTokenLimit int
	policyFileLimit  int
)

var policySetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update policy values",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		repo := services.Workspace.Repo
		policy, err := repo.LoadPolicy()
		if err != nil {
			return MapError(err)
		}

		if cmd.Flags().Changed("allow-ai") {
			policy.AllowAI = policyAllowAI
		}
		if cmd.Flags().Changed("token-limit") {
			policy.TokenLimit = policyTokenLimit
		}
		if cmd.Flags().Changed("file-limit") {
			policy.FileLimit = policyFileLimit
		}

		if err := repo.SavePolicy(policy); err != nil {
			return MapError(err)
		}

		if err := services.Audit.Log("policy.update", "human", map[string]interface{}{
			"allow_ai":    policy.AllowAI,
			"token_limit": policy.TokenLimit,
			"file_limit":  policy.FileLimit,
		}); err != nil {
			return MapError(err)
		}

		fmt.Println("Policy updated.")
		return nil
	},
}

func init() {
	policySetCmd.Flags().BoolVar(&policyAllowAI, "allow-ai", true, "Allow AI-backed operations")
	policySetCmd.Flags().IntVar(&policyTokenLimit, "token-limit", 0, "Cumulative token budget (0 for unlimited)")
	policySetCmd.Flags().IntVar(&policyFileLimit, "file-limit", 0, "Max files per dispatch unit")
	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policySetCmd)
	RootCmd.AddCommand(policyCmd)
}
