package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show token usage and spend statistics",
	RunE:  runUsage,
}

func runUsage(cmd *cobra.Command, args []string) error {
	services, err := loadServicesForCurrentDir()
	if err != nil {
		return err
	}

	stats, err := services.Usage.Stats()
	if err != nil {
		return fmt.Errorf("failed to load usage stats: %w", err)
	}

	fmt.Println("Planwave Usage")
	fmt.Println("-----------------------")
	fmt.Printf("Total Commands: %d\n", stats.TotalCommands)
	if !stats.LastCommandAt.IsZero() {
		fmt.Printf("Last Activity:  %s\n", stats.LastCommandAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Total Spend:    $%.6f\n", stats.TotalCostUSD)
	if stats.CacheSavingsUSD > 0 {
		fmt.Printf("Cache Savings:  $%.6f\n", stats.CacheSavingsUSD)
	}

	totalTokens := 0
	if len(stats.ProviderStats) > 0 {
		fmt.Println("\nToken Consumption")

		keys := make([]string, 0, len(stats.ProviderStats))
		for k := range stats.ProviderStats {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			count := stats.ProviderStats[k]
			if strings.HasSuffix(k, ":input") || strings.HasSuffix(k, ":output") {
				totalTokens += count
			}
			fmt.Printf("- %-30s: %d\n", k, count)
		}
		fmt.Printf("\nTotal Tokens Used: %d\n", totalTokens)
	}

	policy, policyErr := services.Workspace.Repo.LoadPolicy()
	if policyErr == nil && policy != nil && policy.TokenLimit > 0 {
		limit := policy.TokenLimit
		usagePercent := float64(totalTokens) / float64(limit) * 100

		fmt.Println("\nBudget Status")
		fmt.Printf("Token Limit:    %d\n", limit)
		fmt.Printf("Usage:          %.1f%%\n", usagePercent)

		switch {
		case usagePercent >= 100:
			fmt.Println("\n[CRITICAL] Token budget EXCEEDED! AI operations will be blocked.")
			fmt.Println("           Increase token_limit in policy.yaml or reset usage.")
		case usagePercent >= 90:
			fmt.Println("\n[WARNING] Token budget at 90%+. Approaching limit.")
		case usagePercent >= 75:
			fmt.Println("\n[INFO] Token budget at 75%+. Monitor usage.")
		}
	}

	return nil
}

func init() {
	RootCmd.AddCommand(usageCmd)
}
