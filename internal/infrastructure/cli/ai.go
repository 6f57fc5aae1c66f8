package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planwave/internal/infrastructure/config"
)

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Configure the AI provider",
}

var (
	aiProvider string
	aiModel    string
)

var aiConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set the AI provider and model for this workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		cfg, err := config.LoadAIConfig(root)
		if err != nil {
			return MapError(err)
		}
		if cfg == nil {
			cfg = &config.AIConfig{}
		}

		if aiProvider != "" {
			cfg.Provider = aiProvider
		}
		if aiModel != "" {
			cfg.Model = aiModel
		}

		if err := config.SaveAIConfig(root, cfg); err != nil {
			return MapError(err)
		}

		fmt.Printf("AI provider configured: %s (model %s)\n", cfg.Provider, cfg.Model)
		return nil
	},
}

var aiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current AI configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}

		cfg, err := config.LoadAIConfig(root)
		if err != nil {
			return MapError(err)
		}
		if cfg == nil {
			fmt.Println("No AI configuration found; defaults apply (ollama, llama3).")
			return nil
		}

		fmt.Printf("Provider: %s\nModel:    %s\n", cfg.Provider, cfg.Model)
		if cfg.MaxRetries > 0 {
			fmt.Printf("Retries:  %d\n", cfg.MaxRetries)
		}
		if cfg.TimeoutSec > 0 {
			fmt.Printf("Timeout:  %ds\n", cfg.TimeoutSec)
		}
		return nil
	},
}

func init() {
	aiConfigureCmd.Flags().StringVar(&aiProvider, "provider", "", "Provider name (ollama, openai, anthropic, mock)")
	aiConfigureCmd.Flags().StringVar(&aiModel, "model", "", "Model identifier")
	aiCmd.AddCommand(aiConfigureCmd)
	aiCmd.AddCommand(aiShowCmd)
	RootCmd.AddCommand(aiCmd)
}
