package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/planwave/pkg/domain/quality"
)

var (
	evalThreshold  float64
	evalIterations int
	evalCriteria   []string
	evalThinking   bool
)

var evaloptCmd = &cobra.Command{
	Use:   "evalopt <prompt>",
	Short: "Refine AI output through a generate-evaluate loop",
	Long: `Evalopt runs the quality refinement loop: a generator produces
output, an evaluator scores it from 0 to 10, and failing output is
regenerated with the accumulated feedback until it meets the threshold
or iterations run out.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}

		prompt := strings.Join(args, " ")
		result, err := services.EvalOpt.Run(cmd.Context(), prompt, quality.LoopConfig{
			QualityThreshold:   evalThreshold,
			MaxIterations:      evalIterations,
			EvaluationCriteria: evalCriteria,
			EnableThinking:     evalThinking,
		})
		if err != nil {
			return MapError(fmt.Errorf("quality loop failed: %w", err))
		}

		fmt.Printf("Iterations: %d, final score %.1f/10 (%s)\n", result.Iterations, result.FinalScore, result.TerminationReason)
		fmt.Printf("Cost: $%.6f", result.TotalCostUSD)
		if result.CacheSavingsUSD > 0 {
			fmt.Printf(" (cache saved $%.6f)", result.CacheSavingsUSD)
		}
		fmt.Println()

		for _, e := range result.Errors {
			fmt.Printf("[WARN] %s\n", e)
		}

		fmt.Println("\n--- Final output ---")
		fmt.Println(result.FinalOutput)
		return nil
	},
}

func init() {
	evaloptCmd.Flags().Float64Var(&evalThreshold, "threshold", 0, "Minimum acceptable score from 0 to 10 (default from policy)")
	evaloptCmd.Flags().IntVar(&evalIterations, "iterations", 0, "Maximum generate-evaluate rounds (default 3)")
	evaloptCmd.Flags().StringSliceVar(&evalCriteria, "criteria", nil, "Evaluation criteria the evaluator scores against")
	evaloptCmd.Flags().BoolVar(&evalThinking, "thinking", false, "Grant the evaluator an extended reasoning budget")
	RootCmd.AddCommand(evaloptCmd)
}
