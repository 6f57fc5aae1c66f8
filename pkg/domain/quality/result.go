package quality

// EvalResult is a single evaluator verdict over one generator output.
// Passed is informational only; the loop decides convergence from
// Score against the configured threshold.
type EvalResult struct {
	Score      float64  `json:"score"`
	Passed     bool     `json:"passed"`
	Feedback   string   `json:"feedback"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// IterationAttempt pairs one generator output with its evaluation.
// Attempts accumulate across the whole loop run so refinement prompts
// can carry the full history, not just the latest round.
type IterationAttempt struct {
	Output       string     `json:"output"`
	Evaluation   EvalResult `json:"evaluation"`
	IterationNum int        `json:"iteration_num"`
}

// TerminationReason names why the loop stopped.
type TerminationReason string

const (
	TerminationThresholdMet     TerminationReason = "threshold_met"
	TerminationNeedsImprovement TerminationReason = "needs_improvement"
	TerminationMaxIterations    TerminationReason = "max_iterations"
	TerminationError            TerminationReason = "error"
)

// Result is the terminal outcome of an eval-optimization run. It is
// always returned, never thrown: Errors carries non-fatal diagnostics
// so a caller can distinguish "ran but did not converge" from "could
// not run at all".
type Result struct {
	FinalOutput       string             `json:"final_output"`
	FinalScore        float64            `json:"final_score"`
	Iterations        int                `json:"iterations"`
	TotalCostUSD      float64            `json:"total_cost_usd"`
	Evaluations       []EvalResult       `json:"evaluations"`
	Converged         bool               `json:"converged"`
	TerminationReason TerminationReason  `json:"termination_reason"`
	Attempts          []IterationAttempt `json:"attempts"`
	CacheSavingsUSD   float64            `json:"cache_savings_usd"`
	Errors            []string           `json:"errors,omitempty"`
}
