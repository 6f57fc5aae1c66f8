package quality

// Loop defaults. The evaluator role must stay distinct from the
// generator role: an evaluator sharing the generator's criteria and
// context grades its own work.
const (
	DefaultQualityThreshold = 7.0
	DefaultMaxIterations    = 3
	DefaultThinkingBudget   = 2048

	// Bounds on caller-supplied evaluation criteria. Criteria are
	// interpolated into prompts, so both count and length are capped
	// to bound prompt injection and cost blowup.
	MaxCriteria      = 10
	MaxCriterionLen  = 200
	DefaultGenerator = "generator"
	DefaultEvaluator = "evaluator"
)

// LoopConfig configures one eval-optimization run.
type LoopConfig struct {
	GeneratorRole      string   `json:"generator_role"`
	EvaluatorRole      string   `json:"evaluator_role"`
	QualityThreshold   float64  `json:"quality_threshold"`
	MaxIterations      int      `json:"max_iterations"`
	EvaluationCriteria []string `json:"evaluation_criteria,omitempty"`
	EnableThinking     bool     `json:"enable_thinking"`
	ThinkingBudget     int      `json:"thinking_budget"`
}

// Normalize fills defaults and clamps the criteria list. It returns a
// copy; the caller's config is untouched.
func (c LoopConfig) Normalize() LoopConfig {
	if c.GeneratorRole == "" {
		c.GeneratorRole = DefaultGenerator
	}
	if c.EvaluatorRole == "" {
		c.EvaluatorRole = DefaultEvaluator
	}
	if c.QualityThreshold <= 0 {
		c.QualityThreshold = DefaultQualityThreshold
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.ThinkingBudget <= 0 {
		c.ThinkingBudget = DefaultThinkingBudget
	}

	if len(c.EvaluationCriteria) > MaxCriteria {
		c.EvaluationCriteria = c.EvaluationCriteria[:MaxCriteria]
	}
	criteria := make([]string, 0, len(c.EvaluationCriteria))
	for _, crit := range c.EvaluationCriteria {
		runes := []rune(crit)
		if len(runes) > MaxCriterionLen {
			crit = string(runes[:MaxCriterionLen])
		}
		if crit != "" {
			criteria = append(criteria, crit)
		}
	}
	c.EvaluationCriteria = criteria
	return c
}
