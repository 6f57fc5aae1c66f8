package quality

import (
	"strings"
	"testing"
)

func TestEvaluationSystemPrompt_IsStableAcrossCalls(t *testing.T) {
	criteria := []string{"accuracy", "clarity"}
	a := EvaluationSystemPrompt(criteria)
	b := EvaluationSystemPrompt(criteria)
	if a != b {
		t.Error("system prompt must be identical across calls for cacheability")
	}
	if !strings.Contains(a, "accuracy") || !strings.Contains(a, "clarity") {
		t.Errorf("criteria missing from prompt: %q", a)
	}
}

func TestBuildRefinementPrompt_IncludesAllAttempts(t *testing.T) {
	attempts := []IterationAttempt{
		{IterationNum: 1, Output: "first draft", Evaluation: EvalResult{Score: 4, Feedback: "too vague", Weaknesses: []string{"vague"}}},
		{IterationNum: 2, Output: "second draft", Evaluation: EvalResult{Score: 6, Feedback: "better", Weaknesses: []string{"still short"}, Strengths: []string{"clearer"}}},
	}

	prompt := BuildRefinementPrompt("write a summary", attempts)

	for _, want := range []string{
		"write a summary",
		"Attempt 1 (score 4.0/10)",
		"Attempt 2 (score 6.0/10)",
		"first draft",
		"second draft",
		"too vague",
		"still short",
		"clearer",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("refinement prompt missing %q", want)
		}
	}

	// The closing instruction targets the latest round only.
	if !strings.Contains(prompt, "address the latest weaknesses (still short)") {
		t.Errorf("closing instruction should quote latest weaknesses:\n%s", prompt)
	}
}

func TestBuildRefinementPrompt_NoAttempts(t *testing.T) {
	if got := BuildRefinementPrompt("original", nil); got != "original" {
		t.Errorf("with no history the original prompt must pass through, got %q", got)
	}
}

func TestBuildRefinementPrompt_TruncatesLongOutputs(t *testing.T) {
	long := strings.Repeat("x", 2000)
	attempts := []IterationAttempt{
		{IterationNum: 1, Output: long, Evaluation: EvalResult{Score: 3}},
	}

	prompt := BuildRefinementPrompt("req", attempts)
	if strings.Contains(prompt, long) {
		t.Error("full output must not be replayed into the prompt")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 500)+"...") {
		t.Error("expected a 500-rune preview with ellipsis")
	}
}

func TestLoopConfig_Normalize(t *testing.T) {
	cfg := LoopConfig{}.Normalize()
	if cfg.QualityThreshold != 7.0 {
		t.Errorf("threshold = %v, want 7.0", cfg.QualityThreshold)
	}
	if cfg.MaxIterations != 3 {
		t.Errorf("iterations = %d, want 3", cfg.MaxIterations)
	}
	if cfg.GeneratorRole != "generator" || cfg.EvaluatorRole != "evaluator" {
		t.Errorf("roles = %q, %q", cfg.GeneratorRole, cfg.EvaluatorRole)
	}
	if cfg.ThinkingBudget != 2048 {
		t.Errorf("thinking budget = %d, want 2048", cfg.ThinkingBudget)
	}
}

func TestLoopConfig_NormalizeClampsCriteria(t *testing.T) {
	criteria := make([]string, 15)
	for i := range criteria {
		criteria[i] = strings.Repeat("c", 300)
	}

	cfg := LoopConfig{EvaluationCriteria: criteria}.Normalize()
	if len(cfg.EvaluationCriteria) != MaxCriteria {
		t.Errorf("criteria count = %d, want %d", len(cfg.EvaluationCriteria), MaxCriteria)
	}
	for _, c := range cfg.EvaluationCriteria {
		if len([]rune(c)) > MaxCriterionLen {
			t.Errorf("criterion length %d exceeds %d", len([]rune(c)), MaxCriterionLen)
		}
	}
}

func TestLoopConfig_NormalizeDoesNotMutateCaller(t *testing.T) {
	original := LoopConfig{MaxIterations: 0}
	_ = original.Normalize()
	if original.MaxIterations != 0 {
		t.Error("Normalize must return a copy")
	}
}
