package quality

import (
	"fmt"
	"strings"
)

// outputPreviewLen bounds how much of each prior output is replayed
// into a refinement prompt. Full outputs would compound prompt size
// across iterations.
const outputPreviewLen = 500

// EvaluationSystemPrompt renders the fixed evaluator context for a
// run. It depends only on the normalized criteria, so it is stable
// across iterations and friendly to provider-side prompt caching.
func EvaluationSystemPrompt(criteria []string) string {
	var b strings.Builder
	b.WriteString("You are a strict quality evaluator. Score the submitted content from 0 to 10 ")
	b.WriteString("and respond ONLY with a JSON object: ")
	b.WriteString(`{"score": <number>, "passed": <bool>, "feedback": "...", "strengths": [...], "weaknesses": [...]}`)
	if len(criteria) > 0 {
		b.WriteString("\n\nEvaluation criteria:\n")
		for _, c := range criteria {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	return b.String()
}

// BuildRefinementPrompt renders the next generator prompt from the
// original request plus every prior attempt: score, output preview,
// weaknesses, feedback, strengths. History is passed by value and
// accumulated in full; the generator must see the whole trajectory,
// not just the latest round.
func BuildRefinementPrompt(original string, attempts []IterationAttempt) string {
	if len(attempts) == 0 {
		return original
	}

	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\n--- Previous attempts ---\n")

	for _, a := range attempts {
		fmt.Fprintf(&b, "\nAttempt %d (score %.1f/10):\n", a.IterationNum, a.Evaluation.Score)
		fmt.Fprintf(&b, "Output preview: %s\n", preview(a.Output))
		if len(a.Evaluation.Weaknesses) > 0 {
			fmt.Fprintf(&b, "Weaknesses: %s\n", strings.Join(a.Evaluation.Weaknesses, "; "))
		}
		if a.Evaluation.Feedback != "" {
			fmt.Fprintf(&b, "Feedback: %s\n", a.Evaluation.Feedback)
		}
		if len(a.Evaluation.Strengths) > 0 {
			fmt.Fprintf(&b, "Strengths: %s\n", strings.Join(a.Evaluation.Strengths, "; "))
		}
	}

	latest := attempts[len(attempts)-1].Evaluation
	b.WriteString("\nRevise the work to address the latest weaknesses")
	if len(latest.Weaknesses) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(latest.Weaknesses, "; "))
	}
	b.WriteString(" while preserving the latest strengths")
	if len(latest.Strengths) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(latest.Strengths, "; "))
	}
	b.WriteString(".\n")
	return b.String()
}

func preview(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= outputPreviewLen {
		return string(runes)
	}
	return string(runes[:outputPreviewLen]) + "..."
}
