package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/ai"
	"github.com/felixgeelhaar/planwave/pkg/domain/pricing"
	"github.com/felixgeelhaar/planwave/pkg/domain/quality"
)

// EvalOptService runs the generate-evaluate-refine loop: a generator
// produces output, an evaluator scores it against the quality
// threshold, and failing output is regenerated with the accumulated
// attempt history until it converges or iterations run out.
type EvalOptService struct {
	generator ai.Provider
	evaluator ai.Provider
	usage     *UsageService
	audit     domain.AuditLogger
	repo      domain.WorkspaceRepository
}

func NewEvalOptService(generator, evaluator ai.Provider, usage *UsageService, audit domain.AuditLogger, repo domain.WorkspaceRepository) *EvalOptService {
	return &EvalOptService{
		generator: generator,
		evaluator: evaluator,
		usage:     usage,
		audit:     audit,
		repo:      repo,
	}
}

// Run executes one eval-optimization loop over the given prompt. The
// returned Result is always non-nil on success paths, including runs
// that end in a provider failure; a non-nil error means the run could
// not start at all (policy denial, exhausted token budget).
func (s *EvalOptService) Run(ctx context.Context, prompt string, cfg quality.LoopConfig) (*quality.Result, error) {
	policy, err := s.repo.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	if !policy.AllowAI {
		return nil, fmt.Errorf("AI usage is disabled by policy")
	}
	if err := s.checkTokenBudget(policy); err != nil {
		return nil, err
	}

	// An unset threshold falls back to the workspace policy; an explicit
	// value wins even when it equals the default.
	if cfg.QualityThreshold == 0 && policy.QualityThreshold > 0 {
		cfg.QualityThreshold = policy.QualityThreshold
	}
	cfg = cfg.Normalize()

	sm, err := quality.NewLoopStateMachine(uuid.NewString())
	if err != nil {
		return nil, err
	}

	evalSystem := quality.EvaluationSystemPrompt(cfg.EvaluationCriteria)
	result := &quality.Result{}

	for iteration := 1; iteration <= cfg.MaxIterations; iteration++ {
		genPrompt := prompt
		if len(result.Attempts) > 0 {
			genPrompt = quality.BuildRefinementPrompt(prompt, result.Attempts)
		}

		genReq := ai.CompletionRequest{
			Prompt: genPrompt,
			System: fmt.Sprintf("You are the %s. Produce the requested content directly, without meta commentary.", cfg.GeneratorRole),
		}

		genResp, err := s.generator.Complete(ctx, genReq)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Generator failed (iteration %d): %v", iteration, err))
			result.TerminationReason = quality.TerminationError
			_ = sm.Transition(quality.EventError)
			break
		}
		s.account(genResp, result)
		if err := sm.Transition(quality.EventGenerated); err != nil {
			return nil, err
		}

		evalReq := ai.CompletionRequest{
			Prompt: "Evaluate the following submission:\n\n" + quality.SanitizePromptInput(genResp.Text),
			System: evalSystem,
		}
		// Extra reasoning budget is an evaluator concern: scoring gains
		// from deliberation, generation does not.
		if cfg.EnableThinking {
			evalReq.ThinkingBudget = cfg.ThinkingBudget
		}
		evalResp, err := s.evaluator.Complete(ctx, evalReq)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Evaluator failed (iteration %d): %v", iteration, err))
			result.TerminationReason = quality.TerminationError
			result.FinalOutput = genResp.Text
			result.Iterations = iteration
			_ = sm.Transition(quality.EventError)
			break
		}
		s.account(evalResp, result)
		result.CacheSavingsUSD = pricing.RoundUSD(result.CacheSavingsUSD + s.usage.CacheSavings(evalResp.Model, evalResp.Usage.CachedInputTokens))

		evaluation, outcome := quality.ParseEvaluation(evalResp.Text)
		if outcome == quality.ParsedUnparseable {
			result.Errors = append(result.Errors, fmt.Sprintf("Evaluation unparseable (iteration %d), assumed neutral score", iteration))
		}

		result.Attempts = append(result.Attempts, quality.IterationAttempt{
			Output:       genResp.Text,
			Evaluation:   evaluation,
			IterationNum: iteration,
		})
		result.Evaluations = append(result.Evaluations, evaluation)
		result.FinalOutput = genResp.Text
		result.FinalScore = evaluation.Score
		result.Iterations = iteration

		switch {
		case evaluation.Score >= cfg.QualityThreshold:
			result.Converged = true
			result.TerminationReason = quality.TerminationThresholdMet
			if err := sm.Transition(quality.EventConverge); err != nil {
				return nil, err
			}
		case iteration == cfg.MaxIterations:
			result.TerminationReason = quality.TerminationMaxIterations
			if cfg.MaxIterations == 1 {
				result.TerminationReason = quality.TerminationNeedsImprovement
			}
			if err := sm.Transition(quality.EventExhaust); err != nil {
				return nil, err
			}
		default:
			if err := sm.Transition(quality.EventRefine); err != nil {
				return nil, err
			}
			if err := sm.Transition(quality.EventNext); err != nil {
				return nil, err
			}
		}

		if sm.IsTerminal() {
			break
		}
	}

	s.logRun(result)
	return result, nil
}

// account records one completion's spend against the workspace ledger
// and the run total.
func (s *EvalOptService) account(resp *ai.CompletionResponse, result *quality.Result) {
	cost, err := s.usage.RecordCall("evalopt", resp.Model, resp.Usage)
	if err != nil {
		// A ledger write failure must not abort a paid-for run.
		cost = s.usage.Cost(resp.Model, resp.Usage)
		result.Errors = append(result.Errors, fmt.Sprintf("usage ledger update failed: %v", err))
	}
	result.TotalCostUSD = pricing.RoundUSD(result.TotalCostUSD + cost)
}

func (s *EvalOptService) logRun(result *quality.Result) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log("evalopt.run", "ai", map[string]interface{}{
		"iterations":  result.Iterations,
		"final_score": result.FinalScore,
		"converged":   result.Converged,
		"termination": string(result.TerminationReason),
		"cost_usd":    result.TotalCostUSD,
	}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("audit log failed: %v", err))
	}
}

// checkTokenBudget enforces the policy's cumulative token ceiling.
func (s *EvalOptService) checkTokenBudget(policy *domain.PolicyConfig) error {
	if policy.TokenLimit <= 0 {
		return nil
	}
	stats, err := s.repo.LoadUsage()
	if err != nil {
		return fmt.Errorf("failed to load usage stats: %w", err)
	}
	if stats == nil {
		return nil
	}
	total := 0
	for key, count := range stats.ProviderStats {
		if strings.HasSuffix(key, ":input") || strings.HasSuffix(key, ":output") {
			total += count
		}
	}
	if total >= policy.TokenLimit {
		return fmt.Errorf("token budget exhausted: %d used of %d allowed", total, policy.TokenLimit)
	}
	return nil
}
