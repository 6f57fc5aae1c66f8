package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/ai"
	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
	"github.com/felixgeelhaar/planwave/pkg/domain/quality"
)

// decompositionSchema validates the decomposer's JSON before it is
// trusted. A response failing the schema is a hard error; planning on
// a malformed decomposition is worse than no decomposition.
const decompositionSchema = `{
  "type": "object",
  "required": ["tasks"],
  "properties": {
    "tasks": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "title", "type", "estimate_minutes"],
        "properties": {
          "id": {"type": "integer", "minimum": 1},
          "title": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "active_form": {"type": "string"},
          "type": {"type": "string", "enum": ["feature", "fix", "refactor", "test", "docs", "migration"]},
          "files": {"type": "array", "items": {"type": "string"}},
          "depends_on": {"type": "array", "items": {"type": "integer"}},
          "estimate_minutes": {"type": "number", "minimum": 0}
        }
      }
    },
    "execution_strategy": {"type": "string", "enum": ["sequential", "parallel", "mixed"]},
    "rationale": {"type": "string"},
    "total_estimate_minutes": {"type": "number"},
    "team_recommendation": {"type": "string"}
  }
}`

const decomposerSystemPrompt = `You are a software task decomposer. Break the requested work into
independent, dispatchable tasks. Respond ONLY with a JSON object:
{"tasks": [{"id": 1, "title": "...", "description": "...", "active_form": "...",
"type": "feature|fix|refactor|test|docs|migration", "files": ["..."],
"depends_on": [], "estimate_minutes": 30}],
"execution_strategy": "sequential|parallel|mixed", "rationale": "...",
"total_estimate_minutes": 0, "team_recommendation": "..."}
Task ids start at 1. depends_on references other task ids and must be acyclic.
Each task lists the files it will create or modify.`

// DecomposeService turns a free-text work request into a validated
// task decomposition via the AI provider.
type DecomposeService struct {
	provider ai.Provider
	usage    *UsageService
	audit    domain.AuditLogger
	repo     domain.WorkspaceRepository
}

func NewDecomposeService(provider ai.Provider, usage *UsageService, audit domain.AuditLogger, repo domain.WorkspaceRepository) *DecomposeService {
	return &DecomposeService{provider: provider, usage: usage, audit: audit, repo: repo}
}

// Decompose asks the provider to break down the request, validates the
// response against the schema and the domain invariants, persists it
// as the workspace's current decomposition, and returns it.
func (s *DecomposeService) Decompose(ctx context.Context, request string) (*planning.Decomposition, error) {
	policy, err := s.repo.LoadPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}
	if !policy.AllowAI {
		return nil, fmt.Errorf("AI usage is disabled by policy")
	}

	resp, err := s.provider.Complete(ctx, ai.CompletionRequest{
		Prompt: quality.SanitizePromptInput(request),
		System: decomposerSystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("decomposer call failed: %w", err)
	}

	if s.usage != nil {
		if _, err := s.usage.RecordCall("decompose", resp.Model, resp.Usage); err != nil {
			return nil, fmt.Errorf("failed to record usage: %w", err)
		}
	}

	d, err := ParseDecomposition(resp.Text)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveDecomposition(d); err != nil {
		return nil, fmt.Errorf("failed to save decomposition: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.Log("decompose.run", "ai", map[string]interface{}{
			"task_count":     len(d.Tasks),
			"total_estimate": d.TotalEstimateMinutes,
		}); err != nil {
			return nil, fmt.Errorf("failed to record audit event: %w", err)
		}
	}

	return d, nil
}

// ParseDecomposition validates raw decomposer output: strip a
// surrounding code fence, check the JSON schema, unmarshal, then run
// the structural domain validation (unique ids, acyclic deps).
func ParseDecomposition(text string) (*planning.Decomposition, error) {
	clean := stripFence(text)

	schemaLoader := gojsonschema.NewStringLoader(decompositionSchema)
	docLoader := gojsonschema.NewStringLoader(clean)
	validation, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("decomposer response is not valid JSON: %w", err)
	}
	if !validation.Valid() {
		details := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			details = append(details, e.String())
		}
		return nil, fmt.Errorf("decomposer response failed schema validation: %s", strings.Join(details, "; "))
	}

	var d planning.Decomposition
	if err := json.Unmarshal([]byte(clean), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decomposition: %w", err)
	}

	if d.TotalEstimateMinutes == 0 {
		d.TotalEstimateMinutes = d.SumEstimates()
	}
	if !d.ExecutionStrategy.IsValid() {
		d.ExecutionStrategy = planning.StrategySequential
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("decomposition is structurally invalid: %w", err)
	}

	return &d, nil
}

func stripFence(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
