package wiring

import (
	"fmt"

	"github.com/felixgeelhaar/planwave/pkg/ai"
	"github.com/felixgeelhaar/planwave/pkg/application"
	domainai "github.com/felixgeelhaar/planwave/pkg/domain/ai"
)

// AppServices exposes the application layer services wired together
// with a workspace.
type AppServices struct {
	Workspace  *Workspace
	Decompose  *application.DecomposeService
	Plan       *application.PlanService
	EvalOpt    *application.EvalOptService
	Estimation *application.EstimationService
	Audit      *application.AuditService
	Usage      *application.UsageService
	Provider   domainai.Provider
}

// BuildAppServices constructs the workbench of services and AI
// provider wiring for a repo root. The generator and evaluator share
// one provider; role separation happens at the prompt level.
func BuildAppServices(root string) (*AppServices, error) {
	return BuildAppServicesWithProvider(root, LoadAIProvider)
}

// BuildAppServicesWithProvider allows callers to supply a custom AI
// provider resolver.
func BuildAppServicesWithProvider(root string, resolver func(string) (domainai.Provider, error)) (*AppServices, error) {
	workspace := NewWorkspace(root)
	provider, err := resolver(root)
	var loadErr error
	if err != nil {
		loadErr = fmt.Errorf("AI provider config fallback: %w", err)
		fallback, fallbackErr := ai.GetDefaultProvider("ollama", "llama3")
		if fallbackErr != nil {
			return nil, fmt.Errorf("fallback AI provider failed: %w", fallbackErr)
		}
		provider = ai.NewResilientProvider(fallback)
	}

	estimationSvc := application.NewEstimationService(workspace.Repo)
	planSvc := application.NewPlanService(workspace.Repo, estimationSvc, workspace.Audit)
	decomposeSvc := application.NewDecomposeService(provider, workspace.Usage, workspace.Audit, workspace.Repo)
	evalOptSvc := application.NewEvalOptService(provider, provider, workspace.Usage, workspace.Audit, workspace.Repo)

	services := &AppServices{
		Workspace:  workspace,
		Decompose:  decomposeSvc,
		Plan:       planSvc,
		EvalOpt:    evalOptSvc,
		Estimation: estimationSvc,
		Audit:      workspace.Audit,
		Usage:      workspace.Usage,
		Provider:   provider,
	}

	return services, loadErr
}
