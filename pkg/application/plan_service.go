package application

import (
	"fmt"

	"github.com/felixgeelhaar/planwave/pkg/domain"
	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
)

// PlanService builds execution plans from the workspace's current
// decomposition: auto-split oversized tasks, group into waves, attach
// coverage advisories, calibrate the estimate, persist.
type PlanService struct {
	repo       domain.WorkspaceRepository
	estimation *EstimationService
	audit      domain.AuditLogger
}

func NewPlanService(repo domain.WorkspaceRepository, estimation *EstimationService, audit domain.AuditLogger) *PlanService {
	return &PlanService{repo: repo, estimation: estimation, audit: audit}
}

// BuildPlan loads the saved decomposition and produces the execution
// plan for it. When autoSplit is set, tasks exceeding the policy file
// limit are chained into sub-tasks first; otherwise oversized tasks
// surface as size violations in the returned slice and still get
// planned as-is.
func (s *PlanService) BuildPlan(autoSplit bool) (*planning.ExecutionPlan, []planning.SizeViolation, error) {
	d, err := s.repo.LoadDecomposition()
	if err != nil {
		return nil, nil, fmt.Errorf("no decomposition to plan: %w", err)
	}

	policy, err := s.repo.LoadPolicy()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load policy: %w", err)
	}

	violations := planning.ValidateFileCounts(d, policy.FileLimit)
	if autoSplit {
		d = planning.AutoSplit(d, policy.FileLimit)
		violations = planning.ValidateFileCounts(d, policy.FileLimit)
	}

	factor := planning.DefaultCalibrationFactor
	if s.estimation != nil {
		factor, err = s.estimation.CalibrationFactor()
		if err != nil {
			return nil, nil, err
		}
	}

	plan, err := planning.BuildExecutionPlan(d, factor)
	if err != nil {
		return nil, nil, err
	}

	plan.Advisories = append(plan.Advisories, planning.CheckDataFlowCoverage(d)...)
	plan.Advisories = append(plan.Advisories, planning.CheckTestCoverage(d)...)

	if autoSplit {
		if err := s.repo.SaveDecomposition(d); err != nil {
			return nil, nil, fmt.Errorf("failed to save split decomposition: %w", err)
		}
	}
	if err := s.repo.SavePlan(plan); err != nil {
		return nil, nil, fmt.Errorf("failed to save plan: %w", err)
	}

	if s.audit != nil {
		if err := s.audit.Log("plan.build", "human", map[string]interface{}{
			"waves":      len(plan.Waves),
			"tasks":      len(d.Tasks),
			"strategy":   string(plan.Strategy),
			"auto_split": autoSplit,
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to record audit event: %w", err)
		}
	}

	return plan, violations, nil
}

// ValidateSizes reports file-count violations for the saved
// decomposition without building a plan.
func (s *PlanService) ValidateSizes() ([]planning.SizeViolation, error) {
	d, err := s.repo.LoadDecomposition()
	if err != nil {
		return nil, fmt.Errorf("no decomposition to validate: %w", err)
	}
	policy, err := s.repo.LoadPolicy()
	if err != nil {
		return nil, err
	}
	return planning.ValidateFileCounts(d, policy.FileLimit), nil
}

// CheckCoverage runs the coverage advisors over the saved
// decomposition and returns their warnings.
func (s *PlanService) CheckCoverage() ([]string, error) {
	d, err := s.repo.LoadDecomposition()
	if err != nil {
		return nil, fmt.Errorf("no decomposition to check: %w", err)
	}
	var advisories []string
	advisories = append(advisories, planning.CheckDataFlowCoverage(d)...)
	advisories = append(advisories, planning.CheckTestCoverage(d)...)
	return advisories, nil
}
