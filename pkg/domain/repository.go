package domain

import (
	"time"

	"github.com/felixgeelhaar/planwave/pkg/domain/planning"
)

// WorkspaceRepository handles the persistence of planwave artifacts
// in the .planwave/ directory.
type WorkspaceRepository interface {
	Initialize() error
	IsInitialized() bool
	SaveDecomposition(d *planning.Decomposition) error
	LoadDecomposition() (*planning.Decomposition, error)
	SavePlan(plan *planning.ExecutionPlan) error
	LoadPlan() (*planning.ExecutionPlan, error)
	SavePolicy(cfg *PolicyConfig) error
	LoadPolicy() (*PolicyConfig, error)
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
	UpdateUsage(stats UsageStats) error
	LoadUsage() (*UsageStats, error)
	AppendCalibrationRecord(rec CalibrationRecord) error
	LoadCalibrationHistory() ([]CalibrationRecord, error)
}

// PolicyConfig is the serialized representation of policy.yaml.
type PolicyConfig struct {
	AllowAI          bool    `yaml:"allow_ai"`
	TokenLimit       int     `yaml:"token_limit"` // max tokens allowed for this project
	FileLimit        int     `yaml:"file_limit"`  // max files per dispatch unit
	QualityThreshold float64 `yaml:"quality_threshold"`
	MaxIterations    int     `yaml:"max_iterations"`
}

// CalibrationRecord pairs an estimate with the observed actual so the
// estimation model can learn a correction factor.
type CalibrationRecord struct {
	TaskTitle       string    `yaml:"task_title" json:"task_title"`
	EstimateMinutes float64   `yaml:"estimate_minutes" json:"estimate_minutes"`
	ActualMinutes   float64   `yaml:"actual_minutes" json:"actual_minutes"`
	RecordedAt      time.Time `yaml:"recorded_at" json:"recorded_at"`
}
