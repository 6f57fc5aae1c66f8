package planning

import "fmt"

// TaskType classifies the kind of work a task represents.
type TaskType string

const (
	TypeFeature   TaskType = "feature"
	TypeFix       TaskType = "fix"
	TypeRefactor  TaskType = "refactor"
	TypeTest      TaskType = "test"
	TypeDocs      TaskType = "docs"
	TypeMigration TaskType = "migration"
)

// AllTaskTypes returns all valid task types.
func AllTaskTypes() []TaskType {
	return []TaskType{TypeFeature, TypeFix, TypeRefactor, TypeTest, TypeDocs, TypeMigration}
}

// IsValid checks if the task type is one of the known kinds.
func (t TaskType) IsValid() bool {
	switch t {
	case TypeFeature, TypeFix, TypeRefactor, TypeTest, TypeDocs, TypeMigration:
		return true
	default:
		return false
	}
}

// ParseTaskType parses a string into a TaskType.
func ParseTaskType(s string) (TaskType, error) {
	t := TaskType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid task type: %s", s)
	}
	return t, nil
}

// Task is a dispatchable unit of work produced by decomposition.
// Files lists the paths the task is expected to touch; it declares
// ownership for conflict detection, not a guarantee.
type Task struct {
	ID              int      `json:"id" yaml:"id"`
	Title           string   `json:"title" yaml:"title"`
	Description     string   `json:"description" yaml:"description"`
	ActiveForm      string   `json:"active_form" yaml:"active_form"` // present-tense progress label
	Type            TaskType `json:"type" yaml:"type"`
	Files           []string `json:"files,omitempty" yaml:"files,omitempty"`
	DependsOn       []int    `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	EstimateMinutes float64  `json:"estimate_minutes" yaml:"estimate_minutes"`
}

// Strategy describes how tasks are expected to be dispatched.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
	StrategyMixed      Strategy = "mixed"
)

// IsValid checks if the strategy is a known value.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySequential, StrategyParallel, StrategyMixed:
		return true
	default:
		return false
	}
}

// Decomposition is the raw output of the task decomposer. The
// ExecutionStrategy field is advisory metadata from the model; the
// plan builder recomputes the real strategy from wave shape.
type Decomposition struct {
	Tasks                []Task   `json:"tasks" yaml:"tasks"`
	ExecutionStrategy    Strategy `json:"execution_strategy" yaml:"execution_strategy"`
	Rationale            string   `json:"rationale" yaml:"rationale"`
	TotalEstimateMinutes float64  `json:"total_estimate_minutes" yaml:"total_estimate_minutes"`
	TeamRecommendation   string   `json:"team_recommendation" yaml:"team_recommendation"`
}

// TaskByID returns the task with the given id, or nil.
func (d *Decomposition) TaskByID(id int) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}

// MaxTaskID returns the highest task id in the decomposition.
func (d *Decomposition) MaxTaskID() int {
	max := 0
	for _, t := range d.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// SumEstimates returns the sum of every task's estimate in minutes.
func (d *Decomposition) SumEstimates() float64 {
	total := 0.0
	for _, t := range d.Tasks {
		total += t.EstimateMinutes
	}
	return total
}

// Validate checks the structural invariants of the decomposition:
// unique ids, dependency references to existing tasks, non-negative
// estimates, and an acyclic dependency graph. A violation here is a
// hard input error; scheduling must not be attempted on an invalid
// decomposition.
func (d *Decomposition) Validate() error {
	if len(d.Tasks) == 0 {
		return fmt.Errorf("decomposition contains no tasks")
	}

	seen := make(map[int]bool, len(d.Tasks))
	for _, t := range d.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id: %d", t.ID)
		}
		seen[t.ID] = true
		if t.EstimateMinutes < 0 {
			return fmt.Errorf("task %d has negative estimate", t.ID)
		}
	}

	for _, t := range d.Tasks {
		for _, dep := range t.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("task %d depends on unknown task %d", t.ID, dep)
			}
			if dep == t.ID {
				return fmt.Errorf("task %d depends on itself", t.ID)
			}
		}
	}

	return d.validateDAG()
}
