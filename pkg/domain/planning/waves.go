package planning

import (
	"fmt"
	"sort"
	"strings"
)

// Wave is a scheduling group: a batch of tasks whose dependencies are
// all satisfied by earlier waves, candidate for concurrent dispatch.
type Wave struct {
	WaveNumber         int      `json:"wave_number" yaml:"wave_number"`
	Tasks              []Task   `json:"tasks" yaml:"tasks"`
	FileConflicts      []string `json:"file_conflicts,omitempty" yaml:"file_conflicts,omitempty"`
	HasConflicts       bool     `json:"has_conflicts" yaml:"has_conflicts"`
	IsReviewCheckpoint bool     `json:"is_review_checkpoint" yaml:"is_review_checkpoint"`
}

// ExecutionPlan is the scheduler's output: ordered waves plus derived
// metadata. Waves are recomputed fresh on every planning call; they
// describe which tasks are safe to dispatch concurrently, not how
// that concurrency is realized.
type ExecutionPlan struct {
	Waves                     []Wave   `json:"waves" yaml:"waves"`
	TotalEstimateMinutes      float64  `json:"total_estimate_minutes" yaml:"total_estimate_minutes"`
	CalibratedEstimateMinutes int      `json:"calibrated_estimate_minutes" yaml:"calibrated_estimate_minutes"`
	RecommendTeam             bool     `json:"recommend_team" yaml:"recommend_team"`
	Strategy                  Strategy `json:"strategy" yaml:"strategy"`
	Advisories                []string `json:"advisories,omitempty" yaml:"advisories,omitempty"`
}

// TaskWaves returns only the non-checkpoint waves.
func (p *ExecutionPlan) TaskWaves() []Wave {
	waves := make([]Wave, 0, len(p.Waves))
	for _, w := range p.Waves {
		if !w.IsReviewCheckpoint {
			waves = append(waves, w)
		}
	}
	return waves
}

// WaveOf returns the wave number the given task was scheduled into,
// or 0 if the task is not in the plan.
func (p *ExecutionPlan) WaveOf(taskID int) int {
	for _, w := range p.Waves {
		for _, t := range w.Tasks {
			if t.ID == taskID {
				return w.WaveNumber
			}
		}
	}
	return 0
}

// BuildExecutionPlan groups a validated decomposition into parallel
// waves, detects file-ownership conflicts inside each wave, inserts a
// review checkpoint after every multi-task wave, and calibrates the
// total estimate. It is pure: no I/O, no randomness, deterministic
// output for a given input.
func BuildExecutionPlan(d *Decomposition, calibrationFactor float64) (*ExecutionPlan, error) {
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decomposition: %w", err)
	}

	waves := groupIntoWaves(d.Tasks)

	for i := range waves {
		waves[i].FileConflicts = detectFileConflicts(waves[i].Tasks)
		waves[i].HasConflicts = len(waves[i].FileConflicts) > 0
	}

	waves = insertReviewCheckpoints(waves)
	for i := range waves {
		waves[i].WaveNumber = i + 1
	}

	total := d.SumEstimates()
	return &ExecutionPlan{
		Waves:                     waves,
		TotalEstimateMinutes:      total,
		CalibratedEstimateMinutes: CalibrateEstimate(total, calibrationFactor),
		RecommendTeam:             recommendTeam(waves),
		Strategy:                  computeStrategy(waves, len(d.Tasks)),
	}, nil
}

// groupIntoWaves repeatedly peels off the set of not-yet-scheduled
// tasks whose dependencies are all already scheduled. Tasks within a
// wave are ordered by ascending id for deterministic output.
func groupIntoWaves(tasks []Task) []Wave {
	scheduled := make(map[int]bool, len(tasks))
	remaining := make([]Task, len(tasks))
	copy(remaining, tasks)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	var waves []Wave
	for len(remaining) > 0 {
		var ready, blocked []Task
		for _, t := range remaining {
			if depsSatisfied(t, scheduled) {
				ready = append(ready, t)
			} else {
				blocked = append(blocked, t)
			}
		}
		// Validate guarantees an acyclic graph, so progress is certain.
		for _, t := range ready {
			scheduled[t.ID] = true
		}
		waves = append(waves, Wave{Tasks: ready})
		remaining = blocked
	}
	return waves
}

func depsSatisfied(t Task, scheduled map[int]bool) bool {
	for _, dep := range t.DependsOn {
		if !scheduled[dep] {
			return false
		}
	}
	return true
}

// detectFileConflicts reports every file path declared by two or more
// tasks in the same wave. Conflicts are a scheduling advisory: the
// wave is annotated, not split, and the caller decides whether to run
// it sequentially instead.
func detectFileConflicts(tasks []Task) []string {
	owners := make(map[string][]int)
	for _, t := range tasks {
		seen := make(map[string]bool, len(t.Files))
		for _, f := range t.Files {
			if seen[f] {
				continue // a task listing a file twice does not conflict with itself
			}
			seen[f] = true
			owners[f] = append(owners[f], t.ID)
		}
	}

	files := make([]string, 0, len(owners))
	for f, ids := range owners {
		if len(ids) > 1 {
			files = append(files, f)
		}
	}
	sort.Strings(files)

	conflicts := make([]string, 0, len(files))
	for _, f := range files {
		ids := owners[f]
		sort.Ints(ids)
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = fmt.Sprintf("%d", id)
		}
		conflicts = append(conflicts, fmt.Sprintf("file %s is owned by tasks %s", f, strings.Join(parts, ", ")))
	}
	return conflicts
}

// insertReviewCheckpoints appends an empty checkpoint wave after every
// wave containing two or more tasks. Single-task waves flow straight
// into the next wave without a review gate.
func insertReviewCheckpoints(waves []Wave) []Wave {
	out := make([]Wave, 0, len(waves)*2)
	for _, w := range waves {
		out = append(out, w)
		if len(w.Tasks) >= 2 {
			out = append(out, Wave{IsReviewCheckpoint: true})
		}
	}
	return out
}

// computeStrategy derives the dispatch strategy purely from wave
// shape. The decomposer's own claimed strategy is never trusted.
func computeStrategy(waves []Wave, taskCount int) Strategy {
	real := 0
	allSingle := true
	for _, w := range waves {
		if w.IsReviewCheckpoint {
			continue
		}
		real++
		if len(w.Tasks) != 1 {
			allSingle = false
		}
	}
	switch {
	case allSingle:
		return StrategySequential
	case real == 1 && taskCount > 0:
		return StrategyParallel
	default:
		return StrategyMixed
	}
}

func recommendTeam(waves []Wave) bool {
	for _, w := range waves {
		if !w.IsReviewCheckpoint && len(w.Tasks) >= 2 {
			return true
		}
	}
	return false
}
