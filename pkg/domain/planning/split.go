package planning

import (
	"fmt"
	"sort"
)

// DefaultFileLimit is the maximum number of files one dispatch unit
// should own before it gets split.
const DefaultFileLimit = 8

// SizeViolation reports a task whose declared file ownership does not
// fit a single dispatch unit.
type SizeViolation struct {
	TaskID         int    `json:"task_id"`
	Title          string `json:"title"`
	FileCount      int    `json:"file_count"`
	Recommendation string `json:"recommendation"`
}

// ValidateFileCounts reports every task exceeding fileLimit files.
// Tasks declaring no files at all get a distinct leader-only
// recommendation: they cannot be dispatched to a file-scoped executor
// and cannot be split either.
func ValidateFileCounts(d *Decomposition, fileLimit int) []SizeViolation {
	if fileLimit < 2 {
		fileLimit = DefaultFileLimit
	}

	var violations []SizeViolation
	for _, t := range d.Tasks {
		switch {
		case len(t.Files) == 0:
			violations = append(violations, SizeViolation{
				TaskID:         t.ID,
				Title:          t.Title,
				FileCount:      0,
				Recommendation: "no files declared: run as a leader-only task, not dispatchable to a file-scoped executor",
			})
		case len(t.Files) > fileLimit:
			violations = append(violations, SizeViolation{
				TaskID:         t.ID,
				Title:          t.Title,
				FileCount:      len(t.Files),
				Recommendation: fmt.Sprintf("owns %d files (limit %d): split into smaller tasks or run AutoSplit", len(t.Files), fileLimit),
			})
		}
	}
	return violations
}

// AutoSplit returns a new Decomposition in which every task owning
// more than fileLimit files is replaced by a strict chain of
// sub-tasks, each owning at most fileLimit-1 files. Sub-task ids are
// allocated after the existing maximum id; the first part inherits
// the parent's dependencies and each later part depends on the one
// before it, so downstream wave grouping keeps the parts ordered.
// Tasks that depended on the parent are rewired to the final part.
// The input decomposition is not mutated.
func AutoSplit(d *Decomposition, fileLimit int) *Decomposition {
	if fileLimit < 2 {
		fileLimit = DefaultFileLimit
	}
	chunkSize := fileLimit - 1

	out := &Decomposition{
		ExecutionStrategy:  d.ExecutionStrategy,
		Rationale:          d.Rationale,
		TeamRecommendation: d.TeamRecommendation,
	}

	nextID := d.MaxTaskID()
	// parent id -> id of the final sub-task replacing it
	rewired := make(map[int]int)

	for _, t := range d.Tasks {
		if len(t.Files) <= fileLimit {
			out.Tasks = append(out.Tasks, t)
			continue
		}

		parts := chunkFiles(t.Files, chunkSize)
		perPart := t.EstimateMinutes / float64(len(parts))

		prevID := 0
		for i, files := range parts {
			nextID++
			sub := Task{
				ID:              nextID,
				Title:           fmt.Sprintf("%s (part %d)", t.Title, i+1),
				Description:     t.Description,
				ActiveForm:      t.ActiveForm,
				Type:            t.Type,
				Files:           files,
				EstimateMinutes: perPart,
			}
			if i == 0 {
				sub.DependsOn = append([]int(nil), t.DependsOn...)
			} else {
				sub.DependsOn = []int{prevID}
			}
			prevID = nextID
			out.Tasks = append(out.Tasks, sub)
		}
		rewired[t.ID] = prevID
	}

	if len(rewired) > 0 {
		for i := range out.Tasks {
			for j, dep := range out.Tasks[i].DependsOn {
				if final, ok := rewired[dep]; ok {
					out.Tasks[i].DependsOn[j] = final
				}
			}
		}
	}

	sort.Slice(out.Tasks, func(i, j int) bool { return out.Tasks[i].ID < out.Tasks[j].ID })
	out.TotalEstimateMinutes = out.SumEstimates()
	return out
}

func chunkFiles(files []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunk := make([]string, end-start)
		copy(chunk, files[start:end])
		chunks = append(chunks, chunk)
	}
	return chunks
}
