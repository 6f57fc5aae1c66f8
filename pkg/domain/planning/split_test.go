package planning

import (
	"fmt"
	"testing"
)

func TestValidateFileCounts(t *testing.T) {
	d := &Decomposition{
		Tasks: []Task{
			{ID: 1, Title: "fits", Type: TypeFeature, Files: []string{"a.go", "b.go"}},
			{ID: 2, Title: "oversized", Type: TypeFeature, Files: manyFiles(9)},
			{ID: 3, Title: "leader work", Type: TypeDocs},
		},
	}

	violations := ValidateFileCounts(d, 8)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(violations), violations)
	}

	for _, v := range violations {
		switch v.TaskID {
		case 2:
			if v.FileCount != 9 {
				t.Errorf("task 2 file count = %d, want 9", v.FileCount)
			}
		case 3:
			if v.FileCount != 0 {
				t.Errorf("task 3 file count = %d, want 0", v.FileCount)
			}
		default:
			t.Errorf("unexpected violation for task %d", v.TaskID)
		}
	}
}

func TestAutoSplit_ChainsOversizedTask(t *testing.T) {
	d := &Decomposition{
		Tasks: []Task{
			{ID: 1, Title: "refactor storage", Type: TypeRefactor, Files: manyFiles(8), EstimateMinutes: 60},
		},
	}

	// Limit 5 means chunks of 4: 8 files become 2 parts of 4.
	out := AutoSplit(d, 5)

	if len(out.Tasks) != 2 {
		t.Fatalf("expected 2 sub-tasks, got %d", len(out.Tasks))
	}

	first, second := out.Tasks[0], out.Tasks[1]
	if first.ID != 2 || second.ID != 3 {
		t.Errorf("sub-task ids = %d, %d; want fresh ids 2, 3", first.ID, second.ID)
	}
	if first.Title != "refactor storage (part 1)" || second.Title != "refactor storage (part 2)" {
		t.Errorf("titles = %q, %q", first.Title, second.Title)
	}
	if len(first.Files) != 4 || len(second.Files) != 4 {
		t.Errorf("file counts = %d, %d; want 4, 4", len(first.Files), len(second.Files))
	}
	if len(second.DependsOn) != 1 || second.DependsOn[0] != first.ID {
		t.Errorf("part 2 must depend on part 1, got %v", second.DependsOn)
	}
	if first.EstimateMinutes != 30 || second.EstimateMinutes != 30 {
		t.Errorf("estimates = %v, %v; parent 60 split evenly", first.EstimateMinutes, second.EstimateMinutes)
	}
	if out.TotalEstimateMinutes != 60 {
		t.Errorf("total estimate = %v, want 60", out.TotalEstimateMinutes)
	}
}

func TestAutoSplit_RewiresDownstreamDependents(t *testing.T) {
	d := &Decomposition{
		Tasks: []Task{
			{ID: 1, Title: "base", Type: TypeFeature, Files: []string{"base.go"}, EstimateMinutes: 10},
			{ID: 2, Title: "big", Type: TypeFeature, Files: manyFiles(10), DependsOn: []int{1}, EstimateMinutes: 90},
			{ID: 3, Title: "after", Type: TypeTest, Files: []string{"after_test.go"}, DependsOn: []int{2}, EstimateMinutes: 15},
		},
	}

	out := AutoSplit(d, 5)

	// 10 files in chunks of 4: 3 parts with ids 4, 5, 6.
	if len(out.Tasks) != 5 {
		t.Fatalf("expected 5 tasks after split, got %d", len(out.Tasks))
	}

	firstPart := out.TaskByID(4)
	if firstPart == nil {
		t.Fatal("missing first sub-task")
	}
	if len(firstPart.DependsOn) != 1 || firstPart.DependsOn[0] != 1 {
		t.Errorf("first part must inherit parent deps, got %v", firstPart.DependsOn)
	}

	after := out.TaskByID(3)
	if after == nil {
		t.Fatal("missing downstream task")
	}
	if len(after.DependsOn) != 1 || after.DependsOn[0] != 6 {
		t.Errorf("downstream dep must be rewired to the final part (6), got %v", after.DependsOn)
	}

	if err := out.Validate(); err != nil {
		t.Errorf("split decomposition must stay valid: %v", err)
	}
}

func TestAutoSplit_LeavesFittingTasksAlone(t *testing.T) {
	d := &Decomposition{
		Tasks: []Task{
			{ID: 1, Title: "small", Type: TypeFeature, Files: []string{"a.go"}, EstimateMinutes: 10},
		},
	}
	out := AutoSplit(d, 8)
	if len(out.Tasks) != 1 || out.Tasks[0].ID != 1 {
		t.Errorf("task within the limit must be untouched, got %+v", out.Tasks)
	}
}

func TestAutoSplit_DoesNotMutateInput(t *testing.T) {
	d := &Decomposition{
		Tasks: []Task{
			{ID: 1, Title: "big", Type: TypeFeature, Files: manyFiles(10), EstimateMinutes: 50},
			{ID: 2, Title: "after", Type: TypeTest, DependsOn: []int{1}, Files: []string{"t.go"}, EstimateMinutes: 5},
		},
	}

	_ = AutoSplit(d, 5)

	if len(d.Tasks) != 2 {
		t.Fatalf("input task count changed: %d", len(d.Tasks))
	}
	if d.Tasks[1].DependsOn[0] != 1 {
		t.Errorf("input dependency mutated: %v", d.Tasks[1].DependsOn)
	}
}

func manyFiles(n int) []string {
	files := make([]string, n)
	for i := range files {
		files[i] = fmt.Sprintf("pkg/file%d.go", i+1)
	}
	return files
}
