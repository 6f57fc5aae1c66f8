package planning

import (
	"fmt"
	"sort"
)

// validateDAG checks the dependency graph for cycles using DFS with a
// recursion stack. A detected cycle names one of the tasks involved.
func (d *Decomposition) validateDAG() error {
	visited := make(map[int]bool)
	recursionStack := make(map[int]bool)

	taskMap := make(map[int]Task, len(d.Tasks))
	for _, t := range d.Tasks {
		taskMap[t.ID] = t
	}

	var visit func(taskID int) error
	visit = func(taskID int) error {
		visited[taskID] = true
		recursionStack[taskID] = true

		task, exists := taskMap[taskID]
		if !exists {
			recursionStack[taskID] = false
			return nil
		}

		for _, depID := range task.DependsOn {
			if !visited[depID] {
				if err := visit(depID); err != nil {
					return err
				}
			} else if recursionStack[depID] {
				return fmt.Errorf("dependency cycle detected involving task %d", depID)
			}
		}

		recursionStack[taskID] = false
		return nil
	}

	// Deterministic visit order so the same cycle is reported every run.
	ids := make([]int, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		ids = append(ids, t.ID)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if !visited[id] {
			if err := visit(id); err != nil {
				return err
			}
		}
	}

	return nil
}

// TopologicalOrder returns the tasks in a stable dependency-respecting
// order: Kahn's algorithm where ties between ready tasks are broken by
// ascending task id. A cycle is reported as an error rather than
// silently worked around.
func (d *Decomposition) TopologicalOrder() ([]Task, error) {
	taskMap := make(map[int]Task, len(d.Tasks))
	inDegree := make(map[int]int, len(d.Tasks))
	dependents := make(map[int][]int)

	for _, t := range d.Tasks {
		taskMap[t.ID] = t
		inDegree[t.ID] = 0
	}
	for _, t := range d.Tasks {
		for _, dep := range t.DependsOn {
			if _, ok := taskMap[dep]; !ok {
				return nil, fmt.Errorf("task %d depends on unknown task %d", t.ID, dep)
			}
			inDegree[t.ID]++
			dependents[dep] = append(dependents[dep], t.ID)
		}
	}

	ready := make([]int, 0, len(d.Tasks))
	for id, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Ints(ready)

	ordered := make([]Task, 0, len(d.Tasks))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		ordered = append(ordered, taskMap[id])

		released := false
		for _, next := range dependents[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
				released = true
			}
		}
		if released {
			sort.Ints(ready)
		}
	}

	if len(ordered) != len(d.Tasks) {
		return nil, fmt.Errorf("dependency cycle detected: %d of %d tasks unschedulable", len(d.Tasks)-len(ordered), len(d.Tasks))
	}
	return ordered, nil
}
