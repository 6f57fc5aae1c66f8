package quality

import "testing"

func TestLoopStateMachine_HappyPath(t *testing.T) {
	sm, err := NewLoopStateMachine("run-1")
	if err != nil {
		t.Fatal(err)
	}

	if sm.Current() != StateGenerating {
		t.Fatalf("initial state = %s, want generating", sm.Current())
	}

	steps := []struct {
		event string
		want  string
	}{
		{EventGenerated, StateEvaluating},
		{EventRefine, StateRefining},
		{EventNext, StateGenerating},
		{EventGenerated, StateEvaluating},
		{EventConverge, StateConverged},
	}

	for _, step := range steps {
		if err := sm.Transition(step.event); err != nil {
			t.Fatalf("Transition(%s): %v", step.event, err)
		}
		if sm.Current() != step.want {
			t.Fatalf("after %s state = %s, want %s", step.event, sm.Current(), step.want)
		}
	}

	if !sm.IsTerminal() {
		t.Error("converged must be terminal")
	}
}

func TestLoopStateMachine_RejectsOutOfOrderEvents(t *testing.T) {
	sm, err := NewLoopStateMachine("run-2")
	if err != nil {
		t.Fatal(err)
	}

	// Cannot converge before anything was generated and evaluated.
	if err := sm.Transition(EventConverge); err == nil {
		t.Error("expected error converging from generating")
	}
	if sm.Current() != StateGenerating {
		t.Errorf("state moved on invalid event: %s", sm.Current())
	}
}

func TestLoopStateMachine_ExhaustAndError(t *testing.T) {
	sm, _ := NewLoopStateMachine("run-3")
	_ = sm.Transition(EventGenerated)
	if err := sm.Transition(EventExhaust); err != nil {
		t.Fatalf("exhaust: %v", err)
	}
	if sm.Current() != StateExhausted || !sm.IsTerminal() {
		t.Errorf("state = %s, want terminal exhausted", sm.Current())
	}

	sm2, _ := NewLoopStateMachine("run-4")
	if err := sm2.Transition(EventError); err != nil {
		t.Fatalf("error event: %v", err)
	}
	if sm2.Current() != StateFailed || !sm2.IsTerminal() {
		t.Errorf("state = %s, want terminal failed", sm2.Current())
	}
}
