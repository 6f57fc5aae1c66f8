package quality

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Loop lifecycle states. Iterations are strictly sequential, so the
// machine only ever holds one in-flight phase.
const (
	StateGenerating = "generating"
	StateEvaluating = "evaluating"
	StateRefining   = "refining"
	StateConverged  = "converged"
	StateExhausted  = "exhausted"
	StateFailed     = "failed"
)

// Loop lifecycle events.
const (
	EventGenerated = "generated"
	EventConverge  = "converge"
	EventRefine    = "refine"
	EventExhaust   = "exhaust"
	EventNext      = "next"
	EventError     = "error"
)

// LoopContext carries run identity through the machine.
type LoopContext struct {
	RunID string
}

// LoopStateMachine tracks the eval-optimization lifecycle and rejects
// out-of-order phase transitions, e.g. evaluating before a generator
// output exists.
type LoopStateMachine struct {
	interpreter *statekit.Interpreter[LoopContext]
}

// NewLoopStateMachine builds the loop machine starting in the
// generating state.
func NewLoopStateMachine(runID string) (*LoopStateMachine, error) {
	builder := statekit.NewMachine[LoopContext]("evalopt-loop").
		WithInitial(statekit.StateID(StateGenerating)).
		WithContext(LoopContext{RunID: runID})

	builder.State(StateGenerating).
		On(EventGenerated).Target(StateEvaluating).
		On(EventError).Target(StateFailed).
		Done()

	builder.State(StateEvaluating).
		On(EventConverge).Target(StateConverged).
		On(EventRefine).Target(StateRefining).
		On(EventExhaust).Target(StateExhausted).
		On(EventError).Target(StateFailed).
		Done()

	builder.State(StateRefining).
		On(EventNext).Target(StateGenerating).
		Done()

	builder.State(StateConverged).Done()
	builder.State(StateExhausted).Done()
	builder.State(StateFailed).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build loop state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &LoopStateMachine{interpreter: interpreter}, nil
}

// Transition attempts to advance the loop. A transition that leaves
// the state unchanged is invalid for the current phase.
func (sm *LoopStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before == after {
		return fmt.Errorf("event %q is not valid in loop state %q", event, before)
	}
	return nil
}

// Current returns the current loop state.
func (sm *LoopStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// IsTerminal reports whether the loop has reached a final state.
func (sm *LoopStateMachine) IsTerminal() bool {
	switch sm.Current() {
	case StateConverged, StateExhausted, StateFailed:
		return true
	default:
		return false
	}
}
