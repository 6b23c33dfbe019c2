package process_test

import (
	"context"
	"testing"

	"github.com/flowstate/eventkernel/orchestrate/process"
)

func TestPriority_String(t *testing.T) {
	tests := []struct {
		priority process.Priority
		want     string
	}{
		{process.PriorityCritical, "critical"},
		{process.PriorityHigh, "high"},
		{process.PriorityNormal, "normal"},
		{process.PriorityLow, "low"},
		{process.PriorityBackground, "background"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.priority.String(); got != tt.want {
				t.Errorf("Priority(%d).String() = %q, want %q", tt.priority, got, tt.want)
			}
		})
	}
}

func TestAlwaysNeverPredicates(t *testing.T) {
	event := process.NewEvent("test")
	entry := process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, nil, nil)

	if !process.Always()(event, entry) {
		t.Error("Always() predicate should always return true")
	}
	if process.Never()(event, entry) {
		t.Error("Never() predicate should always return false")
	}
}

func TestHandlerEntry_PredicateSkipsExecution(t *testing.T) {
	event := process.NewEvent("test")
	ran := false
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, process.Never(),
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				ran = true
				return process.OutcomeSuccess
			}),
	}

	result, _, err := process.Dispatch(context.Background(), event, handlers, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result != process.EventSuccess {
		t.Errorf("Dispatch() = %v, want %v", result, process.EventSuccess)
	}
	if ran {
		t.Error("a handler gated by Never() should not run")
	}
	if handlers[0].ExecutionCount() != 0 {
		t.Errorf("ExecutionCount() = %d, want 0 for a predicate-skipped handler", handlers[0].ExecutionCount())
	}
}

func TestHandlerEntry_ExecutionCountIncrements(t *testing.T) {
	event := process.NewEvent("test")
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				return process.OutcomeSuccess
			}),
	}

	if _, _, err := process.Dispatch(context.Background(), event, handlers, nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if handlers[0].ExecutionCount() != 1 {
		t.Errorf("ExecutionCount() = %d, want 1", handlers[0].ExecutionCount())
	}
}

func TestHandlerEntry_RetryExhaustsAtThreeAttempts(t *testing.T) {
	event := process.NewEvent("test")
	attempts := 0
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				attempts++
				return process.OutcomeRetry
			}),
	}

	result, _, err := process.Dispatch(context.Background(), event, handlers, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("handler ran %d times, want 3 (maxHandlerAttempts)", attempts)
	}
	// Validate folds the exhausted RETRY into FAILURE, which is terminal
	// with no next phase, ending the event in Completed/Failure.
	if result != process.EventFailure {
		t.Errorf("Dispatch() result = %v, want %v", result, process.EventFailure)
	}
}

func TestHandlerEntry_RetrySucceedsBeforeExhaustion(t *testing.T) {
	event := process.NewEvent("test")
	attempts := 0
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				attempts++
				if attempts < 2 {
					return process.OutcomeRetry
				}
				return process.OutcomeSuccess
			}),
	}

	result, _, err := process.Dispatch(context.Background(), event, handlers, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if attempts != 2 {
		t.Errorf("handler ran %d times, want 2", attempts)
	}
	if result != process.EventSuccess {
		t.Errorf("Dispatch() result = %v, want %v", result, process.EventSuccess)
	}
}

func TestHandlerEntry_PanicRecoveredAsFailureOutsideCritical(t *testing.T) {
	event := process.NewEvent("test")
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseConfigure, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				panic("boom")
			}),
	}

	result, _, err := process.Dispatch(context.Background(), event, handlers, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	// A lone Configure handler panicking is the phase's only handler, so
	// allFailed is true and Configure routes through Cleanup to Failure.
	if result != process.EventFailure {
		t.Errorf("Dispatch() result = %v, want %v", result, process.EventFailure)
	}
}

func TestHandlerEntry_PanicAtCriticalPriorityEscalatesToCancelled(t *testing.T) {
	event := process.NewEvent("test")
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityCritical, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				panic("critical failure")
			}),
	}

	result, _, err := process.Dispatch(context.Background(), event, handlers, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result != process.EventCancelled {
		t.Errorf("Dispatch() result = %v, want %v", result, process.EventCancelled)
	}
}
