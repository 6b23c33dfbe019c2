package process_test

import (
	"context"
	"testing"
	"time"

	"github.com/flowstate/eventkernel/observability"
	"github.com/flowstate/eventkernel/orchestrate/process"
)

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func TestDispatch_EmitsPhaseAndStateEvents(t *testing.T) {
	observer := &captureObserver{}
	handlers := []*process.HandlerEntry{
		phaseHandler(process.PhaseValidate, process.PriorityNormal, func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
			return process.OutcomeSuccess
		}),
	}

	_, _, err := process.Dispatch(context.Background(), process.NewEvent("test"), handlers, observer)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	var sawPhase, sawState bool
	for _, e := range observer.events {
		switch e.Type {
		case process.EventPhaseComplete:
			sawPhase = true
		case process.EventStateComplete:
			sawState = true
		}
	}
	if !sawPhase {
		t.Error("expected at least one process.phase.complete event")
	}
	if !sawState {
		t.Error("expected at least one process.state.complete event")
	}
}

func TestDispatch_HandlerPanicInTerminalStateEmitsEvent(t *testing.T) {
	observer := &captureObserver{}
	handlers := []*process.HandlerEntry{
		stateHandler(process.StateTagSucceed, process.PriorityNormal, func(ctx context.Context, e *process.Event) {
			panic("terminal handler exploded")
		}),
	}

	result, _, err := process.Dispatch(context.Background(), process.NewEvent("test"), handlers, observer)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if result != process.EventSuccess {
		t.Errorf("Dispatch() result = %v, want %v (a panicking terminal handler must not abort the run)", result, process.EventSuccess)
	}

	found := false
	for _, e := range observer.events {
		if e.Type == process.EventHandlerPanic {
			found = true
		}
	}
	if !found {
		t.Error("expected a process.handler.panic event for the recovered panic")
	}
}

func TestProcessContext_EventAndTrace(t *testing.T) {
	event := process.NewEvent("demo")
	_, pc, err := process.Dispatch(context.Background(), event, nil, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if pc.Event() != event {
		t.Error("Event() should return the dispatched event")
	}
	if len(pc.Trace()) == 0 {
		t.Error("Trace() should record at least the terminal state transitions")
	}
}

func TestProcessContext_ProcessEventWithoutDispatchFails(t *testing.T) {
	// Releasing the event clears its in-dispatch flag, so re-entering
	// ProcessEvent on the context Dispatch returned must report
	// ErrNotInDispatch; a fresh Dispatch of the released event is then
	// accepted again.
	event := process.NewEvent("demo")
	event.Set("marker", time.Now().UnixNano())

	_, pc, err := process.Dispatch(context.Background(), event, nil, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	event.Release()
	if _, err := pc.ProcessEvent(context.Background()); err != process.ErrNotInDispatch {
		t.Errorf("ProcessEvent() after Release() error = %v, want %v", err, process.ErrNotInDispatch)
	}
	if _, _, err := process.Dispatch(context.Background(), event, nil, nil); err != nil {
		t.Errorf("Dispatch() after Release() error = %v, want nil", err)
	}
}

func TestHandlerPanicError_Error(t *testing.T) {
	entry := process.NewPhaseHandler(process.PhaseConfigure, process.PriorityHigh, nil, nil)
	err := &process.HandlerPanicError{Handler: entry, Recovered: "boom"}

	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() of a non-error recovered value should return nil")
	}
}

func TestHandlerPanicError_UnwrapsRecoveredError(t *testing.T) {
	entry := process.NewPhaseHandler(process.PhaseConfigure, process.PriorityHigh, nil, nil)
	cause := context.Canceled
	err := &process.HandlerPanicError{Handler: entry, Recovered: cause}

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}
