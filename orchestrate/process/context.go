package process

import (
	"context"
	"fmt"
	"time"

	"github.com/flowstate/eventkernel/observability"
)

// TraceEntry records one phase or state transition observed while
// draining a ProcessContext, in the order it happened. State is the
// zero value for phase entries and Phase is the zero value for state
// entries.
type TraceEntry struct {
	Phase  Phase
	State  StateTag
	Result PhaseResult
}

// ProcessContext drives a single Event through the Business/Succeed/
// Cancelled/Completed state machine (spec.md §4.6-§4.8). It is the
// exclusive owner of the state tree for the duration of the event's
// dispatch: no other goroutine should touch it concurrently, matching
// the engine's single-threaded, cooperative contract.
type ProcessContext struct {
	event    *Event
	handlers []*HandlerEntry
	observer observability.Observer

	current   machineState
	cancelled bool
	failed    bool

	trace []TraceEntry
}

func newProcessContext(event *Event, handlers []*HandlerEntry, observer observability.Observer) *ProcessContext {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	pc := &ProcessContext{
		event:    event,
		handlers: handlers,
		observer: observer,
	}
	pc.current = newBusinessState(pc)
	return pc
}

// Event returns the Event this context drives.
func (pc *ProcessContext) Event() *Event { return pc.event }

// Trace returns the ordered record of phase/state transitions observed
// so far. Useful for tests asserting execution order (spec.md §8).
func (pc *ProcessContext) Trace() []TraceEntry {
	out := make([]TraceEntry, len(pc.trace))
	copy(out, pc.trace)
	return out
}

func (pc *ProcessContext) emitPhaseEvent(ctx context.Context, phase Phase, result PhaseResult) {
	pc.trace = append(pc.trace, TraceEntry{Phase: phase, Result: result})
	pc.observer.OnEvent(ctx, observability.Event{
		Type:      EventPhaseComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "process.business",
		Data: map[string]any{
			"event_id": pc.event.ID,
			"phase":    string(phase),
			"result":   string(result),
		},
	})
}

func (pc *ProcessContext) emitStateEvent(ctx context.Context, state StateTag) {
	pc.trace = append(pc.trace, TraceEntry{State: state})
	pc.observer.OnEvent(ctx, observability.Event{
		Type:      EventStateComplete,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "process.state",
		Data: map[string]any{
			"event_id": pc.event.ID,
			"state":    string(state),
		},
	})
}

func (pc *ProcessContext) emitHandlerPanic(ctx context.Context, recovered any) {
	pc.observer.OnEvent(ctx, observability.Event{
		Type:      EventHandlerPanic,
		Level:     observability.LevelError,
		Timestamp: time.Now(),
		Source:    "process.state",
		Data: map[string]any{
			"event_id":  pc.event.ID,
			"recovered": fmt.Sprint(recovered),
		},
	})
}

// processEvent drives the state machine until it concludes or pauses on
// WAITING (spec.md §4.8). It requires the event to already be marked
// in-dispatch, which Dispatch does before calling it.
func (pc *ProcessContext) processEvent(ctx context.Context) (EventProcessResult, error) {
	if !pc.event.InDispatch() {
		return EventUnknown, ErrNotInDispatch
	}

	for pc.current != nil {
		next, err := pc.current.Process(ctx)
		if err != nil {
			return EventUnknown, err
		}

		switch pc.current.Result() {
		case StateCancelled:
			pc.cancelled = true
		case StateFailure:
			pc.failed = true
		case StateWaiting:
			return EventWaiting, nil
		}

		pc.current = next
	}

	return pc.finalResult(), nil
}

func (pc *ProcessContext) finalResult() EventProcessResult {
	switch {
	case pc.cancelled:
		return EventCancelled
	case pc.failed:
		return EventFailure
	default:
		return EventSuccess
	}
}

// ProcessEvent re-enters the drain loop. External callers use this after
// Resume/Fail to continue processing past the point those calls
// delegate to (spec.md §6).
func (pc *ProcessContext) ProcessEvent(ctx context.Context) (EventProcessResult, error) {
	return pc.processEvent(ctx)
}

// Resume delegates to the current state's Resume method (spec.md
// §4.3/§4.4's cooperative-suspension protocol). It does not itself drain
// further states — call ProcessEvent again afterward to continue. It
// returns ErrResumeWithoutWaiting if the context is not currently
// paused, and is a no-op once Cancel has already been called (spec.md
// §5's short-circuit rule).
func (pc *ProcessContext) Resume(ctx context.Context) error {
	return pc.unpause(func(s machineState) (machineState, error) { return s.Resume(ctx) })
}

// Fail mirrors Resume but marks the outstanding waiting handler as
// FAILURE rather than SUCCESS (spec.md §4.3/§4.4).
func (pc *ProcessContext) Fail(ctx context.Context) error {
	return pc.unpause(func(s machineState) (machineState, error) { return s.Fail(ctx) })
}

func (pc *ProcessContext) unpause(call func(machineState) (machineState, error)) error {
	if pc.cancelled {
		// Cancel already short-circuited this context; further
		// Resume/Fail calls are no-ops (spec.md §5).
		return nil
	}
	if pc.current == nil || pc.current.Result() != StateWaiting {
		return ErrResumeWithoutWaiting
	}
	next, err := call(pc.current)
	if err != nil {
		return err
	}

	// pc.current is still the state that was just unpaused (the call
	// above mutates it in place and hands back the state to transition
	// to next); fold its result the same way processEvent does, or a
	// disposition reached entirely inside this call — e.g. Fail driving
	// Configure straight through Cleanup to Business's own FAILURE —
	// would never be observed.
	switch pc.current.Result() {
	case StateCancelled:
		pc.cancelled = true
	case StateFailure:
		pc.failed = true
	}

	pc.current = next
	return nil
}

// Cancel delegates to the current state's Cancel method. It only has a
// real effect while the context is still in Business; once the event
// has transitioned to Succeed/Cancelled/Completed, further calls are
// no-ops and never alter the final EventProcessResult (spec.md §8.5).
func (pc *ProcessContext) Cancel(ctx context.Context) error {
	if pc.current == nil {
		return nil
	}
	if _, ok := pc.current.(*businessState); !ok {
		return nil
	}
	next, err := pc.current.Cancel(ctx)
	if err != nil {
		return err
	}
	pc.cancelled = true
	pc.current = next
	return nil
}

// Dispatch is the external entry point (spec.md §6): it constructs a
// ProcessContext bound to event and handlers, marks the event
// in-dispatch, and drives it to completion or a waiting pause. The
// returned ProcessContext remains valid for subsequent Resume/Fail/
// Cancel/ProcessEvent calls when the result is EventWaiting.
func Dispatch(ctx context.Context, event *Event, handlers []*HandlerEntry, observer observability.Observer) (EventProcessResult, *ProcessContext, error) {
	if !event.markInDispatch() {
		return EventUnknown, nil, ErrAlreadyInDispatch
	}
	pc := newProcessContext(event, handlers, observer)
	result, err := pc.processEvent(ctx)
	return result, pc, err
}
