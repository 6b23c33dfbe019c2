package process

import (
	"context"
	"sync/atomic"
)

// maxHandlerAttempts bounds RETRY re-invocation: a handler that keeps
// returning RETRY is executed at most three times total before being
// reported as FAILURE.
const maxHandlerAttempts = 3

// Predicate gates whether a HandlerEntry's callable runs for a given
// Event. A predicate returning false skips the handler: the callable is
// not invoked, the execution counter does not advance, and the skip never
// makes a phase fail. Validate, Execute and Cleanup treat the skip as a
// SUCCESS; Configure treats it as if the handler were absent.
type Predicate func(event *Event, entry *HandlerEntry) bool

// Always returns a predicate that never skips its handler.
func Always() Predicate {
	return func(*Event, *HandlerEntry) bool { return true }
}

// Never returns a predicate that always skips its handler.
func Never() Predicate {
	return func(*Event, *HandlerEntry) bool { return false }
}

// PhaseHandlerFunc is the callable shape for a Phase-targeted handler. It
// returns a HandlerOutcome rather than an error; unanticipated panics are
// recovered at the dispatch primitive boundary and surfaced as
// HandlerPanicError instead of crashing the engine.
type PhaseHandlerFunc func(ctx context.Context, pc *ProcessContext) HandlerOutcome

// StateHandlerFunc is the callable shape for a terminal-state-targeted
// handler. It has no return value: terminal states run every matching
// handler unconditionally and do not branch on their outcome.
type StateHandlerFunc func(ctx context.Context, event *Event)

// HandlerEntry is an immutable descriptor binding a callable to a target
// (a Phase or a StateTag, depending on Kind), a Priority, and an optional
// Predicate. ExecutionCount is the only mutable field, incremented each
// time the callable is actually invoked (a predicate-skip never
// increments it).
type HandlerEntry struct {
	Kind      HandlerKind
	Phase     Phase
	State     StateTag
	Priority  Priority
	Predicate Predicate

	phaseFn PhaseHandlerFunc
	stateFn StateHandlerFunc

	executionCount atomic.Int64
}

// NewPhaseHandler builds a HandlerEntry targeting a Phase. predicate may
// be nil, meaning the handler always runs.
func NewPhaseHandler(phase Phase, priority Priority, predicate Predicate, fn PhaseHandlerFunc) *HandlerEntry {
	return &HandlerEntry{
		Kind:      KindPhase,
		Phase:     phase,
		Priority:  priority,
		Predicate: predicate,
		phaseFn:   fn,
	}
}

// NewStateHandler builds a HandlerEntry targeting a terminal StateTag.
// predicate may be nil, meaning the handler always runs.
func NewStateHandler(state StateTag, priority Priority, predicate Predicate, fn StateHandlerFunc) *HandlerEntry {
	return &HandlerEntry{
		Kind:      KindState,
		State:     state,
		Priority:  priority,
		Predicate: predicate,
		stateFn:   fn,
	}
}

// ExecutionCount returns the number of times this handler's callable has
// actually been invoked (predicate-skips excluded).
func (h *HandlerEntry) ExecutionCount() int64 {
	return h.executionCount.Load()
}

// invokePhaseHandler is the dispatch primitive for phase-targeted
// handlers: it applies the predicate, invokes the callable with panic
// recovery, retries RETRY outcomes up to maxHandlerAttempts, and
// normalizes anything outside the known outcome set to FAILURE.
//
// The skipped return reports whether the predicate gated the callable
// entirely; callers whose phase-outcome accounting distinguishes "ran and
// succeeded" from "never ran" (Configure's all-failed determination, so a
// Never()-gated handler is neutral rather than a phantom SUCCESS) use it,
// while callers that only care about the outcome itself ignore it.
//
// A non-nil error means the callable panicked (handler_threw); the
// returned outcome in that case is always OutcomeFailure and callers that
// need different escalation (Validate at CRITICAL priority) branch on the
// error themselves rather than on the outcome.
func invokePhaseHandler(ctx context.Context, entry *HandlerEntry, pc *ProcessContext) (outcome HandlerOutcome, skipped bool, err error) {
	if entry.Predicate != nil && !entry.Predicate(pc.event, entry) {
		return OutcomeSuccess, true, nil
	}

	for attempt := 1; ; attempt++ {
		outcome, err = runPhaseHandler(ctx, entry, pc)
		if err != nil {
			return OutcomeFailure, false, err
		}
		if outcome == OutcomeRetry && attempt < maxHandlerAttempts {
			continue
		}
		break
	}

	switch outcome {
	case OutcomeSuccess, OutcomeFailure, OutcomeWaiting, OutcomeCancelled:
		return outcome, false, nil
	default:
		// OutcomeRetry exhausted its attempts, or the callable returned
		// something outside the known set (invalid_outcome, §7).
		return OutcomeFailure, false, nil
	}
}

func runPhaseHandler(ctx context.Context, entry *HandlerEntry, pc *ProcessContext) (outcome HandlerOutcome, err error) {
	defer entry.executionCount.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = &HandlerPanicError{Handler: entry, Recovered: r}
		}
	}()
	outcome = entry.phaseFn(ctx, pc)
	return outcome, nil
}

// invokeStateHandler runs a terminal-state-targeted handler, applying the
// predicate and recovering any panic so one misbehaving handler does not
// stop the remaining terminal-state handlers from running. A recovered
// panic is reported through pc's observer rather than propagated, since
// terminal states have no failure outcome to report it as.
func invokeStateHandler(ctx context.Context, entry *HandlerEntry, pc *ProcessContext) {
	if entry.Predicate != nil && !entry.Predicate(pc.event, entry) {
		return
	}
	defer entry.executionCount.Add(1)
	defer func() {
		if r := recover(); r != nil {
			pc.emitHandlerPanic(ctx, r)
		}
	}()
	entry.stateFn(ctx, pc.event)
}
