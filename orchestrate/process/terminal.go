package process

import (
	"context"
	"sort"
)

// terminalState implements Succeed, Cancelled, and Completed uniformly:
// each runs its own priority-sorted slice of terminal-state handlers
// unconditionally (no branching on handler outcome, since StateHandlerFunc
// has none) and then transitions to next, or to nil if it is Completed.
//
// Every terminalState's own StateResult is StateSuccess once it concludes
// — including Cancelled's, since the CANCELLED disposition was already
// latched by Business before the transition into this state. None of the
// three support cooperative suspension or external cancellation; repeat
// Resume/Fail/Cancel calls are no-ops so a caller cannot alter an event's
// final disposition after it has left Business (spec.md §8.5).
type terminalState struct {
	tag     StateTag
	entries []*HandlerEntry
	pc      *ProcessContext
	next    func(pc *ProcessContext) machineState
}

func newTerminalEntries(tag StateTag, handlers []*HandlerEntry) []*HandlerEntry {
	entries := make([]*HandlerEntry, 0, len(handlers))
	for _, e := range handlers {
		if e.Kind == KindState && e.State == tag {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
	return entries
}

func newSucceedState(pc *ProcessContext) machineState {
	return &terminalState{
		tag:     StateTagSucceed,
		entries: newTerminalEntries(StateTagSucceed, pc.handlers),
		pc:      pc,
		next:    newCompletedState,
	}
}

func newCancelledState(pc *ProcessContext) machineState {
	return &terminalState{
		tag:     StateTagCancelled,
		entries: newTerminalEntries(StateTagCancelled, pc.handlers),
		pc:      pc,
		next:    newCompletedState,
	}
}

func newCompletedState(pc *ProcessContext) machineState {
	return &terminalState{
		tag:     StateTagCompleted,
		entries: newTerminalEntries(StateTagCompleted, pc.handlers),
		pc:      pc,
		next:    nil,
	}
}

func (s *terminalState) Result() StateResult { return StateSuccess }

func (s *terminalState) Process(ctx context.Context) (machineState, error) {
	for _, entry := range s.entries {
		invokeStateHandler(ctx, entry, s.pc)
	}
	s.pc.emitStateEvent(ctx, s.tag)
	if s.next == nil {
		return nil, nil
	}
	return s.next(s.pc), nil
}

func (s *terminalState) Resume(ctx context.Context) (machineState, error) { return nil, nil }
func (s *terminalState) Fail(ctx context.Context) (machineState, error)   { return nil, nil }
func (s *terminalState) Cancel(ctx context.Context) (machineState, error) { return nil, nil }
