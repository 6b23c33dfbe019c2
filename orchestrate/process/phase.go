package process

import (
	"context"
	"sort"
	"sync"
)

// phaseExecutor is the capability set every inner phase implements:
// Process/Resume/Fail/Cancel mirror the corresponding ProcessContext
// entry points, Result reports the phase's PhaseResult once it has run
// or paused, and NextTag names the phase (if any) Business should
// transition to once this one concludes.
type phaseExecutor interface {
	Tag() Phase
	Process(ctx context.Context, pc *ProcessContext) error
	Resume(ctx context.Context, pc *ProcessContext) error
	Fail(ctx context.Context, pc *ProcessContext) error
	Cancel(ctx context.Context, pc *ProcessContext) error
	Result() PhaseResult
	NextTag() Phase
}

// basePhase holds the state shared by every phase implementation: the
// priority-sorted handler list for this phase's tag, a mutex guarding the
// phase's mutable fields (the waiting-counter discipline requires
// serialized access even though the engine is single-threaded by
// contract), and the phase's own result/next-tag bookkeeping.
type basePhase struct {
	tag     Phase
	entries []*HandlerEntry

	mu      sync.Mutex
	result  PhaseResult
	nextTag Phase
}

func newBasePhase(tag Phase, all []*HandlerEntry) basePhase {
	entries := make([]*HandlerEntry, 0, len(all))
	for _, e := range all {
		if e.Kind == KindPhase && e.Phase == tag {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Priority < entries[j].Priority
	})
	return basePhase{tag: tag, entries: entries}
}

func (b *basePhase) Tag() Phase { return b.tag }

func (b *basePhase) Result() PhaseResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result
}

func (b *basePhase) NextTag() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextTag
}

// Cancel is the external-cancel entry point shared by every phase.
// Business transitions to Cancelled regardless of what Cancel returns,
// so this only needs to record the phase's own terminal disposition for
// introspection and tracing.
func (b *basePhase) Cancel(ctx context.Context, pc *ProcessContext) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.result = PhaseCancelled
	b.nextTag = ""
	return nil
}
