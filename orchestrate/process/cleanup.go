package process

import "context"

// cleanupPhase implements the best-effort, non-waiting Cleanup policy:
// every handler runs in priority order; any outcome other than CANCELLED
// is tolerated and iteration continues, with FAILURE merely recorded.
// CANCELLED aborts Cleanup itself immediately. Cleanup never returns a
// next phase — it is always the last phase Business runs.
type cleanupPhase struct {
	basePhase
	hasFailure bool
}

func newCleanupPhase(handlers []*HandlerEntry) *cleanupPhase {
	return &cleanupPhase{basePhase: newBasePhase(PhaseCleanup, handlers)}
}

func (p *cleanupPhase) Process(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.entries {
		outcome, _, err := invokePhaseHandler(ctx, entry, pc)
		if err != nil {
			outcome = OutcomeFailure
		}

		switch outcome {
		case OutcomeCancelled:
			p.result = PhaseCancelled
			p.nextTag = ""
			return nil
		case OutcomeFailure:
			p.hasFailure = true
		default:
			// SUCCESS, WAITING, or an invalid outcome: Cleanup never
			// waits, so anything other than CANCELLED/FAILURE is
			// treated as tolerated and iteration continues.
		}
	}

	if p.hasFailure {
		p.result = PhaseFailure
	} else {
		p.result = PhaseContinue
	}
	p.nextTag = ""
	return nil
}

// Resume and Fail are unreachable: Cleanup never reports WAITING, so
// ProcessContext's StateWaiting gate never delegates into this phase.
func (p *cleanupPhase) Resume(ctx context.Context, pc *ProcessContext) error { return nil }
func (p *cleanupPhase) Fail(ctx context.Context, pc *ProcessContext) error   { return nil }
