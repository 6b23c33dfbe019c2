package process

import "context"

// validatePhase implements the fail-fast Validate policy: the first
// FAILURE (or a handler panic at CRITICAL priority, which escalates to
// CANCELLED) ends the phase immediately. Validate does not support
// cooperative suspension; a WAITING outcome is tolerated syntactically
// but folded into an overall FAILURE once the phase finishes iterating,
// since Business must never pause on Validate.
type validatePhase struct {
	basePhase
}

func newValidatePhase(handlers []*HandlerEntry) *validatePhase {
	return &validatePhase{basePhase: newBasePhase(PhaseValidate, handlers)}
}

func (p *validatePhase) Process(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	waitingObserved := false
	for _, entry := range p.entries {
		outcome, _, err := invokePhaseHandler(ctx, entry, pc)
		if err != nil {
			if entry.Priority == PriorityCritical {
				p.result = PhaseCancelled
				p.nextTag = ""
				return nil
			}
			outcome = OutcomeFailure
		}

		switch outcome {
		case OutcomeSuccess:
			continue
		case OutcomeWaiting:
			waitingObserved = true
			continue
		case OutcomeCancelled:
			p.result = PhaseCancelled
			p.nextTag = ""
			return nil
		default: // OutcomeFailure, or anything normalized to it
			p.result = PhaseFailure
			p.nextTag = ""
			return nil
		}
	}

	if waitingObserved {
		p.result = PhaseFailure
		p.nextTag = ""
		return nil
	}

	p.result = PhaseContinue
	p.nextTag = PhaseConfigure
	return nil
}

// Resume and Fail are unreachable in practice: Validate never reports
// WAITING up to Business (see Process above), so ProcessContext's
// StateWaiting gate never delegates into this phase. Implemented as
// no-ops for interface completeness.
func (p *validatePhase) Resume(ctx context.Context, pc *ProcessContext) error { return nil }
func (p *validatePhase) Fail(ctx context.Context, pc *ProcessContext) error   { return nil }
