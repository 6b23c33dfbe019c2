package process

import "context"

// executePhase implements the comprehensive Execute policy: every
// handler runs regardless of earlier failures or pending waits — unlike
// Configure, a WAITING outcome does not pause iteration; it only
// contributes to the waiting counter, which is checked once the full
// pass over all handlers completes. CANCELLED is the one outcome that
// still terminates immediately, and it does so without running Cleanup.
type executePhase struct {
	basePhase

	waitingCount int
	hasFailure   bool
}

func newExecutePhase(handlers []*HandlerEntry) *executePhase {
	return &executePhase{basePhase: newBasePhase(PhaseExecute, handlers)}
}

func (p *executePhase) Process(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drain(ctx, pc)
}

func (p *executePhase) drain(ctx context.Context, pc *ProcessContext) error {
	for _, entry := range p.entries {
		outcome, _, err := invokePhaseHandler(ctx, entry, pc)
		if err != nil {
			outcome = OutcomeFailure
		}

		switch outcome {
		case OutcomeFailure:
			p.hasFailure = true
		case OutcomeCancelled:
			p.result = PhaseCancelled
			p.nextTag = ""
			return nil
		case OutcomeWaiting:
			p.waitingCount++
			if p.waitingCount <= 0 {
				// Early-resume race, same discipline as Configure.
				p.waitingCount = 0
			}
		default:
		}
	}

	if p.waitingCount > 0 {
		p.result = PhaseWaiting
		return nil
	}
	p.conclude()
	return nil
}

func (p *executePhase) conclude() {
	if p.hasFailure {
		p.result = PhaseFailure
	} else {
		p.result = PhaseContinue
	}
	p.nextTag = PhaseCleanup
}

// Resume decrements the waiting counter for one resolved handler,
// treating it as SUCCESS; once no handlers remain outstanding the phase
// concludes using whatever failures were recorded during the pass.
func (p *executePhase) Resume(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitingCount--
	if p.waitingCount > 0 {
		p.result = PhaseWaiting
		return nil
	}
	p.conclude()
	return nil
}

// Fail mirrors Resume but records the resolved handler as FAILURE.
func (p *executePhase) Fail(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hasFailure = true
	p.waitingCount--
	if p.waitingCount > 0 {
		p.result = PhaseWaiting
		return nil
	}
	p.conclude()
	return nil
}
