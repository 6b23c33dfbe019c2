package process

import "context"

// configurePhase implements the fault-tolerant Configure policy: the
// phase only fails outright when every handler that ran reported
// FAILURE. It accepts WAITING as a genuine pause, tracked with a signed
// counter so an out-of-order external Resume (arriving before the
// corresponding WAITING is observed) still resolves correctly — see
// drain's OutcomeWaiting case.
type configurePhase struct {
	basePhase

	waitingCount int
	pendingIndex int
	ranAny       bool
	allFailed    bool
}

func newConfigurePhase(handlers []*HandlerEntry) *configurePhase {
	return &configurePhase{
		basePhase: newBasePhase(PhaseConfigure, handlers),
		allFailed: true,
	}
}

func (p *configurePhase) Process(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drain(ctx, pc, 0)
}

// Resume continues iteration after an external caller unblocks the
// currently-waiting handler; that handler is treated as SUCCESS.
func (p *configurePhase) Resume(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitingCount--
	if p.waitingCount > 0 {
		p.result = PhaseWaiting
		return nil
	}
	p.ranAny = true
	p.allFailed = false
	return p.drain(ctx, pc, p.pendingIndex)
}

// Fail mirrors Resume but treats the outstanding handler as FAILURE.
func (p *configurePhase) Fail(ctx context.Context, pc *ProcessContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitingCount--
	p.ranAny = true
	if p.waitingCount > 0 {
		p.result = PhaseWaiting
		return nil
	}
	return p.drain(ctx, pc, p.pendingIndex)
}

// drain runs entries[from:], applying Configure's fault-tolerant policy.
// It is re-entered at p.pendingIndex after a Resume/Fail unblocks a
// paused handler.
func (p *configurePhase) drain(ctx context.Context, pc *ProcessContext, from int) error {
	for i := from; i < len(p.entries); i++ {
		entry := p.entries[i]
		outcome, skipped, err := invokePhaseHandler(ctx, entry, pc)
		if err != nil {
			outcome = OutcomeFailure
		}
		if skipped {
			// A predicate-gated handler never ran, so it must not affect
			// the all-failed determination in either direction: the
			// phase's outcome with the handler skipped has to match its
			// outcome with the handler absent entirely.
			continue
		}

		switch outcome {
		case OutcomeSuccess:
			p.ranAny = true
			p.allFailed = false
		case OutcomeFailure:
			p.ranAny = true
		case OutcomeCancelled:
			p.result = PhaseCancelled
			p.nextTag = PhaseCleanup
			return nil
		case OutcomeWaiting:
			p.waitingCount++
			if p.waitingCount <= 0 {
				// An external Resume arrived before this WAITING was
				// observed (the early-resume race, spec §4.3/§9): the
				// counter is already non-positive, so treat the handler
				// as a pseudo-sequential SUCCESS and keep going instead
				// of pausing.
				p.waitingCount = 0
				p.ranAny = true
				p.allFailed = false
				continue
			}
			p.pendingIndex = i + 1
			p.result = PhaseWaiting
			return nil
		default:
			p.ranAny = true
		}
	}

	if p.ranAny && p.allFailed {
		p.result = PhaseFailure
		p.nextTag = PhaseCleanup
		return nil
	}
	p.result = PhaseContinue
	p.nextTag = PhaseExecute
	return nil
}
