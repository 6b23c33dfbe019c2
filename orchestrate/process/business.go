package process

import "context"

// machineState is the capability set for an outer state (Business,
// Succeed, Cancelled, Completed): Process/Resume/Fail/Cancel each return
// the next state to transition to (nil once the machine has concluded),
// and Result reports the state's own StateResult.
type machineState interface {
	Process(ctx context.Context) (machineState, error)
	Resume(ctx context.Context) (machineState, error)
	Fail(ctx context.Context) (machineState, error)
	Cancel(ctx context.Context) (machineState, error)
	Result() StateResult
}

// runMode selects which phase method businessState.run delegates to on
// its first iteration; every subsequent iteration within the same run
// call always uses Process, since only the phase Business was already
// paused on can be meaningfully resumed or failed.
type runMode int

const (
	modeProcess runMode = iota
	modeResume
	modeFail
)

// terminalSignal reports whether businessState.step determined the
// current phase is still waiting, as opposed to producing a next phase
// or an outer-state transition.
type terminalSignal int

const (
	terminalNone terminalSignal = iota
	terminalWaiting
)

// businessState is the outer Business state: it owns one phaseExecutor
// per Phase tag and drives them through the Validate → Configure →
// Execute → Cleanup chain described in spec.md §4.6, folding each
// phase's PhaseResult into pending cancellation/failure flags that
// survive a detour through Cleanup (Configure routes through Cleanup
// when it ends in CANCELLED or FAILURE, and Execute when it ends in
// FAILURE; Execute's CANCELLED skips Cleanup), so the final
// disposition must be remembered across that detour rather than read
// off Cleanup's own result alone).
type businessState struct {
	pc *ProcessContext

	phases  map[Phase]phaseExecutor
	current phaseExecutor

	pendingCancel  bool
	pendingFailure bool
	result         StateResult
}

func newBusinessState(pc *ProcessContext) *businessState {
	handlers := pc.handlers
	validate := newValidatePhase(handlers)
	b := &businessState{
		pc: pc,
		phases: map[Phase]phaseExecutor{
			PhaseValidate:  validate,
			PhaseConfigure: newConfigurePhase(handlers),
			PhaseExecute:   newExecutePhase(handlers),
			PhaseCleanup:   newCleanupPhase(handlers),
		},
		current: validate,
	}
	return b
}

func (b *businessState) Result() StateResult { return b.result }

func (b *businessState) Process(ctx context.Context) (machineState, error) {
	return b.run(ctx, modeProcess)
}

func (b *businessState) Resume(ctx context.Context) (machineState, error) {
	return b.run(ctx, modeResume)
}

func (b *businessState) Fail(ctx context.Context) (machineState, error) {
	return b.run(ctx, modeFail)
}

// Cancel delegates to the current phase's Cancel and unconditionally
// transitions to Cancelled, regardless of what the phase reports back
// (spec.md §4.6: an external cancel always wins).
func (b *businessState) Cancel(ctx context.Context) (machineState, error) {
	if b.current != nil {
		_ = b.current.Cancel(ctx, b.pc)
	}
	b.result = StateCancelled
	return newCancelledState(b.pc), nil
}

// run drives the phase chain starting from b.current, using mode to
// decide how the very first phase call is made. It loops internally
// across phases (the same call may run Validate through Cleanup in one
// pass) and only returns once the chain pauses on WAITING or transitions
// to a terminal outer state.
func (b *businessState) run(ctx context.Context, mode runMode) (machineState, error) {
	first := true
	for {
		if b.current == nil {
			b.result = StateSuccess
			return newSucceedState(b.pc), nil
		}

		if first && mode == modeProcess && b.current.Result() == PhaseWaiting {
			// Still paused from an earlier call; nothing changes until
			// an external Resume/Fail unblocks the current phase.
			b.result = StateWaiting
			return b, nil
		}

		var err error
		switch {
		case first && mode == modeResume:
			err = b.current.Resume(ctx, b.pc)
		case first && mode == modeFail:
			err = b.current.Fail(ctx, b.pc)
		default:
			err = b.current.Process(ctx, b.pc)
		}
		first = false
		if err != nil {
			return nil, err
		}

		b.pc.emitPhaseEvent(ctx, b.current.Tag(), b.current.Result())

		next, signal, terminal, err := b.step()
		if err != nil {
			return nil, err
		}
		if terminal != nil {
			return terminal, nil
		}
		if signal == terminalWaiting {
			b.result = StateWaiting
			return b, nil
		}
		b.current = next
	}
}

// step interprets the just-run phase's PhaseResult and NextTag per
// spec.md §4.3-§4.6, returning exactly one of: the next phase to run, a
// waiting signal, or a terminal outer machineState.
func (b *businessState) step() (next phaseExecutor, signal terminalSignal, terminal machineState, err error) {
	result := b.current.Result()
	nextTag := b.current.NextTag()

	if result == PhaseWaiting {
		return nil, terminalWaiting, nil, nil
	}

	if result == PhaseCancelled {
		if nextTag == "" {
			if b.current.Tag() == PhaseCleanup {
				b.result = StateSuccess
				return nil, terminalNone, newSucceedState(b.pc), nil
			}
			b.result = StateCancelled
			return nil, terminalNone, newCancelledState(b.pc), nil
		}
		// Configure reports CANCELLED but still routes to Cleanup so
		// configured resources can be released (spec.md §4.3); the
		// cancellation is latched and only applied once Cleanup
		// concludes (see the nextTag == "" branch below).
		b.pendingCancel = true
		return b.phases[nextTag], terminalNone, nil, nil
	}

	if result == PhaseFailure && nextTag != "" {
		// Configure's all-failed case or Execute's any-failed case:
		// both still detour through Cleanup rather than ending the
		// event immediately.
		b.pendingFailure = true
		return b.phases[nextTag], terminalNone, nil, nil
	}

	if nextTag != "" {
		return b.phases[nextTag], terminalNone, nil, nil
	}

	// nextTag == "": this phase is terminal from Business's
	// perspective — either Validate's FAILURE, or Cleanup concluding
	// (successfully or not) after the chain above.
	switch {
	case b.pendingCancel:
		b.result = StateCancelled
		return nil, terminalNone, newCancelledState(b.pc), nil
	case result == PhaseFailure || b.pendingFailure:
		b.result = StateFailure
		return nil, terminalNone, newCompletedState(b.pc), nil
	default:
		return nil, terminalNone, nil, nil
	}
}
