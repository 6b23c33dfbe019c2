// Package process implements the phase-and-state event processing engine:
// a deterministic, cooperative, single-threaded state machine that drives
// a single Event through an outer Business → Succeed/Cancelled → Completed
// lifecycle, with Business itself decomposed into four inner phases —
// Validate, Configure, Execute, Cleanup — each with its own failure and
// suspension policy.
//
// # Core Components
//
//   - Event: the opaque, mutable payload dispatched through the engine.
//   - HandlerEntry: an immutable descriptor binding a callable to a phase
//     or terminal state, a priority, and an optional predicate.
//   - Dispatch: the external entry point; constructs a ProcessContext bound
//     to an Event and an ordered handler list, then drives it to completion
//     or a cooperative pause.
//   - ProcessContext: owns the state machine for one Event's lifetime and
//     exposes Resume/Cancel/Fail for externally-triggered continuation.
//
// # Phase policies
//
// Validate is fail-fast: the first FAILURE ends the phase immediately, and
// WAITING is not supported (a WAITING outcome observed during Validate is
// folded into a FAILURE once the phase is done iterating). Configure is
// fault-tolerant: it only fails the phase outright when every handler that
// ran failed, and it accepts WAITING as a genuine pause. Execute is
// comprehensive: every handler runs regardless of earlier failures, and
// CANCELLED terminates immediately without running Cleanup. Cleanup is
// best-effort and never waits.
//
// # Observer integration
//
// Every phase and state transition is reported through an
// observability.Observer, so a caller can attach a SlogObserver,
// MultiObserver, or test double without the engine knowing the difference.
package process
