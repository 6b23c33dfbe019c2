package process

import "github.com/flowstate/eventkernel/observability"

// Observability event types emitted at each phase/state transition and
// at each recovered terminal-state handler panic (a panicking phase
// handler emits no event; it is folded into its phase's outcome),
// following the "<subsystem>.<noun>.<verb>" naming convention.
const (
	EventPhaseComplete observability.EventType = "process.phase.complete"
	EventStateComplete observability.EventType = "process.state.complete"
	EventHandlerPanic  observability.EventType = "process.handler.panic"
)
