package process

import (
	"sync"

	"github.com/google/uuid"
)

// Event is the opaque payload dispatched through the engine. Its data bag
// is mutable and shared by every handler invoked during dispatch, rather
// than copy-on-write, since handlers within a single dispatch are
// expected to observe each other's writes.
//
// An Event moves through three phases of its own lifecycle: unborn (just
// constructed, not yet dispatched), in-dispatch (Dispatch has marked it
// and is driving it through the state machine), and released (the
// external owner has called Release after the dispatch concluded). The
// in-dispatch flag exists to reject re-entrant Dispatch calls on the same
// Event while it is already being processed.
type Event struct {
	// ID is a uuid.NewV7 identifier generated at construction.
	ID string
	// Type is the caller-assigned event-type tag (e.g. "order.placed").
	Type string

	mu         sync.RWMutex
	data       map[string]any
	inDispatch bool
}

// NewEvent constructs an unborn Event with the given type tag and an
// empty data bag.
func NewEvent(eventType string) *Event {
	return &Event{
		ID:   uuid.Must(uuid.NewV7()).String(),
		Type: eventType,
		data: make(map[string]any),
	}
}

// Get reads a value from the event's data bag.
func (e *Event) Get(key string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.data[key]
	return v, ok
}

// Set writes a value into the event's data bag. Handlers call this to
// communicate with later phases and with each other.
func (e *Event) Set(key string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data[key] = value
}

// Snapshot returns a shallow copy of the event's entire data bag, useful
// for observability and for transport layers (such as processrpc) that
// need to return the post-dispatch state to a caller.
func (e *Event) Snapshot() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make(map[string]any, len(e.data))
	for k, v := range e.data {
		out[k] = v
	}
	return out
}

// Delete removes a key from the event's data bag.
func (e *Event) Delete(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.data, key)
}

// InDispatch reports whether the event is currently bound to an
// in-progress Dispatch call.
func (e *Event) InDispatch() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.inDispatch
}

// markInDispatch sets the in-dispatch flag, returning false if it was
// already set (the re-entry guard Dispatch relies on).
func (e *Event) markInDispatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inDispatch {
		return false
	}
	e.inDispatch = true
	return true
}

// Release clears the in-dispatch flag, returning the event to its
// external owner once dispatch has concluded (or paused and been
// abandoned). An event cannot be re-dispatched while in-dispatch, so a
// caller that wants to run a fresh Dispatch over the same Event after a
// terminal result must call Release first.
func (e *Event) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.inDispatch = false
}
