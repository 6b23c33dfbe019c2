package config

// ProcessConfig defines configuration for the event processing engine in
// orchestrate/process.
//
// This configuration follows the tau-core pattern: used only during
// initialization, then transformed into domain objects (an
// observability.Observer resolved from Observer via the registry, and an
// EmitTrace flag read by callers deciding whether to include the
// execution trace in their own response shape — the core itself always
// accumulates the trace cheaply in memory; EmitTrace controls whether a
// caller surfaces it).
//
// Example JSON:
//
//	{
//	  "name": "order-events",
//	  "observer": "slog",
//	  "emit_trace": true
//	}
type ProcessConfig struct {
	// Name identifies this engine instance for observability.
	Name string `json:"name"`

	// Observer specifies which observer implementation to use ("noop", "slog", etc.)
	Observer string `json:"observer"`

	// EmitTraceNil controls whether callers surface ProcessContext.Trace()
	// in their own responses. Nil defaults to true; see EmitTrace.
	EmitTraceNil *bool `json:"emit_trace,omitempty"`
}

// EmitTrace reports whether the execution trace should be surfaced,
// defaulting to true when unset.
func (c ProcessConfig) EmitTrace() bool {
	if c.EmitTraceNil == nil {
		return true
	}
	return *c.EmitTraceNil
}

// DefaultProcessConfig returns sensible defaults for the event processing
// engine.
//
// Default values:
//   - Observer: "slog" for structured logging
//   - EmitTrace: true
func DefaultProcessConfig(name string) ProcessConfig {
	return ProcessConfig{
		Name:     name,
		Observer: "slog",
	}
}

func (c *ProcessConfig) Merge(source *ProcessConfig) {
	if source.Name != "" {
		c.Name = source.Name
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}

	if source.EmitTraceNil != nil {
		c.EmitTraceNil = source.EmitTraceNil
	}
}
