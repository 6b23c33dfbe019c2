// Package config provides configuration structures for orchestration components.
//
// This package defines configuration types for the event processing
// engine in orchestrate/process, establishing sensible defaults while
// allowing customization for different deployment scenarios.
//
// # Process Configuration
//
// ProcessConfig defines settings for an engine instance:
//
//	cfg := config.ProcessConfig{
//	    Name:     "order-events",
//	    Observer: "slog",
//	}
//
// # Default Configuration
//
// The package provides defaults for common scenarios:
//
//	cfg := config.DefaultProcessConfig("order-events")
//	// Observer: "slog"
//	// EmitTrace: true
//
// # Design Principles
//
//   - Configuration only exists during initialization
//   - Does not persist into runtime components (Observer is resolved
//     once, via the observability registry, into an observability.Observer)
//   - No circular dependencies with domain packages
//
// # Configuration Merging
//
// Configuration types support a Merge pattern:
//
//	cfg := config.DefaultProcessConfig("order-events")
//	var loaded config.ProcessConfig
//	json.Unmarshal(data, &loaded)
//	cfg.Merge(&loaded)
//
// Merge semantics by field type:
//
//   - Strings: Merge if source is non-empty
//   - Pointers: Merge if source is non-nil
//
// # Boolean Fields with Non-False Defaults
//
// For boolean fields where the default is true (e.g., ProcessConfig.EmitTrace),
// a pointer type (*bool) is used with an accessor method to distinguish between:
//
//   - nil: Field not specified, accessor returns default value
//   - &false: Explicitly set to false, accessor returns false
//   - &true: Explicitly set to true, accessor returns true
//
// The convention is to name the field with a "Nil" suffix (e.g., EmitTraceNil)
// and provide an accessor method with the original name (e.g., EmitTrace()):
//
//	type ProcessConfig struct {
//	    EmitTraceNil *bool `json:"emit_trace,omitempty"`
//	}
//
//	func (c ProcessConfig) EmitTrace() bool {
//	    if c.EmitTraceNil == nil {
//	        return true  // default
//	    }
//	    return *c.EmitTraceNil
//	}
//
// This prevents unintended behavior when unmarshaling partial JSON configs,
// where unspecified boolean fields would otherwise unmarshal to false and
// incorrectly override a true default.
package config
