// Package processrpc exposes orchestrate/process over a Connect RPC
// transport: a caller submits an event's data bag as a structpb.Struct
// and gets back the EventProcessResult and execution trace, also as a
// structpb.Struct. This is ambient transport around the core, built the
// same way cmd/kernel constructs a runtime per process — here a
// ProcessContext is constructed per request instead.
package processrpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/flowstate/eventkernel/orchestrate/process"
)

// eventFromStruct builds an Event from a request payload: every top-level
// field of data becomes a key in the Event's data bag.
func eventFromStruct(eventType string, data *structpb.Struct) *process.Event {
	event := process.NewEvent(eventType)
	if data == nil {
		return event
	}
	for key, value := range data.AsMap() {
		event.Set(key, value)
	}
	return event
}

// traceToStruct renders a process trace as a structpb.Struct suitable for
// embedding in a DispatchResponse: a "steps" list, in execution order, of
// {phase, result} entries for phases and {state} entries for states.
func traceToStruct(trace []process.TraceEntry) (*structpb.Struct, error) {
	steps := make([]any, 0, len(trace))
	for _, entry := range trace {
		step := map[string]any{}
		if entry.Phase != "" {
			step["phase"] = string(entry.Phase)
			step["result"] = string(entry.Result)
		} else {
			step["state"] = string(entry.State)
		}
		steps = append(steps, step)
	}
	return structpb.NewStruct(map[string]any{"steps": steps})
}

// eventDataToStruct renders an Event's current data bag as a
// structpb.Struct, for returning the post-dispatch state to the caller.
func eventDataToStruct(event *process.Event) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(event.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("processrpc: converting event data to struct: %w", err)
	}
	return s, nil
}
