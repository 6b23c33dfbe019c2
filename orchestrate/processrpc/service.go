package processrpc

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/flowstate/eventkernel/observability"
	"github.com/flowstate/eventkernel/orchestrate/process"
)

// Procedure paths, following connect-go's generated-code convention of
// "/<package>.<Service>/<Method>".
const (
	ProcedureDispatch = "/eventengine.v1.EventEngine/Dispatch"
	ProcedureHealth   = "/eventengine.v1.EventEngine/Health"
)

// Service wraps process.Dispatch behind a Connect RPC surface. One
// Service handles many requests; each Dispatch call constructs a fresh
// ProcessContext, matching the core's single-threaded, per-event
// ownership contract.
type Service struct {
	handlers []*process.HandlerEntry
	observer observability.Observer
}

// NewService builds a Service bound to a fixed, ordered handler list —
// the same list any direct process.Dispatch caller would build — and an
// observer resolved by the caller (typically via the observability
// registry from a config.ProcessConfig).
func NewService(handlers []*process.HandlerEntry, observer observability.Observer) *Service {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &Service{handlers: handlers, observer: observer}
}

// Dispatch accepts a request payload as a structpb.Struct, dispatches it
// as a process.Event, and returns the resulting EventProcessResult, the
// event's final data bag, and the execution trace — each a structpb
// field rather than a hand-generated message type.
func (s *Service) Dispatch(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	eventType := "rpc.event"
	if t := req.Header().Get("X-Event-Type"); t != "" {
		eventType = t
	}

	event := eventFromStruct(eventType, req.Msg)
	result, pc, err := process.Dispatch(ctx, event, s.handlers, s.observer)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	trace, err := traceToStruct(pc.Trace())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	data, err := eventDataToStruct(event)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	body, err := structpb.NewStruct(map[string]any{
		"result": string(result),
		"trace":  trace.AsMap(),
		"data":   data.AsMap(),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(body), nil
}

// Health is a liveness probe exercising emptypb.Empty as a request type
// and timestamppb.Timestamp as a response type, alongside Dispatch's use
// of structpb.Struct.
func (s *Service) Health(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[timestamppb.Timestamp], error) {
	return connect.NewResponse(timestamppb.New(time.Now())), nil
}

// NewHandler builds the http.Handler mux entries for this Service,
// mirroring the (path, handler) pair shape connect-generated
// "New<Service>Handler" constructors return.
func NewHandler(svc *Service, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(ProcedureDispatch, connect.NewUnaryHandler(ProcedureDispatch, svc.Dispatch, opts...))
	mux.Handle(ProcedureHealth, connect.NewUnaryHandler(ProcedureHealth, svc.Health, opts...))
	return "/", mux
}
