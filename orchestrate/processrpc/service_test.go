package processrpc_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/flowstate/eventkernel/orchestrate/process"
	"github.com/flowstate/eventkernel/orchestrate/processrpc"
)

func TestService_Dispatch(t *testing.T) {
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				return process.OutcomeSuccess
			}),
	}
	svc := processrpc.NewService(handlers, nil)

	payload, err := structpb.NewStruct(map[string]any{"amount": 10.0})
	if err != nil {
		t.Fatalf("structpb.NewStruct() error = %v", err)
	}

	resp, err := svc.Dispatch(context.Background(), connect.NewRequest(payload))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	body := resp.Msg.AsMap()
	if body["result"] != string(process.EventSuccess) {
		t.Errorf("result = %v, want %v", body["result"], process.EventSuccess)
	}
	if _, ok := body["trace"]; !ok {
		t.Error("response should include a trace field")
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data field = %T, want map[string]any", body["data"])
	}
	if data["amount"] != 10.0 {
		t.Errorf("data[%q] = %v, want 10.0", "amount", data["amount"])
	}
}

func TestService_Health(t *testing.T) {
	svc := processrpc.NewService(nil, nil)

	resp, err := svc.Health(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if resp.Msg.AsTime().IsZero() {
		t.Error("Health() should return a non-zero timestamp")
	}
}

func TestNewHandler(t *testing.T) {
	svc := processrpc.NewService(nil, nil)
	path, handler := processrpc.NewHandler(svc)

	if path == "" {
		t.Error("NewHandler() should return a non-empty mount path")
	}
	if handler == nil {
		t.Error("NewHandler() should return a non-nil http.Handler")
	}
}
