package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/flowstate/eventkernel/observability"
	"github.com/flowstate/eventkernel/orchestrate/config"
	"github.com/flowstate/eventkernel/orchestrate/process"
)

func main() {
	var (
		eventType = flag.String("event-type", "demo.order", "Event type tag to dispatch")
		observer  = flag.String("observer", "slog", "Observer implementation to use (\"noop\" or \"slog\")")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging to stderr")
		failSome  = flag.Bool("fail", false, "Force the only Configure handler to fail, so Configure fails outright (Execute is skipped, Cleanup still runs)")
	)
	flag.Parse()

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	cfg := config.DefaultProcessConfig("eventengine-demo")
	cfg.Observer = *observer

	obs, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		log.Fatalf("Failed to resolve observer: %v", err)
	}

	handlers := demoHandlers(*failSome)
	event := process.NewEvent(*eventType)
	event.Set("source", "cmd/eventengine")

	ctx := context.Background()
	result, pc, err := process.Dispatch(ctx, event, handlers, obs)
	if err != nil {
		log.Fatalf("Dispatch failed: %v", err)
	}

	fmt.Printf("Result: %s\n", result)
	if cfg.EmitTrace() {
		fmt.Println("Trace:")
		for _, entry := range pc.Trace() {
			if entry.Phase != "" {
				fmt.Printf("  phase=%-10s result=%s\n", entry.Phase, entry.Result)
			} else {
				fmt.Printf("  state=%s\n", entry.State)
			}
		}
	}
}

// demoHandlers builds a small fixed handler set exercising every phase
// and terminal state, in the style of cmd/kernel's registerBuiltinTools.
func demoHandlers(failSome bool) []*process.HandlerEntry {
	handlers := []*process.HandlerEntry{
		process.NewPhaseHandler(process.PhaseValidate, process.PriorityCritical, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				if _, ok := pc.Event().Get("source"); !ok {
					return process.OutcomeFailure
				}
				return process.OutcomeSuccess
			}),
		process.NewPhaseHandler(process.PhaseConfigure, process.PriorityHigh, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				pc.Event().Set("configured", true)
				if failSome {
					return process.OutcomeFailure
				}
				return process.OutcomeSuccess
			}),
		process.NewPhaseHandler(process.PhaseExecute, process.PriorityNormal, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				pc.Event().Set("executed", true)
				return process.OutcomeSuccess
			}),
		process.NewPhaseHandler(process.PhaseCleanup, process.PriorityLow, nil,
			func(ctx context.Context, pc *process.ProcessContext) process.HandlerOutcome {
				pc.Event().Set("cleaned", true)
				return process.OutcomeSuccess
			}),
		process.NewStateHandler(process.StateTagSucceed, process.PriorityNormal, nil,
			func(ctx context.Context, event *process.Event) {
				event.Set("notified", "succeed")
			}),
		process.NewStateHandler(process.StateTagCancelled, process.PriorityNormal, nil,
			func(ctx context.Context, event *process.Event) {
				event.Set("notified", "cancelled")
			}),
		process.NewStateHandler(process.StateTagCompleted, process.PriorityNormal, nil,
			func(ctx context.Context, event *process.Event) {
				event.Set("notified", "completed")
			}),
	}
	return handlers
}
