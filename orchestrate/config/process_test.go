package config_test

import (
	"testing"

	"github.com/flowstate/eventkernel/orchestrate/config"
)

func TestDefaultProcessConfig(t *testing.T) {
	cfg := config.DefaultProcessConfig("orders")

	if cfg.Name != "orders" {
		t.Errorf("Name = %q, want %q", cfg.Name, "orders")
	}
	if cfg.Observer != "slog" {
		t.Errorf("Observer = %q, want %q", cfg.Observer, "slog")
	}
	if !cfg.EmitTrace() {
		t.Error("EmitTrace() should default to true")
	}
}

func TestProcessConfig_EmitTrace(t *testing.T) {
	falseVal := false
	trueVal := true

	tests := []struct {
		name string
		cfg  config.ProcessConfig
		want bool
	}{
		{name: "nil defaults to true", cfg: config.ProcessConfig{}, want: true},
		{name: "explicit false", cfg: config.ProcessConfig{EmitTraceNil: &falseVal}, want: false},
		{name: "explicit true", cfg: config.ProcessConfig{EmitTraceNil: &trueVal}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.EmitTrace(); got != tt.want {
				t.Errorf("EmitTrace() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProcessConfig_Merge(t *testing.T) {
	base := config.DefaultProcessConfig("orders")

	falseVal := false
	override := config.ProcessConfig{
		Observer:     "noop",
		EmitTraceNil: &falseVal,
	}
	base.Merge(&override)

	if base.Name != "orders" {
		t.Errorf("Merge() with an empty Name should not overwrite the base, got %q", base.Name)
	}
	if base.Observer != "noop" {
		t.Errorf("Observer = %q, want %q", base.Observer, "noop")
	}
	if base.EmitTrace() {
		t.Error("Merge() should apply an explicit EmitTraceNil override")
	}
}

func TestProcessConfig_MergeIgnoresZeroValues(t *testing.T) {
	base := config.DefaultProcessConfig("orders")
	base.Merge(&config.ProcessConfig{})

	if base.Name != "orders" || base.Observer != "slog" {
		t.Errorf("Merge() with a zero-value source should leave the base config unchanged, got %+v", base)
	}
}
