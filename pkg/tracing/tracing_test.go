package tracing

import (
	"context"
	"errors"
	"testing"
)

func TestConnect_CallsFnAndPropagatesResult(t *testing.T) {
	tr := New()

	called := false
	err := tr.Connect(context.Background(), "wss://api.bons.ai/v2/workspaces/w/brains/b/sims/ws", func(ctx context.Context) error {
		called = true
		if ctx == nil {
			t.Fatal("expected non-nil context")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected fn to be called")
	}
}

func TestConnect_PropagatesError(t *testing.T) {
	tr := New()
	wantErr := errors.New("dial refused")

	err := tr.Connect(context.Background(), "wss://api.bons.ai", func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestDriverNext_PropagatesResult(t *testing.T) {
	tr := New()

	err := tr.DriverNext(context.Background(), "AwaitingRegistration", func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSchemaBind_PropagatesError(t *testing.T) {
	tr := New()
	wantErr := errors.New("unregistered reference type")

	err := tr.SchemaBind(context.Background(), "CartPoleState", func(context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestWithTracerName_Overrides(t *testing.T) {
	cfg := Config{TracerName: defaultTracerName}
	WithTracerName("custom")(&cfg)
	if cfg.TracerName != "custom" {
		t.Fatalf("TracerName = %q, want %q", cfg.TracerName, "custom")
	}
}
