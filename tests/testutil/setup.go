// Package testutil provides shared fixtures for crmcore tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/user/crmcore/internal/engine"
	"github.com/user/crmcore/internal/registry"
	"github.com/user/crmcore/internal/scope"
	"github.com/user/crmcore/internal/storage"
)

// SilentLogger discards all output; tests inject it so transformer and
// search warnings do not pollute test logs.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OpenAdapter creates a temp-file database with the default schema
// bootstrapped. Cleanup is automatic.
func OpenAdapter(t *testing.T, opts storage.Options) *storage.Adapter {
	t.Helper()

	path := filepath.Join(t.TempDir(), "crmcore-test.db")
	adapter, err := storage.Open(path, opts, SilentLogger())
	if err != nil {
		t.Fatalf("failed to open adapter: %v", err)
	}
	t.Cleanup(func() { adapter.Close() })

	if err := adapter.Bootstrap(context.Background(), registry.Default()); err != nil {
		t.Fatalf("failed to bootstrap schema: %v", err)
	}
	return adapter
}

// NewEngine builds an engine over a fresh adapter with a stepping clock
// so consecutive writes get strictly increasing timestamps.
func NewEngine(t *testing.T, opts ...engine.Option) (*engine.Engine, *storage.Adapter) {
	t.Helper()

	adapter := OpenAdapter(t, storage.Options{})
	base := []engine.Option{engine.WithClock(SteppingClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))}
	eng := engine.New(adapter, registry.Default(), SilentLogger(), append(base, opts...)...)
	return eng, adapter
}

// SteppingClock returns a clock that advances one second per call,
// starting at base.
func SteppingClock(base time.Time) func() time.Time {
	var mu sync.Mutex
	calls := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := base.Add(time.Duration(calls) * time.Second)
		calls++
		return t
	}
}

// Scope builds a scope for a test tenant.
func Scope(t *testing.T, tenant string) scope.Scope {
	t.Helper()
	sc, err := scope.New(tenant)
	if err != nil {
		t.Fatalf("failed to build scope: %v", err)
	}
	return sc
}
