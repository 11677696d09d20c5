package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"numus/internal/amqp"
	"numus/internal/kv/memory"
	"numus/internal/storage"
)

func newSource(t *testing.T) *storage.SQLiteRepository {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "numus.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

type failingTarget struct{ fail map[string]bool }

func (f *failingTarget) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (f *failingTarget) Set(_ context.Context, key, _ string) error {
	if f.fail[key] {
		return errors.New("quota exceeded")
	}
	return nil
}

func TestDefaultConfig(t *testing.T) {
	m := NewMirror(nil, nil, Config{}, nil)
	if m.config.PollInterval != 30*time.Second || m.config.BatchSize != 10 || m.config.Concurrency != 3 {
		t.Fatalf("unexpected defaults %+v", m.config)
	}
}

func TestSyncPendingCopiesRecords(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	target := memory.New(nil)
	if err := src.Set(ctx, "numus_transactions", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := src.Set(ctx, "numus_objective", "Viajar"); err != nil {
		t.Fatalf("set: %v", err)
	}

	m := NewMirror(src, target, Config{BatchSize: 10}, nil)
	n, err := m.SyncPending(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 records mirrored, got %d", n)
	}
	if v, ok, _ := target.Get(ctx, "numus_objective"); !ok || v != "Viajar" {
		t.Fatalf("objective not mirrored: %q %v", v, ok)
	}

	pending, err := src.PendingSync(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected nothing pending, got %+v", pending)
	}

	if n, _ := m.SyncPending(ctx); n != 0 {
		t.Fatalf("second sweep should be empty, got %d", n)
	}
}

func TestSyncPendingFlagsFailures(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	_ = src.Set(ctx, "numus_goals", "[]")
	_ = src.Set(ctx, "numus_objective", "x")

	m := NewMirror(src, &failingTarget{fail: map[string]bool{"numus_goals": true}}, Config{}, nil)
	n, err := m.SyncPending(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 record mirrored, got %d", n)
	}
	pending, _ := src.PendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].Key != "numus_goals" {
		t.Fatalf("failed record should stay pending, got %+v", pending)
	}
}

func TestHandleRecordChanged(t *testing.T) {
	ctx := context.Background()
	src := newSource(t)
	target := memory.New(nil)
	_ = src.Set(ctx, "numus_objective", "v1")
	_ = src.Set(ctx, "numus_objective", "v2")

	m := NewMirror(src, target, Config{}, nil)
	// stale notification still copies the current value
	if err := m.HandleRecordChanged(ctx, amqp.NewRecordChangedMessage("numus_objective", 1)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if v, _, _ := target.Get(ctx, "numus_objective"); v != "v2" {
		t.Fatalf("expected latest value, got %q", v)
	}
	if err := m.HandleRecordChanged(ctx, &amqp.RecordChangedMessage{}); err == nil {
		t.Fatalf("expected error for message without key")
	}
}

func TestMirrorStartStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMirror(newSource(t), memory.New(nil), Config{PollInterval: 10 * time.Millisecond}, nil)

	if m.IsRunning() {
		t.Fatalf("mirror should not be running initially")
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Start(ctx); err == nil {
		t.Fatalf("expected error when starting twice")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	if err := m.Stop(stopCtx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if m.IsRunning() {
		t.Fatalf("mirror should not be running after stop")
	}
	if err := m.Stop(stopCtx); err != nil {
		t.Fatalf("stop on stopped mirror should be a no-op, got %v", err)
	}
}
