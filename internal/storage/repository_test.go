package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "numus.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryGetSet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, ok, err := repo.Get(ctx, "numus_goals"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := repo.Set(ctx, "numus_goals", "[]"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "numus_goals", `[{"id":1}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := repo.Get(ctx, "numus_goals")
	if err != nil || !ok || v != `[{"id":1}]` {
		t.Fatalf("unexpected get: %q ok=%v err=%v", v, ok, err)
	}
	if ver, _ := repo.Version(ctx, "numus_goals"); ver != 2 {
		t.Fatalf("expected version 2, got %d", ver)
	}
	if repo.SchemaVersion() != 1 {
		t.Fatalf("expected schema version 1, got %d", repo.SchemaVersion())
	}
	if err := repo.HealthCheck(ctx); err != nil {
		t.Fatalf("health check: %v", err)
	}
}

func TestRepositoryReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "numus.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Set(ctx, "numus_objective", `"Casa própria"`); err != nil {
		t.Fatalf("set: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if v, ok, _ := repo.Get(ctx, "numus_objective"); !ok || v != `"Casa própria"` {
		t.Fatalf("expected persisted value, got %q ok=%v", v, ok)
	}
}

func TestRepositorySyncTracking(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, k := range []string{"a", "b"} {
		if err := repo.Set(ctx, k, "1"); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}
	pending, err := repo.PendingSync(ctx, 10)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %+v err=%v", pending, err)
	}

	if err := repo.MarkSynced(ctx, "a", 1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	// stale version must not clear a newer write
	if err := repo.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.MarkSynced(ctx, "b", 1); err != nil {
		t.Fatalf("mark synced: %v", err)
	}

	pending, _ = repo.PendingSync(ctx, 10)
	if len(pending) != 1 || pending[0].Key != "b" || pending[0].Version != 2 {
		t.Fatalf("expected only b@2 pending, got %+v", pending)
	}

	if err := repo.MarkSyncError(ctx, "a"); err != nil {
		t.Fatalf("mark error: %v", err)
	}
	pending, _ = repo.PendingSync(ctx, 10)
	if len(pending) != 2 {
		t.Fatalf("errored record should be retried, got %+v", pending)
	}
}
