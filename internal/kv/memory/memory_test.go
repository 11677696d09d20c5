package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New(map[string]string{"a": "1"})

	if v, ok, err := s.Get(ctx, "a"); err != nil || !ok || v != "1" {
		t.Fatalf("unexpected get: v=%q ok=%v err=%v", v, ok, err)
	}
	if _, ok, _ := s.Get(ctx, "missing"); ok {
		t.Fatalf("expected missing key to report ok=false")
	}
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := s.Get(ctx, "a"); v != "2" {
		t.Fatalf("expected overwrite, got %q", v)
	}
}

func TestNewCopiesSeed(t *testing.T) {
	seed := map[string]string{"k": "v"}
	s := New(seed)
	seed["k"] = "changed"
	if v, _, _ := s.Get(context.Background(), "k"); v != "v" {
		t.Fatalf("store must not alias the seed map, got %q", v)
	}
}

func TestNewFromDir(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	mustWrite("numus_objective.json", "\"Guardar\"\n")
	mustWrite("numus_goals.json", "  \n")

	s := NewFromDir(dir, "numus_objective", "numus_goals", "numus_transactions")
	ctx := context.Background()
	if v, ok, _ := s.Get(ctx, "numus_objective"); !ok || v != `"Guardar"` {
		t.Fatalf("unexpected objective seed: %q ok=%v", v, ok)
	}
	for _, k := range []string{"numus_goals", "numus_transactions"} {
		if _, ok, _ := s.Get(ctx, k); ok {
			t.Fatalf("%s should not be seeded", k)
		}
	}
}
