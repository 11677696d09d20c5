package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func New(seed map[string]string) *Store {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Store{values: values}
}

// NewFromDir seeds the store from <key>.json files in base. Missing or
// unreadable files are skipped.
func NewFromDir(base string, keys ...string) *Store {
	seed := make(map[string]string)
	for _, key := range keys {
		b, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		if v := strings.TrimSpace(string(b)); v != "" {
			seed[key] = v
		}
	}
	return New(seed)
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) HealthCheck(context.Context) error { return nil }
