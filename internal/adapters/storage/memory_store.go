package storage

import (
	"context"
	"maps"
	"sync"
)

// MemoryStore is an in-process KeyValueStore for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value for key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok, nil
}

// SetMany writes all entries under one lock.
func (s *MemoryStore) SetMany(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maps.Copy(s.values, entries)

	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// Name implements ports.HealthChecker.
func (s *MemoryStore) Name() string { return HealthCheckName }

// Check implements ports.HealthChecker.
func (s *MemoryStore) Check(ctx context.Context) error { return ctx.Err() }
