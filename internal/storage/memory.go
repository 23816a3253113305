package storage

import (
	"context"
	"sync"

	"finanzas/internal/core"
)

// MemoryStore keeps the snapshot in process memory. It backs tests and the
// default zero-configuration deployment.
type MemoryStore struct {
	mu   sync.Mutex
	snap core.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
