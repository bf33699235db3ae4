package depcache

import (
	"context"
	"sync"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// MemoryStore keeps every stream in process memory. Useful for tests and
// single-shot CLI runs where nothing needs to outlive the traversal.
type MemoryStore struct {
	mu      sync.Mutex
	streams map[int64][]graph.Dependency
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{streams: make(map[int64][]graph.Dependency)}
}

// Append adds deps to the stream owned by ref.
func (s *MemoryStore) Append(ctx context.Context, ref int64, deps ...graph.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.streams[ref] = append(s.streams[ref], deps...)
	return nil
}

// Iterate replays the stream owned by ref in append order. An unknown ref is
// an empty stream.
func (s *MemoryStore) Iterate(ctx context.Context, ref int64, fn func(graph.Dependency) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	stream := make([]graph.Dependency, len(s.streams[ref]))
	copy(stream, s.streams[ref])
	s.mu.Unlock()

	for _, dep := range stream {
		if err := fn(dep); err != nil {
			return err
		}
	}
	return nil
}

// Close marks the store closed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

var _ Store = (*MemoryStore)(nil)
