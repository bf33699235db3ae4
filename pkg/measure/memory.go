package measure

import (
	"context"
	"slices"
	"sync"
)

// MemorySink collects measures in memory. It doubles as the read model for
// the browse TUI and the HTTP API in single-shot runs.
type MemorySink struct {
	mu    sync.RWMutex
	byRef map[int64][]Measure
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{byRef: make(map[int64][]Measure)}
}

// Append stores measures under ref.
func (s *MemorySink) Append(ctx context.Context, ref int64, measures ...Measure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRef[ref] = append(s.byRef[ref], measures...)
	return nil
}

// ByRef returns the measures stored for ref in append order, or nil.
func (s *MemorySink) ByRef(ref int64) []Measure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byRef[ref])
}

// Refs returns all refs with at least one measure, ascending.
func (s *MemorySink) Refs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]int64, 0, len(s.byRef))
	for ref := range s.byRef {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}

// Find returns the measure with the given metric key for ref, if present.
func (s *MemorySink) Find(ref int64, metricKey string) (Measure, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.byRef[ref] {
		if m.MetricKey == metricKey {
			return m, true
		}
	}
	return Measure{}, false
}

// Close does nothing for the memory sink.
func (s *MemorySink) Close() error { return nil }

var _ Sink = (*MemorySink)(nil)
