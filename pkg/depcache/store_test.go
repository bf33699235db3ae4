package depcache

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

func collect(t *testing.T, s Store, ref int64) []graph.Dependency {
	t.Helper()
	var deps []graph.Dependency
	err := s.Iterate(context.Background(), ref, func(dep graph.Dependency) error {
		deps = append(deps, dep)
		return nil
	})
	require.NoError(t, err)
	return deps
}

func TestMemoryStore_AppendOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, 1, graph.Dependency{From: 1, To: 2, Weight: 3}))
	require.NoError(t, s.Append(ctx, 1,
		graph.Dependency{From: 1, To: 3, Weight: 1},
		graph.Dependency{From: 1, To: 2, Weight: 4},
	))

	deps := collect(t, s, 1)
	require.Len(t, deps, 3)
	// Streams are raw: duplicates are not merged here, only in the graph.
	assert.Equal(t, graph.Dependency{From: 1, To: 2, Weight: 3}, deps[0])
	assert.Equal(t, graph.Dependency{From: 1, To: 3, Weight: 1}, deps[1])
	assert.Equal(t, graph.Dependency{From: 1, To: 2, Weight: 4}, deps[2])
}

func TestMemoryStore_UnknownRefIsEmpty(t *testing.T) {
	s := NewMemoryStore()

	assert.Empty(t, collect(t, s, 42))
}

func TestMemoryStore_Closed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Close())

	err := s.Append(ctx, 1, graph.Dependency{From: 1, To: 2, Weight: 1})
	assert.ErrorIs(t, err, ErrClosed)
	err = s.Iterate(ctx, 1, func(graph.Dependency) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_IterateStopsOnCallbackError(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, 1,
		graph.Dependency{From: 1, To: 2, Weight: 1},
		graph.Dependency{From: 1, To: 3, Weight: 1},
	))

	boom := errors.New("boom")
	calls := 0
	err := s.Iterate(ctx, 1, func(graph.Dependency) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestFileStore_RoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, 7, graph.Dependency{From: 7, To: 8, Weight: 2}))
	require.NoError(t, s.Append(ctx, 7, graph.Dependency{From: 7, To: 9, Weight: 1}))
	require.NoError(t, s.Append(ctx, 8, graph.Dependency{From: 8, To: 7, Weight: 5}))

	deps := collect(t, s, 7)
	require.Len(t, deps, 2)
	assert.Equal(t, int64(8), deps[0].To)
	assert.Equal(t, int64(9), deps[1].To)

	other := collect(t, s, 8)
	require.Len(t, other, 1)
	assert.Equal(t, 5, other[0].Weight)
}

func TestFileStore_MissingStreamIsEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, collect(t, s, 123))
}

func TestFileStore_HashedLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, 1, graph.Dependency{From: 1, To: 2, Weight: 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].IsDir())
	assert.Len(t, entries[0].Name(), 2)
}
