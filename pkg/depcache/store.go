// Package depcache persists the intermediate per-component dependency
// streams the aggregation produces while walking the tree. Each component ref
// owns one append-only logical stream; a parent reads its children's streams
// before building its own graph.
//
// Backends:
//   - memory: process-local, used by tests and single-shot CLI runs
//   - file: JSON-lines per ref in hashed subdirectories, survives the process
//   - redis: one list per ref, for runs sharing a cache across workers
package depcache

import (
	"context"
	"errors"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// ErrClosed is returned by operations on a store that was already closed.
var ErrClosed = errors.New("depcache: store closed")

// Store is the per-component dependency stream. Append adds edges to the
// stream owned by ref; Iterate replays the stream in append order. Streams
// are append-only; nothing in the engine rewrites one.
type Store interface {
	Append(ctx context.Context, ref int64, deps ...graph.Dependency) error
	Iterate(ctx context.Context, ref int64, fn func(graph.Dependency) error) error
	Close() error
}
