package depcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// FileStore keeps one JSON-lines file per component ref under a base
// directory, hashed into subdirectories to avoid one huge flat dir.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's base directory.
func (s *FileStore) Dir() string { return s.dir }

// path converts a component ref to a stream file path.
// Uses the first 2 hash chars as a subdirectory for distribution.
func (s *FileStore) path(ref int64) string {
	hash := refHash(ref)
	return filepath.Join(s.dir, hash[:2], hash[2:]+".jsonl")
}

// Append writes deps to the stream file owned by ref, one JSON document per
// line, in append mode.
func (s *FileStore) Append(ctx context.Context, ref int64, deps ...graph.Dependency) error {
	if len(deps) == 0 {
		return nil
	}
	path := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, dep := range deps {
		if err := enc.Encode(dep); err != nil {
			f.Close()
			return fmt.Errorf("append stream %d: %w", ref, err)
		}
	}
	return f.Close()
}

// Iterate streams the file owned by ref in write order. A missing file is an
// empty stream.
func (s *FileStore) Iterate(ctx context.Context, ref int64, fn func(graph.Dependency) error) error {
	f, err := os.Open(s.path(ref))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	for {
		var dep graph.Dependency
		if err := dec.Decode(&dep); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read stream %d: %w", ref, err)
		}
		if err := fn(dep); err != nil {
			return err
		}
	}
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
