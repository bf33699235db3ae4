package measure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// fileEntry is one JSON line in a measures file.
type fileEntry struct {
	Ref int64 `json:"ref"`
	Measure
}

// FileSink appends measures to a single JSON-lines file, one document per
// measure. Byte values are base64 (standard encoding/json []byte handling).
type FileSink struct {
	f   *os.File
	enc *json.Encoder
}

// NewFileSink creates or truncates the measures file at path.
func NewFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create measures file %s: %w", path, err)
	}
	return &FileSink{f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes measures for ref, one line each.
func (s *FileSink) Append(ctx context.Context, ref int64, measures ...Measure) error {
	for _, m := range measures {
		if err := s.enc.Encode(fileEntry{Ref: ref, Measure: m}); err != nil {
			return fmt.Errorf("write measure %s for %d: %w", m.MetricKey, ref, err)
		}
	}
	return nil
}

// Close flushes and closes the file.
func (s *FileSink) Close() error { return s.f.Close() }

var _ Sink = (*FileSink)(nil)

// ReadFile loads a measures file written by FileSink into a MemorySink,
// which the serve command uses to answer API queries offline.
func ReadFile(path string) (*MemorySink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open measures file %s: %w", path, err)
	}
	defer f.Close()

	sink := NewMemorySink()
	dec := json.NewDecoder(f)
	for dec.More() {
		var entry fileEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("parse measures file %s: %w", path, err)
		}
		if err := sink.Append(context.Background(), entry.Ref, entry.Measure); err != nil {
			return nil, err
		}
	}
	return sink, nil
}
