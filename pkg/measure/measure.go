// Package measure defines the numeric and byte-valued measures the DSM
// engine emits per internal component, and the sinks that persist them.
package measure

import (
	"context"
)

// Metric keys. Directory-level matrices report under the file_* keys and
// sub-project / project matrices under the directory_* keys: the metrics
// describe the granularity of the entangled children, not of the component
// carrying them.
const (
	FileCyclesKey        = "file_cycles"
	FileFeedbackEdgesKey = "file_feedback_edges"
	FileTanglesKey       = "file_tangles"
	FileEdgesWeightKey   = "file_edges_weight"

	DirectoryCyclesKey        = "directory_cycles"
	DirectoryFeedbackEdgesKey = "directory_feedback_edges"
	DirectoryTanglesKey       = "directory_tangles"
	DirectoryEdgesWeightKey   = "directory_edges_weight"

	// DependencyMatrixKey carries the byte-encoded matrix.
	DependencyMatrixKey = "dsm"
)

// Measure is one metric value for one component: either numeric (Value) or
// binary (Data), never both.
type Measure struct {
	MetricKey string  `json:"metric" bson:"metric"`
	Value     float64 `json:"value,omitempty" bson:"value,omitempty"`
	Data      []byte  `json:"data,omitempty" bson:"data,omitempty"`
}

// Numeric builds a numeric measure.
func Numeric(key string, value float64) Measure {
	return Measure{MetricKey: key, Value: value}
}

// Binary builds a byte-valued measure.
func Binary(key string, data []byte) Measure {
	return Measure{MetricKey: key, Data: data}
}

// Sink persists measures keyed by component ref. A traversal appends the
// measures of one component at most once; partial writes are treated as
// fatal by the caller.
type Sink interface {
	Append(ctx context.Context, ref int64, measures ...Measure) error
	Close() error
}
