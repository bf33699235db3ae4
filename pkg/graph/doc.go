// Package graph provides the weighted directed dependency graph used by the
// DSM computation, together with elementary cycle enumeration and the greedy
// minimum feedback edge set solver.
//
// # Overview
//
// Vertices are plain int64 component refs; they carry no payload beyond
// identity. Edges are [Dependency] values merged per ordered (from, to) pair:
// adding the same pair twice sums the weights. The graph is built once per
// aggregation node, consumed by [EnumerateCycles] and [SolveFeedbackEdgeSet],
// and discarded.
//
// # Determinism
//
// All exported operations produce deterministic output for identical input:
// [Graph.Vertices] is sorted ascending, [Graph.Outgoing] preserves first
// insertion order, cycle enumeration canonicalizes rotations and sorts the
// result, and the feedback solver breaks every tie by an explicit rule.
// Reproducible output across runs is a contract, not an accident.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Each aggregation step owns
// its graph exclusively, so no synchronization is needed.
package graph
