// Package pkg provides the core libraries for DSM computation.
//
// # Overview
//
// dsm aggregates file-level dependency edges bottom-up through a component
// tree and derives, for every directory and sub-project, a dependency
// structure matrix plus circular-dependency metrics. The pkg directory is
// organized by stage:
//
//  1. [report] - the analysis report: component tree and raw file edges
//  2. [depcache] - intermediate per-component edge streams (memory, file, redis)
//  3. [graph] - weighted digraph, cycle enumeration, feedback edge solver
//  4. [dsm] - matrix arrangement and serialization
//  5. [measure] - emitted metrics and their sinks (memory, file, mongo)
//  6. [compute] - the traversal driving 1-5
//  7. [render] - Graphviz drawing of one node's graph
//
// # Data flow
//
// The typical flow through one analysis:
//
//	report (tree + raw edges)
//	         ↓
//	compute: walk bottom-up, files forward edges into depcache
//	         ↓
//	graph: merge child streams, enumerate cycles, solve feedback set
//	         ↓
//	dsm: arrange vertices, extract sparse cells
//	         ↓
//	measure: persist matrix + cycle/feedback/tangle/weight metrics
package pkg
