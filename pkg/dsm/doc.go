// Package dsm builds the dependency structure matrix for one aggregation
// node: an ordered permutation of the node's vertices plus the sparse set of
// non-zero cells, with feedback edges flagged so they surface above the
// diagonal after sorting.
//
// The arranger is a plain topological sort on the graph with feedback edges
// excluded. Ties are broken by smallest component ref, so the resulting order
// is reproducible. A residual cycle after exclusion means the solver or the
// enumerator is broken; [Matrix.Sort] fails loudly instead of persisting a
// wrong matrix.
package dsm
