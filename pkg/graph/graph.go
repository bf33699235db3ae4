package graph

import (
	"slices"
)

// Dependency is a directed weighted edge between two component refs.
// Weight is a non-negative contribution count; parallel dependencies between
// the same ordered pair are merged by summing weights when added to a Graph.
type Dependency struct {
	From   int64 `json:"from" bson:"from"`
	To     int64 `json:"to" bson:"to"`
	Weight int   `json:"weight" bson:"weight"`
}

// adjacency holds the outgoing edges of one vertex. The order slice records
// the first time each target was seen so that Outgoing is reproducible.
type adjacency struct {
	order []int64
	edges map[int64]*Dependency
}

// Graph is a directed multigraph over the finite vertex set observed in a
// collection of dependencies. At most one edge exists per ordered (from, to)
// pair; repeated additions merge by summing weights, never overwriting.
//
// Incoming-edge lookup is deliberately not provided: the DSM algorithms never
// need it, and a silent wrong answer would be worse than a missing method.
//
// The zero value is not usable - use New.
type Graph struct {
	vertices map[int64]struct{}
	outgoing map[int64]*adjacency
	edges    int
}

// New creates an empty dependency graph.
func New() *Graph {
	return &Graph{
		vertices: make(map[int64]struct{}),
		outgoing: make(map[int64]*adjacency),
	}
}

// AddDependency registers dep, merging it into any existing edge between the
// same ordered pair by summing weights. Both endpoints become vertices even
// when the edge is a self-loop; self-loops are stored but never contribute to
// cycle enumeration.
func (g *Graph) AddDependency(dep Dependency) {
	g.vertices[dep.From] = struct{}{}
	g.vertices[dep.To] = struct{}{}

	adj := g.outgoing[dep.From]
	if adj == nil {
		adj = &adjacency{edges: make(map[int64]*Dependency)}
		g.outgoing[dep.From] = adj
	}
	if existing := adj.edges[dep.To]; existing != nil {
		existing.Weight += dep.Weight
		return
	}
	adj.order = append(adj.order, dep.To)
	adj.edges[dep.To] = &Dependency{From: dep.From, To: dep.To, Weight: dep.Weight}
	g.edges++
}

// Vertices returns all vertex refs in ascending order.
func (g *Graph) Vertices() []int64 {
	refs := make([]int64, 0, len(g.vertices))
	for ref := range g.vertices {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs
}

// VertexCount returns the number of distinct vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct ordered (from, to) pairs.
func (g *Graph) EdgeCount() int { return g.edges }

// Outgoing returns the edges leaving from, in first-insertion order.
// The result is empty (never an error) for vertices with no outgoing edges
// or for unknown vertices. The returned dependencies are the graph's own;
// callers must not mutate them.
func (g *Graph) Outgoing(from int64) []*Dependency {
	adj := g.outgoing[from]
	if adj == nil {
		return nil
	}
	deps := make([]*Dependency, len(adj.order))
	for i, to := range adj.order {
		deps[i] = adj.edges[to]
	}
	return deps
}

// Edge returns the single merged edge between from and to, or false when the
// pair is absent.
func (g *Graph) Edge(from, to int64) (*Dependency, bool) {
	adj := g.outgoing[from]
	if adj == nil {
		return nil, false
	}
	dep, ok := adj.edges[to]
	return dep, ok
}

// TotalWeight returns the sum of all edge weights in the graph. This is the
// edges_weight measure for the aggregation node owning the graph.
func (g *Graph) TotalWeight() int {
	total := 0
	for _, adj := range g.outgoing {
		for _, dep := range adj.edges {
			total += dep.Weight
		}
	}
	return total
}
