package graph

import (
	"fmt"
	"slices"
	"strings"
)

// Cycle is an elementary cycle: an ordered vertex sequence v0 → v1 → ... → v0
// visiting no vertex twice except the implied closing step. Cycles are stored
// in canonical rotation (smallest ref first) so that identity is invariant to
// the starting vertex.
type Cycle struct {
	Vertices []int64
}

// Len returns the number of edges (equivalently vertices) in the cycle.
func (c Cycle) Len() int { return len(c.Vertices) }

// Contains reports whether the cycle traverses the edge from → to.
func (c Cycle) Contains(from, to int64) bool {
	for i, v := range c.Vertices {
		if v == from && c.Vertices[(i+1)%len(c.Vertices)] == to {
			return true
		}
	}
	return false
}

// Signature returns a stable textual identity for the cycle, used for
// deduplication and deterministic ordering.
func (c Cycle) Signature() string {
	var b strings.Builder
	for i, v := range c.Vertices {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", v)
	}
	return b.String()
}

// canonical rotates vertices so the smallest ref comes first. Vertices in an
// elementary cycle are distinct, so the minimum is unique.
func canonical(vertices []int64) []int64 {
	min := 0
	for i, v := range vertices {
		if v < vertices[min] {
			min = i
		}
	}
	rotated := make([]int64, 0, len(vertices))
	rotated = append(rotated, vertices[min:]...)
	rotated = append(rotated, vertices[:min]...)
	return rotated
}

// EnumerateCycles finds all elementary cycles in g.
//
// Vertices are added one at a time (in ascending ref order) to a working
// subgraph; after each addition a depth-first search restricted to the
// already-added set derives the cycles closed by the new vertex. Every
// elementary cycle is discovered exactly once - when its highest vertex is
// added - so the result is identical to a one-pass enumeration on the final
// graph. Self-loops never count as a cycle.
//
// The result is sorted by descending length, ties by signature, which is the
// order the feedback solver consumes.
//
// Enumeration is worst-case exponential in graph density; callers bound the
// vertex count before invoking it.
func EnumerateCycles(g *Graph) []Cycle {
	added := make(map[int64]bool, g.VertexCount())
	seen := make(map[string]struct{})
	var cycles []Cycle

	for _, root := range g.Vertices() {
		added[root] = true
		path := []int64{root}
		onPath := map[int64]bool{root: true}

		var visit func(cur int64)
		visit = func(cur int64) {
			for _, dep := range g.Outgoing(cur) {
				next := dep.To
				if next == cur || !added[next] {
					continue
				}
				if next == root {
					record(canonical(slices.Clone(path)), seen, &cycles)
					continue
				}
				if onPath[next] {
					continue
				}
				onPath[next] = true
				path = append(path, next)
				visit(next)
				path = path[:len(path)-1]
				delete(onPath, next)
			}
		}
		visit(root)
	}

	slices.SortFunc(cycles, func(a, b Cycle) int {
		if a.Len() != b.Len() {
			return b.Len() - a.Len()
		}
		return strings.Compare(a.Signature(), b.Signature())
	})
	return cycles
}

// record stores a canonical cycle unless an identical rotation was already
// collected.
func record(vertices []int64, seen map[string]struct{}, cycles *[]Cycle) {
	c := Cycle{Vertices: vertices}
	sig := c.Signature()
	if _, dup := seen[sig]; dup {
		return
	}
	seen[sig] = struct{}{}
	*cycles = append(*cycles, c)
}
