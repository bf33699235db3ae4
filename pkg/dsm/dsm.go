package dsm

import (
	"errors"
	"slices"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// ErrCyclicOrder is returned by [Matrix.Sort] when a cycle survives feedback
// edge exclusion. It indicates a defect in the cycle enumerator or the
// feedback solver, never a property of the input.
var ErrCyclicOrder = errors.New("dsm: residual cycle after feedback edge exclusion")

// Matrix is a design structure matrix over one node's dependency graph.
// Rows and columns share a single vertex order; cell (row, col) holds the
// weight of the edge vertices[col] → vertices[row], so after sorting, forward
// dependencies sit below the diagonal and feedback edges above it.
type Matrix struct {
	g        *graph.Graph
	feedback *graph.FeedbackEdgeSet
	vertices []int64
}

// New creates a matrix for g with fb marking the feedback edge set. Feedback
// edges stay in the graph - the matrix must still display them - they are
// only ignored when deriving the vertex order. The initial order is ascending
// ref, the deterministic starting point for [Matrix.Sort].
func New(g *graph.Graph, fb *graph.FeedbackEdgeSet) *Matrix {
	return &Matrix{g: g, feedback: fb, vertices: g.Vertices()}
}

// Vertices returns the current vertex order. The returned slice is the
// matrix's own; callers must not mutate it.
func (m *Matrix) Vertices() []int64 { return m.vertices }

// Size returns the matrix dimension.
func (m *Matrix) Size() int { return len(m.vertices) }

// Cell returns the weight of the edge vertices[col] → vertices[row] and
// whether that edge is a feedback edge. ok is false when no edge exists or
// either index is out of range.
func (m *Matrix) Cell(row, col int) (weight int, feedback, ok bool) {
	if row < 0 || col < 0 || row >= len(m.vertices) || col >= len(m.vertices) {
		return 0, false, false
	}
	from, to := m.vertices[col], m.vertices[row]
	dep, ok := m.g.Edge(from, to)
	if !ok {
		return 0, false, false
	}
	return dep.Weight, m.feedback.Contains(from, to), true
}

// Sort reorders the vertices so that, ignoring feedback edges, every edge
// points from a lower index to a higher index. Kahn's algorithm with the
// smallest-ref vertex picked at every step keeps the order total and
// reproducible. Returns [ErrCyclicOrder] when the residual graph is not
// acyclic.
func (m *Matrix) Sort() error {
	indegree := make(map[int64]int, len(m.vertices))
	for _, v := range m.vertices {
		indegree[v] = 0
	}
	for _, v := range m.vertices {
		for _, dep := range m.g.Outgoing(v) {
			if dep.To == dep.From || m.feedback.Contains(dep.From, dep.To) {
				continue
			}
			indegree[dep.To]++
		}
	}

	ready := make([]int64, 0, len(m.vertices))
	for _, v := range m.vertices {
		if indegree[v] == 0 {
			ready = append(ready, v)
		}
	}
	slices.Sort(ready)

	order := make([]int64, 0, len(m.vertices))
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)

		released := false
		for _, dep := range m.g.Outgoing(v) {
			if dep.To == dep.From || m.feedback.Contains(dep.From, dep.To) {
				continue
			}
			indegree[dep.To]--
			if indegree[dep.To] == 0 {
				ready = append(ready, dep.To)
				released = true
			}
		}
		if released {
			slices.Sort(ready)
		}
	}

	if len(order) != len(m.vertices) {
		return ErrCyclicOrder
	}
	m.vertices = order
	return nil
}
