package graph

import (
	"testing"
)

func weightedGraph(edges ...Dependency) *Graph {
	g := New()
	for _, dep := range edges {
		g.AddDependency(dep)
	}
	return g
}

func TestSolveFeedbackEdgeSet_NoCycles(t *testing.T) {
	g := buildGraph([2]int64{1, 2}, [2]int64{2, 3})

	set := SolveFeedbackEdgeSet(g, nil)
	if set.Size() != 0 {
		t.Errorf("Size() = %d, want 0", set.Size())
	}
	if set.Weight() != 0 {
		t.Errorf("Weight() = %d, want 0", set.Weight())
	}
}

func TestSolveFeedbackEdgeSet_UnitTriangle(t *testing.T) {
	g := buildGraph([2]int64{1, 2}, [2]int64{2, 3}, [2]int64{3, 1})
	cycles := EnumerateCycles(g)

	set := SolveFeedbackEdgeSet(g, cycles)
	if set.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", set.Size())
	}
	// All weights tie at 1; (1, 2) is the smallest (from, to) pair.
	if !set.Contains(1, 2) {
		t.Errorf("selected edges = %v, want (1, 2)", set.Edges())
	}
	if set.Weight() != 1 {
		t.Errorf("Weight() = %d, want 1 (cheapest edge of the one cycle)", set.Weight())
	}
}

func TestSolveFeedbackEdgeSet_PrefersLightestEdge(t *testing.T) {
	g := weightedGraph(
		Dependency{From: 1, To: 2, Weight: 5},
		Dependency{From: 2, To: 3, Weight: 2},
		Dependency{From: 3, To: 1, Weight: 9},
	)
	cycles := EnumerateCycles(g)

	set := SolveFeedbackEdgeSet(g, cycles)
	if !set.Contains(2, 3) {
		t.Errorf("selected edges = %v, want (2, 3) with weight 2", set.Edges())
	}
	if set.Weight() != 2 {
		t.Errorf("Weight() = %d, want 2", set.Weight())
	}
}

func TestSolveFeedbackEdgeSet_SharedEdgeResolvesBoth(t *testing.T) {
	// Both cycles traverse 2→1, so one pick must neutralize both.
	g := weightedGraph(
		Dependency{From: 1, To: 2, Weight: 1},
		Dependency{From: 2, To: 1, Weight: 1},
		Dependency{From: 2, To: 3, Weight: 1},
		Dependency{From: 3, To: 2, Weight: 1},
		Dependency{From: 1, To: 3, Weight: 1},
		Dependency{From: 3, To: 1, Weight: 1},
	)
	cycles := EnumerateCycles(g)

	set := SolveFeedbackEdgeSet(g, cycles)
	residual := New()
	for _, v := range g.Vertices() {
		for _, dep := range g.Outgoing(v) {
			if !set.Contains(dep.From, dep.To) {
				residual.AddDependency(*dep)
			}
		}
	}
	if remaining := EnumerateCycles(residual); len(remaining) != 0 {
		t.Errorf("removal left %d cycles, want 0", len(remaining))
	}
}

func TestSolveFeedbackEdgeSet_TangleWeightCountsEachCycleOnce(t *testing.T) {
	// Two 2-cycles with distinct minimum edge weights.
	g := weightedGraph(
		Dependency{From: 1, To: 2, Weight: 4},
		Dependency{From: 2, To: 1, Weight: 3},
		Dependency{From: 3, To: 4, Weight: 7},
		Dependency{From: 4, To: 3, Weight: 5},
	)
	cycles := EnumerateCycles(g)

	set := SolveFeedbackEdgeSet(g, cycles)
	if set.Weight() != 8 {
		t.Errorf("Weight() = %d, want 8 (3 + 5)", set.Weight())
	}
}

func TestSolveFeedbackEdgeSet_Deterministic(t *testing.T) {
	edges := []Dependency{
		{From: 1, To: 2, Weight: 1},
		{From: 2, To: 3, Weight: 1},
		{From: 3, To: 1, Weight: 1},
		{From: 2, To: 1, Weight: 1},
		{From: 3, To: 2, Weight: 1},
	}
	g1 := weightedGraph(edges...)

	g2 := New()
	for i := len(edges) - 1; i >= 0; i-- {
		g2.AddDependency(edges[i])
	}

	set1 := SolveFeedbackEdgeSet(g1, EnumerateCycles(g1))
	set2 := SolveFeedbackEdgeSet(g2, EnumerateCycles(g2))

	edges1, edges2 := set1.Edges(), set2.Edges()
	if len(edges1) != len(edges2) {
		t.Fatalf("set sizes differ: %d vs %d", len(edges1), len(edges2))
	}
	for i := range edges1 {
		if edges1[i].From != edges2[i].From || edges1[i].To != edges2[i].To {
			t.Errorf("edge %d differs: %v vs %v", i, edges1[i], edges2[i])
		}
	}
	if set1.Weight() != set2.Weight() {
		t.Errorf("tangle weights differ: %d vs %d", set1.Weight(), set2.Weight())
	}
}

func TestFeedbackEdgeSet_NilSafe(t *testing.T) {
	var set *FeedbackEdgeSet

	if set.Contains(1, 2) {
		t.Error("nil set Contains() = true, want false")
	}
	if set.Size() != 0 || set.Weight() != 0 {
		t.Errorf("nil set Size() = %d, Weight() = %d, want 0, 0", set.Size(), set.Weight())
	}
	if set.Edges() != nil {
		t.Error("nil set Edges() != nil")
	}
}
