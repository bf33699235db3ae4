package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

func cyclicGraph() (*graph.Graph, *graph.FeedbackEdgeSet) {
	g := graph.New()
	g.AddDependency(graph.Dependency{From: 1, To: 2, Weight: 3})
	g.AddDependency(graph.Dependency{From: 2, To: 1, Weight: 1})
	fb := graph.SolveFeedbackEdgeSet(g, graph.EnumerateCycles(g))
	return g, fb
}

func TestToDOT_NodesAndEdges(t *testing.T) {
	g, fb := cyclicGraph()

	dot := ToDOT(g, fb, Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("DOT does not start with digraph header:\n%s", dot)
	}
	for _, want := range []string{`"c1"`, `"c2"`, `"c1" -> "c2"`, `"c2" -> "c1"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestToDOT_FeedbackEdgeStyled(t *testing.T) {
	g, fb := cyclicGraph()

	dot := ToDOT(g, fb, Options{})

	// The lighter edge 2→1 is the feedback pick.
	if !strings.Contains(dot, `"c2" -> "c1" [style=dashed, color=red]`) {
		t.Errorf("feedback edge not styled:\n%s", dot)
	}
	if strings.Contains(dot, `"c1" -> "c2" [style=dashed`) {
		t.Errorf("forward edge styled as feedback:\n%s", dot)
	}
}

func TestToDOT_Weights(t *testing.T) {
	g, fb := cyclicGraph()

	dot := ToDOT(g, fb, Options{ShowWeights: true})

	if !strings.Contains(dot, `label="3"`) {
		t.Errorf("weight label missing:\n%s", dot)
	}
}

func TestToDOT_CustomLabels(t *testing.T) {
	g, fb := cyclicGraph()

	dot := ToDOT(g, fb, Options{
		Label: func(ref int64) string { return fmt.Sprintf("file-%d.go", ref) },
	})

	if !strings.Contains(dot, `label="file-1.go"`) {
		t.Errorf("custom label missing:\n%s", dot)
	}
}

func TestToDOT_NilFeedbackSet(t *testing.T) {
	g := graph.New()
	g.AddDependency(graph.Dependency{From: 1, To: 2, Weight: 1})

	dot := ToDOT(g, nil, Options{})

	if strings.Contains(dot, "dashed") {
		t.Errorf("acyclic graph has styled edges:\n%s", dot)
	}
}
