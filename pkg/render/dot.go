// Package render draws one aggregation node's dependency graph as a
// Graphviz node-link diagram. Feedback edges - the cyclic dependencies the
// solver chose to cut - are drawn dashed and red so tangles stand out.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cszdzs/sonarqube/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Label resolves a vertex ref to a display name. Nil falls back to the
	// numeric ref.
	Label func(ref int64) string

	// ShowWeights adds edge weight labels.
	ShowWeights bool
}

// ToDOT converts the graph to Graphviz DOT. The feedback set may be nil when
// the graph is acyclic.
func ToDOT(g *graph.Graph, fb *graph.FeedbackEdgeSet, opts Options) string {
	label := opts.Label
	if label == nil {
		label = func(ref int64) string { return fmt.Sprintf("%d", ref) }
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(v), label(v))
	}

	buf.WriteString("\n")
	for _, v := range g.Vertices() {
		for _, dep := range g.Outgoing(v) {
			attrs := edgeAttrs(dep, fb, opts)
			if len(attrs) == 0 {
				fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(dep.From), nodeID(dep.To))
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(dep.From), nodeID(dep.To), strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(ref int64) string {
	return fmt.Sprintf("c%d", ref)
}

func edgeAttrs(dep *graph.Dependency, fb *graph.FeedbackEdgeSet, opts Options) []string {
	var attrs []string
	if fb.Contains(dep.From, dep.To) {
		attrs = append(attrs, "style=dashed", "color=red")
	}
	if opts.ShowWeights {
		attrs = append(attrs, fmt.Sprintf("label=\"%d\"", dep.Weight))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
