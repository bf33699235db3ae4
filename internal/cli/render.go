package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cszdzs/sonarqube/pkg/compute"
	"github.com/cszdzs/sonarqube/pkg/depcache"
	"github.com/cszdzs/sonarqube/pkg/measure"
	"github.com/cszdzs/sonarqube/pkg/render"
	"github.com/cszdzs/sonarqube/pkg/report"
)

// renderCommand creates the render command for drawing a component's graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output      string
		showWeights bool
	)

	cmd := &cobra.Command{
		Use:   "render [report.json] [component]",
		Short: "Render a component's dependency graph as SVG or DOT",
		Long: `Render a component's dependency graph as SVG or DOT.

The render command runs the aggregation over the report, rebuilds the named
component's dependency graph from its children's edge streams, and draws it
with Graphviz. Feedback edges - the edges whose removal breaks the
component's cycles - are drawn dashed and red.

The component is addressed by its project-relative path or its numeric ref.
The output format follows the file extension: .svg renders with Graphviz,
.dot writes the graph description as text.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], args[1], output, showWeights)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <component>.svg)")
	cmd.Flags().BoolVar(&showWeights, "weights", false, "label edges with their weights")

	return cmd
}

// runRender aggregates in memory and draws the requested component.
func (c *CLI) runRender(ctx context.Context, reportPath, component, output string, showWeights bool) error {
	rep, err := report.LoadFile(reportPath)
	if err != nil {
		return err
	}

	target, err := resolveComponent(rep, component)
	if err != nil {
		return err
	}
	if target.Kind == report.KindFile {
		return fmt.Errorf("component %s is a file; render a directory or sub-project", target.Path)
	}

	edges := depcache.NewMemoryStore()
	defer edges.Close()
	uuids, err := compute.NewUUIDCache(rep, 0)
	if err != nil {
		return err
	}
	engine := compute.New(rep, edges, measure.NewMemorySink(), uuids, compute.WithLogger(loggerFromContext(ctx)))

	spinner := newSpinnerWithContext(ctx, "Computing dependency graph...")
	spinner.Start()
	if _, err := engine.Execute(ctx); err != nil {
		spinner.StopWithError("Computation failed")
		return err
	}
	g, fes, err := engine.ComponentGraph(ctx, target.Ref)
	if err != nil {
		spinner.StopWithError("Computation failed")
		return err
	}
	spinner.Stop()

	if g == nil {
		printWarning("Component %s has no dependencies to draw", target.Path)
		return nil
	}

	if output == "" {
		output = safeFileName(target.Path) + ".svg"
	}
	dot := render.ToDOT(g, fes, render.Options{
		Label: func(ref int64) string {
			if c, err := rep.Component(ref); err == nil {
				return c.Path
			}
			return strconv.FormatInt(ref, 10)
		},
		ShowWeights: showWeights,
	})

	var data []byte
	switch strings.ToLower(filepath.Ext(output)) {
	case ".dot", ".gv":
		data = []byte(dot)
	default:
		if data, err = render.RenderSVG(ctx, dot); err != nil {
			return fmt.Errorf("render %s: %w", target.Path, err)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	printSuccess("Rendered dependency graph of %s", target.Path)
	printFile(output)
	return nil
}

// resolveComponent accepts a numeric ref or a project-relative path.
func resolveComponent(rep *report.Report, s string) (*report.Component, error) {
	if ref, err := strconv.ParseInt(s, 10, 64); err == nil {
		return rep.Component(ref)
	}
	return rep.FindByPath(s)
}

// safeFileName flattens a component path into a usable file name.
func safeFileName(path string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(path)
	if name == "" {
		return appName
	}
	return name
}
