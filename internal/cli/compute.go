package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// computeCommand creates the compute command for running the DSM aggregation.
func (c *CLI) computeCommand() *cobra.Command {
	opts := pipelineOptions{}

	cmd := &cobra.Command{
		Use:   "compute [report.json]",
		Short: "Compute dependency structure matrices from an analysis report",
		Long: `Compute dependency structure matrices from an analysis report.

The compute command walks the component tree bottom-up, builds a dependency
graph per directory and subproject, detects circular dependencies, selects a
minimum-weight feedback edge set, and emits a serialized DSM plus cycle,
feedback edge, tangle and edge weight measures for every component.

Measures are printed as a summary; use --out to persist them as JSON lines
or --mongo to write them to MongoDB.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.reportPath = args[0]
			return c.runCompute(cmd.Context(), opts)
		},
	}

	addPipelineFlags(cmd, &opts)

	return cmd
}

// runCompute runs the pipeline once and prints the traversal summary.
func (c *CLI) runCompute(ctx context.Context, opts pipelineOptions) error {
	res, err := c.runPipeline(ctx, opts)
	if err != nil {
		return fmt.Errorf("compute: %w", err)
	}

	printSuccess("Computed measures for %d components", len(res.measures.Refs()))
	printStats(res.stats.Components, res.stats.Matrices, res.stats.Skipped)
	if res.stats.Skipped > 0 {
		printWarning("%d components exceeded the matrix size bound and were skipped", res.stats.Skipped)
	}
	if opts.out != "" {
		printFile(opts.out)
	}

	return nil
}
