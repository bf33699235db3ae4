package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/cszdzs/sonarqube/internal/api"
	"github.com/cszdzs/sonarqube/internal/config"
	"github.com/cszdzs/sonarqube/pkg/measure"
)

// serveCommand creates the serve command for the read-only measures API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := pipelineOptions{}
	var (
		addr         string
		measuresPath string
	)

	cmd := &cobra.Command{
		Use:   "serve [report.json]",
		Short: "Serve computed measures over a read-only HTTP API",
		Long: `Serve computed measures over a read-only HTTP API.

The serve command runs the aggregation over the report and exposes the
results:

  GET /healthz                        liveness check
  GET /api/components/                component refs with measures
  GET /api/components/{ref}/measures  the component's numeric measures
  GET /api/components/{ref}/dsm       the decoded dependency structure matrix

With --measures, a previously written JSON-lines file is served instead of
recomputing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.reportPath = args[0]
			return c.runServe(cmd.Context(), opts, addr, measuresPath)
		},
	}

	addPipelineFlags(cmd, &opts)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config, default :8080)")
	cmd.Flags().StringVar(&measuresPath, "measures", "", "serve measures from a JSON-lines file instead of recomputing")

	return cmd
}

// runServe computes (or loads) the measures and blocks serving them until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, opts pipelineOptions, addr, measuresPath string) error {
	var sink *measure.MemorySink
	if measuresPath != "" {
		var err error
		if sink, err = measure.ReadFile(measuresPath); err != nil {
			return err
		}
	} else {
		res, err := c.runPipeline(ctx, opts)
		if err != nil {
			return err
		}
		sink = res.measures
	}

	if addr == "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		addr = cfg.API.Addr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(sink),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	printSuccess("Serving measures for %d components", len(sink.Refs()))
	printKeyValue("address", addr)
	c.Logger.Infof("listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
