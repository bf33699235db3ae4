package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cszdzs/sonarqube/internal/config"
	"github.com/cszdzs/sonarqube/pkg/compute"
	"github.com/cszdzs/sonarqube/pkg/depcache"
	"github.com/cszdzs/sonarqube/pkg/measure"
	"github.com/cszdzs/sonarqube/pkg/report"
)

// Edge stream backends selectable via --edges.
const (
	edgesMemory = "memory"
	edgesFile   = "file"
	edgesRedis  = "redis"
)

// pipelineOptions carries the flags shared by compute, browse and serve.
type pipelineOptions struct {
	reportPath string
	configPath string
	edges      string // edge stream backend
	out        string // optional measures JSON-lines output
	mongo      bool   // also persist measures to MongoDB from config
}

// pipelineResult is everything a command needs after one traversal.
type pipelineResult struct {
	report   *report.Report
	measures *measure.MemorySink
	stats    compute.Stats
}

// runPipeline loads the report, wires the configured stores and runs the
// aggregation once. Measures always land in the returned memory sink;
// file and Mongo sinks are teed in when requested.
func (c *CLI) runPipeline(ctx context.Context, opts pipelineOptions) (*pipelineResult, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	rep, err := report.LoadFile(opts.reportPath)
	if err != nil {
		return nil, err
	}

	edges, err := c.newEdgeStore(ctx, opts.edges, cfg)
	if err != nil {
		return nil, err
	}
	defer edges.Close()

	mem := measure.NewMemorySink()
	sinks := []measure.Sink{mem}
	if opts.out != "" {
		fileSink, err := measure.NewFileSink(opts.out)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fileSink)
	}
	if opts.mongo {
		mongoSink, err := measure.NewMongoSink(ctx, measure.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, mongoSink)
	}
	sink := measure.Tee(sinks...)
	defer sink.Close()

	uuids, err := compute.NewUUIDCache(rep, 0)
	if err != nil {
		return nil, err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Computing dependency matrices...")
	spinner.Start()
	engine := compute.New(rep, edges, sink, uuids,
		compute.WithLogger(logger),
		compute.WithProgress(func(comp *report.Component) {
			spinner.SetMessage(fmt.Sprintf("Computing dependency matrices... %s", comp.Path))
		}),
	)
	stats, err := engine.Execute(ctx)
	if err != nil {
		spinner.StopWithError("Computation failed")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Computed %d matrices across %d components", stats.Matrices, stats.Components))

	return &pipelineResult{report: rep, measures: mem, stats: stats}, nil
}

// newEdgeStore builds the edge stream backend. Memory is the default for
// single-shot runs; file and redis keep streams around for inspection or for
// sharing across workers.
func (c *CLI) newEdgeStore(ctx context.Context, backend string, cfg *config.Config) (depcache.Store, error) {
	switch backend {
	case "", edgesMemory:
		return depcache.NewMemoryStore(), nil
	case edgesFile:
		dir := cfg.CacheDir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
		}
		return depcache.NewFileStore(dir)
	case edgesRedis:
		return depcache.NewRedisStore(ctx, depcache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown edge store backend %q (memory, file, redis)", backend)
	}
}

// addPipelineFlags registers the flags shared by commands that run the
// aggregation pipeline.
func addPipelineFlags(cmd *cobra.Command, opts *pipelineOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to a TOML config file")
	cmd.Flags().StringVar(&opts.edges, "edges", edgesMemory, "edge stream backend: memory (default), file, redis")
	cmd.Flags().StringVar(&opts.out, "out", "", "write measures to a JSON-lines file")
	cmd.Flags().BoolVar(&opts.mongo, "mongo", false, "also persist measures to MongoDB (see config)")
}
