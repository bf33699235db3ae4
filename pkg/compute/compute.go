// Package compute drives the bottom-up DSM aggregation over the component
// tree: files forward their raw edges into the per-component streams,
// directories and sub-projects merge their children's streams into a graph,
// run cycle enumeration, feedback edge selection and the topological
// arranger, and emit measures plus the encoded matrix.
package compute

import (
	"context"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/cszdzs/sonarqube/pkg/depcache"
	"github.com/cszdzs/sonarqube/pkg/dsm"
	"github.com/cszdzs/sonarqube/pkg/errors"
	"github.com/cszdzs/sonarqube/pkg/graph"
	"github.com/cszdzs/sonarqube/pkg/measure"
	"github.com/cszdzs/sonarqube/pkg/report"
)

// MaxDSMDimension bounds the vertex count of one aggregation node. Cycle
// enumeration is worst-case exponential in graph density, so nodes above the
// bound skip matrix computation entirely (a warning, not an error).
const MaxDSMDimension = 200

// Progress receives each component as its subtree finishes processing.
// Used by the CLI spinner; may be nil.
type Progress func(c *report.Component)

// Stats summarizes one traversal.
type Stats struct {
	Components int // components visited
	Files      int // FILE components with forwarded edges
	Matrices   int // matrices computed and persisted
	Skipped    int // nodes skipped by the dimension bound
}

// Engine runs one traversal. It owns no long-lived state besides its
// collaborators; every graph it builds dies with the node that produced it.
type Engine struct {
	report   report.Reader
	edges    depcache.Store
	measures measure.Sink
	uuids    UUIDResolver
	logger   *log.Logger
	progress Progress
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the diagnostic logger. Defaults to log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithProgress registers a per-component progress callback.
func WithProgress(fn Progress) Option {
	return func(e *Engine) { e.progress = fn }
}

// New assembles an engine from its collaborators.
func New(r report.Reader, edges depcache.Store, sink measure.Sink, uuids UUIDResolver, opts ...Option) *Engine {
	e := &Engine{
		report:   r,
		edges:    edges,
		measures: sink,
		uuids:    uuids,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute walks the component tree depth-first, children before parents, and
// processes every node. Any collaborator failure aborts the whole traversal:
// a partial measure set is worse than none.
func (e *Engine) Execute(ctx context.Context) (Stats, error) {
	dirByFile, err := e.directoryByFile()
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	if err := e.process(ctx, dirByFile, e.report.Root(), &stats); err != nil {
		return stats, err
	}
	return stats, nil
}

// ComponentGraph rebuilds one component's dependency graph and feedback edge
// set from the edge streams a previous Execute left behind. The graph is nil
// when the component's children contributed no edges.
func (e *Engine) ComponentGraph(ctx context.Context, ref int64) (*graph.Graph, *graph.FeedbackEdgeSet, error) {
	c, err := e.report.Component(ref)
	if err != nil {
		return nil, nil, err
	}
	deps, err := e.gather(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	if len(deps) == 0 {
		return nil, nil, nil
	}
	g := graph.New()
	for _, dep := range deps {
		g.AddDependency(dep)
	}
	fes := graph.SolveFeedbackEdgeSet(g, graph.EnumerateCycles(g))
	return g, fes, nil
}

// process handles one component after recursing into its children.
func (e *Engine) process(ctx context.Context, dirByFile map[int64]int64, ref int64, stats *Stats) error {
	c, err := e.report.Component(ref)
	if err != nil {
		return err
	}
	for _, child := range c.Children {
		if err := e.process(ctx, dirByFile, child, stats); err != nil {
			return err
		}
	}

	stats.Components++
	switch c.Kind {
	case report.KindFile:
		err = e.processFile(ctx, c, stats)
	case report.KindDirectory:
		err = e.processDirectory(ctx, c, dirByFile, stats)
	default:
		err = e.processSubProject(ctx, c, stats)
	}
	if err != nil {
		return err
	}

	if e.progress != nil {
		e.progress(c)
	}
	return nil
}

// processFile forwards the file's raw edges verbatim into its stream. No
// algorithm runs at the leaf level.
func (e *Engine) processFile(ctx context.Context, c *report.Component, stats *Stats) error {
	raws, err := e.report.FileDependencies(c.Ref)
	if err != nil {
		return err
	}
	if len(raws) == 0 {
		return nil
	}
	deps := make([]graph.Dependency, len(raws))
	for i, raw := range raws {
		deps[i] = graph.Dependency{From: c.Ref, To: raw.ToRef, Weight: raw.Weight}
	}
	if err := e.edges.Append(ctx, c.Ref, deps...); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "append edges for file %s", c.Path)
	}
	stats.Files++
	return nil
}

// processDirectory aggregates the children's streams, computes the matrix,
// bubbles cross-directory edges into the directory's own stream, and emits
// measures under the file_* metric keys.
func (e *Engine) processDirectory(ctx context.Context, c *report.Component, dirByFile map[int64]int64, stats *Stats) error {
	deps, err := e.gather(ctx, c)
	if err != nil {
		return err
	}
	result, err := e.computeDSM(deps, c, stats)
	if err != nil || result == nil {
		return err
	}
	if err := e.bubble(ctx, c, deps, dirByFile); err != nil {
		return err
	}
	return e.emit(ctx, c, result, measure.FileCyclesKey, measure.FileFeedbackEdgesKey,
		measure.FileTanglesKey, measure.FileEdgesWeightKey, stats)
}

// processSubProject aggregates and emits under the directory_* metric keys.
// Sub-project and project edges never bubble further - re-homing happens only
// across directory boundaries.
func (e *Engine) processSubProject(ctx context.Context, c *report.Component, stats *Stats) error {
	deps, err := e.gather(ctx, c)
	if err != nil {
		return err
	}
	result, err := e.computeDSM(deps, c, stats)
	if err != nil || result == nil {
		return err
	}
	return e.emit(ctx, c, result, measure.DirectoryCyclesKey, measure.DirectoryFeedbackEdgesKey,
		measure.DirectoryTanglesKey, measure.DirectoryEdgesWeightKey, stats)
}

// gather collects the union of the direct children's streams.
func (e *Engine) gather(ctx context.Context, c *report.Component) ([]graph.Dependency, error) {
	var deps []graph.Dependency
	for _, child := range c.Children {
		err := e.edges.Iterate(ctx, child, func(dep graph.Dependency) error {
			deps = append(deps, dep)
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "read edges of child %d under %s", child, c.Path)
		}
	}
	return deps, nil
}

// nodeResult carries one node's computed matrix and metrics.
type nodeResult struct {
	matrix       *dsm.Matrix
	cycleSize    int
	feedbackSize int
	tangles      int
	edgesWeight  int
}

// computeDSM builds the node's graph and runs the algorithm chain. Returns
// (nil, nil) when there is nothing to compute: an empty edge set, or a vertex
// count beyond the dimension bound (logged, skipped, traversal continues).
func (e *Engine) computeDSM(deps []graph.Dependency, c *report.Component, stats *Stats) (*nodeResult, error) {
	if len(deps) == 0 {
		return nil, nil
	}
	g := graph.New()
	for _, dep := range deps {
		g.AddDependency(dep)
	}
	if g.VertexCount() > MaxDSMDimension {
		e.logger.Warnf("Too many components under component '%s'. DSM will not be computed.", c.Path)
		stats.Skipped++
		return nil, nil
	}

	cycles := graph.EnumerateCycles(g)
	fes := graph.SolveFeedbackEdgeSet(g, cycles)
	matrix := dsm.New(g, fes)
	if err := matrix.Sort(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "arrange matrix for %s", c.Path)
	}

	return &nodeResult{
		matrix:       matrix,
		cycleSize:    len(cycles),
		feedbackSize: fes.Size(),
		tangles:      fes.Weight(),
		edgesWeight:  g.TotalWeight(),
	}, nil
}

// bubble re-homes edges whose target lives outside this directory: the target
// is replaced by its owning directory ref and the collapsed edge's weight is
// the number of underlying file dependencies, not their weight sum. The
// collapsed edges are appended to this directory's own stream so the parent
// can aggregate them.
func (e *Engine) bubble(ctx context.Context, c *report.Component, deps []graph.Dependency, dirByFile map[int64]int64) error {
	bag := make(map[int64]int)
	for _, dep := range deps {
		dirRef, ok := dirByFile[dep.To]
		if ok && dirRef != c.Ref {
			bag[dirRef]++
		}
	}
	if len(bag) == 0 {
		return nil
	}

	targets := make([]int64, 0, len(bag))
	for dirRef := range bag {
		targets = append(targets, dirRef)
	}
	slices.Sort(targets)

	collapsed := make([]graph.Dependency, len(targets))
	for i, dirRef := range targets {
		collapsed[i] = graph.Dependency{From: c.Ref, To: dirRef, Weight: bag[dirRef]}
	}
	if err := e.edges.Append(ctx, c.Ref, collapsed...); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "append bubbled edges for %s", c.Path)
	}
	return nil
}

// emit encodes the matrix and writes the five measures in one append.
func (e *Engine) emit(ctx context.Context, c *report.Component, r *nodeResult,
	cyclesKey, feedbackKey, tanglesKey, weightKey string, stats *Stats) error {

	data, err := dsm.Build(r.matrix, e.uuids.UUID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "serialize matrix for %s", c.Path)
	}
	encoded, err := data.Encode()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode matrix for %s", c.Path)
	}

	measures := []measure.Measure{
		measure.Binary(measure.DependencyMatrixKey, encoded),
		measure.Numeric(cyclesKey, float64(r.cycleSize)),
		measure.Numeric(feedbackKey, float64(r.feedbackSize)),
		measure.Numeric(tanglesKey, float64(r.tangles)),
		measure.Numeric(weightKey, float64(r.edgesWeight)),
	}
	if err := e.measures.Append(ctx, c.Ref, measures...); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "persist measures for %s", c.Path)
	}
	stats.Matrices++
	return nil
}

// directoryByFile maps every FILE ref to the ref of its direct parent, the
// component that owns it when edges are re-homed across directory bounds.
func (e *Engine) directoryByFile() (map[int64]int64, error) {
	owners := make(map[int64]int64)
	root := e.report.Root()
	var walk func(ref, parent int64) error
	walk = func(ref, parent int64) error {
		c, err := e.report.Component(ref)
		if err != nil {
			return err
		}
		if c.Kind == report.KindFile {
			owners[ref] = parent
		}
		for _, child := range c.Children {
			if err := walk(child, ref); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(root, root); err != nil {
		return nil, err
	}
	return owners, nil
}
