// Package generator drives row synthesis: feature columns first, then target
// columns, each value passed through the degradation pipeline and recorded in
// the run's history.
package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/David-Botos/data-synth/pkg/degrade"
	"github.com/David-Botos/data-synth/pkg/history"
	"github.com/David-Botos/data-synth/pkg/model"
	"github.com/David-Botos/data-synth/pkg/reference"
	"github.com/David-Botos/data-synth/pkg/schema"
	"github.com/David-Botos/data-synth/pkg/target"
	"github.com/David-Botos/data-synth/pkg/valuegen"
)

// ValueGenerator produces one clean value for a non-reference column
type ValueGenerator interface {
	Generate(spec model.ColumnSpec, rng *rand.Rand) (interface{}, error)
}

// EventSink receives every value the degradation pipeline changed. With more
// than one worker it is called from several goroutines.
type EventSink func(model.DegradationEvent)

// Result is the output of one generation run
type Result struct {
	Columns []string    // Column names in declared order
	Rows    []model.Row // Rows in generation order; nil for Stream
	Seed    int64       // Seed that reproduces this run
	Metrics *Metrics
}

type options struct {
	seed            int64
	seeded          bool
	historyCapacity int
	workers         int
	sink            EventSink
}

// Option configures a generation run
type Option func(*options)

// WithSeed fixes the reproducibility seed
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithHistoryCapacity keeps only the last k values per column for duplicate
// sampling. Zero means unbounded.
func WithHistoryCapacity(k int) Option {
	return func(o *options) {
		o.historyCapacity = k
	}
}

// WithWorkers splits the rows into n contiguous chunks generated in
// parallel. Each chunk has its own history shard, so duplicates are sampled
// only from earlier rows of the same chunk.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithEventSink reports every degraded value to sink
func WithEventSink(sink EventSink) Option {
	return func(o *options) {
		o.sink = sink
	}
}

// Generator runs generation over a schema. It is safe for concurrent runs;
// per-run state lives in each call.
type Generator struct {
	values   ValueGenerator
	refs     *reference.Resolver
	pipeline *degrade.Pipeline
	targets  *target.Resolver
	logger   *zap.Logger
}

// New creates a generator. A nil values generator uses valuegen; a nil
// resolver loads references from files only.
func New(values ValueGenerator, refs *reference.Resolver, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if values == nil {
		values = valuegen.New()
	}
	if refs == nil {
		refs = reference.NewResolver(reference.NewRouter(nil, logger), logger)
	}
	return &Generator{
		values:   values,
		refs:     refs,
		pipeline: degrade.NewPipeline(logger),
		targets:  target.NewResolver(logger),
		logger:   logger.Named("generator"),
	}
}

// Generate validates the schema and produces numRows rows. On any error no
// rows are returned.
func (g *Generator) Generate(ctx context.Context, s model.Schema, numRows int, opts ...Option) (*Result, error) {
	o, err := g.prepare(s, numRows, opts)
	if err != nil {
		return nil, err
	}

	rows := make([]model.Row, numRows)
	emit := func(i int, row model.Row) error {
		rows[i] = row
		return nil
	}

	metrics, err := g.run(ctx, s, numRows, o, emit)
	if err != nil {
		return nil, err
	}
	return &Result{Columns: s.Names(), Rows: rows, Seed: o.seed, Metrics: metrics}, nil
}

// Stream produces numRows rows sequentially, handing each to emit in
// generation order without retaining it. Worker options are ignored.
func (g *Generator) Stream(
	ctx context.Context,
	s model.Schema,
	numRows int,
	emit func(index int, row model.Row) error,
	opts ...Option,
) (*Result, error) {
	o, err := g.prepare(s, numRows, opts)
	if err != nil {
		return nil, err
	}
	o.workers = 1

	metrics, err := g.run(ctx, s, numRows, o, emit)
	if err != nil {
		return nil, err
	}
	return &Result{Columns: s.Names(), Seed: o.seed, Metrics: metrics}, nil
}

func (g *Generator) prepare(s model.Schema, numRows int, opts []Option) (*options, error) {
	if numRows < 0 {
		return nil, fmt.Errorf("%w: row count must not be negative, got %d", model.ErrInvalidConfig, numRows)
	}
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	for column, features := range schema.UnknownFeatures(s) {
		g.logger.Warn("Target reads features the schema does not produce",
			zap.String("column", column),
			zap.String("features", strings.Join(features, ",")))
	}

	o := &options{workers: 1}
	for _, opt := range opts {
		opt(o)
	}
	if o.historyCapacity < 0 {
		return nil, fmt.Errorf("%w: history capacity must not be negative", model.ErrInvalidConfig)
	}
	if !o.seeded {
		o.seed = RandomSeed()
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o, nil
}

// run generates every chunk and records metrics
func (g *Generator) run(ctx context.Context, s model.Schema, numRows int, o *options, emit func(int, model.Row) error) (*Metrics, error) {
	p := newPlan(s)
	metrics := NewMetrics(s.Names(), g.logger)
	chunks := NewChunks(numRows, o.workers, o.seed)

	g.logger.Info("Starting generation",
		zap.Int("rows", numRows),
		zap.Int("columns", len(s)),
		zap.Int("features", len(p.features)),
		zap.Int("targets", len(p.targets)),
		zap.Int("chunks", len(chunks)),
		zap.Int64("seed", o.seed))

	spawn := func(id int) *Worker {
		var hopts []history.Option
		if o.historyCapacity > 0 {
			hopts = append(hopts, history.WithCapacity(o.historyCapacity))
		}
		return newWorker(id, p, g.values, g.refs, g.pipeline, g.targets, history.New(hopts...), o.sink, g.logger)
	}

	if len(chunks) <= 1 {
		for _, chunk := range chunks {
			result, err := spawn(0).ProcessChunk(ctx, chunk, emit)
			if err != nil {
				return nil, err
			}
			metrics.RecordChunk(result)
		}
		metrics.Complete()
		return metrics, nil
	}

	// The reference cache is read-only once workers fan out
	if err := g.refs.Warm(ctx, s.ReferenceSpecs()); err != nil {
		return nil, err
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		eg.Go(func() error {
			result, err := spawn(chunk.Index).ProcessChunk(egCtx, chunk, emit)
			if err != nil {
				return err
			}
			metrics.RecordChunk(result)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	metrics.Complete()
	return metrics, nil
}

// RandomSeed returns a 6-digit reproducibility code
func RandomSeed() int64 {
	return 100000 + rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(900000)
}

// OptimalWorkerCount suggests a worker count for numRows: three quarters of
// the CPUs, at most one worker per minRowsPerWorker rows, between 1 and 12
func OptimalWorkerCount(numRows int) int {
	const (
		minRowsPerWorker = 5000
		maxWorkers       = 12
	)
	cpuBased := int(math.Ceil(float64(runtime.NumCPU()) * 0.75))
	rowBased := numRows / minRowsPerWorker

	workers := min(cpuBased, rowBased, maxWorkers)
	if workers < 1 {
		workers = 1
	}
	return workers
}
