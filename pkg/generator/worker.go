package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/degrade"
	"github.com/David-Botos/data-synth/pkg/history"
	"github.com/David-Botos/data-synth/pkg/model"
	"github.com/David-Botos/data-synth/pkg/reference"
	"github.com/David-Botos/data-synth/pkg/target"
)

// WorkerState represents the current state of a worker
type WorkerState string

const (
	WorkerStateIdle      WorkerState = "idle"
	WorkerStateWorking   WorkerState = "working"
	WorkerStateCompleted WorkerState = "completed"
	WorkerStateError     WorkerState = "error"
)

// plan is the schema split into feature and target columns
type plan struct {
	features []model.ColumnSpec
	targets  []model.ColumnSpec
	columns  int
}

func newPlan(s model.Schema) *plan {
	features, targets := s.Partition()
	return &plan{features: features, targets: targets, columns: len(s)}
}

// Worker generates the rows of one chunk. It owns its history shard and rng,
// so it must not be shared between goroutines.
type Worker struct {
	ID        int
	plan      *plan
	values    ValueGenerator
	refs      *reference.Resolver
	pipeline  *degrade.Pipeline
	targets   *target.Resolver
	history   *history.Tracker
	rng       *rand.Rand
	sink      EventSink
	logger    *zap.Logger
	state     WorkerState
	stateLock sync.RWMutex
}

// newWorker creates a worker over its own history shard
func newWorker(
	id int,
	p *plan,
	values ValueGenerator,
	refs *reference.Resolver,
	pipeline *degrade.Pipeline,
	targets *target.Resolver,
	hist *history.Tracker,
	sink EventSink,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		ID:       id,
		plan:     p,
		values:   values,
		refs:     refs,
		pipeline: pipeline,
		targets:  targets,
		history:  hist,
		sink:     sink,
		logger:   logger.With(zap.Int("workerID", id)),
		state:    WorkerStateIdle,
	}
}

// GetState returns the current state of the worker
func (w *Worker) GetState() WorkerState {
	w.stateLock.RLock()
	defer w.stateLock.RUnlock()
	return w.state
}

func (w *Worker) setState(state WorkerState) {
	w.stateLock.Lock()
	defer w.stateLock.Unlock()

	prevState := w.state
	w.state = state

	if prevState != state {
		w.logger.Debug("Worker state changed",
			zap.String("from", string(prevState)),
			zap.String("to", string(state)))
	}
}

// ProcessChunk generates the chunk's rows in order and hands each to emit.
// The context is checked between rows.
func (w *Worker) ProcessChunk(ctx context.Context, chunk Chunk, emit func(int, model.Row) error) (*ChunkResult, error) {
	w.setState(WorkerStateWorking)
	w.rng = rand.New(rand.NewSource(chunk.Seed))
	result := NewChunkResult(chunk, w.ID)

	w.logger.Debug("Starting chunk",
		zap.Int("chunk", chunk.Index),
		zap.Int("start", chunk.Start),
		zap.Int("rows", chunk.Count))

	for i := chunk.Start; i < chunk.End(); i++ {
		if err := ctx.Err(); err != nil {
			w.setState(WorkerStateError)
			return nil, newRowError(i, "", err)
		}

		row, err := w.GenerateRow(ctx, i, result)
		if err != nil {
			w.setState(WorkerStateError)
			return nil, err
		}
		if err := emit(i, row); err != nil {
			w.setState(WorkerStateError)
			return nil, fmt.Errorf("failed to emit row %d: %w", i, err)
		}
		result.Rows++
	}

	result.Complete()
	w.logger.Debug("Chunk completed",
		zap.Int("chunk", chunk.Index),
		zap.Int64("rows", result.Rows),
		zap.Duration("duration", result.Duration))
	w.setState(WorkerStateCompleted)
	return result, nil
}

// GenerateRow builds one row: every feature column in declared order, then
// every target column reading the features already placed in the row. Each
// finalized value is appended to the history shard.
func (w *Worker) GenerateRow(ctx context.Context, index int, result *ChunkResult) (model.Row, error) {
	row := make(model.Row, w.plan.columns)

	for _, col := range w.plan.features {
		clean, err := w.featureValue(ctx, col)
		if err != nil {
			return nil, newRowError(index, col.Name, err)
		}
		row[col.Name] = w.finalize(index, col, clean, result)
	}

	for _, col := range w.plan.targets {
		value, matched, err := w.targets.Evaluate(row, col.Target, w.rng)
		if err != nil {
			return nil, newRowError(index, col.Name, err)
		}
		result.AddTarget(col.Name, matched, value)
		row[col.Name] = w.finalize(index, col, value, result)
	}

	return row, nil
}

func (w *Worker) featureValue(ctx context.Context, col model.ColumnSpec) (interface{}, error) {
	if col.Type == model.TypeReference {
		if col.Config.Reference == nil {
			return nil, model.NewValidationError(col.Name, "config.reference_file", "reference columns need a reference source")
		}
		return w.refs.Fetch(ctx, *col.Config.Reference, w.rng)
	}
	return w.values.Generate(col, w.rng)
}

// finalize runs the degradation pipeline on value and records the result
func (w *Worker) finalize(index int, col model.ColumnSpec, value interface{}, result *ChunkResult) interface{} {
	out := value
	if col.Degradation != nil {
		var outcome model.Outcome
		out, outcome = w.pipeline.Degrade(value, col.Type, col.Degradation, col.Name, w.history, w.rng)
		result.AddOutcome(col.Name, outcome)
		if outcome != 0 && w.sink != nil {
			w.sink(model.DegradationEvent{
				RowIndex:      index,
				ColumnName:    col.Name,
				ColumnType:    col.Type,
				OriginalValue: value,
				NewValue:      out,
				Outcome:       outcome,
			})
		}
	}
	w.history.Record(col.Name, out)
	return out
}
