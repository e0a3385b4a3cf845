// Package degrade corrupts generated values at configured rates to mimic
// real-world data-quality defects.
package degrade

import (
	"math/rand"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/history"
	"github.com/David-Botos/data-synth/pkg/model"
)

var degradationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "synth_degradations_total",
	Help: "Values changed by each degradation stage",
}, []string{"stage", "column_type"})

// Pipeline applies the degradation stages to one value at a time.
// It holds no per-run state and is safe for concurrent use as long as each
// goroutine passes its own history tracker and rng.
type Pipeline struct {
	logger *zap.Logger
}

// NewPipeline creates a degradation pipeline
func NewPipeline(logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{logger: logger.Named("degrade")}
}

// Degrade runs the stages in fixed order: null, duplicate, near-duplicate,
// outlier, format. Each stage is gated by its own uniform draw. A null
// result short-circuits the remaining stages. The returned outcome lists
// the stages that changed the value.
func (p *Pipeline) Degrade(
	value interface{},
	colType model.ColumnType,
	cfg *model.DegradationConfig,
	column string,
	hist *history.Tracker,
	rng *rand.Rand,
) (interface{}, model.Outcome) {
	var outcome model.Outcome
	if cfg.IsZero() || value == nil {
		return value, outcome
	}

	// 1. Null
	if rng.Float64() < cfg.NullRate {
		p.count(model.StageNull, colType)
		return nil, outcome.With(model.StageNull)
	}

	// 2. Duplicate
	if rng.Float64() < cfg.DuplicateRate && hist != nil {
		if dup, ok := hist.Sample(column, rng); ok {
			value = dup
			outcome = outcome.With(model.StageDuplicate)
			p.count(model.StageDuplicate, colType)
		}
	}

	// 3. Near-duplicate, textual values only
	if s, ok := value.(string); ok {
		if rng.Float64() < cfg.SimilarRate {
			if typo, changed := Typo(s, rng); changed {
				s = typo
				outcome = outcome.With(model.StageTypo)
				p.count(model.StageTypo, colType)
			}
		}
		if rng.Float64() < cfg.SimilarRate {
			s = Whitespace(s, rng)
			outcome = outcome.With(model.StageWhitespace)
			p.count(model.StageWhitespace, colType)
		}
		value = s
	}

	b := behaviourFor(colType)

	// 4. Outlier
	if rng.Float64() < cfg.OutlierRate && b.outlier != nil {
		if v, ok := b.outlier(value, rng); ok {
			value = v
			outcome = outcome.With(model.StageOutlier)
			p.count(model.StageOutlier, colType)
		}
	}

	// 5. Format violation
	if rng.Float64() < cfg.InvalidFormatRate && b.format != nil {
		if v, ok := b.format(value, rng); ok {
			value = v
			outcome = outcome.With(model.StageFormat)
			p.count(model.StageFormat, colType)
		}
	}

	if outcome != 0 {
		p.logger.Debug("Degraded value",
			zap.String("column", column),
			zap.String("outcome", outcome.String()))
	}
	return value, outcome
}

func (p *Pipeline) count(stage model.Stage, colType model.ColumnType) {
	degradationsTotal.WithLabelValues(stage.String(), string(colType)).Inc()
}
