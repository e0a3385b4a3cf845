package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/model"
)

var (
	rowsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synth_rows_generated_total",
		Help: "Rows emitted by generation runs",
	})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "synth_generation_duration_seconds",
		Help:    "Wall time of completed generation runs",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)

// Metrics tracks the counters of one generation run
type Metrics struct {
	mu                sync.Mutex
	logger            *zap.Logger
	columns           []string
	StartTime         time.Time
	EndTime           time.Time
	RowsGenerated     int64
	ChunksCompleted   int
	StageCounts       map[string]map[model.Stage]int64
	RuleMatches       map[string]map[int]int64
	TrueCounts        map[string]int64
	WorkerUtilization map[int]time.Duration
}

// NewMetrics creates a Metrics instance for the given columns in declared order
func NewMetrics(columns []string, logger *zap.Logger) *Metrics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metrics{
		logger:            logger,
		columns:           columns,
		StartTime:         time.Now(),
		StageCounts:       make(map[string]map[model.Stage]int64),
		RuleMatches:       make(map[string]map[int]int64),
		TrueCounts:        make(map[string]int64),
		WorkerUtilization: make(map[int]time.Duration),
	}
}

// RecordChunk merges the counters of a completed chunk
func (m *Metrics) RecordChunk(result *ChunkResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RowsGenerated += result.Rows
	m.ChunksCompleted++
	m.WorkerUtilization[result.WorkerID] += result.Duration

	for column, stages := range result.Stages {
		counts, ok := m.StageCounts[column]
		if !ok {
			counts = make(map[model.Stage]int64)
			m.StageCounts[column] = counts
		}
		for stage, n := range stages {
			counts[stage] += n
		}
	}
	for column, matches := range result.RuleMatches {
		counts, ok := m.RuleMatches[column]
		if !ok {
			counts = make(map[int]int64)
			m.RuleMatches[column] = counts
		}
		for rule, n := range matches {
			counts[rule] += n
		}
	}
	for column, n := range result.TrueCounts {
		m.TrueCounts[column] += n
	}
	rowsGeneratedTotal.Add(float64(result.Rows))

	m.logger.Debug("Chunk recorded",
		zap.Int("chunk", result.Chunk.Index),
		zap.Int("worker", result.WorkerID),
		zap.Int64("rows", result.Rows),
		zap.Duration("duration", result.Duration))
}

// Complete marks the run as complete
func (m *Metrics) Complete() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EndTime = time.Now()
	generationDuration.Observe(m.duration().Seconds())

	m.logger.Info("Generation completed",
		zap.Duration("totalDuration", m.duration()),
		zap.Int64("rows", m.RowsGenerated),
		zap.Int("chunks", m.ChunksCompleted),
		zap.Float64("throughput", m.throughput()))
}

// StageCount returns how many values of column the stage changed
func (m *Metrics) StageCount(column string, stage model.Stage) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.StageCounts[column][stage]
}

// Duration returns the total duration of the run
func (m *Metrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration()
}

func (m *Metrics) duration() time.Duration {
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// CalculateThroughput returns rows per second
func (m *Metrics) CalculateThroughput() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.throughput()
}

func (m *Metrics) throughput() float64 {
	seconds := m.duration().Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(m.RowsGenerated) / seconds
}

// GetWorkerEfficiency returns each worker's busy share of the run duration
func (m *Metrics) GetWorkerEfficiency() map[int]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.workerEfficiency()
}

func (m *Metrics) workerEfficiency() map[int]float64 {
	efficiency := make(map[int]float64)
	total := m.duration()
	if total <= 0 {
		return efficiency
	}
	for workerID, busy := range m.WorkerUtilization {
		efficiency[workerID] = float64(busy) / float64(total)
	}
	return efficiency
}

// stageRates returns, per column, the fraction of rows each stage changed
func (m *Metrics) stageRates() map[string]map[string]float64 {
	rates := make(map[string]map[string]float64)
	for column, stages := range m.StageCounts {
		r := make(map[string]float64, len(stages))
		for stage, n := range stages {
			r[stage.String()] = getPercentage(float64(n), float64(m.RowsGenerated)) / 100
		}
		rates[column] = r
	}
	return rates
}

// formatDuration formats a duration to a human-readable string
func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// getPercentage safely calculates a percentage, avoiding division by zero
func getPercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * 100
}

// GenerateMetricsReport creates a text report of the run
func (m *Metrics) GenerateMetricsReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`
Generation Metrics Report
=========================
Duration:                %s
Rows Generated:          %d
Chunks:                  %d
Average Throughput:      %.2f rows/sec
`,
		formatDuration(m.duration()),
		m.RowsGenerated,
		m.ChunksCompleted,
		m.throughput(),
	))

	if len(m.StageCounts) > 0 {
		sb.WriteString("\nDegradation\n-----------\n")
		for _, column := range m.columns {
			stages, ok := m.StageCounts[column]
			if !ok {
				continue
			}
			parts := make([]string, 0, len(stages))
			for _, stage := range model.AllStages() {
				if n := stages[stage]; n > 0 {
					parts = append(parts, fmt.Sprintf("%s %d (%.1f%%)", stage, n,
						getPercentage(float64(n), float64(m.RowsGenerated))))
				}
			}
			sb.WriteString(fmt.Sprintf("- %s: %s\n", column, strings.Join(parts, ", ")))
		}
	}

	if len(m.RuleMatches) > 0 {
		sb.WriteString("\nTargets\n-------\n")
		for _, column := range m.columns {
			matches, ok := m.RuleMatches[column]
			if !ok {
				continue
			}
			rules := make([]int, 0, len(matches))
			for rule := range matches {
				rules = append(rules, rule)
			}
			sort.Ints(rules)
			parts := make([]string, 0, len(rules))
			for _, rule := range rules {
				label := fmt.Sprintf("rule %d", rule)
				if rule < 0 {
					label = "default"
				}
				parts = append(parts, fmt.Sprintf("%s %d", label, matches[rule]))
			}
			sb.WriteString(fmt.Sprintf("- %s: %.1f%% true; %s\n", column,
				getPercentage(float64(m.TrueCounts[column]), float64(m.RowsGenerated)),
				strings.Join(parts, ", ")))
		}
	}

	if len(m.WorkerUtilization) > 1 {
		sb.WriteString("\nWorker Efficiency\n-----------------\n")
		efficiency := m.workerEfficiency()
		ids := make([]int, 0, len(efficiency))
		for id := range efficiency {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			sb.WriteString(fmt.Sprintf("- Worker %d: %.1f%% active time\n", id, efficiency[id]*100))
		}
	}

	return sb.String()
}

// ToJSON serializes metrics to JSON
func (m *Metrics) ToJSON() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return json.Marshal(struct {
		Duration      string                        `json:"duration"`
		RowsGenerated int64                         `json:"rowsGenerated"`
		Chunks        int                           `json:"chunks"`
		Throughput    float64                       `json:"throughput"`
		StageRates    map[string]map[string]float64 `json:"stageRates"`
		TrueCounts    map[string]int64              `json:"trueCounts"`
	}{
		Duration:      formatDuration(m.duration()),
		RowsGenerated: m.RowsGenerated,
		Chunks:        m.ChunksCompleted,
		Throughput:    m.throughput(),
		StageRates:    m.stageRates(),
		TrueCounts:    m.TrueCounts,
	})
}
