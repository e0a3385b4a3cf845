package generator

import (
	"time"

	"github.com/David-Botos/data-synth/pkg/model"
)

// Chunk is a contiguous range of rows generated by one worker with its own
// history shard and rng
type Chunk struct {
	Index int   // Position of the chunk in row order
	Start int   // Index of the first row
	Count int   // Number of rows
	Seed  int64 // Seed of the chunk's rng
}

// End returns the index one past the last row
func (c Chunk) End() int {
	return c.Start + c.Count
}

// NewChunks splits numRows into n contiguous chunks of near-equal size. The
// first chunk uses seed itself so a single chunk reproduces sequential output.
func NewChunks(numRows, n int, seed int64) []Chunk {
	if n < 1 {
		n = 1
	}
	if n > numRows {
		n = numRows
	}
	if n == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, n)
	base, extra := numRows/n, numRows%n
	start := 0
	for i := 0; i < n; i++ {
		count := base
		if i < extra {
			count++
		}
		chunks = append(chunks, Chunk{
			Index: i,
			Start: start,
			Count: count,
			Seed:  chunkSeed(seed, i),
		})
		start += count
	}
	return chunks
}

// chunkSeed derives a well-spread seed per chunk (splitmix64 finalizer)
func chunkSeed(seed int64, index int) int64 {
	if index == 0 {
		return seed
	}
	z := uint64(seed) + uint64(index)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return int64(z ^ (z >> 31))
}

// ChunkResult carries the counters of one generated chunk
type ChunkResult struct {
	Chunk       Chunk
	WorkerID    int
	Rows        int64
	Stages      map[string]map[model.Stage]int64 // column -> stage -> values changed
	RuleMatches map[string]map[int]int64         // target column -> matched rule -> rows
	TrueCounts  map[string]int64                 // target column -> rows drawn true
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// NewChunkResult initializes a result for a chunk
func NewChunkResult(chunk Chunk, workerID int) *ChunkResult {
	return &ChunkResult{
		Chunk:       chunk,
		WorkerID:    workerID,
		Stages:      make(map[string]map[model.Stage]int64),
		RuleMatches: make(map[string]map[int]int64),
		TrueCounts:  make(map[string]int64),
		StartTime:   time.Now(),
	}
}

// Complete marks the chunk as done and calculates duration
func (r *ChunkResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// AddOutcome counts the stages that changed a value of column
func (r *ChunkResult) AddOutcome(column string, outcome model.Outcome) {
	if outcome == 0 {
		return
	}
	counts, ok := r.Stages[column]
	if !ok {
		counts = make(map[model.Stage]int64)
		r.Stages[column] = counts
	}
	for _, stage := range outcome.Stages() {
		counts[stage]++
	}
}

// AddTarget counts a target draw
func (r *ChunkResult) AddTarget(column string, matchedRule int, value bool) {
	matches, ok := r.RuleMatches[column]
	if !ok {
		matches = make(map[int]int64)
		r.RuleMatches[column] = matches
	}
	matches[matchedRule]++
	if value {
		r.TrueCounts[column]++
	}
}
