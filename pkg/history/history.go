// Package history keeps the values already emitted per column so the
// degradation pipeline can inject duplicates.
package history

import (
	"math/rand"
)

// Option configures a Tracker
type Option func(*Tracker)

// WithCapacity bounds every column to its last k values. Older values are
// overwritten, so duplicates are drawn from a sliding window instead of the
// whole run. k <= 0 keeps history unbounded.
func WithCapacity(k int) Option {
	return func(t *Tracker) {
		if k > 0 {
			t.capacity = k
		}
	}
}

// Tracker records emitted values per column.
//
// NOT safe for concurrent use; each run or worker shard owns its own tracker.
type Tracker struct {
	capacity int
	columns  map[string]*column
}

// column is an append-only list, or a ring buffer once capacity is reached
type column struct {
	values []interface{}
	head   int // Next overwrite position when bounded and full
}

// New creates an empty tracker
func New(opts ...Option) *Tracker {
	t := &Tracker{columns: make(map[string]*column)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Capacity returns the per-column bound, 0 when unbounded
func (t *Tracker) Capacity() int {
	return t.capacity
}

// Record appends value to the column's history. nil values are never recorded.
func (t *Tracker) Record(name string, value interface{}) {
	if value == nil {
		return
	}

	col, ok := t.columns[name]
	if !ok {
		col = &column{}
		t.columns[name] = col
	}

	if t.capacity == 0 || len(col.values) < t.capacity {
		col.values = append(col.values, value)
		return
	}

	col.values[col.head] = value
	col.head = (col.head + 1) % t.capacity
}

// Sample returns a uniformly chosen previously recorded value of the column,
// with replacement. ok is false when the column has no history.
func (t *Tracker) Sample(name string, rng *rand.Rand) (value interface{}, ok bool) {
	col, found := t.columns[name]
	if !found || len(col.values) == 0 {
		return nil, false
	}
	return col.values[rng.Intn(len(col.values))], true
}

// Len returns the number of values currently held for the column
func (t *Tracker) Len(name string) int {
	if col, ok := t.columns[name]; ok {
		return len(col.values)
	}
	return 0
}

// Values returns a copy of the values held for the column, oldest first
func (t *Tracker) Values(name string) []interface{} {
	col, ok := t.columns[name]
	if !ok || len(col.values) == 0 {
		return nil
	}

	out := make([]interface{}, 0, len(col.values))
	out = append(out, col.values[col.head:]...)
	out = append(out, col.values[:col.head]...)
	return out
}

// Reset drops every recorded value
func (t *Tracker) Reset() {
	t.columns = make(map[string]*column)
}
