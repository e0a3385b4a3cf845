// Package reference resolves foreign-key style columns: it loads the candidate
// values of another source's column once per run and samples from them.
package reference

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/David-Botos/data-synth/pkg/model"
)

var (
	referenceLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "synth_reference_loads_total",
		Help: "Reference pool loads by result",
	}, []string{"result"})

	referenceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "synth_reference_cache_hits_total",
		Help: "Reference lookups served from the cache",
	})

	referenceLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "synth_reference_load_duration_seconds",
		Help:    "Time spent loading one reference pool",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})
)

// Loader reads every value of one column of a source. The source passed in
// is already normalized. Loaders should wrap ErrSourceNotFound and
// ErrColumnNotFound so callers can branch on them.
type Loader interface {
	Load(ctx context.Context, source, column string) ([]interface{}, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(ctx context.Context, source, column string) ([]interface{}, error)

// Load calls f
func (f LoaderFunc) Load(ctx context.Context, source, column string) ([]interface{}, error) {
	return f(ctx, source, column)
}

// Pool is the ordered candidate sequence of a reference column.
// Pools are shared between callers and must not be modified.
type Pool []interface{}

// FetchOne draws one value uniformly at random from the pool
func FetchOne(pool Pool, rng *rand.Rand) (interface{}, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	return pool[rng.Intn(len(pool))], nil
}

// Stats reports cache activity
type Stats struct {
	Entries int   // Distinct pools held
	Loads   int64 // Loader invocations, successful or not
	Hits    int64 // Lookups answered from the cache
}

// DefaultLoadTimeout bounds a single reference pool load
const DefaultLoadTimeout = 5 * time.Minute

// Resolver caches reference pools by normalized (source, column).
//
// Safe for concurrent use: the cache map is guarded by a mutex and concurrent
// misses for one key share a single load. The shared load is detached from
// the cancellation of whichever caller started it and bounded by the load
// timeout instead; a cancelled caller stops waiting while the others keep
// the result.
type Resolver struct {
	loader      Loader
	logger      *zap.Logger
	loadTimeout time.Duration

	mu     sync.RWMutex
	cache  map[string]Pool
	flight singleflight.Group

	loads atomic.Int64
	hits  atomic.Int64
}

// NewResolver creates a resolver backed by loader
func NewResolver(loader Loader, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		loader:      loader,
		logger:      logger.Named("reference"),
		loadTimeout: DefaultLoadTimeout,
		cache:       make(map[string]Pool),
	}
}

// WithLoadTimeout sets the bound on a single load; zero or less disables it
func (r *Resolver) WithLoadTimeout(d time.Duration) *Resolver {
	r.loadTimeout = d
	return r
}

// Resolve returns the pool for spec, loading it on the first request for
// its normalized key. Failed loads are not cached.
func (r *Resolver) Resolve(ctx context.Context, spec model.ReferenceSpec) (Pool, error) {
	column := strings.TrimSpace(spec.Column)
	if column == "" {
		return nil, &Error{Source: spec.Source, Column: spec.Column, Err: ErrColumnNotFound}
	}

	source, err := NormalizeSource(spec.Source)
	if err != nil {
		return nil, &Error{Source: spec.Source, Column: column, Err: err}
	}
	key := cacheKey(source, column)

	if pool, ok := r.lookup(key); ok {
		r.hits.Add(1)
		referenceCacheHits.Inc()
		return pool, nil
	}

	ch := r.flight.DoChan(key, func() (interface{}, error) {
		// Double-check inside the flight: another caller may have stored it
		if pool, ok := r.lookup(key); ok {
			return pool, nil
		}
		loadCtx := context.WithoutCancel(ctx)
		if r.loadTimeout > 0 {
			var cancel context.CancelFunc
			loadCtx, cancel = context.WithTimeout(loadCtx, r.loadTimeout)
			defer cancel()
		}
		return r.load(loadCtx, source, column, key)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("stopped waiting for reference %s.%s: %w", source, column, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		pool, ok := res.Val.(Pool)
		if !ok {
			return nil, fmt.Errorf("unexpected type from reference flight: got %T", res.Val)
		}
		return pool, nil
	}
}

// Fetch resolves spec and draws one value from its pool
func (r *Resolver) Fetch(ctx context.Context, spec model.ReferenceSpec, rng *rand.Rand) (interface{}, error) {
	pool, err := r.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	return FetchOne(pool, rng)
}

// Warm loads every spec up front so workers started afterwards only hit the cache
func (r *Resolver) Warm(ctx context.Context, specs []model.ReferenceSpec) error {
	for _, spec := range specs {
		if _, err := r.Resolve(ctx, spec); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns a snapshot of cache activity
func (r *Resolver) Stats() Stats {
	r.mu.RLock()
	entries := len(r.cache)
	r.mu.RUnlock()

	return Stats{
		Entries: entries,
		Loads:   r.loads.Load(),
		Hits:    r.hits.Load(),
	}
}

func (r *Resolver) lookup(key string) (Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool, ok := r.cache[key]
	return pool, ok
}

func (r *Resolver) load(ctx context.Context, source, column, key string) (Pool, error) {
	start := time.Now()
	r.loads.Add(1)

	values, err := r.loader.Load(ctx, source, column)
	referenceLoadDuration.Observe(time.Since(start).Seconds())
	if err == nil && len(values) == 0 {
		err = ErrEmptyPool
	}
	if err != nil {
		referenceLoadsTotal.WithLabelValues("error").Inc()
		r.logger.Error("Failed to load reference pool",
			zap.String("source", source),
			zap.String("column", column),
			zap.Error(err))

		var refErr *Error
		if errors.As(err, &refErr) {
			return nil, err
		}
		return nil, &Error{Source: source, Column: column, Err: err}
	}

	pool := Pool(values)

	r.mu.Lock()
	r.cache[key] = pool
	r.mu.Unlock()

	referenceLoadsTotal.WithLabelValues("ok").Inc()
	r.logger.Debug("Loaded reference pool",
		zap.String("source", source),
		zap.String("column", column),
		zap.Int("values", len(pool)),
		zap.Duration("elapsed", time.Since(start)))

	return pool, nil
}
