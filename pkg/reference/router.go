package reference

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/connector"
)

// Router dispatches "scheme:target" sources to the loader registered for
// the scheme and everything else to the file loader
type Router struct {
	files   Loader
	schemes map[string]Loader
	logger  *zap.Logger
}

// NewRouter creates a router whose plain-path sources go to files.
// A nil files loader defaults to CSVLoader.
func NewRouter(files Loader, logger *zap.Logger) *Router {
	if files == nil {
		files = CSVLoader{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		files:   files,
		schemes: make(map[string]Loader),
		logger:  logger.Named("router"),
	}
}

// NewRouterFromConnectors registers an SQLLoader for every connector under
// the connector's scheme name
func NewRouterFromConnectors(conns []connector.DatabaseConnector, logger *zap.Logger) *Router {
	router := NewRouter(nil, logger)
	for _, conn := range conns {
		router.Register(conn.Name(), NewSQLLoader(conn, logger))
	}
	return router
}

// Register adds or replaces the loader for a scheme
func (r *Router) Register(scheme string, loader Loader) {
	normalized, _, ok := SplitScheme(scheme + ":")
	if !ok {
		normalized = scheme
	}
	r.schemes[normalized] = loader
	r.logger.Debug("Registered reference loader", zap.String("scheme", normalized))
}

// Schemes returns the registered scheme names, sorted
func (r *Router) Schemes() []string {
	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load implements Loader
func (r *Router) Load(ctx context.Context, source, column string) ([]interface{}, error) {
	scheme, target, ok := SplitScheme(source)
	if !ok || scheme == FileScheme {
		if ok {
			source = target
		}
		return r.files.Load(ctx, source, column)
	}

	loader, found := r.schemes[scheme]
	if !found {
		return nil, fmt.Errorf("%w: no loader registered for scheme %q", ErrSourceNotFound, scheme)
	}
	return loader.Load(ctx, target, column)
}
