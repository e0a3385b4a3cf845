package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/config"
	"github.com/David-Botos/data-synth/pkg/connector"
	"github.com/David-Botos/data-synth/pkg/reference"
)

// Setup is a generator wired from configuration, together with the
// reference database connections it holds open
type Setup struct {
	Generator  *Generator
	Options    []Option
	connectors []connector.DatabaseConnector
}

// NewFromConfig opens every configured reference database, routes reference
// sources to them by scheme (files stay the default) and builds a generator
// with the run options the configuration asks for.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Setup, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	conns, err := connector.NewConnectorFactory(cfg, logger).CreateConfiguredConnectors(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range conns {
		connector.LogConnectionStats(logger, c.Name(), c.DB())
	}

	router := reference.NewRouterFromConnectors(conns, logger)
	logger.Info("Reference sources configured", zap.Strings("schemes", router.Schemes()))

	return &Setup{
		Generator:  New(nil, reference.NewResolver(router, logger), logger),
		Options:    OptionsFromConfig(cfg),
		connectors: conns,
	}, nil
}

// OptionsFromConfig translates run settings into generation options
func OptionsFromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithHistoryCapacity(cfg.HistoryCapacity),
		WithWorkers(cfg.Workers),
	}
	if cfg.Seed != 0 {
		opts = append(opts, WithSeed(cfg.Seed))
	}
	return opts
}

// Close closes the reference database connections
func (s *Setup) Close() error {
	var errs []error
	for _, c := range s.connectors {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s connector: %w", c.Name(), err))
		}
	}
	return errors.Join(errs...)
}
