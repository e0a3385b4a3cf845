// pkg/connector/factory.go
package connector

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/config"
)

// ConnectorFactory creates reference database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSnowflakeConnector creates a new Snowflake connector
func (f *ConnectorFactory) CreateSnowflakeConnector(ctx context.Context) (*SnowflakeConnector, error) {
	if f.cfg.Snowflake == nil {
		return nil, errors.New("snowflake is not configured")
	}
	f.logger.Info("Creating Snowflake connector")

	connector, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
	}

	return connector, nil
}

// CreatePostgresConnector creates a new PostgreSQL connector
func (f *ConnectorFactory) CreatePostgresConnector(ctx context.Context) (*PostgresConnector, error) {
	if f.cfg.Postgres == nil {
		return nil, errors.New("postgreSQL is not configured")
	}
	f.logger.Info("Creating PostgreSQL connector")

	connector, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
	}

	return connector, nil
}

// CreateConfiguredConnectors opens a connector for every configured reference
// database. On failure, connectors opened so far are closed.
func (f *ConnectorFactory) CreateConfiguredConnectors(ctx context.Context) ([]DatabaseConnector, error) {
	var connectors []DatabaseConnector
	closeAll := func() {
		for _, c := range connectors {
			c.Close()
		}
	}

	if f.cfg.Postgres != nil {
		pgConn, err := f.CreatePostgresConnector(ctx)
		if err != nil {
			return nil, err
		}
		connectors = append(connectors, pgConn)
	}

	if f.cfg.Snowflake != nil {
		snowConn, err := f.CreateSnowflakeConnector(ctx)
		if err != nil {
			closeAll()
			return nil, err
		}
		connectors = append(connectors, snowConn)
	}

	return connectors, nil
}
