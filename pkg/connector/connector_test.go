package connector

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-synth/pkg/config"
)

func TestApplyConnectionSettings(t *testing.T) {
	// sql.Open does not dial; the pool settings are observable without a server
	db, err := sql.Open(PostgresDriverName, "host=127.0.0.1 port=1 user=x dbname=y sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	ApplyConnectionSettings(db, 7, 3, time.Minute, time.Second)
	stats := GetConnectionStats(db)
	assert.Equal(t, 7, stats.MaxOpenConns)
	assert.Equal(t, 0, stats.OpenConnections)
}

func TestFactoryRequiresConfiguration(t *testing.T) {
	factory := NewConnectorFactory(&config.Config{}, nil)
	ctx := context.Background()

	_, err := factory.CreatePostgresConnector(ctx)
	assert.Error(t, err)

	_, err = factory.CreateSnowflakeConnector(ctx)
	assert.Error(t, err)

	connectors, err := factory.CreateConfiguredConnectors(ctx)
	require.NoError(t, err)
	assert.Empty(t, connectors)
}

func TestPingWithTimeoutUnreachable(t *testing.T) {
	db, err := sql.Open(PostgresDriverName, "host=127.0.0.1 port=1 user=x dbname=y sslmode=disable connect_timeout=1")
	require.NoError(t, err)
	defer db.Close()

	err = PingWithTimeout(context.Background(), db, 2*time.Second)
	assert.Error(t, err)
}
