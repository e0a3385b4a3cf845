package generator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-synth/pkg/config"
)

func TestNewFromConfigWithFileReferences(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("id,name\n1,Ann\n2,Bo\n3,Cy\n"), 0o644))

	cfg := &config.Config{Seed: 123456, HistoryCapacity: 50, Workers: 2, LogLevel: "info", LogFormat: "json"}
	setup, err := NewFromConfig(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, setup.Close()) }()

	s := mustParse(t, `
- name: customer_id
  type: reference
  config:
    reference_file: `+csvPath+`
    reference_column: id
- name: name
  type: name
`)
	result, err := setup.Generator.Generate(context.Background(), s, 40, setup.Options...)
	require.NoError(t, err)
	assert.Equal(t, int64(123456), result.Seed)
	assert.Equal(t, 2, result.Metrics.ChunksCompleted)
	for _, row := range result.Rows {
		assert.Contains(t, []interface{}{int64(1), int64(2), int64(3)}, row["customer_id"])
	}
}

func TestNewFromConfigRejectsInvalidConfig(t *testing.T) {
	_, err := NewFromConfig(context.Background(), &config.Config{Workers: -1, LogFormat: "json"}, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	o := &options{}
	for _, opt := range OptionsFromConfig(&config.Config{HistoryCapacity: 7, Workers: 3}) {
		opt(o)
	}
	assert.False(t, o.seeded)
	assert.Equal(t, 7, o.historyCapacity)
	assert.Equal(t, 3, o.workers)

	o = &options{}
	for _, opt := range OptionsFromConfig(&config.Config{Seed: 5}) {
		opt(o)
	}
	assert.True(t, o.seeded)
	assert.Equal(t, int64(5), o.seed)
}
