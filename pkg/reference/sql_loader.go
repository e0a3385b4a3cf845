package reference

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/David-Botos/data-synth/pkg/connector"
	"github.com/David-Botos/data-synth/pkg/converter"
)

const columnLookupQuery = `SELECT table_schema, table_name, column_name
FROM information_schema.columns
WHERE UPPER(table_schema) = UPPER(?) AND UPPER(table_name) = UPPER(?)`

// SQLLoader reads reference pools from a database table. Sources are
// "table" or "schema.table"; unqualified tables use the connector's
// default schema. Values are returned in ascending order so pools are
// stable across runs.
type SQLLoader struct {
	db     *sqlx.DB
	conn   connector.DatabaseConnector
	logger *zap.Logger
}

// NewSQLLoader creates a loader over an open connector
func NewSQLLoader(conn connector.DatabaseConnector, logger *zap.Logger) *SQLLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLLoader{
		db:     sqlx.NewDb(conn.DB(), conn.DriverName()),
		conn:   conn,
		logger: logger.Named("sql-loader").With(zap.String("database", conn.Name())),
	}
}

// Load implements Loader
func (l *SQLLoader) Load(ctx context.Context, source, column string) ([]interface{}, error) {
	if timeout := l.conn.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	schema, table := splitTableName(source, l.conn.DefaultSchema())
	if table == "" {
		return nil, fmt.Errorf("%w: empty table name in %q", ErrSourceNotFound, source)
	}

	ident, err := l.lookupColumn(ctx, schema, table, column)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s.%s ORDER BY 1",
		pq.QuoteIdentifier(ident.Column),
		pq.QuoteIdentifier(ident.Schema),
		pq.QuoteIdentifier(ident.Table),
	)

	rows, err := l.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", ident.Schema, ident.Table, err)
	}
	defer rows.Close()

	var values []interface{}
	for rows.Next() {
		cols, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan reference row: %w", err)
		}
		value, err := converter.NormalizeScalar(cols[0])
		if err != nil {
			return nil, err
		}
		if value == nil {
			continue
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reference rows: %w", err)
	}

	l.logger.Debug("Loaded reference column",
		zap.String("table", ident.Schema+"."+ident.Table),
		zap.String("column", ident.Column),
		zap.Int("values", len(values)))

	return values, nil
}

// columnIdent is a column located in information_schema, in its stored case
type columnIdent struct {
	Schema string
	Table  string
	Column string
}

func (l *SQLLoader) lookupColumn(ctx context.Context, schema, table, column string) (columnIdent, error) {
	rows, err := l.db.QueryxContext(ctx, l.db.Rebind(columnLookupQuery), schema, table)
	if err != nil {
		return columnIdent{}, fmt.Errorf("failed to inspect %s.%s: %w", schema, table, err)
	}
	defer rows.Close()

	var (
		found    bool
		fallback *columnIdent
	)
	for rows.Next() {
		var ident columnIdent
		if err := rows.Scan(&ident.Schema, &ident.Table, &ident.Column); err != nil {
			return columnIdent{}, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		found = true
		if ident.Column == column {
			return ident, nil
		}
		if fallback == nil && strings.EqualFold(ident.Column, column) {
			copied := ident
			fallback = &copied
		}
	}
	if err := rows.Err(); err != nil {
		return columnIdent{}, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if !found {
		return columnIdent{}, fmt.Errorf("%w: table %s.%s", ErrSourceNotFound, schema, table)
	}
	if fallback == nil {
		return columnIdent{}, fmt.Errorf("%w: %q not in %s.%s", ErrColumnNotFound, column, schema, table)
	}
	return *fallback, nil
}

// splitTableName splits "schema.table", defaulting the schema
func splitTableName(source, defaultSchema string) (schema, table string) {
	source = strings.TrimSpace(source)
	if idx := strings.LastIndex(source, "."); idx >= 0 {
		return strings.TrimSpace(source[:idx]), strings.TrimSpace(source[idx+1:])
	}
	return defaultSchema, source
}
