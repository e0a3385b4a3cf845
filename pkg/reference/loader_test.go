package reference

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/data-synth/pkg/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCSVLoader(t *testing.T) {
	path := writeFile(t, "customers.csv", "customer_id,Name\nC-001,Ann\n,Bob\n42,\nC-003,Cy\n")
	loader := CSVLoader{}

	values, err := loader.Load(context.Background(), path, "customer_id")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"C-001", "42", "C-003"}, values)

	// Case-insensitive header fallback
	names, err := loader.Load(context.Background(), path, "name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Ann", "Bob", "Cy"}, names)
}

func TestCSVLoaderKeepsTextVerbatim(t *testing.T) {
	path := writeFile(t, "people.csv", "first_name,zip,id\nNan,00501,7\nInfinity,02134,8\nAnn,10001,9\n")
	loader := CSVLoader{}

	names, err := loader.Load(context.Background(), path, "first_name")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Nan", "Infinity", "Ann"}, names)

	zips, err := loader.Load(context.Background(), path, "zip")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"00501", "02134", "10001"}, zips)

	ids, err := loader.Load(context.Background(), path, "id")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(7), int64(8), int64(9)}, ids)
}

func TestCSVLoaderTSV(t *testing.T) {
	path := writeFile(t, "codes.tsv", "code\tlabel\n1.5\tx\n2\ty\n")

	values, err := CSVLoader{}.Load(context.Background(), path, "code")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.5, int64(2)}, values)
}

func TestCSVLoaderErrors(t *testing.T) {
	path := writeFile(t, "customers.csv", "customer_id\nC-001\n")

	_, err := CSVLoader{}.Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "customer_id")
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	_, err = CSVLoader{}.Load(context.Background(), path, "email")
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	empty := writeFile(t, "empty.csv", "")
	_, err = CSVLoader{}.Load(context.Background(), empty, "id")
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestRouterDispatch(t *testing.T) {
	var got []string
	record := func(prefix string) Loader {
		return LoaderFunc(func(ctx context.Context, source, column string) ([]interface{}, error) {
			got = append(got, prefix+"|"+source+"|"+column)
			return []interface{}{1}, nil
		})
	}

	router := NewRouter(record("file"), nil)
	router.Register("Postgres", record("pg"))
	assert.Equal(t, []string{"postgres"}, router.Schemes())

	ctx := context.Background()
	_, err := router.Load(ctx, "postgres:public.users", "id")
	require.NoError(t, err)
	_, err = router.Load(ctx, "/data/users.csv", "id")
	require.NoError(t, err)
	_, err = router.Load(ctx, "file:/data/users.csv", "id")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pg|public.users|id",
		"file|/data/users.csv|id",
		"file|/data/users.csv|id",
	}, got)

	_, err = router.Load(ctx, "mysql:users", "id")
	assert.True(t, errors.Is(err, ErrSourceNotFound))
}

// fakeTable backs the in-memory database/sql driver used to exercise SQLLoader
type fakeTable struct {
	schema  string
	name    string
	columns map[string][]driver.Value
}

type fakeDriver struct {
	mu      sync.Mutex
	tables  []fakeTable
	queries []string
}

var sharedFakeDriver = &fakeDriver{}

func init() {
	sql.Register("fakeref", sharedFakeDriver)
}

func (d *fakeDriver) Open(string) (driver.Conn, error) { return &fakeConn{d: d}, nil }

type fakeConn struct{ d *fakeDriver }

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{d: c.d, query: query}, nil
}
func (c *fakeConn) Close() error              { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

type fakeStmt struct {
	d     *fakeDriver
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("not supported")
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	s.d.queries = append(s.d.queries, s.query)

	if strings.Contains(s.query, "information_schema.columns") {
		schema, _ := args[0].(string)
		table, _ := args[1].(string)
		rows := &fakeRows{cols: []string{"table_schema", "table_name", "column_name"}}
		for _, tbl := range s.d.tables {
			if strings.EqualFold(tbl.schema, schema) && strings.EqualFold(tbl.name, table) {
				for col := range tbl.columns {
					rows.data = append(rows.data, []driver.Value{tbl.schema, tbl.name, col})
				}
			}
		}
		return rows, nil
	}

	for _, tbl := range s.d.tables {
		if !strings.Contains(s.query, `"`+tbl.schema+`"."`+tbl.name+`"`) {
			continue
		}
		for col, values := range tbl.columns {
			if strings.HasPrefix(s.query, `SELECT "`+col+`"`) {
				rows := &fakeRows{cols: []string{col}}
				for _, v := range values {
					rows.data = append(rows.data, []driver.Value{v})
				}
				return rows, nil
			}
		}
	}
	return nil, errors.New("relation does not exist")
}

type fakeRows struct {
	cols []string
	data [][]driver.Value
	pos  int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

// fakeConnector satisfies connector.DatabaseConnector over the fake driver
type fakeConnector struct {
	db *sql.DB
}

func (c *fakeConnector) DB() *sql.DB                    { return c.db }
func (c *fakeConnector) DriverName() string             { return "fakeref" }
func (c *fakeConnector) Name() string                   { return "postgres" }
func (c *fakeConnector) DefaultSchema() string          { return "public" }
func (c *fakeConnector) Validate(context.Context) error { return nil }
func (c *fakeConnector) Close() error                   { return c.db.Close() }
func (c *fakeConnector) Timeout() time.Duration         { return time.Second }

func newFakeConnector(t *testing.T, tables ...fakeTable) *fakeConnector {
	t.Helper()
	sharedFakeDriver.mu.Lock()
	sharedFakeDriver.tables = tables
	sharedFakeDriver.queries = nil
	sharedFakeDriver.mu.Unlock()

	db, err := sql.Open("fakeref", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &fakeConnector{db: db}
}

func TestSQLLoader(t *testing.T) {
	conn := newFakeConnector(t, fakeTable{
		schema: "public",
		name:   "Customers",
		columns: map[string][]driver.Value{
			"CustomerID": {int64(1), nil, int64(3), []byte("4")},
		},
	})
	loader := NewSQLLoader(conn, nil)

	values, err := loader.Load(context.Background(), "customers", "customerid")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{int64(1), int64(3), "4"}, values)

	sharedFakeDriver.mu.Lock()
	queries := append([]string(nil), sharedFakeDriver.queries...)
	sharedFakeDriver.mu.Unlock()
	require.Len(t, queries, 2)
	assert.Contains(t, queries[0], "information_schema.columns")
	assert.Equal(t, `SELECT "CustomerID" FROM "public"."Customers" ORDER BY 1`, queries[1])
}

func TestSQLLoaderErrors(t *testing.T) {
	conn := newFakeConnector(t, fakeTable{
		schema:  "refs",
		name:    "codes",
		columns: map[string][]driver.Value{"code": {"A"}},
	})
	loader := NewSQLLoader(conn, nil)
	ctx := context.Background()

	_, err := loader.Load(ctx, "refs.missing", "code")
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	_, err = loader.Load(ctx, "refs.codes", "label")
	assert.True(t, errors.Is(err, ErrColumnNotFound))

	values, err := loader.Load(ctx, "refs.codes", "code")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"A"}, values)
}

func TestResolverOverRouterAndSQL(t *testing.T) {
	conn := newFakeConnector(t, fakeTable{
		schema:  "public",
		name:    "plans",
		columns: map[string][]driver.Value{"plan": {"basic", "pro"}},
	})
	router := NewRouter(nil, nil)
	router.Register(conn.Name(), NewSQLLoader(conn, nil))
	resolver := NewResolver(router, nil)

	pool, err := resolver.Resolve(context.Background(), model.ReferenceSpec{Source: "Postgres:plans", Column: "plan"})
	require.NoError(t, err)
	assert.Equal(t, Pool{"basic", "pro"}, pool)
}
