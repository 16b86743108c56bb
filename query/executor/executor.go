// Package executor runs rendered queries against a database/sql connection.
package executor

import (
	"context"
	"database/sql"
	"fmt"

	// Database drivers for the supported providers.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/structql/structql/internal/debug"
	"github.com/structql/structql/query/sqlgen"
)

// Rows is the subset of sql.Rows the builders consume.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Executor runs rendered statements. *DB is the production implementation;
// tests substitute fakes.
type Executor interface {
	// Generator returns the dialect generator queries are rendered with.
	Generator() sqlgen.Generator
	// Query runs a row-returning statement.
	Query(ctx context.Context, q *sqlgen.Query) (Rows, error)
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, q *sqlgen.Query) (int64, error)
}

// DB wraps a database/sql connection together with its dialect generator.
type DB struct {
	db       *sql.DB
	gen      sqlgen.Generator
	provider string
}

// Open connects to a database. Provider is one of "postgres", "mysql"
// or "sqlite".
func Open(provider, dsn string) (*DB, error) {
	driver := ""
	switch provider {
	case "postgres", "postgresql":
		driver = "postgres"
	case "mysql":
		driver = "mysql"
	case "sqlite", "sqlite3":
		driver = "sqlite3"
	default:
		return nil, fmt.Errorf("executor: unknown provider %q", provider)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("executor: open %s: %w", provider, err)
	}
	return &DB{db: db, gen: sqlgen.NewGenerator(provider), provider: provider}, nil
}

// Generator implements Executor.
func (d *DB) Generator() sqlgen.Generator {
	return d.gen
}

// Query implements Executor.
func (d *DB) Query(ctx context.Context, q *sqlgen.Query) (Rows, error) {
	debug.Debug("query", "sql", q.SQL, "args", q.Args)
	rows, err := d.db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("executor: query: %w", err)
	}
	return rows, nil
}

// Exec implements Executor.
func (d *DB) Exec(ctx context.Context, q *sqlgen.Query) (int64, error) {
	debug.Debug("exec", "sql", q.SQL, "args", q.Args)
	res, err := d.db.ExecContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return 0, fmt.Errorf("executor: exec: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("executor: rows affected: %w", err)
	}
	return affected, nil
}

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close releases the connection pool.
func (d *DB) Close() error {
	return d.db.Close()
}

// ScanAll drains rows into raw per-column values, one slice per row,
// in select order. The rows are closed afterwards.
func ScanAll(rows Rows) ([][]any, error) {
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("executor: columns: %w", err)
	}
	var out [][]any
	for rows.Next() {
		raw := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("executor: scan: %w", err)
		}
		out = append(out, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("executor: rows: %w", err)
	}
	return out, nil
}
