// Package storage is the statement execution adapter: the only
// component that talks to the storage engine directly. It executes
// parameterized statements built by the query builder, enforces the
// limits the edge engine imposes (row cap per query, execution time per
// statement), and surfaces failures as typed errors.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/user/crmcore/internal/querybuilder"
)

// Defaults for the engine limits.
const (
	DefaultMaxRows          = 1000
	DefaultStatementTimeout = 30 * time.Second
)

// Options tune the adapter's enforcement of engine limits.
type Options struct {
	// MaxRows caps rows returned per query. Exceeding it yields a
	// KindTooManyRows error.
	MaxRows int

	// StatementTimeout bounds each statement's execution.
	StatementTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.StatementTimeout <= 0 {
		o.StatementTimeout = DefaultStatementTimeout
	}
	return o
}

// Result reports the outcome of a write statement.
type Result struct {
	Changed    int64
	InsertedID int64
}

// Adapter executes statements against the SQLite-backed engine.
type Adapter struct {
	db     *sql.DB
	opts   Options
	logger *slog.Logger
}

// Open creates or opens the database at path and configures it for the
// single-writer access pattern SQLite requires.
func Open(path string, opts Options, logger *slog.Logger) (*Adapter, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, classify("failed to connect to database", err)
	}

	// One writer at a time avoids SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{db: db, opts: opts.withDefaults(), logger: logger}, nil
}

// Close closes the database connection.
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// MaxRows returns the configured row cap.
func (a *Adapter) MaxRows() int {
	return a.opts.MaxRows
}

// Query executes a read statement and returns every row as a column
// name to primitive value map. Returns a KindTooManyRows error when the
// result exceeds the row cap.
func (a *Adapter) Query(ctx context.Context, stmt querybuilder.Statement) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.StatementTimeout)
	defer cancel()

	rows, err := a.db.QueryContext(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return nil, classify("query failed", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, classify("failed to read result columns", err)
	}

	var out []map[string]any
	for rows.Next() {
		if len(out) >= a.opts.MaxRows {
			return nil, &Error{
				Kind:    KindTooManyRows,
				Message: fmt.Sprintf("query result exceeds row cap of %d", a.opts.MaxRows),
			}
		}
		row, err := scanRow(rows, cols)
		if err != nil {
			return nil, classify("failed to scan row", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("row iteration failed", err)
	}
	return out, nil
}

// QueryOne executes a read statement expected to match at most one row.
// Absence is not an error: it returns (nil, nil).
func (a *Adapter) QueryOne(ctx context.Context, stmt querybuilder.Statement) (map[string]any, error) {
	rows, err := a.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Execute runs a write statement and reports the affected-row count and
// generated rowid.
func (a *Adapter) Execute(ctx context.Context, stmt querybuilder.Statement) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.StatementTimeout)
	defer cancel()

	res, err := a.db.ExecContext(ctx, stmt.SQL(), stmt.Args()...)
	if err != nil {
		return Result{}, classify("execute failed", err)
	}
	return readResult(res), nil
}

// Batch applies the statements as one atomic unit: either every
// statement commits or none does. This is the engine's only
// transactional primitive; there is no partial rollback.
func (a *Adapter) Batch(ctx context.Context, stmts []querybuilder.Statement) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.StatementTimeout)
	defer cancel()

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify("failed to begin batch", err)
	}

	results := make([]Result, 0, len(stmts))
	for i, stmt := range stmts {
		res, err := tx.ExecContext(ctx, stmt.SQL(), stmt.Args()...)
		if err != nil {
			tx.Rollback()
			return nil, classify(fmt.Sprintf("batch statement %d failed", i), err)
		}
		results = append(results, readResult(res))
	}

	if err := tx.Commit(); err != nil {
		tx.Rollback()
		return nil, classify("failed to commit batch", err)
	}
	return results, nil
}

func readResult(res sql.Result) Result {
	// Both counters are best-effort; the sqlite driver supports them
	// but a failure here should not fail a committed write.
	changed, _ := res.RowsAffected()
	inserted, _ := res.LastInsertId()
	return Result{Changed: changed, InsertedID: inserted}
}

// scanRow reads the current row into a map, normalizing the driver's
// []byte TEXT representation to string.
func scanRow(rows *sql.Rows, cols []string) (map[string]any, error) {
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}
