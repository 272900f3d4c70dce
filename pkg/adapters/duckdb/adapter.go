// Package duckdb provides a DuckDB database adapter.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/core"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the adapter registry name.
const Name = "duckdb"

// constraintQuery reports primary key and unique constraints as indexes.
const constraintQuery = `SELECT constraint_type || '_' || CAST(constraint_index AS VARCHAR) AS index_name,
       UNNEST(constraint_column_names) AS column_name
FROM duckdb_constraints()
WHERE schema_name = ? AND table_name = ?
  AND constraint_type IN ('PRIMARY KEY', 'UNIQUE')
ORDER BY constraint_index`

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, DefaultSchema: "main"},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = cfg.DSN
	}
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// SET is session scoped, so keep a single pooled connection.
	db.SetMaxOpenConns(1)

	for _, stmt := range ParseParams(cfg.Options).Statements() {
		a.Logger.Debug("applying duckdb session statement", slog.String("sql", stmt))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to apply %q: %w", stmt, err)
		}
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// Indexes reports primary key and unique constraints.
func (a *Adapter) Indexes(ctx context.Context, table, schema string) ([]core.Index, error) {
	return a.QueryIndexes(ctx, constraintQuery, a.SchemaOr(schema), table)
}

var _ adapter.Adapter = (*Adapter)(nil)
