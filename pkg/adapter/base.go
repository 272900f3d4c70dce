package adapter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// ErrNotConnected is returned when a method needs a connection before
// Connect has succeeded.
var ErrNotConnected = errors.New("database connection not established")

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and Columns implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger

	// DefaultSchema is used when neither the caller nor Cfg names a schema.
	DefaultSchema string

	// Placeholder renders the n-th (1-based) bind parameter; nil means "?".
	Placeholder func(n int) string

	// TypeColumn is the information_schema.columns column holding the
	// native type string; empty means data_type.
	TypeColumn string
}

// DollarPlaceholder renders PostgreSQL style $N parameters.
func DollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (b *BaseSQLAdapter) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.Logger
}

func (b *BaseSQLAdapter) placeholder(n int) string {
	if b.Placeholder == nil {
		return "?"
	}
	return b.Placeholder(n)
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		b.logger().Debug("closing database connection")
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return ErrNotConnected
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement and reads every row into memory.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Result, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	b.logger().Debug("executing query", slog.String("sql", sqlStr))
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return ScanResult(rows)
}

// ScanResult drains rows into a core.Result. Byte slices are converted to
// strings so results render and compare naturally.
func ScanResult(rows *sql.Rows) (*core.Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get column names: %w", err)
	}
	res := &core.Result{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if raw, ok := v.([]byte); ok {
				values[i] = string(raw)
			}
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return res, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// SchemaOr returns schema, falling back to the configured schema and then
// to DefaultSchema.
func (b *BaseSQLAdapter) SchemaOr(schema string) string {
	switch {
	case schema != "":
		return schema
	case b.Cfg.Schema != "":
		return b.Cfg.Schema
	default:
		return b.DefaultSchema
	}
}

// Columns lists a table's columns from information_schema.columns. A table
// without columns is reported as core.ErrNoSuchTable.
func (b *BaseSQLAdapter) Columns(ctx context.Context, table, schema string) ([]core.Column, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	schema = b.SchemaOr(schema)
	typeColumn := b.TypeColumn
	if typeColumn == "" {
		typeColumn = "data_type"
	}

	//nolint:gosec // typeColumn is set by adapters, placeholders are ? or $N
	query := fmt.Sprintf(`SELECT column_name, %s, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema = %s AND table_name = %s
ORDER BY ordinal_position`, typeColumn, b.placeholder(1), b.placeholder(2))

	b.logger().Debug("listing columns", slog.String("schema", schema), slog.String("table", table))
	rows, err := b.DB.QueryContext(ctx, query, schema, table)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []core.Column
	for rows.Next() {
		var (
			col      core.Column
			nullable string
			def      sql.NullString
		)
		if err := rows.Scan(&col.Name, &col.Type, &nullable, &def); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Nullable = strings.EqualFold(nullable, "YES")
		if def.Valid {
			col.Default = &def.String
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}

	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s.%s: %w", schema, table, core.ErrNoSuchTable)
	}
	return columns, nil
}

// Indexes reports no indexes. Adapters whose backend exposes index or
// partition metadata override it.
func (b *BaseSQLAdapter) Indexes(_ context.Context, _, _ string) ([]core.Index, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	return nil, nil
}

// QueryIndexes runs a query returning (index_name, column_name) rows and
// folds them into indexes in first-seen order.
func (b *BaseSQLAdapter) QueryIndexes(ctx context.Context, query string, args ...any) ([]core.Index, error) {
	if b.DB == nil {
		return nil, ErrNotConnected
	}
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var indexes []core.Index
	pos := make(map[string]int)
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, fmt.Errorf("failed to scan index metadata: %w", err)
		}
		i, ok := pos[name]
		if !ok {
			i = len(indexes)
			pos[name] = i
			indexes = append(indexes, core.Index{Name: name})
		}
		indexes[i].Columns = append(indexes[i].Columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index metadata: %w", err)
	}
	return indexes, nil
}

// ErrorContext returns the connection parameters error templates refer to.
func (b *BaseSQLAdapter) ErrorContext(_ error) core.ErrorContext {
	ctx := core.ErrorContext{}
	if b.Cfg.Username != "" {
		ctx["username"] = b.Cfg.Username
	}
	if b.Cfg.Host != "" {
		ctx["hostname"] = b.Cfg.Host
	}
	if b.Cfg.Port != 0 {
		ctx["port"] = strconv.Itoa(b.Cfg.Port)
	}
	if b.Cfg.Database != "" {
		ctx["database"] = b.Cfg.Database
	}
	return ctx
}
