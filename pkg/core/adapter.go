package core

import "context"

// Inspector lists schema metadata for a table.
type Inspector interface {
	// Columns returns the table's columns with their native type strings.
	Columns(ctx context.Context, table, schema string) ([]Column, error)

	// Indexes returns the table's indexes. Partition keys are reported as
	// an index named "partition".
	Indexes(ctx context.Context, table, schema string) ([]Index, error)
}

// Connection executes generated SQL and fetches all rows.
type Connection interface {
	Query(ctx context.Context, query string) (*Result, error)
}

// FeatureFlags answers whether an optional behavior is switched on.
type FeatureFlags interface {
	Enabled(name string) bool
}

// Feature flag names.
const (
	FeatureExpandData = "PRESTO_EXPAND_DATA"
	FeatureExpandRows = "TRINO_EXPAND_ROWS"
)

// Flags is a static FeatureFlags backed by a map.
type Flags map[string]bool

// Enabled reports whether name is set to true.
func (f Flags) Enabled(name string) bool {
	return f[name]
}

// Result is a fully materialized query result.
type Result struct {
	Columns []string
	Rows    [][]any
}

// Empty reports whether the result has no rows.
func (r *Result) Empty() bool {
	return r == nil || len(r.Rows) == 0
}

// Maps returns each row keyed by column name.
func (r *Result) Maps() []map[string]any {
	if r == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		m := make(map[string]any, len(r.Columns))
		for i, col := range r.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// Column returns the values of the named column, or nil if absent.
func (r *Result) Column(name string) []any {
	if r == nil {
		return nil
	}
	idx := -1
	for i, col := range r.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	DSN      string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
}
