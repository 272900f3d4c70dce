package duckdb

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// Engine is the DuckDB engine.
type Engine struct {
	dialect.Base
}

var (
	_ dialect.Engine         = (*Engine)(nil)
	_ dialect.FunctionLister = (*Engine)(nil)
	_ dialect.ViewLister     = (*Engine)(nil)
)

// New creates a DuckDB engine.
func New(opts dialect.Options) *Engine {
	return &Engine{Base: dialect.NewBase(NewDialect(), opts.Logger)}
}

// GetColumns lists the table's columns with their generic types.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	return dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
}

// FunctionNames lists the catalog functions plus the window functions,
// which duckdb_functions() does not report.
func (e *Engine) FunctionNames(ctx context.Context, conn core.Connection) ([]string, error) {
	if conn == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "connection")
	}
	res, err := conn.Query(ctx, functionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	names := lo.Map(res.Column("function_name"), func(v any, _ int) string {
		return fmt.Sprint(v)
	})
	names = lo.Uniq(append(names, windowFunctions...))
	sort.Strings(names)
	return names, nil
}

// ViewNames lists the user views in schema, or in every schema when empty.
func (e *Engine) ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	if conn == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "connection")
	}
	q := viewsQuery
	if schema != "" {
		q += fmt.Sprintf(" AND schema_name = '%s'", strings.ReplaceAll(schema, "'", "''"))
	}
	res, err := conn.Query(ctx, q+"\nORDER BY view_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	return lo.Map(res.Column("view_name"), func(v any, _ int) string {
		return fmt.Sprint(v)
	}), nil
}
