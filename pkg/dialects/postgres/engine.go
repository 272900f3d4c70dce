package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// Name is the registry key.
const Name = "postgresql"

// Engine is the PostgreSQL engine.
type Engine struct {
	dialect.Base
}

var (
	_ dialect.Engine         = (*Engine)(nil)
	_ dialect.FunctionLister = (*Engine)(nil)
	_ dialect.ViewLister     = (*Engine)(nil)
)

// New creates a PostgreSQL engine.
func New(opts dialect.Options) *Engine {
	return &Engine{Base: dialect.NewBase(NewDialect(), opts.Logger)}
}

// GetColumns lists the table's columns with their generic types.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	return dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
}

const functionsQuery = `SELECT DISTINCT p.proname
FROM pg_catalog.pg_proc p
JOIN pg_catalog.pg_namespace n ON n.oid = p.pronamespace
WHERE n.nspname NOT IN ('information_schema')
ORDER BY p.proname`

// FunctionNames lists the functions visible in the catalog.
func (e *Engine) FunctionNames(ctx context.Context, conn core.Connection) ([]string, error) {
	return listNames(ctx, conn, functionsQuery, "functions")
}

// ViewNames lists the views in schema, or in every user schema when empty.
func (e *Engine) ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	q := "SELECT viewname FROM pg_catalog.pg_views\nWHERE schemaname NOT IN ('pg_catalog', 'information_schema')"
	if schema != "" {
		q = fmt.Sprintf("SELECT viewname FROM pg_catalog.pg_views\nWHERE schemaname = '%s'", strings.ReplaceAll(schema, "'", "''"))
	}
	return listNames(ctx, conn, q+"\nORDER BY viewname", "views")
}

func listNames(ctx context.Context, conn core.Connection, query, what string) ([]string, error) {
	if conn == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "connection")
	}
	res, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", what, err)
	}
	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			names = append(names, fmt.Sprint(row[0]))
		}
	}
	return names, nil
}
