package presto

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// ListFunctions runs SHOW FUNCTIONS and returns the function names.
func ListFunctions(ctx context.Context, conn core.Connection) ([]string, error) {
	res, err := conn.Query(ctx, "SHOW FUNCTIONS")
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	names := lo.Uniq(lo.Map(res.Column("Function"), func(v any, _ int) string {
		return fmt.Sprint(v)
	}))
	return names, nil
}

// ViewsQuery returns the information_schema query listing views.
func ViewsQuery(schema string) string {
	if schema == "" {
		return "SELECT table_name FROM information_schema.tables\nWHERE table_type = 'VIEW'"
	}
	return fmt.Sprintf("SELECT table_name FROM information_schema.tables\nWHERE table_schema = '%s'\nAND table_type = 'VIEW'",
		strings.ReplaceAll(schema, "'", "''"))
}

// ListViews returns the sorted view names of schema, or of every schema
// when schema is empty.
func ListViews(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	res, err := conn.Query(ctx, ViewsQuery(schema))
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			names = append(names, fmt.Sprint(row[0]))
		}
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names, nil
}

// CreateView returns the CREATE VIEW statement of a view. ok is false when
// the server rejects SHOW CREATE VIEW, i.e. the table is not a view.
func CreateView(ctx context.Context, conn core.Connection, table, schema string) (string, bool) {
	name := table
	if schema != "" {
		name = schema + "." + table
	}
	res, err := conn.Query(ctx, "SHOW CREATE VIEW "+name)
	if err != nil || res.Empty() || len(res.Rows[0]) == 0 {
		return "", false
	}
	return fmt.Sprint(res.Rows[0][0]), true
}
