package mysql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// Engine is the MySQL engine.
type Engine struct {
	dialect.Base
}

var (
	_ dialect.Engine         = (*Engine)(nil)
	_ dialect.FunctionLister = (*Engine)(nil)
	_ dialect.ViewLister     = (*Engine)(nil)
)

// New creates a MySQL engine.
func New(opts dialect.Options) *Engine {
	return &Engine{Base: dialect.NewBase(NewDialect(), opts.Logger)}
}

// GetColumnSpec maps a native type, ignoring any collation suffix.
func (e *Engine) GetColumnSpec(rawType string) (core.ColumnSpec, bool) {
	return e.Base.GetColumnSpec(StripCollation(rawType))
}

// GetColumns lists the table's columns with their generic types. Collation
// suffixes are dropped from the reported types.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	cols, err := dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
	if err != nil {
		return nil, err
	}
	for i := range cols {
		cols[i].Type = StripCollation(cols[i].Type)
	}
	return cols, nil
}

// driver errors are sometimes rendered as the tuple (code, 'message')
var errorTuple = regexp.MustCompile(`^\((\d+), ['"](.*)['"]\)$`)

// ErrorMessage extracts the message from a "(code, 'message')" rendering.
func ErrorMessage(raw string) string {
	if m := errorTuple.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
		return m[2]
	}
	return raw
}

// ClassifyError classifies the driver message, unwrapping the tuple form.
func (e *Engine) ClassifyError(raw string, params core.ErrorContext) (core.StructuredError, bool) {
	return e.Base.ClassifyError(ErrorMessage(raw), params)
}

// FunctionNames lists the stored functions visible to the user.
func (e *Engine) FunctionNames(ctx context.Context, conn core.Connection) ([]string, error) {
	if conn == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "connection")
	}
	res, err := conn.Query(ctx, "SHOW FUNCTION STATUS")
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	names := make([]string, 0, len(res.Rows))
	for _, v := range res.Column("Name") {
		names = append(names, fmt.Sprint(v))
	}
	return names, nil
}

// ViewNames lists the views in schema, or in the current database when
// schema is empty.
func (e *Engine) ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	if conn == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "connection")
	}
	where := "table_schema = DATABASE()"
	if schema != "" {
		where = fmt.Sprintf("table_schema = '%s'", strings.ReplaceAll(schema, "'", "''"))
	}
	res, err := conn.Query(ctx, "SELECT table_name FROM information_schema.views\nWHERE "+where+"\nORDER BY table_name")
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	names := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) > 0 {
			names = append(names, fmt.Sprint(row[0]))
		}
	}
	return names, nil
}
