// Package trino provides the Trino engine. It shares the Presto type,
// grain and error tables and adds named ROW field expansion.
package trino

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/dialects/presto"
	"github.com/leapstack-labs/enginespec/pkg/nested"
	"github.com/leapstack-labs/enginespec/pkg/partition"
)

// Name is the registry key.
const Name = "trino"

// Engine is the Trino engine.
type Engine struct {
	dialect.Base
	flags   core.FeatureFlags
	locator *partition.Locator
}

var (
	_ dialect.Engine         = (*Engine)(nil)
	_ dialect.SubPartitioner = (*Engine)(nil)
	_ dialect.FunctionLister = (*Engine)(nil)
	_ dialect.ViewLister     = (*Engine)(nil)
	_ dialect.CostEstimator  = (*Engine)(nil)
	_ dialect.Validator      = (*Engine)(nil)
)

// New creates a Trino engine.
func New(opts dialect.Options) *Engine {
	base := dialect.NewBase(presto.NewDialect(Name, "Trino"), opts.Logger)
	return &Engine{
		Base:    base,
		flags:   opts.FlagsOrEmpty(),
		locator: partition.NewLocator(opts.ServerVersion, base.Logger()),
	}
}

// GetColumns lists the table's columns. With TRINO_EXPAND_ROWS enabled,
// every named field of a ROW column is listed after it as parent.field,
// recursively.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	cols, err := dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
	if err != nil {
		return nil, err
	}
	if !e.flags.Enabled(core.FeatureExpandRows) {
		return cols, nil
	}

	out := make([]core.Column, 0, len(cols))
	for _, col := range cols {
		out = append(out, e.expandRow(col)...)
	}
	return out, nil
}

func (e *Engine) expandRow(col core.Column) []core.Column {
	out := []core.Column{col}
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(col.Type)), "ROW(") {
		return out
	}
	children, err := nested.GetChildren(col)
	if err != nil {
		e.Logger().Debug("not expanding row", slog.String("column", col.Name), slog.Any("error", err))
		return out
	}
	for _, child := range children {
		field := child.Name[len(col.Name)+1:]
		if strings.HasPrefix(field, "_col") {
			continue
		}
		spec, _ := e.GetColumnSpec(child.Type)
		child.Generic = spec.Generic
		child.IsDttm = spec.IsDttm
		child.QueryAs = nested.QueryAs(child.Name)
		out = append(out, e.expandRow(child)...)
	}
	return out
}

// LatestPartition returns the newest partition of a table.
func (e *Engine) LatestPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, showFirst bool) (core.Partition, error) {
	if err := presto.RequireCollaborators(Name, conn, inspector); err != nil {
		return core.Partition{}, err
	}
	return e.locator.Latest(ctx, conn, tolerant{inspector}, table, schema, showFirst)
}

// LatestSubPartition resolves the newest value of the partition key not
// named in filters.
func (e *Engine) LatestSubPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, filters map[string]string) (any, error) {
	if err := presto.RequireCollaborators(Name, conn, inspector); err != nil {
		return nil, err
	}
	return e.locator.LatestSub(ctx, conn, tolerant{inspector}, table, schema, filters)
}

// FunctionNames lists the functions callable on the server.
func (e *Engine) FunctionNames(ctx context.Context, conn core.Connection) ([]string, error) {
	return presto.ListFunctions(ctx, conn)
}

// ViewNames lists the views in schema, or in every schema when empty.
func (e *Engine) ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	return presto.ListViews(ctx, conn, schema)
}

// AllowCostEstimate is always true: every Trino release supports
// EXPLAIN (TYPE IO).
func (e *Engine) AllowCostEstimate() bool { return true }

// EstimateCost returns the IO estimate of a single statement.
func (e *Engine) EstimateCost(ctx context.Context, conn core.Connection, sql string) (map[string]any, error) {
	return presto.EstimateStatementCost(ctx, conn, sql)
}

// FormatCost renders raw estimates for display.
func (e *Engine) FormatCost(raw []map[string]any) []map[string]string {
	return presto.FormatCost(raw)
}

// Validate checks every statement in sql without running it.
func (e *Engine) Validate(ctx context.Context, conn core.Connection, sql string) ([]dialect.Annotation, error) {
	return presto.Validate(ctx, conn, sql, e.Logger())
}

// TableMetadata returns partition and view details for a table.
func (e *Engine) TableMetadata(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string) (presto.Metadata, error) {
	if err := presto.RequireCollaborators(Name, conn, inspector); err != nil {
		return presto.Metadata{}, err
	}
	return presto.TableMetadata(ctx, e.locator, conn, tolerant{inspector}, table, schema)
}

// tolerant reports no indexes for tables the server cannot describe, which
// Trino does for empty tables.
type tolerant struct {
	core.Inspector
}

func (t tolerant) Indexes(ctx context.Context, table, schema string) ([]core.Index, error) {
	indexes, err := t.Inspector.Indexes(ctx, table, schema)
	if errors.Is(err, core.ErrNoSuchTable) {
		return nil, nil
	}
	return indexes, err
}
