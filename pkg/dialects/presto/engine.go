package presto

import (
	"context"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/nested"
	"github.com/leapstack-labs/enginespec/pkg/partition"
)

// Name is the registry key.
const Name = "presto"

// Engine is the Presto engine.
type Engine struct {
	dialect.Base
	flags   core.FeatureFlags
	version string
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

// New creates a Presto engine.
func New(opts dialect.Options) *Engine {
	base := dialect.NewBase(NewDialect(Name, "Presto"), opts.Logger)
	return &Engine{
		Base:    base,
		flags:   opts.FlagsOrEmpty(),
		version: opts.ServerVersion,
		locator: partition.NewLocator(opts.ServerVersion, base.Logger()),
	}
}

// GetColumns lists the table's columns. With PRESTO_EXPAND_DATA enabled,
// array and row columns are followed by one column per nested field.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	if inspector == nil {
		return nil, dialect.ErrNilCollaborator.New(Name, "schema inspector")
	}
	cols, err := inspector.Columns(ctx, table, schema)
	if err != nil {
		return nil, err
	}

	expand := e.flags.Enabled(core.FeatureExpandData)
	result := make([]core.Column, 0, len(cols))
	for _, col := range cols {
		lower := strings.ToLower(col.Type)
		if expand && (strings.Contains(lower, "array") || strings.Contains(lower, "row")) {
			parsed := nested.ParseStructuralColumn(col.Name, col.Type, e.GetColumnSpec, e.Logger())
			for i := range parsed {
				if i == 0 {
					parsed[i].Type = col.Type
					parsed[i].Nullable = col.Nullable
					parsed[i].Default = nil
					continue
				}
				parsed[i].QueryAs = nested.QueryAs(parsed[i].Name)
			}
			result = append(result, parsed...)
			continue
		}

		spec := dialect.ResolveType(e, col.Type, col.Name, e.Logger())
		col.Generic = spec.Generic
		col.IsDttm = spec.IsDttm
		col.Default = nil
		result = append(result, col)
	}
	return result, nil
}

// ExpandData flattens array and row values when PRESTO_EXPAND_DATA is
// enabled and returns the input unchanged otherwise.
func (e *Engine) ExpandData(columns []core.Column, rows []map[string]any) (core.Expansion, error) {
	if !e.flags.Enabled(core.FeatureExpandData) {
		return dialect.Passthrough(columns, rows), nil
	}
	return nested.ExpandData(columns, rows)
}

// LatestPartition returns the newest partition of a table.
func (e *Engine) LatestPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, showFirst bool) (core.Partition, error) {
	if err := RequireCollaborators(Name, conn, inspector); err != nil {
		return core.Partition{}, err
	}
	return e.locator.Latest(ctx, conn, inspector, table, schema, showFirst)
}

// LatestSubPartition resolves the newest value of the partition key not
// named in filters.
func (e *Engine) LatestSubPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, filters map[string]string) (any, error) {
	if err := RequireCollaborators(Name, conn, inspector); err != nil {
		return nil, err
	}
	return e.locator.LatestSub(ctx, conn, inspector, table, schema, filters)
}

// FunctionNames lists the functions callable on the server.
func (e *Engine) FunctionNames(ctx context.Context, conn core.Connection) ([]string, error) {
	return ListFunctions(ctx, conn)
}

// ViewNames lists the views in schema, or in every schema when empty.
func (e *Engine) ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error) {
	return ListViews(ctx, conn, schema)
}

// AllowCostEstimate reports whether the configured server version supports
// cost estimation. An unknown version does not.
func (e *Engine) AllowCostEstimate() bool {
	return dialect.VersionAtLeast(e.version, CostEstimateVersion)
}

// EstimateCost returns the IO estimate of a single statement.
func (e *Engine) EstimateCost(ctx context.Context, conn core.Connection, sql string) (map[string]any, error) {
	if !e.AllowCostEstimate() {
		return nil, ErrCostUnsupported.New(e.version)
	}
	return EstimateStatementCost(ctx, conn, sql)
}

// FormatCost renders raw estimates for display.
func (e *Engine) FormatCost(raw []map[string]any) []map[string]string {
	return FormatCost(raw)
}

// Validate checks every statement in sql without running it.
func (e *Engine) Validate(ctx context.Context, conn core.Connection, sql string) ([]dialect.Annotation, error) {
	return Validate(ctx, conn, sql, e.Logger())
}

// TableMetadata returns partition and view details for a table.
func (e *Engine) TableMetadata(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string) (Metadata, error) {
	if err := RequireCollaborators(Name, conn, inspector); err != nil {
		return Metadata{}, err
	}
	return TableMetadata(ctx, e.locator, conn, inspector, table, schema)
}

// RequireCollaborators fails when conn or inspector is missing.
func RequireCollaborators(engine string, conn core.Connection, inspector core.Inspector) error {
	if conn == nil {
		return dialect.ErrNilCollaborator.New(engine, "connection")
	}
	if inspector == nil {
		return dialect.ErrNilCollaborator.New(engine, "schema inspector")
	}
	return nil
}
