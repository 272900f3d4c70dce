package dialect

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
)

// Options carries the collaborators an engine is constructed with.
type Options struct {
	Logger *slog.Logger
	Flags  core.FeatureFlags

	// ServerVersion selects version dependent syntax. Empty means current.
	ServerVersion string
}

// FlagsOrEmpty returns o.Flags, or a set with every flag off.
func (o Options) FlagsOrEmpty() core.FeatureFlags {
	if o.Flags == nil {
		return core.Flags{}
	}
	return o.Flags
}

// Engine is the capability interface every backend implements.
// Implementations are safe for concurrent use.
type Engine interface {
	// Name returns the registry key, e.g. "presto".
	Name() string

	// Dialect returns the backend's descriptor tables.
	Dialect() *Dialect

	// GetColumnSpec maps a native type string; false means no rule matched.
	GetColumnSpec(rawType string) (core.ColumnSpec, bool)

	// ConvertDatetime renders a datetime literal; false means the target
	// type is not representable.
	ConvertDatetime(targetType string, t time.Time) (string, bool)

	// TimeGrainExpression truncates column to grain.
	TimeGrainExpression(grain, column string) (string, error)

	// ApplyLimit bounds sql to at most limit rows.
	ApplyLimit(sql string, limit int) (string, error)

	// GetColumns lists a table's columns with generic types resolved.
	GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error)

	// ExpandData flattens nested result data. Engines without nested types
	// return the input unchanged.
	ExpandData(columns []core.Column, rows []map[string]any) (core.Expansion, error)

	// LatestPartition returns the partition columns and the newest values.
	LatestPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, showFirst bool) (core.Partition, error)

	// ClassifyError maps driver error text to a structured error. false
	// means no pattern matched and the message is passed through.
	ClassifyError(raw string, params core.ErrorContext) (core.StructuredError, bool)
}

// SubPartitioner resolves one partition key given values for the others.
type SubPartitioner interface {
	LatestSubPartition(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, filters map[string]string) (any, error)
}

// FunctionLister lists the functions a backend supports.
type FunctionLister interface {
	FunctionNames(ctx context.Context, conn core.Connection) ([]string, error)
}

// ViewLister lists views in a schema.
type ViewLister interface {
	ViewNames(ctx context.Context, conn core.Connection, schema string) ([]string, error)
}

// CostEstimator asks the backend for a query cost estimate.
type CostEstimator interface {
	EstimateCost(ctx context.Context, conn core.Connection, sql string) (map[string]any, error)
	FormatCost(raw []map[string]any) []map[string]string
}

// Validator checks statements without running them.
type Validator interface {
	Validate(ctx context.Context, conn core.Connection, sql string) ([]Annotation, error)
}

// TableExtractor lists the tables a query reads, for backends whose SQL
// needs custom parsing.
type TableExtractor interface {
	Tables(sql string) []sqlscan.Table
}

// Annotation is a validation finding.
type Annotation struct {
	Message     string `json:"message" yaml:"message"`
	LineNumber  int    `json:"line_number,omitempty" yaml:"line_number,omitempty"`
	StartColumn int    `json:"start_column,omitempty" yaml:"start_column,omitempty"`
	EndColumn   int    `json:"end_column,omitempty" yaml:"end_column,omitempty"`
}

// ResolveColumns lists the table's columns and classifies each native type.
// Shared by engines without nested-type handling.
func ResolveColumns(ctx context.Context, e Engine, inspector core.Inspector, table, schema string, logger *slog.Logger) ([]core.Column, error) {
	if inspector == nil {
		return nil, ErrNilCollaborator.New(e.Name(), "schema inspector")
	}
	cols, err := inspector.Columns(ctx, table, schema)
	if err != nil {
		return nil, err
	}
	out := make([]core.Column, 0, len(cols))
	for _, col := range cols {
		spec := ResolveType(e, col.Type, col.Name, logger)
		col.Generic = spec.Generic
		col.IsDttm = spec.IsDttm
		out = append(out, col)
	}
	return out, nil
}

// Passthrough is the ExpandData result for engines without nested types.
func Passthrough(columns []core.Column, rows []map[string]any) core.Expansion {
	return core.Expansion{Columns: columns, Rows: rows, Expanded: []core.Column{}}
}
