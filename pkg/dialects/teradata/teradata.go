// Package teradata provides the Teradata engine. Teradata has no LIMIT
// clause; rows are bounded with TOP n.
package teradata

import (
	"context"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
)

// Name is the registry key.
const Name = "teradata"

var timeGrains = map[string]string{
	dialect.GrainMinute:      "TRUNC(CAST({col} as DATE), 'MI')",
	dialect.GrainHour:        "TRUNC(CAST({col} as DATE), 'HH')",
	dialect.GrainDay:         "TRUNC(CAST({col} as DATE), 'DDD')",
	dialect.GrainWeek:        "TRUNC(CAST({col} as DATE), 'WW')",
	dialect.GrainMonth:       "TRUNC(CAST({col} as DATE), 'MONTH')",
	dialect.GrainQuarterYear: "TRUNC(CAST({col} as DATE), 'Q')",
	dialect.GrainYear:        "TRUNC(CAST({col} as DATE), 'YEAR')",
}

const epoch = "CAST(((CAST(DATE '1970-01-01' + ({col} / 86400) AS TIMESTAMP(0) AT 0)) AT 0) + " +
	"(({col} MOD 86400) * INTERVAL '00:00:01' HOUR TO SECOND) AS TIMESTAMP(0))"

// NewDialect builds the Teradata descriptor.
func NewDialect() *dialect.Dialect {
	// 30 is the pre-14.10 limit, still the safe choice for labels.
	return dialect.NewDialect(Name).
		DisplayName("Teradata").
		MaxIdentifierLength(30).
		Limit(core.LimitTop).
		TypeMappings(
			dialect.Rule(`^byteint`, core.TypeTinyInt, core.GenericNumeric),
			dialect.Rule(`^number`, core.TypeDecimal, core.GenericNumeric),
			dialect.Rule(`^(byte|varbyte|blob)`, core.TypeBinary, core.GenericString),
			dialect.Rule(`^(clob|graphic|vargraphic)`, core.TypeString, core.GenericString),
		).
		TimeGrains(timeGrains).
		Epoch(epoch).
		Build()
}

// Engine is the Teradata engine.
type Engine struct {
	dialect.Base
}

var (
	_ dialect.Engine         = (*Engine)(nil)
	_ dialect.TableExtractor = (*Engine)(nil)
)

// New creates a Teradata engine.
func New(opts dialect.Options) *Engine {
	return &Engine{Base: dialect.NewBase(NewDialect(), opts.Logger)}
}

// GetColumns lists the table's columns with their generic types.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	return dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
}

// Tables lists the tables sql reads. Generated CTE__ tables are skipped.
func (e *Engine) Tables(sql string) []sqlscan.Table {
	return sqlscan.Tables(sql)
}
