// Package hana provides the SAP HANA engine. HANA speaks the Postgres
// error dialect and epoch arithmetic but has its own truncation functions.
package hana

import (
	"context"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/dialects/postgres"
)

// Name is the registry key.
const Name = "hana"

var timeGrains = map[string]string{
	dialect.GrainSecond:      "TO_TIMESTAMP(SUBSTRING(TO_TIMESTAMP({col}),0,20))",
	dialect.GrainMinute:      "TO_TIMESTAMP(SUBSTRING(TO_TIMESTAMP({col}),0,17) || '00')",
	dialect.GrainHour:        "TO_TIMESTAMP(SUBSTRING(TO_TIMESTAMP({col}),0,14) || '00:00')",
	dialect.GrainDay:         "TO_DATE({col})",
	dialect.GrainMonth:       "TO_DATE(SUBSTRING(TO_DATE({col}),0,7)||'-01')",
	dialect.GrainQuarterYear: "TO_DATE(SUBSTRING(TO_DATE({col}), 0, 5)|| LPAD(CAST((CAST(SUBSTRING(QUARTER(TO_DATE({col}), 1), 7, 1) as int)-1)*3 +1 as text),2,'0') ||'-01')",
	dialect.GrainYear:        "TO_DATE(YEAR({col})||'-01-01')",
}

func datetimeLiteral(targetType string, t time.Time) (string, bool) {
	switch targetType {
	case "DATE":
		return "TO_DATE('" + dialect.FormatDate(t) + "', 'YYYY-MM-DD')", true
	case "DATETIME", "TIMESTAMP":
		return "TO_TIMESTAMP('" + dialect.FormatISOMicros(t) + `', 'YYYY-MM-DD"T"HH24:MI:SS.ff6')`, true
	}
	return "", false
}

// NewDialect builds the HANA descriptor.
func NewDialect() *dialect.Dialect {
	return dialect.NewDialect(Name).
		DisplayName("SAP HANA").
		MaxIdentifierLength(30).
		Limit(core.LimitWrap).
		TypeMappings(
			dialect.Rule(`^seconddate`, core.TypeTimestamp, core.GenericTemporal),
			dialect.Rule(`^(alphanum|shorttext|clob|nclob)`, core.TypeString, core.GenericString),
			dialect.Rule(`^tinyint`, core.TypeTinyInt, core.GenericNumeric),
			dialect.Rule(`^(smalldecimal)`, core.TypeDecimal, core.GenericNumeric),
			dialect.Rule(`^(varbinary|blob)`, core.TypeBinary, core.GenericString),
		).
		TimeGrains(timeGrains).
		Epoch(postgres.EpochExpression).
		Errors(postgres.ErrorPatterns()...).
		DatetimeLiteral(datetimeLiteral).
		Build()
}

// Engine is the SAP HANA engine.
type Engine struct {
	dialect.Base
}

var _ dialect.Engine = (*Engine)(nil)

// New creates a HANA engine.
func New(opts dialect.Options) *Engine {
	return &Engine{Base: dialect.NewBase(NewDialect(), opts.Logger)}
}

// GetColumns lists the table's columns with their generic types.
func (e *Engine) GetColumns(ctx context.Context, inspector core.Inspector, table, schema string) ([]core.Column, error) {
	return dialect.ResolveColumns(ctx, e, inspector, table, schema, e.Logger())
}
