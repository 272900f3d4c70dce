// Package duckdb provides the DuckDB engine.
package duckdb

import (
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// Name is the registry key.
const Name = "duckdb"

func upperName(m []string) core.SQLType {
	return core.SQLType{Name: strings.ToUpper(m[0])}
}

// DuckDB reports nested types as LIST/STRUCT/MAP/UNION or with a [] suffix.
var typeMappings = []dialect.TypeMapping{
	dialect.Rule(`\[\d*\]$`, core.TypeArray, core.GenericString),
	dialect.Rule(`^(list|struct|map|union)`, core.TypeString, core.GenericString),
	dialect.Rule(`^bool(ean)?$`, core.TypeBoolean, core.GenericBoolean),
	dialect.Rule(`^interval`, core.TypeInterval, core.GenericTemporal),
	dialect.RuleFunc(`^u?(tiny|small|big|huge)?int(eger)?`, upperName, core.GenericNumeric),
	dialect.Rule(`^(decimal|numeric)`, core.TypeDecimal, core.GenericNumeric),
	dialect.Rule(`^(double|float|real)`, core.TypeDouble, core.GenericNumeric),
	dialect.Rule(`^(varchar|text|string|bpchar|char)`, core.TypeString, core.GenericString),
	dialect.Rule(`^(blob|bytea|varbinary|bit)`, core.TypeBinary, core.GenericString),
	dialect.Rule(`^uuid`, core.TypeString, core.GenericString),
	dialect.Rule(`^json`, core.TypeJSON, core.GenericString),
	dialect.Rule(`^timestamp`, core.TypeTimestamp, core.GenericTemporal),
	dialect.Rule(`^date`, core.TypeDate, core.GenericTemporal),
	dialect.Rule(`^time`, core.TypeTime, core.GenericTemporal),
}

var timeGrains = map[string]string{
	dialect.GrainSecond:  "DATE_TRUNC('second', {col})",
	dialect.GrainMinute:  "DATE_TRUNC('minute', {col})",
	dialect.GrainHour:    "DATE_TRUNC('hour', {col})",
	dialect.GrainDay:     "DATE_TRUNC('day', {col})",
	dialect.GrainWeek:    "DATE_TRUNC('week', {col})",
	dialect.GrainMonth:   "DATE_TRUNC('month', {col})",
	dialect.GrainQuarter: "DATE_TRUNC('quarter', {col})",
	dialect.GrainYear:    "DATE_TRUNC('year', {col})",
}

func datetimeLiteral(targetType string, t time.Time) (string, bool) {
	switch {
	case targetType == "DATE":
		return "DATE '" + dialect.FormatDate(t) + "'", true
	case targetType == "TIMESTAMPTZ", strings.HasPrefix(targetType, "TIMESTAMP WITH TIME ZONE"):
		return "TIMESTAMPTZ '" + dialect.FormatTimestamp(t) + "'", true
	case strings.HasPrefix(targetType, "TIMESTAMP"), targetType == "DATETIME":
		return "TIMESTAMP '" + dialect.FormatTimestamp(t) + "'", true
	}
	return "", false
}

// NewDialect builds the DuckDB descriptor.
func NewDialect() *dialect.Dialect {
	return dialect.NewDialect(Name).
		DisplayName("DuckDB").
		DefaultSchema("main").
		TypeMappings(typeMappings...).
		TimeGrains(timeGrains).
		Epoch("to_timestamp({col})").
		EpochMs("epoch_ms({col})").
		DatetimeLiteral(datetimeLiteral).
		Build()
}
