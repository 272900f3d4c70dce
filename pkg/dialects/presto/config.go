// Package presto provides the Presto engine: type mapping, time grains,
// error patterns, structural column expansion and partition discovery.
//
// The tables in this file are shared with the trino package.
package presto

import (
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// CostEstimateVersion is the first Presto release supporting EXPLAIN (TYPE IO).
const CostEstimateVersion = "0.319"

// TypeMappings returns the Presto-family type rules.
func TypeMappings() []dialect.TypeMapping {
	return []dialect.TypeMapping{
		dialect.Rule(`^boolean`, core.TypeBoolean, core.GenericBoolean),
		dialect.Rule(`^tinyint`, core.TypeTinyInt, core.GenericNumeric),
		dialect.Rule(`^smallint`, core.TypeSmallInt, core.GenericNumeric),
		dialect.Rule(`^integer`, core.TypeInteger, core.GenericNumeric),
		dialect.Rule(`^bigint`, core.TypeBigInt, core.GenericNumeric),
		dialect.Rule(`^real`, core.TypeFloat, core.GenericNumeric),
		dialect.Rule(`^double`, core.TypeFloat, core.GenericNumeric),
		dialect.Rule(`^decimal`, core.TypeDecimal, core.GenericNumeric),
		dialect.RuleFunc(`^varchar(\((\d+)\))*$`, dialect.SizedType("VARCHAR", 2), core.GenericString),
		dialect.RuleFunc(`^char(\((\d+)\))*$`, dialect.SizedType("CHAR", 2), core.GenericString),
		dialect.Rule(`^varbinary`, core.TypeBinary, core.GenericString),
		dialect.Rule(`^json`, core.TypeJSON, core.GenericString),
		dialect.Rule(`^date`, core.TypeDate, core.GenericTemporal),
		dialect.Rule(`^timestamp`, core.TypeTimestamp, core.GenericTemporal),
		dialect.Rule(`^interval`, core.TypeInterval, core.GenericTemporal),
		dialect.Rule(`^time`, core.TypeTime, core.GenericTemporal),
		dialect.Rule(`^array`, core.TypeArray, core.GenericString),
		dialect.Rule(`^map`, core.TypeMap, core.GenericString),
		dialect.Rule(`^row`, core.TypeRow, core.GenericString),
	}
}

// TimeGrains returns the Presto-family grain templates.
func TimeGrains() map[string]string {
	return map[string]string{
		dialect.GrainSecond:             "date_trunc('second', CAST({col} AS TIMESTAMP))",
		dialect.GrainMinute:             "date_trunc('minute', CAST({col} AS TIMESTAMP))",
		dialect.GrainHour:               "date_trunc('hour', CAST({col} AS TIMESTAMP))",
		dialect.GrainDay:                "date_trunc('day', CAST({col} AS TIMESTAMP))",
		dialect.GrainWeek:               "date_trunc('week', CAST({col} AS TIMESTAMP))",
		dialect.GrainMonth:              "date_trunc('month', CAST({col} AS TIMESTAMP))",
		dialect.GrainQuarter:            "date_trunc('quarter', CAST({col} AS TIMESTAMP))",
		dialect.GrainYear:               "date_trunc('year', CAST({col} AS TIMESTAMP))",
		dialect.GrainWeekStartingSunday: "date_trunc('week', CAST({col} AS TIMESTAMP) + interval '1' day) - interval '1' day",
		dialect.GrainWeekStartingMonday: "date_trunc('week', CAST({col} AS TIMESTAMP))",
		dialect.GrainWeekEndingSaturday: "date_trunc('week', CAST({col} AS TIMESTAMP) + interval '1' day) + interval '5' day",
		dialect.GrainWeekEndingSunday:   "date_trunc('week', CAST({col} AS TIMESTAMP)) + interval '6' day",
	}
}

// ErrorPatterns returns the Presto-family driver error patterns.
func ErrorPatterns() []dialect.ErrorPattern {
	return []dialect.ErrorPattern{
		dialect.Pattern(`line (?P<location>.+?): .*Column '(?P<column_name>.+?)' cannot be resolved`,
			`We can't seem to resolve the column "%(column_name)s" at line %(location)s.`,
			core.ColumnDoesNotExistError, nil),
		dialect.Pattern(`.*Table (?P<table_name>.+?) does not exist`,
			`The table "%(table_name)s" does not exist. A valid table must be used to run this query.`,
			core.TableDoesNotExistError, nil),
		dialect.Pattern(`line (?P<location>.+?): .*Schema '(?P<schema_name>.+?)' does not exist`,
			`The schema "%(schema_name)s" does not exist. A valid schema must be used to run this query.`,
			core.SchemaDoesNotExistError, nil),
		dialect.Pattern(`Access Denied: Invalid credentials`,
			`Either the username "%(username)s" or the password is incorrect.`,
			core.ConnectionAccessDeniedError, nil),
		dialect.Pattern(`Failed to establish a new connection: \[Errno 8\] nodename nor servname provided, or not known`,
			`The hostname "%(hostname)s" cannot be resolved.`,
			core.ConnectionInvalidHostnameError, nil),
		dialect.Pattern(`Failed to establish a new connection: \[Errno 60\] Operation timed out`,
			`The host "%(hostname)s" might be down, and can't be reached on port %(port)s.`,
			core.ConnectionHostDownError, nil),
		dialect.Pattern(`Failed to establish a new connection: \[Errno 61\] Connection refused`,
			`Port %(port)s on hostname "%(hostname)s" refused the connection.`,
			core.ConnectionPortClosedError, nil),
		dialect.Pattern(`line (?P<location>.+?): Catalog '(?P<catalog_name>.+?)' does not exist`,
			`Unable to connect to catalog named "%(catalog_name)s".`,
			core.ConnectionUnknownDatabaseError, nil),
	}
}

// DatetimeLiteral renders DATE and TIMESTAMP literals with microseconds.
func DatetimeLiteral(targetType string, t time.Time) (string, bool) {
	switch {
	case strings.HasPrefix(targetType, "TIMESTAMP"):
		return "TIMESTAMP '" + dialect.FormatTimestamp(t) + "'", true
	case strings.HasPrefix(targetType, "DATE"):
		return "DATE '" + dialect.FormatDate(t) + "'", true
	default:
		return "", false
	}
}

// NewDialect builds a Presto-family descriptor under the given names.
func NewDialect(name, displayName string) *dialect.Dialect {
	return dialect.NewDialect(name).
		DisplayName(displayName).
		WithoutDefaultTypes().
		TypeMappings(TypeMappings()...).
		TimeGrains(TimeGrains()).
		Epoch("from_unixtime({col})").
		EpochMs("from_unixtime({col}/1000)").
		Errors(ErrorPatterns()...).
		DatetimeLiteral(DatetimeLiteral).
		Build()
}
