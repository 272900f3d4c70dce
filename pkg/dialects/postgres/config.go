// Package postgres provides the PostgreSQL engine. Its epoch expression
// and error patterns are shared with engines built on the Postgres wire
// dialect, such as SAP HANA.
package postgres

import (
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// EpochExpression converts seconds since the epoch to a timestamp.
const EpochExpression = "(timestamp 'epoch' + {col} * interval '1 second')"

// reservedWords contains common PostgreSQL reserved words.
// This is a manually maintained list of frequently problematic identifiers.
// For a complete list, use pg_get_keywords() at runtime.
var reservedWords = []string{
	"user", "order", "group", "table", "select", "from", "where", "index",
	"all", "and", "any", "array", "as", "asc", "asymmetric", "authorization",
	"between", "binary", "both", "case", "cast", "check", "collate", "column",
	"constraint", "create", "cross", "current_catalog", "current_date",
	"current_role", "current_schema", "current_time", "current_timestamp",
	"current_user", "default", "deferrable", "desc", "distinct", "do", "else",
	"end", "except", "false", "fetch", "for", "foreign", "freeze", "full",
	"grant", "having", "ilike", "in", "initially", "inner", "intersect",
	"into", "is", "isnull", "join", "lateral", "leading", "left", "like",
	"limit", "localtime", "localtimestamp", "natural", "not", "notnull",
	"null", "offset", "on", "only", "or", "outer", "overlaps", "placing",
	"primary", "references", "returning", "right", "session_user", "similar",
	"some", "symmetric", "then", "to", "trailing", "true", "union", "unique",
	"using", "variadic", "verbose", "when", "window", "with",
}

// TypeMappings returns the PostgreSQL specific type rules. The shared
// defaults cover the rest.
func TypeMappings() []dialect.TypeMapping {
	return []dialect.TypeMapping{
		dialect.RuleFunc(`^character varying(\((\d+)\))?`, dialect.SizedType("VARCHAR", 2), core.GenericString),
		dialect.RuleFunc(`^varchar(\((\d+)\))?`, dialect.SizedType("VARCHAR", 2), core.GenericString),
		dialect.RuleFunc(`^(character|bpchar)(\((\d+)\))?`, dialect.SizedType("CHAR", 3), core.GenericString),
		dialect.Rule(`^double precision`, core.TypeDouble, core.GenericNumeric),
		dialect.Rule(`^jsonb?`, core.TypeJSON, core.GenericString),
		dialect.Rule(`^bytea`, core.TypeBinary, core.GenericString),
		dialect.Rule(`^(uuid|inet|cidr|macaddr)`, core.TypeString, core.GenericString),
		dialect.Rule(`\[\]$`, core.TypeArray, core.GenericString),
	}
}

// TimeGrains returns the DATE_TRUNC based grain templates.
func TimeGrains() map[string]string {
	return map[string]string{
		dialect.GrainSecond:  "DATE_TRUNC('second', {col})",
		dialect.GrainMinute:  "DATE_TRUNC('minute', {col})",
		dialect.GrainHour:    "DATE_TRUNC('hour', {col})",
		dialect.GrainDay:     "DATE_TRUNC('day', {col})",
		dialect.GrainWeek:    "DATE_TRUNC('week', {col})",
		dialect.GrainMonth:   "DATE_TRUNC('month', {col})",
		dialect.GrainQuarter: "DATE_TRUNC('quarter', {col})",
		dialect.GrainYear:    "DATE_TRUNC('year', {col})",
	}
}

// ErrorPatterns returns the libpq error patterns.
func ErrorPatterns() []dialect.ErrorPattern {
	return []dialect.ErrorPattern{
		dialect.Pattern(`role "(?P<username>.*?)" does not exist`,
			`The username "%(username)s" does not exist.`,
			core.ConnectionInvalidUsernameError, nil),
		dialect.Pattern(`password authentication failed for user "(?P<username>.*?)"`,
			`The password provided for username "%(username)s" is incorrect.`,
			core.ConnectionInvalidPasswordError, nil),
		dialect.Pattern(`could not translate host name "(?P<hostname>.*?)" to address: nodename nor servname provided, or not known`,
			`The hostname "%(hostname)s" cannot be resolved.`,
			core.ConnectionInvalidHostnameError, nil),
		dialect.Pattern(`could not connect to server: Connection refused\s+Is the server running on host "(?P<hostname>.*?)" (\(.*?\) )?and accepting\s+TCP/IP connections on port (?P<port>.*?)\?`,
			`Port %(port)s on hostname "%(hostname)s" refused the connection.`,
			core.ConnectionPortClosedError, nil),
		dialect.Pattern(`could not connect to server: (?P<reason>.*?)\s+Is the server running on host "(?P<hostname>.*?)" (\(.*?\) )?and accepting\s+TCP/IP connections on port (?P<port>.*?)\?`,
			`The host "%(hostname)s" might be down, and can't be reached on port %(port)s.`,
			core.ConnectionHostDownError, nil),
		dialect.Pattern(`database "(?P<database>.*?)" does not exist`,
			`Unable to connect to database "%(database)s".`,
			core.ConnectionUnknownDatabaseError, nil),
		dialect.Pattern(`syntax error at or near "(?P<syntax_error>.*?)"`,
			`Please check your query for syntax errors at or near "%(syntax_error)s". Then, try running your query again.`,
			core.SyntaxError, nil),
		dialect.Pattern(`column "(?P<column_name>.+?)" does not exist\s+LINE (?P<location>\d+?)`,
			`We can't seem to resolve the column "%(column_name)s" at line %(location)s.`,
			core.ColumnDoesNotExistError, nil),
	}
}

// DatetimeLiteral renders DATE and TIMESTAMP literals through TO_DATE and
// TO_TIMESTAMP.
func DatetimeLiteral(targetType string, t time.Time) (string, bool) {
	switch {
	case targetType == "DATE":
		return "TO_DATE('" + dialect.FormatDate(t) + "', 'YYYY-MM-DD')", true
	case strings.HasPrefix(targetType, "TIMESTAMP"), targetType == "DATETIME":
		return "TO_TIMESTAMP('" + dialect.FormatTimestamp(t) + "', 'YYYY-MM-DD HH24:MI:SS.US')", true
	default:
		return "", false
	}
}

// NewDialect builds the PostgreSQL descriptor.
func NewDialect() *dialect.Dialect {
	return dialect.NewDialect(Name).
		DisplayName("PostgreSQL").
		MaxIdentifierLength(63).
		DefaultSchema("public").
		ReservedWords(reservedWords...).
		TypeMappings(TypeMappings()...).
		TimeGrains(TimeGrains()).
		Epoch(EpochExpression).
		Errors(ErrorPatterns()...).
		DatetimeLiteral(DatetimeLiteral).
		Build()
}
