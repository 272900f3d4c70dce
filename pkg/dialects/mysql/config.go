// Package mysql provides the MySQL engine.
package mysql

import (
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// Name is the registry key.
const Name = "mysql"

var reservedWords = []string{
	"add", "all", "alter", "and", "as", "asc", "between", "by", "case",
	"change", "check", "column", "condition", "create", "cross", "database",
	"default", "delete", "desc", "describe", "distinct", "div", "drop",
	"else", "exists", "explain", "false", "for", "foreign", "from", "group",
	"having", "if", "in", "index", "inner", "insert", "interval", "into",
	"is", "join", "key", "keys", "kill", "left", "like", "limit", "lock",
	"match", "mod", "natural", "not", "null", "on", "option", "or", "order",
	"outer", "partition", "primary", "range", "rank", "read", "references",
	"regexp", "rename", "replace", "right", "row", "rows", "select", "set",
	"show", "table", "then", "to", "true", "union", "unique", "update",
	"usage", "use", "using", "values", "when", "where", "window", "with",
}

var typeMappings = []dialect.TypeMapping{
	dialect.Rule(`^bool(ean)?`, core.TypeBoolean, core.GenericBoolean),
	dialect.Rule(`^tinyint`, core.TypeTinyInt, core.GenericNumeric),
	dialect.Rule(`^smallint`, core.TypeSmallInt, core.GenericNumeric),
	dialect.Rule(`^mediumint`, core.TypeInteger, core.GenericNumeric),
	dialect.Rule(`^int(eger)?`, core.TypeInteger, core.GenericNumeric),
	dialect.Rule(`^bigint`, core.TypeBigInt, core.GenericNumeric),
	dialect.Rule(`^(decimal|numeric|dec|fixed)`, core.TypeDecimal, core.GenericNumeric),
	dialect.Rule(`^float`, core.TypeFloat, core.GenericNumeric),
	dialect.Rule(`^(double|real)`, core.TypeDouble, core.GenericNumeric),
	dialect.Rule(`^bit`, core.SQLType{Name: "BIT"}, core.GenericNumeric),
	dialect.RuleFunc(`^varchar(\((\d+)\))?`, dialect.SizedType("VARCHAR", 2), core.GenericString),
	dialect.RuleFunc(`^char(\((\d+)\))?`, dialect.SizedType("CHAR", 2), core.GenericString),
	dialect.Rule(`^(tiny|medium|long)?text`, core.TypeText, core.GenericString),
	dialect.Rule(`^(enum|set)\(`, core.TypeString, core.GenericString),
	dialect.Rule(`^(var)?binary|^(tiny|medium|long)?blob`, core.TypeBinary, core.GenericString),
	dialect.Rule(`^json`, core.TypeJSON, core.GenericString),
	dialect.Rule(`^datetime`, core.TypeDateTime, core.GenericTemporal),
	dialect.Rule(`^date`, core.TypeDate, core.GenericTemporal),
	dialect.Rule(`^timestamp`, core.TypeTimestamp, core.GenericTemporal),
	dialect.Rule(`^time`, core.TypeTime, core.GenericTemporal),
	dialect.Rule(`^year`, core.SQLType{Name: "YEAR"}, core.GenericTemporal),
}

var timeGrains = map[string]string{
	dialect.GrainSecond:  "DATE_ADD(DATE({col}), INTERVAL (HOUR({col})*60*60 + MINUTE({col})*60 + SECOND({col})) SECOND)",
	dialect.GrainMinute:  "DATE_ADD(DATE({col}), INTERVAL (HOUR({col})*60 + MINUTE({col})) MINUTE)",
	dialect.GrainHour:    "DATE_ADD(DATE({col}), INTERVAL HOUR({col}) HOUR)",
	dialect.GrainDay:     "DATE({col})",
	dialect.GrainWeek:    "DATE(DATE_SUB({col}, INTERVAL DAYOFWEEK({col}) - 1 DAY))",
	dialect.GrainMonth:   "DATE(DATE_SUB({col}, INTERVAL DAYOFMONTH({col}) - 1 DAY))",
	dialect.GrainQuarter: "MAKEDATE(YEAR({col}), 1) + INTERVAL QUARTER({col}) QUARTER - INTERVAL 1 QUARTER",
	dialect.GrainYear:    "DATE(DATE_SUB({col}, INTERVAL DAYOFYEAR({col}) - 1 DAY))",

	dialect.GrainWeekStartingMonday: "DATE(DATE_SUB({col}, INTERVAL DAYOFWEEK(DATE_SUB({col}, INTERVAL 1 DAY)) - 1 DAY))",
}

var errorPatterns = []dialect.ErrorPattern{
	dialect.Pattern(`Access denied for user '(?P<username>.*?)'@'(?P<hostname>.*?)'`,
		`Either the username "%(username)s" or the password is incorrect.`,
		core.ConnectionAccessDeniedError, nil),
	dialect.Pattern(`Unknown MySQL server host '(?P<hostname>.*?)'`,
		`Unknown MySQL server host "%(hostname)s".`,
		core.ConnectionInvalidHostnameError, nil),
	dialect.Pattern(`Can't connect to MySQL server on '(?P<hostname>.*?)'`,
		`The host "%(hostname)s" might be down and can't be reached.`,
		core.ConnectionHostDownError, nil),
	dialect.Pattern(`Unknown database '(?P<database>.*?)'`,
		`Unable to connect to database "%(database)s".`,
		core.ConnectionUnknownDatabaseError, nil),
	dialect.Pattern(`check the manual that corresponds to your MySQL server version for the right syntax to use near '(?P<server_error>.*)`,
		`Please check your query for syntax errors near "%(server_error)s". Then, try running your query again.`,
		core.SyntaxError, nil),
}

func datetimeLiteral(targetType string, t time.Time) (string, bool) {
	switch targetType {
	case "DATE":
		return "STR_TO_DATE('" + dialect.FormatDate(t) + "', '%Y-%m-%d')", true
	case "DATETIME", "TIMESTAMP":
		return "STR_TO_DATE('" + dialect.FormatTimestamp(t) + "', '%Y-%m-%d %H:%i:%s.%f')", true
	}
	return "", false
}

// StripCollation removes a trailing " COLLATE <name>" from a column type,
// e.g. "VARCHAR(255) COLLATE UTF8MB4_GENERAL_CI".
func StripCollation(rawType string) string {
	if i := strings.Index(strings.ToUpper(rawType), " COLLATE "); i >= 0 {
		return rawType[:i]
	}
	return rawType
}

// NewDialect builds the MySQL descriptor.
func NewDialect() *dialect.Dialect {
	return dialect.NewDialect(Name).
		DisplayName("MySQL").
		MaxIdentifierLength(64).
		IdentifierQuote("`").
		ReservedWords(reservedWords...).
		TypeMappings(typeMappings...).
		TimeGrains(timeGrains).
		Epoch("from_unixtime({col})").
		Errors(errorPatterns...).
		DatetimeLiteral(datetimeLiteral).
		Build()
}
