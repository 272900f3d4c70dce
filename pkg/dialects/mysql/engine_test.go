package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

type fakeInspector []core.Column

func (f fakeInspector) Columns(context.Context, string, string) ([]core.Column, error) {
	return f, nil
}

func (f fakeInspector) Indexes(context.Context, string, string) ([]core.Index, error) {
	return nil, nil
}

type fakeConn struct {
	result  *core.Result
	queries []string
}

func (f *fakeConn) Query(_ context.Context, query string) (*core.Result, error) {
	f.queries = append(f.queries, query)
	return f.result, nil
}

func TestColumnSpec(t *testing.T) {
	e := New(dialect.Options{})

	tests := []struct {
		raw     string
		want    string
		generic core.GenericType
	}{
		{"TINYINT", "TINYINT", core.GenericNumeric},
		{"MEDIUMINT", "INTEGER", core.GenericNumeric},
		{"INT(11)", "INTEGER", core.GenericNumeric},
		{"BIGINT UNSIGNED", "BIGINT", core.GenericNumeric},
		{"DECIMAL(10,2)", "DECIMAL", core.GenericNumeric},
		{"FLOAT", "FLOAT", core.GenericNumeric},
		{"DOUBLE", "DOUBLE", core.GenericNumeric},
		{"BIT(1)", "BIT", core.GenericNumeric},
		{"VARCHAR(255) COLLATE UTF8MB4_GENERAL_CI", "VARCHAR(255)", core.GenericString},
		{"CHAR(2)", "CHAR(2)", core.GenericString},
		{"LONGTEXT", "TEXT", core.GenericString},
		{"ENUM('a','b')", "STRING", core.GenericString},
		{"DATE", "DATE", core.GenericTemporal},
		{"DATETIME(6)", "DATETIME", core.GenericTemporal},
		{"TIMESTAMP", "TIMESTAMP", core.GenericTemporal},
		{"TIME", "TIME", core.GenericTemporal},
		{"YEAR", "YEAR", core.GenericTemporal},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, ok := e.GetColumnSpec(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, spec.Type.String())
			assert.Equal(t, tt.generic, spec.Generic)
		})
	}
}

func TestGetColumnsStripsCollation(t *testing.T) {
	cols, err := New(dialect.Options{}).GetColumns(context.Background(), fakeInspector{
		{Name: "name", Type: "VARCHAR(255) COLLATE UTF8MB4_GENERAL_CI"},
	}, "t", "")
	require.NoError(t, err)
	assert.Equal(t, "VARCHAR(255)", cols[0].Type)
}

func TestTimeGrainExpression(t *testing.T) {
	e := New(dialect.Options{})

	tests := []struct {
		grain string
		want  string
	}{
		{dialect.GrainDay, "DATE(ts)"},
		{dialect.GrainHour, "DATE_ADD(DATE(ts), INTERVAL HOUR(ts) HOUR)"},
		{dialect.GrainQuarter, "MAKEDATE(YEAR(ts), 1) + INTERVAL QUARTER(ts) QUARTER - INTERVAL 1 QUARTER"},
		{dialect.GrainWeekStartingMonday, "DATE(DATE_SUB(ts, INTERVAL DAYOFWEEK(DATE_SUB(ts, INTERVAL 1 DAY)) - 1 DAY))"},
	}
	for _, tt := range tests {
		t.Run(tt.grain, func(t *testing.T) {
			got, err := e.TimeGrainExpression(tt.grain, "ts")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertDatetime(t *testing.T) {
	e := New(dialect.Options{})
	ts := time.Date(2019, 1, 2, 3, 4, 5, 678900000, time.UTC)

	got, ok := e.ConvertDatetime("DATE", ts)
	require.True(t, ok)
	assert.Equal(t, "STR_TO_DATE('2019-01-02', '%Y-%m-%d')", got)

	got, ok = e.ConvertDatetime("DATETIME", ts)
	require.True(t, ok)
	assert.Equal(t, "STR_TO_DATE('2019-01-02 03:04:05.678900', '%Y-%m-%d %H:%i:%s.%f')", got)

	got, ok = e.ConvertDatetime("TIMESTAMP", ts)
	require.True(t, ok)
	assert.Equal(t, "STR_TO_DATE('2019-01-02 03:04:05.678900', '%Y-%m-%d %H:%i:%s.%f')", got)

	_, ok = e.ConvertDatetime("UNKNOWNTYPE", ts)
	assert.False(t, ok)
}

func TestClassifyError(t *testing.T) {
	e := New(dialect.Options{})

	tests := []struct {
		name    string
		raw     string
		typ     core.ErrorType
		message string
	}{
		{
			name:    "access denied",
			raw:     `mysql: Access denied for user 'test'@'testuser.com'`,
			typ:     core.ConnectionAccessDeniedError,
			message: `Either the username "test" or the password is incorrect.`,
		},
		{
			name:    "tuple form",
			raw:     `(1049, "Unknown database 'badb'")`,
			typ:     core.ConnectionUnknownDatabaseError,
			message: `Unable to connect to database "badb".`,
		},
		{
			name:    "unknown host",
			raw:     `Unknown MySQL server host 'badhost.com'`,
			typ:     core.ConnectionInvalidHostnameError,
			message: `Unknown MySQL server host "badhost.com".`,
		},
		{
			name:    "host down",
			raw:     `Can't connect to MySQL server on '93.184.216.34'`,
			typ:     core.ConnectionHostDownError,
			message: `The host "93.184.216.34" might be down and can't be reached.`,
		},
		{
			name:    "syntax",
			raw:     `check the manual that corresponds to your MySQL server version for the right syntax to use near 'fromm'`,
			typ:     core.SyntaxError,
			message: `Please check your query for syntax errors near "fromm'". Then, try running your query again.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se, ok := e.ClassifyError(tt.raw, nil)
			require.True(t, ok)
			assert.Equal(t, tt.typ, se.Type)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestIdentifiers(t *testing.T) {
	d := New(dialect.Options{}).Dialect()
	assert.Equal(t, "`order`", d.QuoteIfNeeded("order"))
	assert.Equal(t, "`s`.`t`", d.QuoteTable("s", "t"))
	assert.Equal(t, 64, d.MaxIdentifierLength)

	epoch, ok := d.EpochMsToDatetime("ms")
	require.True(t, ok)
	assert.Equal(t, "from_unixtime((ms/1000))", epoch)
}

func TestCatalogQueries(t *testing.T) {
	conn := &fakeConn{result: &core.Result{
		Columns: []string{"Db", "Name", "Type"},
		Rows:    [][]any{{"app", "fn_total", "FUNCTION"}},
	}}
	e := New(dialect.Options{})

	names, err := e.FunctionNames(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"fn_total"}, names)

	_, err = e.ViewNames(context.Background(), conn, "")
	require.NoError(t, err)
	assert.Contains(t, conn.queries[1], "table_schema = DATABASE()")
}
