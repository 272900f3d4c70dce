package presto

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/partition"
)

type fakeInspector struct {
	columns []core.Column
	indexes []core.Index
}

func (f fakeInspector) Columns(context.Context, string, string) ([]core.Column, error) {
	return f.columns, nil
}

func (f fakeInspector) Indexes(context.Context, string, string) ([]core.Index, error) {
	return f.indexes, nil
}

type fakeConn struct {
	results map[string]*core.Result
	errs    map[string]error
	queries []string
}

func (f *fakeConn) Query(_ context.Context, query string) (*core.Result, error) {
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return nil, err
	}
	if res, ok := f.results[query]; ok {
		return res, nil
	}
	return &core.Result{}, nil
}

func TestColumnSpec(t *testing.T) {
	e := New(dialect.Options{})

	tests := []struct {
		raw     string
		want    string
		generic core.GenericType
		dttm    bool
	}{
		{"boolean", "BOOLEAN", core.GenericBoolean, false},
		{"tinyint", "TINYINT", core.GenericNumeric, false},
		{"bigint", "BIGINT", core.GenericNumeric, false},
		{"double", "FLOAT", core.GenericNumeric, false},
		{"decimal(10,2)", "DECIMAL", core.GenericNumeric, false},
		{"varchar(255)", "VARCHAR(255)", core.GenericString, false},
		{"varchar", "STRING", core.GenericString, false},
		{"char(10)", "CHAR(10)", core.GenericString, false},
		{"date", "DATE", core.GenericTemporal, true},
		{"timestamp(3) with time zone", "TIMESTAMP", core.GenericTemporal, true},
		{"interval day to second", "INTERVAL", core.GenericTemporal, true},
		{"time", "TIME", core.GenericTemporal, true},
		{"array(bigint)", "ARRAY", core.GenericString, false},
		{"map(varchar, bigint)", "MAP", core.GenericString, false},
		{"row(a bigint)", "ROW", core.GenericString, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			spec, ok := e.GetColumnSpec(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, spec.Type.String())
			assert.Equal(t, tt.generic, spec.Generic)
			assert.Equal(t, tt.dttm, spec.IsDttm)
		})
	}

	_, ok := e.GetColumnSpec("hyperloglog")
	assert.False(t, ok)
}

func TestTimeGrainExpression(t *testing.T) {
	e := New(dialect.Options{})

	got, err := e.TimeGrainExpression(dialect.GrainDay, "ts")
	require.NoError(t, err)
	assert.Equal(t, "date_trunc('day', CAST(ts AS TIMESTAMP))", got)

	got, err = e.TimeGrainExpression(dialect.GrainWeekEndingSaturday, "ts")
	require.NoError(t, err)
	assert.Equal(t, "date_trunc('week', CAST(ts AS TIMESTAMP) + interval '1' day) + interval '5' day", got)

	_, err = e.TimeGrainExpression(dialect.GrainFiveMinutes, "ts")
	require.Error(t, err)
	assert.True(t, dialect.ErrUnsupportedGrain.Is(err))
}

func TestConvertDatetime(t *testing.T) {
	e := New(dialect.Options{})
	ts := time.Date(2019, 1, 2, 3, 4, 5, 678900000, time.UTC)

	got, ok := e.ConvertDatetime("DATE", ts)
	require.True(t, ok)
	assert.Equal(t, "DATE '2019-01-02'", got)

	got, ok = e.ConvertDatetime("timestamp(3)", ts)
	require.True(t, ok)
	assert.Equal(t, "TIMESTAMP '2019-01-02 03:04:05.678900'", got)

	_, ok = e.ConvertDatetime("VARCHAR", ts)
	assert.False(t, ok)
}

func TestEpoch(t *testing.T) {
	d := New(dialect.Options{}).Dialect()

	got, ok := d.EpochToDatetime("ts")
	require.True(t, ok)
	assert.Equal(t, "from_unixtime(ts)", got)

	got, ok = d.EpochMsToDatetime("ts")
	require.True(t, ok)
	assert.Equal(t, "from_unixtime(ts/1000)", got)
}

func TestClassifyError(t *testing.T) {
	e := New(dialect.Options{})

	tests := []struct {
		name    string
		raw     string
		params  core.ErrorContext
		typ     core.ErrorType
		message string
	}{
		{
			name:    "column",
			raw:     "line 1:8: Column 'bogus' cannot be resolved",
			typ:     core.ColumnDoesNotExistError,
			message: `We can't seem to resolve the column "bogus" at line 1:8.`,
		},
		{
			name:    "table",
			raw:     "line 1:15: Table 'tpch.tiny.region2' does not exist",
			typ:     core.TableDoesNotExistError,
			message: `The table "'tpch.tiny.region2'" does not exist. A valid table must be used to run this query.`,
		},
		{
			name:    "schema",
			raw:     "line 1:15: Schema 'tin' does not exist",
			typ:     core.SchemaDoesNotExistError,
			message: `The schema "tin" does not exist. A valid schema must be used to run this query.`,
		},
		{
			name:    "credentials",
			raw:     "Access Denied: Invalid credentials",
			params:  core.ErrorContext{"username": "alice"},
			typ:     core.ConnectionAccessDeniedError,
			message: `Either the username "alice" or the password is incorrect.`,
		},
		{
			name:    "port closed",
			raw:     "Failed to establish a new connection: [Errno 61] Connection refused",
			params:  core.ErrorContext{"hostname": "localhost", "port": "12345"},
			typ:     core.ConnectionPortClosedError,
			message: `Port 12345 on hostname "localhost" refused the connection.`,
		},
		{
			name:    "catalog",
			raw:     "line 1:15: Catalog 'grist' does not exist",
			typ:     core.ConnectionUnknownDatabaseError,
			message: `Unable to connect to catalog named "grist".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se, ok := e.ClassifyError(tt.raw, tt.params)
			require.True(t, ok)
			assert.Equal(t, tt.typ, se.Type)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, "Presto", se.Extra["engine_name"])
		})
	}

	se, ok := e.ClassifyError("something else", nil)
	assert.False(t, ok)
	assert.Equal(t, core.GenericDBEngineError, se.Type)
	assert.Equal(t, "something else", se.Message)
}

func TestApplyLimit(t *testing.T) {
	e := New(dialect.Options{})

	got, err := e.ApplyLimit("SELECT * FROM t LIMIT 1000", 10)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t LIMIT 10", got)
}

func TestGetColumns(t *testing.T) {
	inspector := fakeInspector{columns: []core.Column{
		{Name: "id", Type: "bigint"},
		{Name: "r", Type: "row(a varchar, b bigint)", Nullable: true},
		{Name: "g", Type: "geometry"},
	}}

	t.Run("flat", func(t *testing.T) {
		cols, err := New(dialect.Options{}).GetColumns(context.Background(), inspector, "t", "")
		require.NoError(t, err)
		require.Len(t, cols, 3)
		assert.Equal(t, core.GenericNumeric, cols[0].Generic)
		assert.Equal(t, "row(a varchar, b bigint)", cols[1].Type)
		assert.Equal(t, core.GenericString, cols[2].Generic)
	})

	t.Run("expanded", func(t *testing.T) {
		e := New(dialect.Options{Flags: core.Flags{core.FeatureExpandData: true}})
		cols, err := e.GetColumns(context.Background(), inspector, "t", "")
		require.NoError(t, err)

		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.Name
		}
		assert.Equal(t, []string{"id", "r", "r.a", "r.b", "g"}, names)
		assert.Equal(t, "row(a varchar, b bigint)", cols[1].Type)
		assert.True(t, cols[1].Nullable)
		assert.Empty(t, cols[1].QueryAs)
		assert.Equal(t, `"r"."a" AS "r.a"`, cols[2].QueryAs)
	})

	t.Run("missing inspector", func(t *testing.T) {
		_, err := New(dialect.Options{}).GetColumns(context.Background(), nil, "t", "")
		assert.True(t, dialect.ErrNilCollaborator.Is(err))
	})
}

func TestExpandData(t *testing.T) {
	columns := []core.Column{{Name: "r", Type: "ROW(a BIGINT)"}}
	rows := []map[string]any{{"r": []any{int64(1)}}}

	out, err := New(dialect.Options{}).ExpandData(columns, rows)
	require.NoError(t, err)
	assert.Equal(t, columns, out.Columns)
	assert.Empty(t, out.Expanded)

	e := New(dialect.Options{Flags: core.Flags{core.FeatureExpandData: true}})
	out, err = e.ExpandData(columns, rows)
	require.NoError(t, err)
	require.Len(t, out.Expanded, 1)
	assert.Equal(t, "r.a", out.Expanded[0].Name)
	assert.Equal(t, int64(1), out.Rows[0]["r.a"])
}

func TestLatestPartition(t *testing.T) {
	inspector := fakeInspector{indexes: []core.Index{{Name: partition.IndexName, Columns: []string{"ds"}}}}
	sql := partition.Query{Schema: "hive", Table: "logs", OrderBy: []string{"ds"}, Limit: 1, Version: "0.220"}.SQL()
	conn := &fakeConn{results: map[string]*core.Result{
		sql: {Columns: []string{"ds"}, Rows: [][]any{{"2024-03-01"}}},
	}}

	e := New(dialect.Options{ServerVersion: "0.220"})
	p, err := e.LatestPartition(context.Background(), conn, inspector, "logs", "hive", false)
	require.NoError(t, err)
	assert.Equal(t, []any{"2024-03-01"}, p.Values)

	_, err = e.LatestPartition(context.Background(), nil, inspector, "logs", "hive", false)
	assert.True(t, dialect.ErrNilCollaborator.Is(err))
}

func TestLatestSubPartition(t *testing.T) {
	inspector := fakeInspector{indexes: []core.Index{{Name: partition.IndexName, Columns: []string{"ds", "hour"}}}}
	conn := &fakeConn{}

	v, err := New(dialect.Options{}).LatestSubPartition(context.Background(), conn, inspector, "logs", "", map[string]string{"ds": "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "", v)
	require.Len(t, conn.queries, 1)
	assert.Contains(t, conn.queries[0], "WHERE ds = '2024-03-01'")
	assert.Contains(t, conn.queries[0], "ORDER BY hour DESC")
}

func TestListFunctions(t *testing.T) {
	conn := &fakeConn{results: map[string]*core.Result{
		"SHOW FUNCTIONS": {
			Columns: []string{"Function", "Return Type"},
			Rows:    [][]any{{"abs", "bigint"}, {"abs", "double"}, {"approx_distinct", "bigint"}},
		},
	}}

	names, err := New(dialect.Options{}).FunctionNames(context.Background(), conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"abs", "approx_distinct"}, names)
}

func TestListViews(t *testing.T) {
	conn := &fakeConn{results: map[string]*core.Result{
		ViewsQuery("o'brien"): {Columns: []string{"table_name"}, Rows: [][]any{{"v2"}, {"v1"}}},
	}}

	names, err := New(dialect.Options{}).ViewNames(context.Background(), conn, "o'brien")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, names)
	assert.Contains(t, conn.queries[0], "table_schema = 'o''brien'")
	assert.NotContains(t, ViewsQuery(""), "table_schema")
}

func TestAllowCostEstimate(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"", false},
		{"0.200", false},
		{"0.319", true},
		{"0.330-SNAPSHOT", true},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			e := New(dialect.Options{ServerVersion: tt.version})
			assert.Equal(t, tt.want, e.AllowCostEstimate())
		})
	}

	_, err := New(dialect.Options{ServerVersion: "0.200"}).EstimateCost(context.Background(), &fakeConn{}, "SELECT 1")
	assert.True(t, ErrCostUnsupported.Is(err))
}

func TestTableMetadata(t *testing.T) {
	inspector := fakeInspector{indexes: []core.Index{{Name: partition.IndexName, Columns: []string{"hour", "ds"}}}}
	conn := &fakeConn{
		results: map[string]*core.Result{
			partition.Query{Table: "logs", OrderBy: []string{"hour", "ds"}, Limit: 1}.SQL(): {
				Columns: []string{"hour", "ds"},
				Rows:    [][]any{{"23", "2024-03-01"}},
			},
		},
		errs: map[string]error{"SHOW CREATE VIEW logs": errors.New("not a view")},
	}

	md, err := New(dialect.Options{}).TableMetadata(context.Background(), conn, inspector, "logs", "")
	require.NoError(t, err)
	require.NotNil(t, md.Partitions)
	assert.Equal(t, []string{"ds", "hour"}, md.Partitions.Columns)
	assert.Equal(t, map[string]any{"ds": "2024-03-01", "hour": "23"}, md.Partitions.Latest)
	assert.Equal(t, `SELECT * FROM "logs$partitions"`, md.Partitions.Query)
	assert.Empty(t, md.View)
}

func TestTableMetadataView(t *testing.T) {
	conn := &fakeConn{results: map[string]*core.Result{
		"SHOW CREATE VIEW s.v": {Columns: []string{"Create View"}, Rows: [][]any{{"CREATE VIEW s.v AS SELECT 1"}}},
	}}

	md, err := New(dialect.Options{}).TableMetadata(context.Background(), conn, fakeInspector{}, "v", "s")
	require.NoError(t, err)
	assert.Nil(t, md.Partitions)
	assert.Equal(t, "CREATE VIEW s.v AS SELECT 1", md.View)
}
