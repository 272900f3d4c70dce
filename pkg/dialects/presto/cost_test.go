package presto

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

func TestHumanize(t *testing.T) {
	tests := []struct {
		value  any
		suffix string
		want   string
	}{
		{float64(354), " rows", "354  rows"},
		{float64(1000), "B", "1000 B"},
		{float64(1001), "B", "1 KB"},
		{float64(2.5e6), "B", "2 MB"},
		{int64(7e9), "", "7 G"},
		{"12345", "", "12 K"},
		{"NaN", "", "NaN"},
		{"n/a", "", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Humanize(tt.value, tt.suffix))
		})
	}
}

func TestFormatCost(t *testing.T) {
	raw := []map[string]any{
		{"estimate": map[string]any{
			"outputRowCount":    float64(9.0e6),
			"outputSizeInBytes": float64(540.0e6),
			"cpuCost":           float64(540.0e6),
			"maxMemory":         float64(0),
			"networkCost":       float64(0),
		}},
		{"other": true},
	}

	got := New(dialect.Options{}).FormatCost(raw)
	require.Len(t, got, 2)
	assert.Equal(t, map[string]string{
		"Output count": "9 M rows",
		"Output size":  "540 MB",
		"CPU cost":     "540 M",
		"Max memory":   "0 B",
		"Network cost": "0",
	}, got[0])
	assert.Empty(t, got[1])
}

func TestEstimateStatementCost(t *testing.T) {
	stmt := "SELECT * FROM t"
	conn := &fakeConn{results: map[string]*core.Result{
		"EXPLAIN (TYPE IO, FORMAT JSON) " + stmt: {
			Columns: []string{"Query Plan"},
			Rows:    [][]any{{`{"inputTableColumnInfos": [], "estimate": {"outputRowCount": 10}}`}},
		},
	}}

	plan, err := New(dialect.Options{ServerVersion: "0.320"}).EstimateCost(context.Background(), conn, stmt)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"outputRowCount": float64(10)}, plan["estimate"])

	_, err = EstimateStatementCost(context.Background(), &fakeConn{}, stmt)
	assert.True(t, ErrMalformedPlan.Is(err))

	failing := &fakeConn{errs: map[string]error{"EXPLAIN (TYPE IO, FORMAT JSON) " + stmt: errors.New("boom")}}
	_, err = EstimateStatementCost(context.Background(), failing, stmt)
	assert.ErrorContains(t, err, "boom")
}

func TestValidate(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{
		"EXPLAIN (TYPE VALIDATE) SELECT foo FROM t": errors.New(`line 1:8: Column 'foo' cannot be resolved`),
	}}

	got, err := New(dialect.Options{}).Validate(context.Background(), conn, "SELECT 1;\nSELECT foo FROM t")
	require.NoError(t, err)
	assert.Len(t, conn.queries, 2)
	assert.Equal(t, []dialect.Annotation{{
		Message:     "Column 'foo' cannot be resolved",
		LineNumber:  1,
		StartColumn: 8,
		EndColumn:   8,
	}}, got)
}

func TestValidateUnlocatedError(t *testing.T) {
	conn := &fakeConn{errs: map[string]error{
		"EXPLAIN (TYPE VALIDATE) SELECT 1": errors.New("connection reset"),
	}}

	_, err := Validate(context.Background(), conn, "SELECT 1", nil)
	assert.ErrorContains(t, err, "connection reset")
}
