package nested

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

func TestExpandDataArray(t *testing.T) {
	columns := []core.Column{
		{Name: "id", Type: "INTEGER"},
		{Name: "arr", Type: "ARRAY(INTEGER)"},
	}
	rows := []map[string]any{
		{"id": 1, "arr": []any{10, 20}},
		{"id": 2, "arr": []any{}},
	}

	got, err := ExpandData(columns, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "arr"}, names(got.Columns))
	assert.Empty(t, got.Expanded)
	assert.Equal(t, []map[string]any{
		{"id": 1, "arr": 10},
		{"id": "", "arr": 20},
		{"id": 2, "arr": []any{}},
	}, got.Rows)

	// input untouched
	assert.Equal(t, []any{10, 20}, rows[0]["arr"])
	assert.Len(t, rows, 2)
}

func TestExpandDataRow(t *testing.T) {
	columns := []core.Column{{Name: "r", Type: "ROW(x VARCHAR, y BIGINT)"}}
	rows := []map[string]any{
		{"r": []any{"a", 1}},
		{"r": `["b", 2]`},
		{"r": map[string]any{"x": "c", "y": 3}},
		{"r": nil},
	}

	got, err := ExpandData(columns, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"r", "r.x", "r.y"}, names(got.Columns))
	assert.Equal(t, []string{"r.x", "r.y"}, names(got.Expanded))
	require.Len(t, got.Rows, 4)
	assert.Equal(t, "a", got.Rows[0]["r.x"])
	assert.Equal(t, 1, got.Rows[0]["r.y"])
	assert.Equal(t, "b", got.Rows[1]["r.x"])
	assert.InDelta(t, 2.0, got.Rows[1]["r.y"], 0)
	assert.Equal(t, "c", got.Rows[2]["r.x"])
	assert.Equal(t, 3, got.Rows[2]["r.y"])
	assert.Equal(t, "", got.Rows[3]["r.x"])
}

func TestExpandDataArrayOfRows(t *testing.T) {
	columns := []core.Column{{Name: "col", Type: "ARRAY(ROW(a VARCHAR, b INTEGER))"}}
	rows := []map[string]any{
		{"col": []any{[]any{"x", 1}, []any{"y", 2}}},
	}

	got, err := ExpandData(columns, rows)
	require.NoError(t, err)

	assert.Equal(t, []string{"col", "col.a", "col.b"}, names(got.Columns))
	assert.Equal(t, []string{"col.a", "col.b"}, names(got.Expanded))
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "x", got.Rows[0]["col.a"])
	assert.Equal(t, 1, got.Rows[0]["col.b"])
	assert.Equal(t, "y", got.Rows[1]["col.a"])
	assert.Equal(t, 2, got.Rows[1]["col.b"])
}

func TestExpandDataSharesUnnestedRows(t *testing.T) {
	columns := []core.Column{
		{Name: "a", Type: "ARRAY(VARCHAR)"},
		{Name: "b", Type: "ARRAY(INTEGER)"},
	}
	rows := []map[string]any{
		{"a": []any{"a1"}, "b": []any{1, 2}},
		{"a": []any{"a2", "a3", "a4"}, "b": []any{3}},
	}

	got, err := ExpandData(columns, rows)
	require.NoError(t, err)

	// max(1, longest array) rows per input row
	assert.Equal(t, []map[string]any{
		{"a": "a1", "b": 1},
		{"a": "", "b": 2},
		{"a": "a2", "b": 3},
		{"a": "a3", "b": ""},
		{"a": "a4", "b": ""},
	}, got.Rows)
}

func TestExpandDataErrors(t *testing.T) {
	_, err := ExpandData([]core.Column{{Name: "a", Type: "ARRAY(INT)"}}, []map[string]any{{"a": "not json"}})
	require.Error(t, err)
	assert.True(t, ErrUndecodable.Is(err))
}

func TestExpandDataPlainColumns(t *testing.T) {
	columns := []core.Column{{Name: "id", Type: "INTEGER"}}
	rows := []map[string]any{{"id": 1}, {}}

	got, err := ExpandData(columns, rows)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": 1}, {"id": ""}}, got.Rows)
}
