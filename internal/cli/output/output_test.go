package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

var sampleTable = Table{
	Header: []string{"name", "count"},
	Rows:   [][]any{{"presto", 9}, {"mysql", nil}},
}

func render(t *testing.T, mode Mode, fn func(r *Renderer) error) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	require.NoError(t, fn(NewRenderer(&out, &errOut, mode)))
	return out.String(), errOut.String()
}

func TestNewRendererDefaultsToTable(t *testing.T) {
	assert.Equal(t, ModeTable, NewRenderer(nil, nil, "auto").Mode())
	assert.Equal(t, ModeJSON, NewRenderer(nil, nil, ModeJSON).Mode())
}

func TestRenderTable(t *testing.T) {
	out, _ := render(t, ModeTable, func(r *Renderer) error {
		return r.Render(nil, sampleTable)
	})
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "presto")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "┌")
}

func TestRenderMarkdown(t *testing.T) {
	out, _ := render(t, ModeMarkdown, func(r *Renderer) error {
		return r.Render(nil, sampleTable)
	})
	assert.Contains(t, out, "| name | count |")
	assert.Contains(t, out, "| presto | 9 |")
}

func TestRenderEmptyTable(t *testing.T) {
	out, _ := render(t, ModeTable, func(r *Renderer) error {
		return r.Render(nil, Table{Header: []string{"a"}})
	})
	assert.Equal(t, "(0 rows)\n", out)
}

func TestRenderJSON(t *testing.T) {
	out, _ := render(t, ModeJSON, func(r *Renderer) error {
		return r.Render([]sample{{Name: "presto", Count: 9}}, sampleTable)
	})
	assert.JSONEq(t, `[{"name":"presto","count":9}]`, out)
}

func TestRenderYAML(t *testing.T) {
	out, _ := render(t, ModeYAML, func(r *Renderer) error {
		return r.Render(sample{Name: "mysql", Count: 3}, sampleTable)
	})
	var got sample
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, sample{Name: "mysql", Count: 3}, got)
}

func TestScalar(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeTable, "DATE '2024-01-01'\n"},
		{ModeMarkdown, "```sql\nDATE '2024-01-01'\n```\n"},
		{ModeYAML, "sql: DATE '2024-01-01'\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out, _ := render(t, tt.mode, func(r *Renderer) error {
				return r.Scalar("sql", "DATE '2024-01-01'")
			})
			assert.Equal(t, tt.want, out)
		})
	}

	out, _ := render(t, ModeJSON, func(r *Renderer) error {
		return r.Scalar("sql", "x")
	})
	assert.JSONEq(t, `{"sql":"x"}`, out)
}

func TestWarn(t *testing.T) {
	_, errOut := render(t, ModeTable, func(r *Renderer) error {
		r.Warn("cache disabled for %s", "presto")
		return nil
	})
	assert.Equal(t, "Warning: cache disabled for presto\n", errOut)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", FormatValue(nil))
	assert.Equal(t, "abc", FormatValue([]byte("abc")))
	assert.Equal(t, `{"a":1}`, FormatValue(map[string]any{"a": 1}))
	assert.Equal(t, `["x","y"]`, FormatValue([]string{"x", "y"}))
	assert.Equal(t, "1.5", FormatValue(1.5))
}
