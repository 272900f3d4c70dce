// Package output renders command results as tables, markdown, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeTable    Mode = "table"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
	ModeMarkdown Mode = "markdown"
)

// Table is the tabular view of a result, used by table and markdown modes.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// Renderer writes results to out and diagnostics to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
}

// NewRenderer creates a renderer. Unknown modes render as tables.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeJSON, ModeYAML, ModeMarkdown:
	default:
		mode = ModeTable
	}
	return &Renderer{out: out, errOut: errOut, mode: mode}
}

// Mode returns the effective output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// Render writes data in JSON/YAML mode and tbl in table/markdown mode.
func (r *Renderer) Render(data any, tbl Table) error {
	switch r.mode {
	case ModeJSON:
		return r.json(data)
	case ModeYAML:
		return r.yaml(data)
	default:
		r.table(tbl)
		return nil
	}
}

// Scalar writes a single named value, e.g. a generated SQL expression.
// Table mode prints the bare value so it can be piped.
func (r *Renderer) Scalar(key, value string) error {
	switch r.mode {
	case ModeJSON:
		return r.json(map[string]string{key: value})
	case ModeYAML:
		return r.yaml(map[string]string{key: value})
	case ModeMarkdown:
		_, err := fmt.Fprintf(r.out, "```sql\n%s\n```\n", value)
		return err
	default:
		_, err := fmt.Fprintln(r.out, value)
		return err
	}
}

// Warn writes a diagnostic line to the error stream.
func (r *Renderer) Warn(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, "Warning: "+format+"\n", args...)
}

func (r *Renderer) json(data any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (r *Renderer) yaml(data any) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) table(tbl Table) {
	if len(tbl.Rows) == 0 {
		_, _ = fmt.Fprintln(r.out, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	if tbl.Title != "" {
		t.SetTitle(tbl.Title)
	}

	header := make(table.Row, len(tbl.Header))
	for i, col := range tbl.Header {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, values := range tbl.Rows {
		row := make(table.Row, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}

	if r.mode == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

// FormatValue renders a cell. Nested values are shown as compact JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case []byte:
		return string(val)
	case map[string]any, []any, []string, map[string]string:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}
