package nested

import (
	"encoding/json"
	"maps"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

type pending struct {
	column core.Column
	level  int
}

// ExpandData unnests ARRAY columns into extra rows and expands ROW columns
// into parent.field columns.
//
// Columns are processed breadth-first: array children are queued at the
// next level, row children are processed immediately after their parent.
// When several arrays at the same level are unnested, later arrays reuse
// rows added by earlier ones, so each input row yields max(1, longest
// array) output rows. Every output row carries every column; missing
// values are "". Values that arrive JSON-encoded are decoded first.
//
// The input rows are not modified.
func ExpandData(columns []core.Column, rows []map[string]any) (core.Expansion, error) {
	data := make([]map[string]any, len(rows))
	for i, row := range rows {
		data[i] = maps.Clone(row)
		if data[i] == nil {
			data[i] = map[string]any{}
		}
	}

	queue := make([]pending, 0, len(columns))
	for _, col := range columns {
		queue = append(queue, pending{column: col})
	}

	var (
		all      []core.Column
		seen     = map[string]bool{}
		expanded = []core.Column{}
		level    = -1
		unnested map[int]int
	)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		col := item.column
		if !seen[col.Name] {
			seen[col.Name] = true
			all = append(all, col)
		}
		if item.level != level {
			unnested = map[int]int{}
			level = item.level
		}

		if !col.IsStructural() {
			continue
		}
		isArray := strings.HasPrefix(strings.ToUpper(col.Type), "ARRAY(")

		children, err := GetChildren(col)
		if err != nil {
			return core.Expansion{}, err
		}

		if isArray {
			queue = append(queue, pending{column: children[0], level: item.level + 1})
			if data, err = unnestArray(data, col.Name, unnested); err != nil {
				return core.Expansion{}, err
			}
			continue
		}

		front := make([]pending, 0, len(children)+len(queue))
		for _, child := range children {
			front = append(front, pending{column: child, level: item.level})
		}
		queue = append(front, queue...)
		expanded = append(expanded, children...)

		if err = expandRow(data, col.Name, children); err != nil {
			return core.Expansion{}, err
		}
	}

	out := make([]map[string]any, len(data))
	for i, row := range data {
		flat := make(map[string]any, len(all))
		for _, col := range all {
			if v, ok := row[col.Name]; ok {
				flat[col.Name] = v
			} else {
				flat[col.Name] = ""
			}
		}
		out[i] = flat
	}

	return core.Expansion{Columns: all, Rows: out, Expanded: expanded}, nil
}

func unnestArray(data []map[string]any, name string, unnested map[int]int) ([]map[string]any, error) {
	for i := 0; i < len(data); i++ {
		row := data[i]
		v, err := decoded(row, name)
		if err != nil {
			return nil, err
		}
		values, ok := v.([]any)
		if !ok || len(values) == 0 {
			continue
		}

		extra := len(values) - 1
		missing := extra - unnested[i]
		for range missing {
			at := i + unnested[i] + 1
			data = append(data, nil)
			copy(data[at+1:], data[at:])
			data[at] = map[string]any{}
			unnested[i]++
		}
		for j, value := range values {
			data[i+j][name] = value
		}
		i += unnested[i]
	}
	return data, nil
}

func expandRow(data []map[string]any, name string, children []core.Column) error {
	for _, row := range data {
		v, err := decoded(row, name)
		if err != nil {
			return err
		}
		switch values := v.(type) {
		case []any:
			for k, child := range children {
				if k >= len(values) {
					break
				}
				row[child.Name] = values[k]
			}
		case map[string]any:
			for _, child := range children {
				field := strings.TrimPrefix(child.Name, name+".")
				if value, ok := values[field]; ok {
					row[child.Name] = value
				}
			}
		}
	}
	return nil
}

// decoded returns row[name], decoding and storing it first if it is a
// JSON string.
func decoded(row map[string]any, name string) (any, error) {
	v := row[name]
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, ErrUndecodable.New(name, err)
	}
	row[name] = out
	return out, nil
}
