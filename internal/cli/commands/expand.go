package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/spf13/cobra"
)

// resultSet is the JSON document expand reads.
type resultSet struct {
	Columns []core.Column    `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// NewExpandCommand creates the expand command.
func NewExpandCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "expand",
		Short: "Flatten nested ARRAY and ROW result data",
		Long: `Read a result set as JSON from stdin and flatten nested ARRAY and ROW
values into top-level columns. The document has the shape

  {"columns": [{"name": "a", "type": "ROW(b VARCHAR)"}], "rows": [{"a": {"b": "x"}}]}

Expansion only happens when the dialect supports it and the matching
feature flag is on (--feature PRESTO_EXPAND_DATA).`,
		Example: `  enginespec expand -e presto --feature PRESTO_EXPAND_DATA < result.json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}

			var in resultSet
			dec := json.NewDecoder(cmd.InOrStdin())
			dec.UseNumber()
			if err := dec.Decode(&in); err != nil {
				return fmt.Errorf("failed to decode result set: %w", err)
			}

			exp, err := eng.ExpandData(in.Columns, in.Rows)
			if err != nil {
				return err
			}

			tbl := output.Table{Header: make([]string, 0, len(exp.Columns))}
			for _, col := range exp.Columns {
				tbl.Header = append(tbl.Header, col.Name)
			}
			for _, row := range exp.Rows {
				values := make([]any, 0, len(exp.Columns))
				for _, col := range exp.Columns {
					values = append(values, row[col.Name])
				}
				tbl.Rows = append(tbl.Rows, values)
			}
			if n := len(exp.Expanded); n > 0 {
				tbl.Title = fmt.Sprintf("%d expanded columns", n)
			}
			return app.Renderer.Render(exp, tbl)
		},
	}
}
