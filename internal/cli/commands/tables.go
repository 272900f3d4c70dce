package commands

import (
	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
	"github.com/spf13/cobra"
)

type tableRef struct {
	Catalog string `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema  string `json:"schema,omitempty" yaml:"schema,omitempty"`
	Name    string `json:"name" yaml:"name"`
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables [sql|-]",
		Short: "List the tables a query reads",
		Long: `List the tables referenced after FROM and JOIN. Common table expressions,
subqueries and table functions are skipped. Dialects with their own
syntax (Teradata SEL/TOP/SAMPLE) use a dedicated scanner.`,
		Example: `  enginespec tables "SELECT * FROM a.b JOIN c ON b.id = c.id"
  enginespec tables -e teradata < query.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}

			var found []sqlscan.Table
			eng, engErr := app.Engine(nil)
			if ex, ok := eng.(dialect.TableExtractor); engErr == nil && ok {
				found = ex.Tables(sql)
			} else {
				found = sqlscan.Tables(sql)
			}

			refs := make([]tableRef, 0, len(found))
			tbl := output.Table{Header: []string{"table"}}
			for _, t := range found {
				refs = append(refs, tableRef{Catalog: t.Catalog, Schema: t.Schema, Name: t.Name})
				tbl.Rows = append(tbl.Rows, []any{t.String()})
			}
			return app.Renderer.Render(refs, tbl)
		},
	}
}
