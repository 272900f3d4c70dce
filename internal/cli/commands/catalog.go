package commands

import (
	"context"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/cache"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the functions the target supports",
		Long: `Connect to the configured target and list the functions it can call.
The list is cached for cache.ttl.`,
		Example: `  enginespec functions -o json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			lister, ok := sess.Engine.(dialect.FunctionLister)
			if !ok {
				return unsupported(sess.Engine, "function listing")
			}
			key := cache.Key{Kind: "functions", Dialect: sess.Engine.Name()}
			names, err := app.Functions.Do(cmd.Context(), key, func(ctx context.Context) ([]string, error) {
				return lister.FunctionNames(ctx, sess.Adapter)
			})
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}
			return app.Renderer.Render(names, namesTable("function", names))
		},
	}
}

// NewViewsCommand creates the views command.
func NewViewsCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:     "views",
		Short:   "List the views in a schema",
		Example: `  enginespec views --schema reporting`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			lister, ok := sess.Engine.(dialect.ViewLister)
			if !ok {
				return unsupported(sess.Engine, "view listing")
			}
			names, err := lister.ViewNames(cmd.Context(), sess.Adapter, schema)
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}
			return app.Renderer.Render(names, namesTable("view", names))
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema to list (default: all schemas)")
	return cmd
}

func namesTable(header string, names []string) output.Table {
	tbl := output.Table{Header: []string{header}}
	for _, n := range names {
		tbl.Rows = append(tbl.Rows, []any{n})
	}
	return tbl
}
