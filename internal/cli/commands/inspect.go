package commands

import (
	"context"
	"strings"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/cache"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/dialects/presto"
	"github.com/spf13/cobra"
)

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "List a table's columns with generic types",
		Long: `Connect to the configured target and list a table's columns. Native types
are mapped to generic categories; on dialects with nested types ROW
columns are expanded into their leaf fields when enabled.`,
		Example: `  enginespec columns orders --schema sales
  enginespec columns events -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			cols, err := sess.Engine.GetColumns(cmd.Context(), sess.Adapter, args[0], schema)
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}
			return app.Renderer.Render(cols, columnsTable(cols))
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema of the table (default: target schema)")
	return cmd
}

func columnsTable(cols []core.Column) output.Table {
	tbl := output.Table{Header: []string{"name", "type", "generic", "dttm", "nullable", "query as"}}
	for _, c := range cols {
		tbl.Rows = append(tbl.Rows, []any{c.Name, c.Type, c.Generic.String(), c.IsDttm, c.Nullable, c.QueryAs})
	}
	return tbl
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:   "inspect <table>",
		Short: "Show a table's raw columns and indexes",
		Long: `Connect to the configured target and show the table's columns as the
backend reports them, together with its indexes. Partitioned tables report
their partition keys as an index named "partition".`,
		Example: `  enginespec inspect hive.logs.events`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			info, err := adapter.Inspect(cmd.Context(), sess.Adapter, args[0], schema)
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}

			tbl := output.Table{Title: args[0], Header: []string{"kind", "name", "detail"}}
			for _, c := range info.Columns {
				tbl.Rows = append(tbl.Rows, []any{"column", c.Name, c.Type})
			}
			for _, idx := range info.Indexes {
				tbl.Rows = append(tbl.Rows, []any{"index", idx.Name, strings.Join(idx.Columns, ", ")})
			}
			return app.Renderer.Render(info, tbl)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema of the table (default: target schema)")
	return cmd
}

// NewPartitionCommand creates the partition command.
func NewPartitionCommand() *cobra.Command {
	var (
		schema  string
		first   bool
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "partition <table>",
		Short: "Find the latest partition of a table",
		Long: `Connect to the configured target and return the table's partition columns
with their newest values. Tables with several partition keys are rejected
unless --first is given, which returns the newest partition ordered by
every key. With --filter the remaining partition key is resolved given
fixed values for the others.

Results are cached for cache.ttl so repeated lookups do not rescan the
partition metadata.`,
		Example: `  enginespec partition logs --schema hive
  enginespec partition events --first
  enginespec partition logs --filter ds=2024-01-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			fixed, err := parsePairs(filters)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()
			table := args[0]

			if len(fixed) > 0 {
				sub, ok := sess.Engine.(dialect.SubPartitioner)
				if !ok {
					return unsupported(sess.Engine, "sub-partition lookups")
				}
				value, err := sub.LatestSubPartition(cmd.Context(), sess.Adapter, sess.Adapter, table, schema, fixed)
				if err != nil {
					return app.Explain(sess.Engine, sess.Adapter, err)
				}
				return app.Renderer.Scalar("value", output.FormatValue(value))
			}

			kind := "partition"
			if first {
				kind = "partition:first"
			}
			key := cache.Key{Kind: kind, Dialect: sess.Engine.Name(), Table: table, Schema: schema}
			part, err := app.Partitions.Do(cmd.Context(), key, func(ctx context.Context) (core.Partition, error) {
				return sess.Engine.LatestPartition(ctx, sess.Adapter, sess.Adapter, table, schema, first)
			})
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}

			tbl := output.Table{Header: []string{"column", "value"}}
			for i, col := range part.Columns {
				var v any
				if i < len(part.Values) {
					v = part.Values[i]
				}
				tbl.Rows = append(tbl.Rows, []any{col, v})
			}
			return app.Renderer.Render(part, tbl)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema of the table (default: target schema)")
	cmd.Flags().BoolVar(&first, "first", false, "Allow tables with several partition keys (uses the newest partition)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Fixed partition value as key=value (repeatable)")
	return cmd
}

// tableMetadataProvider is implemented by engines that report partition
// and view details.
type tableMetadataProvider interface {
	TableMetadata(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string) (presto.Metadata, error)
}

// NewMetadataCommand creates the metadata command.
func NewMetadataCommand() *cobra.Command {
	var schema string
	cmd := &cobra.Command{
		Use:     "metadata <table>",
		Short:   "Show partition and view details of a table",
		Example: `  enginespec metadata logs --schema hive`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			provider, ok := sess.Engine.(tableMetadataProvider)
			if !ok {
				return unsupported(sess.Engine, "table metadata")
			}
			md, err := provider.TableMetadata(cmd.Context(), sess.Adapter, sess.Adapter, args[0], schema)
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}

			tbl := output.Table{Title: args[0], Header: []string{"key", "value"}}
			if p := md.Partitions; p != nil {
				tbl.Rows = append(tbl.Rows, []any{"partition columns", p.Columns})
				tbl.Rows = append(tbl.Rows, []any{"latest", p.Latest})
				tbl.Rows = append(tbl.Rows, []any{"partition query", p.Query})
			}
			if md.View != "" {
				tbl.Rows = append(tbl.Rows, []any{"view", md.View})
			}
			return app.Renderer.Render(md, tbl)
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "", "Schema of the table (default: target schema)")
	return cmd
}
