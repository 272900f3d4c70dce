package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/spf13/cobra"
)

type typeInfo struct {
	Native  string           `json:"native" yaml:"native"`
	Type    string           `json:"type" yaml:"type"`
	Generic core.GenericType `json:"generic" yaml:"generic"`
	IsDttm  bool             `json:"is_dttm" yaml:"is_dttm"`
	Matched bool             `json:"matched" yaml:"matched"`
}

// NewTypeCommand creates the type command.
func NewTypeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "type <native-type>...",
		Short: "Map native column types to generic types",
		Long: `Map one or more native type strings to their canonical SQL type and
generic category. Types no rule recognizes are reported as STRING.`,
		Example: `  enginespec type -e presto "varchar(255)" "array(integer)"
  enginespec type -e mysql TINYINT(1) -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}

			infos := make([]typeInfo, 0, len(args))
			tbl := output.Table{Header: []string{"native", "type", "generic", "dttm"}}
			for _, raw := range args {
				spec, ok := eng.GetColumnSpec(raw)
				if !ok {
					spec = dialect.ResolveType(eng, raw, "", app.Logger)
				}
				info := typeInfo{
					Native:  raw,
					Type:    spec.Type.String(),
					Generic: spec.Generic,
					IsDttm:  spec.IsDttm,
					Matched: ok,
				}
				infos = append(infos, info)
				tbl.Rows = append(tbl.Rows, []any{raw, info.Type, info.Generic.String(), info.IsDttm})
			}
			return app.Renderer.Render(infos, tbl)
		},
	}
}

// NewGrainCommand creates the grain command.
func NewGrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grain <grain> <column>",
		Short: "Render a time grain truncation expression",
		Long: `Render the expression that truncates a column to a time grain. Grains are
ISO 8601 durations such as P1D or PT15M; "none" leaves the column as is.`,
		Example: `  enginespec grain -e postgresql P1W created_at
  enginespec grain -e presto PT5M ts`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}
			expr, err := eng.TimeGrainExpression(args[0], args[1])
			if err != nil {
				return err
			}
			return app.Renderer.Scalar("expression", expr)
		},
	}
}

// NewLiteralCommand creates the literal command.
func NewLiteralCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "literal <target-type> <rfc3339-time>",
		Short: "Render a datetime literal",
		Long: `Render a datetime as a literal of the given target type (DATE, TIMESTAMP,
DATETIME, ...). The time is parsed as RFC 3339 with optional fractional
seconds.`,
		Example: `  enginespec literal -e presto TIMESTAMP 2019-01-02T03:04:05.678900Z
  enginespec literal -e mysql DATE 2019-01-02T00:00:00Z`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}
			t, err := time.Parse(time.RFC3339Nano, args[1])
			if err != nil {
				return fmt.Errorf("invalid time %q: %w", args[1], err)
			}
			lit, ok := eng.ConvertDatetime(args[0], t)
			if !ok {
				return unsupported(eng, fmt.Sprintf("%s literals", args[0]))
			}
			return app.Renderer.Scalar("literal", lit)
		},
	}
}

// NewEpochCommand creates the epoch command.
func NewEpochCommand() *cobra.Command {
	var millis bool
	cmd := &cobra.Command{
		Use:   "epoch <column>",
		Short: "Convert an epoch column to a timestamp expression",
		Example: `  enginespec epoch -e presto created_ts
  enginespec epoch -e mysql created_ms --ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}
			convert := eng.Dialect().EpochToDatetime
			if millis {
				convert = eng.Dialect().EpochMsToDatetime
			}
			expr, ok := convert(args[0])
			if !ok {
				return unsupported(eng, "epoch conversion")
			}
			return app.Renderer.Scalar("expression", expr)
		},
	}
	cmd.Flags().BoolVar(&millis, "ms", false, "Column holds milliseconds since the epoch")
	return cmd
}

type labelInfo struct {
	Input  string `json:"input" yaml:"input"`
	Label  string `json:"label" yaml:"label"`
	Quoted string `json:"quoted" yaml:"quoted"`
}

// NewLabelCommand creates the label command.
func NewLabelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "label <name>...",
		Short: "Make column labels the backend accepts",
		Long: `Shorten labels that exceed the dialect's identifier length limit and quote
them when they are reserved words or not plain identifiers.`,
		Example: `  enginespec label -e teradata "sum(revenue) over a very long window name"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}

			d := eng.Dialect()
			infos := make([]labelInfo, 0, len(args))
			tbl := output.Table{Header: []string{"input", "label", "quoted"}}
			for _, name := range args {
				label := d.MakeLabel(name)
				info := labelInfo{Input: name, Label: label, Quoted: d.QuoteIfNeeded(label)}
				infos = append(infos, info)
				tbl.Rows = append(tbl.Rows, []any{info.Input, info.Label, info.Quoted})
			}
			return app.Renderer.Render(infos, tbl)
		},
	}
}

// NewLimitCommand creates the limit command.
func NewLimitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "limit <n> [sql|-]",
		Short: "Bound a statement to at most n rows",
		Long: `Rewrite a statement so it returns at most n rows, using the dialect's
limit method: a trailing LIMIT, a wrapping subquery, or an inline TOP or
SAMPLE clause. An existing tighter bound is kept. Reads SQL from stdin
when it is omitted or "-".`,
		Example: `  enginespec limit -e postgresql 100 "SELECT * FROM t LIMIT 1000"
  echo "SEL TOP 5000 * FROM t" | enginespec limit -e teradata 100`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[0], err)
			}
			sql, err := readSQL(cmd, args[1:])
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}
			bounded, err := eng.ApplyLimit(sql, n)
			if err != nil {
				return err
			}
			return app.Renderer.Scalar("sql", bounded)
		},
	}
}
