package commands

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentEstimates bounds the EXPLAIN statements in flight.
const maxConcurrentEstimates = 4

// costGate is implemented by engines whose cost support depends on the
// server version.
type costGate interface {
	AllowCostEstimate() bool
}

// NewCostCommand creates the cost command.
func NewCostCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cost [sql|-]",
		Short: "Estimate the cost of each statement",
		Long: `Ask the target for an IO cost estimate of every statement in the input.
Presto requires --presto-version 0.319 or later.`,
		Example: `  enginespec cost "SELECT * FROM logs WHERE ds = '2024-01-01'"
  enginespec cost --presto-version 0.330 < report.sql`,
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
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			est, ok := sess.Engine.(dialect.CostEstimator)
			if !ok {
				return unsupported(sess.Engine, "cost estimation")
			}
			if gate, ok := sess.Engine.(costGate); ok && !gate.AllowCostEstimate() {
				return unsupported(sess.Engine, "cost estimation on this server version")
			}

			statements := sqlscan.Split(sql)
			raw := make([]map[string]any, len(statements))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(maxConcurrentEstimates)
			for i, stmt := range statements {
				g.Go(func() error {
					plan, err := est.EstimateCost(ctx, sess.Adapter, stmt)
					if err != nil {
						return fmt.Errorf("statement %d: %w", i+1, err)
					}
					raw[i] = plan
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}

			costs := est.FormatCost(raw)
			tbl := output.Table{Header: []string{"statement", "metric", "estimate"}}
			for i, c := range costs {
				metrics := lo.Keys(c)
				slices.Sort(metrics)
				for _, metric := range metrics {
					tbl.Rows = append(tbl.Rows, []any{i + 1, metric, c[metric]})
				}
			}
			return app.Renderer.Render(costs, tbl)
		},
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [sql|-]",
		Short: "Check statements without running them",
		Long: `Ask the target to analyze every statement in the input without executing
it and report the errors it finds with their positions.`,
		Example: `  enginespec validate "SELECT fo FROM logs"`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			sess, cleanup, err := app.Open(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			v, ok := sess.Engine.(dialect.Validator)
			if !ok {
				return unsupported(sess.Engine, "validation")
			}
			annotations, err := v.Validate(cmd.Context(), sess.Adapter, sql)
			if err != nil {
				return app.Explain(sess.Engine, sess.Adapter, err)
			}
			if annotations == nil {
				annotations = []dialect.Annotation{}
			}

			tbl := output.Table{Header: []string{"line", "start", "end", "message"}}
			for _, a := range annotations {
				tbl.Rows = append(tbl.Rows, []any{a.LineNumber, a.StartColumn, a.EndColumn, a.Message})
			}
			return app.Renderer.Render(annotations, tbl)
		},
	}
}
