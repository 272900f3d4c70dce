package commands

import (
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/spf13/cobra"
)

// NewClassifyCommand creates the classify command.
func NewClassifyCommand() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "classify [message|-]",
		Short: "Classify a driver error message",
		Long: `Match a raw driver error message against the dialect's error patterns and
print the structured error. Unmatched messages are reported unchanged as
GENERIC_DB_ENGINE_ERROR.

Template parameters such as username and hostname come from the
error_context section of the config file and from --param.`,
		Example: `  enginespec classify -e postgresql 'role "bob" does not exist'
  enginespec classify -e mysql --param hostname=db1 "Unknown MySQL server host 'db1'"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			msg, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			ctxParams, err := parsePairs(params)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}

			errCtx := core.ErrorContext{}
			maps.Copy(errCtx, app.Cfg.ErrorContext)
			maps.Copy(errCtx, ctxParams)

			se, matched := eng.ClassifyError(msg, errCtx)
			if !matched {
				app.Logger.Debug("no error pattern matched", slog.String("dialect", eng.Name()))
			}

			tbl := output.Table{Header: []string{"type", "level", "message", "extra"}}
			tbl.Rows = append(tbl.Rows, []any{string(se.Type), string(se.Level), se.Message, formatExtra(se.Extra)})
			return app.Renderer.Render([]core.StructuredError{se}, tbl)
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Template parameter as key=value (repeatable)")
	return cmd
}

// parsePairs turns key=value strings into a map.
func parsePairs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", p)
		}
		out[k] = v
	}
	return out, nil
}

func formatExtra(extra map[string]any) string {
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+output.FormatValue(extra[k]))
	}
	return strings.Join(parts, " ")
}
