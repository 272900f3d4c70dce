package commands

import (
	"strings"

	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type dialectInfo struct {
	Name                string   `json:"name" yaml:"name"`
	DisplayName         string   `json:"display_name" yaml:"display_name"`
	LimitMethod         string   `json:"limit_method" yaml:"limit_method"`
	MaxIdentifierLength int      `json:"max_identifier_length" yaml:"max_identifier_length"`
	DefaultSchema       string   `json:"default_schema,omitempty" yaml:"default_schema,omitempty"`
	TimeGrains          []string `json:"time_grains" yaml:"time_grains"`
	Capabilities        []string `json:"capabilities" yaml:"capabilities"`
}

// capabilities lists the optional interfaces eng implements.
func capabilities(eng dialect.Engine) []string {
	caps := []string{}
	if _, ok := eng.(dialect.SubPartitioner); ok {
		caps = append(caps, "sub-partitions")
	}
	if _, ok := eng.(dialect.FunctionLister); ok {
		caps = append(caps, "functions")
	}
	if _, ok := eng.(dialect.ViewLister); ok {
		caps = append(caps, "views")
	}
	if _, ok := eng.(dialect.CostEstimator); ok {
		caps = append(caps, "cost")
	}
	if _, ok := eng.(dialect.Validator); ok {
		caps = append(caps, "validate")
	}
	if _, ok := eng.(dialect.TableExtractor); ok {
		caps = append(caps, "tables")
	}
	return caps
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List the supported SQL dialects",
		Long: `List every registered dialect engine with its limit method, identifier
length limit, time grains and optional capabilities.`,
		Example: `  enginespec dialects
  enginespec dialects -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}

			title := cases.Title(language.English)
			var infos []dialectInfo
			tbl := output.Table{Header: []string{"name", "display name", "limit", "max ident", "grains", "capabilities"}}
			for _, name := range app.Dialects.List() {
				eng, err := app.Dialects.Get(name)
				if err != nil {
					return err
				}
				d := eng.Dialect()
				info := dialectInfo{
					Name:                eng.Name(),
					DisplayName:         d.DisplayName,
					LimitMethod:         d.LimitMethod.String(),
					MaxIdentifierLength: d.MaxIdentifierLength,
					DefaultSchema:       d.DefaultSchema,
					TimeGrains:          d.TimeGrains(),
					Capabilities:        capabilities(eng),
				}
				infos = append(infos, info)

				tbl.Rows = append(tbl.Rows, []any{
					info.Name,
					info.DisplayName,
					title.String(strings.ReplaceAll(info.LimitMethod, "_", " ")),
					identLimit(info.MaxIdentifierLength),
					len(info.TimeGrains),
					strings.Join(info.Capabilities, ", "),
				})
			}
			return app.Renderer.Render(infos, tbl)
		},
	}
}

func identLimit(n int) any {
	if n <= 0 {
		return "-"
	}
	return n
}

type grainInfo struct {
	Grain      string `json:"grain" yaml:"grain"`
	Name       string `json:"name" yaml:"name"`
	Expression string `json:"expression" yaml:"expression"`
}

// NewGrainsCommand creates the grains command.
func NewGrainsCommand() *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "grains",
		Short: "List the time grains of a dialect",
		Long: `List the time grains the selected dialect supports, with the truncation
expression each produces for a sample column.`,
		Example: `  enginespec grains -e presto
  enginespec grains -e mysql --column created_at`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := AppFrom(cmd)
			if err != nil {
				return err
			}
			eng, err := app.Engine(nil)
			if err != nil {
				return err
			}

			var grains []grainInfo
			tbl := output.Table{
				Title:  eng.Dialect().DisplayName,
				Header: []string{"grain", "name", "expression"},
			}
			for _, g := range eng.Dialect().TimeGrains() {
				expr, err := eng.TimeGrainExpression(g, column)
				if err != nil {
					return err
				}
				key := g
				if key == dialect.GrainNone {
					key = "none"
				}
				grains = append(grains, grainInfo{Grain: key, Name: dialect.GrainName(g), Expression: expr})
				tbl.Rows = append(tbl.Rows, []any{key, dialect.GrainName(g), expr})
			}
			return app.Renderer.Render(grains, tbl)
		},
	}
	cmd.Flags().StringVar(&column, "column", "{col}", "Column expression to truncate")
	return cmd
}
