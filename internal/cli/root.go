// Package cli provides the command-line interface for enginespec.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/enginespec/internal/cli/commands"
	"github.com/leapstack-labs/enginespec/internal/cli/config"
	"github.com/leapstack-labs/enginespec/internal/cli/output"
	adapters "github.com/leapstack-labs/enginespec/pkg/adapters/all"
	"github.com/leapstack-labs/enginespec/pkg/cache"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	dialects "github.com/leapstack-labs/enginespec/pkg/dialects/all"
	"github.com/spf13/cobra"
)

// skipConfig lists commands that run without loading configuration.
var skipConfig = map[string]bool{
	"help":       true,
	"completion": true,
	"__complete": true,
	"version":    true,
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(info commands.BuildInfo) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "enginespec",
		Short: "enginespec - SQL dialect toolkit",
		Long: `enginespec describes how SQL backends differ: how native column types map
to generic categories, how timestamps are truncated to time grains, how
datetime literals are written, how a statement is bounded to N rows and
how driver errors are classified.

Most commands work offline with --engine. Commands that inspect tables
connect to the target configured in enginespec.yaml.`,
		Version: info.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig[cmd.Name()] {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))
			if cfg.FileUsed != "" {
				logger.Debug("using config file", slog.String("path", cfg.FileUsed))
			}

			app := &commands.App{
				Cfg:      cfg,
				Logger:   logger,
				Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
				Dialects: dialects.NewRegistry(dialect.Options{
					Logger:        logger,
					Flags:         cfg.FeatureFlags(),
					ServerVersion: cfg.Presto.Version,
				}),
				Adapters:   adapters.NewRegistry(),
				Partitions: cache.New[core.Partition](cfg.CacheTTL(), cache.WithLogger(logger)),
				Functions:  cache.New[[]string](cfg.CacheTTL(), cache.WithLogger(logger)),
			}

			ctx := config.WithLogger(cmd.Context(), logger)
			cmd.SetContext(commands.WithApp(ctx, app))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (%s, %s)\n", info.Commit, info.BuildDate))

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./enginespec.yaml)")
	flags.StringP("engine", "e", "", "Dialect engine (e.g. presto, trino, mysql, postgresql)")
	flags.StringP("output", "o", "", "Output format (table|json|yaml|markdown)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("presto-version", "", "Presto server version, selects version dependent syntax")
	flags.StringSlice("feature", nil, "Feature flag as NAME or NAME=bool (repeatable)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Outputs(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("engine", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialects.NewRegistry(dialect.Options{}).List(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("feature", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{core.FeatureExpandData, core.FeatureExpandRows}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "dialect", Title: "Dialect Commands:"},
		&cobra.Group{ID: "target", Title: "Target Commands:"},
	)
	for _, c := range []*cobra.Command{
		commands.NewDialectsCommand(),
		commands.NewGrainsCommand(),
		commands.NewTypeCommand(),
		commands.NewGrainCommand(),
		commands.NewLiteralCommand(),
		commands.NewEpochCommand(),
		commands.NewLabelCommand(),
		commands.NewLimitCommand(),
		commands.NewClassifyCommand(),
		commands.NewTablesCommand(),
		commands.NewExpandCommand(),
	} {
		c.GroupID = "dialect"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		commands.NewColumnsCommand(),
		commands.NewInspectCommand(),
		commands.NewPartitionCommand(),
		commands.NewMetadataCommand(),
		commands.NewFunctionsCommand(),
		commands.NewViewsCommand(),
		commands.NewCostCommand(),
		commands.NewValidateCommand(),
	} {
		c.GroupID = "target"
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(commands.NewVersionCommand(info))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context, info commands.BuildInfo) error {
	rootCmd := NewRootCmd(info)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for enginespec.

To load completions:

Bash:
  $ source <(enginespec completion bash)

Zsh:
  $ enginespec completion zsh > "${fpath[1]}/_enginespec"

Fish:
  $ enginespec completion fish | source

PowerShell:
  PS> enginespec completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
