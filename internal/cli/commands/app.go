package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/enginespec/internal/cli/config"
	"github.com/leapstack-labs/enginespec/internal/cli/output"
	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/cache"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/spf13/cobra"
)

// App holds the dependencies shared by every command. The root command
// builds one per invocation and stores it in the command context.
type App struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Dialects *dialect.Registry
	Adapters *adapter.Registry

	Partitions *cache.Cache[core.Partition]
	Functions  *cache.Cache[[]string]
}

type appKey struct{}

// WithApp returns a context carrying app.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// AppFrom retrieves the App from the command context.
func AppFrom(cmd *cobra.Command) (*App, error) {
	if app, ok := cmd.Context().Value(appKey{}).(*App); ok && app != nil {
		return app, nil
	}
	return nil, errors.New("command context not initialized")
}

// Engine resolves the dialect engine: --engine first, then the dialect of
// the connected (or configured) target.
func (a *App) Engine(adp adapter.Adapter) (dialect.Engine, error) {
	name := a.Cfg.Engine
	if name == "" && adp != nil {
		name = adp.DialectName()
	}
	if name == "" && a.Cfg.HasTarget() {
		if unconnected, err := a.Adapters.New(a.Cfg.AdapterConfig(), a.Logger); err == nil {
			name = unconnected.DialectName()
		}
	}
	if name == "" {
		return nil, fmt.Errorf("no engine selected\nHint: pass --engine or set engine in %s (available: %s)",
			config.ConfigFileName, strings.Join(a.Dialects.List(), ", "))
	}
	return a.Dialects.Get(name)
}

// Connect opens the configured target. The returned cleanup closes it.
func (a *App) Connect(ctx context.Context) (adapter.Adapter, func(), error) {
	if !a.Cfg.HasTarget() {
		return nil, nil, fmt.Errorf("no target configured\nHint: set target.type in %s", config.ConfigFileName)
	}
	cfg := a.Cfg.AdapterConfig()
	adp, err := a.Adapters.New(cfg, a.Logger)
	if err != nil {
		return nil, nil, err
	}
	a.Logger.Debug("connecting", slog.String("type", cfg.Type), slog.String("host", cfg.Host))
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, nil, a.Explain(nil, adp, err)
	}
	return adp, func() { _ = adp.Close() }, nil
}

// Session is a connected target plus the engine that speaks its dialect.
type Session struct {
	Engine  dialect.Engine
	Adapter adapter.Adapter
}

// Open connects to the target and resolves its engine.
func (a *App) Open(ctx context.Context) (*Session, func(), error) {
	adp, cleanup, err := a.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	eng, err := a.Engine(adp)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return &Session{Engine: eng, Adapter: adp}, cleanup, nil
}

// Explain classifies a backend error with the engine's error patterns and
// prefixes err with the friendly message when one matches.
func (a *App) Explain(eng dialect.Engine, adp adapter.Adapter, err error) error {
	if err == nil {
		return nil
	}
	if eng == nil {
		var lookupErr error
		if eng, lookupErr = a.Engine(adp); lookupErr != nil {
			return err
		}
	}
	params := core.ErrorContext{}
	for k, v := range a.Cfg.ErrorContext {
		params[k] = v
	}
	if adp != nil {
		for k, v := range adp.ErrorContext(err) {
			params[k] = v
		}
	}
	se, ok := eng.ClassifyError(err.Error(), params)
	if !ok {
		return err
	}
	return fmt.Errorf("%s (%s): %w", se.Message, se.Type, err)
}

// readSQL returns args[0], or stdin when it is "-" or absent.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read SQL from stdin: %w", err)
	}
	sql := strings.TrimSpace(string(b))
	if sql == "" {
		return "", errors.New("no SQL given")
	}
	return sql, nil
}

// unsupported reports that the engine lacks an optional capability.
func unsupported(eng dialect.Engine, what string) error {
	return fmt.Errorf("%s does not support %s", eng.Dialect().DisplayName, what)
}
