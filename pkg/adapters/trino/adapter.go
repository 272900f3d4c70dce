// Package trino provides a Trino (and Presto) adapter over the official
// trino-go-client driver.
package trino

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/core"
	_ "github.com/trinodb/trino-go-client/trino" // trino driver
)

// Name is the adapter registry name.
const Name = "trino"

// Option keys understood by the Trino adapter.
const (
	OptionCatalog = "catalog"
	OptionScheme  = "scheme"
	OptionDialect = "dialect"
)

// Adapter implements the adapter.Adapter interface for Trino.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new Trino adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, DefaultSchema: "default"},
	}
}

// DialectName returns "trino" unless the dialect option selects presto.
func (a *Adapter) DialectName() string {
	if d := strings.ToLower(a.Cfg.Options[OptionDialect]); d == "presto" {
		return d
	}
	return "trino"
}

// Connect establishes a connection to the Trino coordinator.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = BuildDSN(cfg)
	}

	a.Logger.Debug("connecting to trino", slog.String("host", cfg.Host), slog.String("catalog", cfg.Options[OptionCatalog]))

	db, err := sql.Open("trino", dsn)
	if err != nil {
		return fmt.Errorf("failed to open trino connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping trino: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

// BuildDSN renders cfg as a trino-go-client URL.
func BuildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 8080
	}
	scheme := cfg.Options[OptionScheme]
	if scheme == "" {
		scheme = "http"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
	}
	switch {
	case cfg.Password != "":
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	case cfg.Username != "":
		u.User = url.User(cfg.Username)
	}

	params := url.Values{}
	if catalog := cfg.Options[OptionCatalog]; catalog != "" {
		params.Set("catalog", catalog)
	}
	if cfg.Schema != "" {
		params.Set("schema", cfg.Schema)
	}
	u.RawQuery = params.Encode()
	return u.String()
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Columns lists the table's columns with SHOW COLUMNS, which reports the
// full ROW(...) and ARRAY(...) type strings.
func (a *Adapter) Columns(ctx context.Context, table, schema string) ([]core.Column, error) {
	schema = a.SchemaOr(schema)
	res, err := a.Query(ctx, fmt.Sprintf("SHOW COLUMNS FROM %s.%s", quote(schema), quote(table)))
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			return nil, fmt.Errorf("table %s.%s: %w", schema, table, core.ErrNoSuchTable)
		}
		return nil, err
	}
	if res.Empty() {
		return nil, fmt.Errorf("table %s.%s: %w", schema, table, core.ErrNoSuchTable)
	}

	columns := make([]core.Column, 0, len(res.Rows))
	for _, row := range res.Maps() {
		columns = append(columns, core.Column{
			Name:     fmt.Sprint(row["Column"]),
			Type:     fmt.Sprint(row["Type"]),
			Nullable: true,
		})
	}
	return columns, nil
}

// Indexes reports the partition keys of a Hive table as an index named
// "partition". Tables without a $partitions companion have no indexes; any
// other failure is returned.
func (a *Adapter) Indexes(ctx context.Context, table, schema string) ([]core.Index, error) {
	schema = a.SchemaOr(schema)
	res, err := a.Query(ctx, fmt.Sprintf("SELECT * FROM %s.%s LIMIT 0", quote(schema), quote(table+"$partitions")))
	if err != nil {
		if errors.Is(err, adapter.ErrNotConnected) {
			return nil, err
		}
		if strings.Contains(err.Error(), "does not exist") {
			a.Logger.Debug("table has no partitions", slog.String("table", table), slog.String("error", err.Error()))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get partitions of %s.%s: %w", schema, table, err)
	}
	if len(res.Columns) == 0 {
		return nil, nil
	}
	return []core.Index{{Name: "partition", Columns: res.Columns}}, nil
}

// ErrorContext adds the configured catalog to the connection parameters.
func (a *Adapter) ErrorContext(err error) core.ErrorContext {
	ctx := a.BaseSQLAdapter.ErrorContext(err)
	if catalog := a.Cfg.Options[OptionCatalog]; catalog != "" {
		ctx["catalog_name"] = catalog
	}
	return ctx
}

var _ adapter.Adapter = (*Adapter)(nil)
