// Package mysql provides a MySQL database adapter.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/core"
)

// Name is the adapter registry name.
const Name = "mysql"

const indexQuery = `SELECT index_name, column_name
FROM information_schema.statistics
WHERE table_schema = ? AND table_name = ?
ORDER BY index_name, seq_in_index`

// Adapter implements the adapter.Adapter interface for MySQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new MySQL adapter instance.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{
			Logger: logger,
			// column_type keeps lengths and collations, e.g. varchar(255).
			TypeColumn: "column_type",
		},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "mysql"
}

// Connect establishes a connection to MySQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = BuildDSN(cfg)
	}

	a.Logger.Debug("connecting to mysql", slog.String("host", cfg.Host), slog.String("database", cfg.Database))

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open mysql connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping mysql: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.DefaultSchema = cfg.Database
	return nil
}

// BuildDSN renders cfg in go-sql-driver format. Options are passed through
// as DSN parameters.
func BuildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 3306
	}

	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	if len(cfg.Options) > 0 {
		mc.Params = make(map[string]string, len(cfg.Options))
		for k, v := range cfg.Options {
			mc.Params[k] = v
		}
	}
	return mc.FormatDSN()
}

// Indexes lists the table's indexes from information_schema.statistics.
func (a *Adapter) Indexes(ctx context.Context, table, schema string) ([]core.Index, error) {
	return a.QueryIndexes(ctx, indexQuery, a.SchemaOr(schema), table)
}

// ErrorContext adds the MySQL error number to the connection parameters.
func (a *Adapter) ErrorContext(err error) core.ErrorContext {
	ctx := a.BaseSQLAdapter.ErrorContext(err)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		ctx["code"] = strconv.Itoa(int(myErr.Number))
	}
	return ctx
}

var _ adapter.Adapter = (*Adapter)(nil)
