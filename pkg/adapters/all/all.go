// Package all assembles a registry holding every bundled database adapter.
package all

import (
	"log/slog"

	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/adapters/duckdb"
	"github.com/leapstack-labs/enginespec/pkg/adapters/mysql"
	"github.com/leapstack-labs/enginespec/pkg/adapters/postgres"
	"github.com/leapstack-labs/enginespec/pkg/adapters/trino"
)

// NewRegistry returns a registry with the duckdb, mysql, postgres and trino
// adapters.
func NewRegistry() *adapter.Registry {
	r := adapter.NewRegistry()
	r.Register(duckdb.Name, func(l *slog.Logger) adapter.Adapter { return duckdb.New(l) })
	r.Register(mysql.Name, func(l *slog.Logger) adapter.Adapter { return mysql.New(l) })
	r.Register(postgres.Name, func(l *slog.Logger) adapter.Adapter { return postgres.New(l) })
	r.Register(trino.Name, func(l *slog.Logger) adapter.Adapter { return trino.New(l) })
	return r
}
