// Package all assembles the registry of every built-in engine.
package all

import (
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/dialects/duckdb"
	"github.com/leapstack-labs/enginespec/pkg/dialects/hana"
	"github.com/leapstack-labs/enginespec/pkg/dialects/mysql"
	"github.com/leapstack-labs/enginespec/pkg/dialects/postgres"
	"github.com/leapstack-labs/enginespec/pkg/dialects/presto"
	"github.com/leapstack-labs/enginespec/pkg/dialects/teradata"
	"github.com/leapstack-labs/enginespec/pkg/dialects/trino"
)

// NewRegistry returns a registry holding one engine per built-in backend,
// each constructed with opts.
func NewRegistry(opts dialect.Options) *dialect.Registry {
	return dialect.NewRegistry(
		presto.New(opts),
		trino.New(opts),
		mysql.New(opts),
		postgres.New(opts),
		duckdb.New(opts),
		hana.New(opts),
		teradata.New(opts),
	)
}
