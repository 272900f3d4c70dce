// Package adapter connects dialect engines to live databases.
//
// An Adapter is both a core.Connection (run generated SQL, fetch every row)
// and a core.Inspector (list a table's columns and indexes), which is all
// the dialect layer needs from a backend. Concrete adapters live in
// pkg/adapters/ subdirectories and are collected in a Registry.
package adapter

import (
	"context"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	core.Connection
	core.Inspector

	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// DialectName returns the registry name of the dialect engine that
	// generates SQL for this backend.
	DialectName() string

	// ErrorContext returns the template parameters used to classify err,
	// e.g. the username and hostname of the failed connection.
	ErrorContext(err error) core.ErrorContext
}
