package adapter

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// TableInfo is the combined column and index metadata of one table.
type TableInfo struct {
	Schema  string        `json:"schema" yaml:"schema"`
	Table   string        `json:"table" yaml:"table"`
	Columns []core.Column `json:"columns" yaml:"columns"`
	Indexes []core.Index  `json:"indexes" yaml:"indexes"`
}

// Inspect fetches the columns and indexes of a table concurrently.
func Inspect(ctx context.Context, inspector core.Inspector, table, schema string) (*TableInfo, error) {
	info := &TableInfo{Schema: schema, Table: table}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cols, err := inspector.Columns(gctx, table, schema)
		if err != nil {
			return fmt.Errorf("failed to list columns: %w", err)
		}
		info.Columns = cols
		return nil
	})
	g.Go(func() error {
		idx, err := inspector.Indexes(gctx, table, schema)
		if err != nil {
			return fmt.Errorf("failed to list indexes: %w", err)
		}
		info.Indexes = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}
