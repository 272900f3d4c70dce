package partition

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/samber/lo"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// IndexName is the index name inspectors use for partition keys.
const IndexName = "partition"

// Locator finds the latest partition values of a table.
type Locator struct {
	// Version is the backend server version used to pick the listing syntax.
	Version string
	Logger  *slog.Logger
}

// NewLocator creates a locator for a server of the given version.
func NewLocator(version string, logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{Version: version, Logger: logger}
}

// Keys returns the partition columns of a table in key order.
func (l *Locator) Keys(ctx context.Context, inspector core.Inspector, table, schema string) ([]string, error) {
	indexes, err := inspector.Indexes(ctx, table, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes of %s: %w", qualified(schema, table), err)
	}
	if len(indexes) == 0 {
		return nil, ErrNotPartitioned.New(qualified(schema, table))
	}
	idx, ok := lo.Find(indexes, func(i core.Index) bool { return i.Name == IndexName })
	if !ok {
		idx = indexes[0]
	}
	if len(idx.Columns) == 0 {
		return nil, ErrNoPartitionField.New()
	}
	return idx.Columns, nil
}

// Latest returns the partition columns and the values of the newest
// partition. Tables with more than one key are rejected unless showFirst
// is set. Values is nil when the table has no partitions.
func (l *Locator) Latest(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, showFirst bool) (core.Partition, error) {
	keys, err := l.Keys(ctx, inspector, table, schema)
	if err != nil {
		return core.Partition{}, err
	}
	if len(keys) > 1 && !showFirst {
		return core.Partition{}, ErrMultiplePartitionKeys.New()
	}

	res, err := l.run(ctx, conn, Query{
		Schema:  schema,
		Table:   table,
		OrderBy: keys,
		Limit:   1,
		Version: l.Version,
	})
	if err != nil {
		return core.Partition{}, err
	}

	p := core.Partition{Columns: keys}
	if res.Empty() {
		return p, nil
	}
	row := res.Maps()[0]
	p.Values = make([]any, len(keys))
	for i, key := range keys {
		if v, ok := row[key]; ok {
			p.Values[i] = v
		} else if i < len(res.Rows[0]) {
			p.Values[i] = res.Rows[0][i]
		}
	}
	return p, nil
}

// LatestSub resolves the newest value of the one partition key that is not
// named in filters. filters must name every other key. An empty listing
// yields "".
func (l *Locator) LatestSub(ctx context.Context, conn core.Connection, inspector core.Inspector, table, schema string, filters map[string]string) (any, error) {
	keys, err := l.Keys(ctx, inspector, table, schema)
	if err != nil {
		return nil, err
	}

	names := lo.Keys(filters)
	sort.Strings(names)
	for _, name := range names {
		if !lo.Contains(keys, name) {
			return nil, ErrNotPartitionKey.New(name)
		}
	}
	if len(filters) != len(keys)-1 {
		return nil, ErrFilterCount.New(len(keys)-1, len(keys))
	}

	target, _ := lo.Find(keys, func(k string) bool {
		_, ok := filters[k]
		return !ok
	})
	conds := lo.FilterMap(keys, func(k string, _ int) (Filter, bool) {
		v, ok := filters[k]
		return Filter{Column: k, Value: v}, ok
	})

	res, err := l.run(ctx, conn, Query{
		Schema:  schema,
		Table:   table,
		Filters: conds,
		OrderBy: []string{target},
		Limit:   1,
		Version: l.Version,
	})
	if err != nil {
		return nil, err
	}
	values := res.Column(target)
	if len(values) == 0 {
		return "", nil
	}
	return values[0], nil
}

func (l *Locator) run(ctx context.Context, conn core.Connection, q Query) (*core.Result, error) {
	sql := q.SQL()
	l.Logger.Debug("listing partitions",
		slog.String("table", qualified(q.Schema, q.Table)),
		slog.String("sql", sql))
	res, err := conn.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions of %s: %w", qualified(q.Schema, q.Table), err)
	}
	return res, nil
}

func qualified(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
