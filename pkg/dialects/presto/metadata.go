package presto

import (
	"context"
	"sort"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/partition"
)

// PartitionMetadata summarizes the partitioning of a table.
type PartitionMetadata struct {
	Columns []string       `json:"cols" yaml:"cols"`
	Latest  map[string]any `json:"latest" yaml:"latest"`
	Query   string         `json:"partitionQuery" yaml:"partitionQuery"`
}

// Metadata is the extra table information shown next to a table's columns.
type Metadata struct {
	Partitions *PartitionMetadata `json:"partitions,omitempty" yaml:"partitions,omitempty"`
	View       string             `json:"view,omitempty" yaml:"view,omitempty"`
}

// TableMetadata collects partition details (for partitioned tables) and
// the view definition (for views).
func TableMetadata(ctx context.Context, locator *partition.Locator, conn core.Connection, inspector core.Inspector, table, schema string) (Metadata, error) {
	var md Metadata

	indexes, err := inspector.Indexes(ctx, table, schema)
	if err != nil {
		return md, err
	}
	if len(indexes) > 0 {
		p, err := locator.Latest(ctx, conn, inspector, table, schema, true)
		if err != nil {
			return md, err
		}
		latest := make(map[string]any, len(p.Columns))
		for i, col := range p.Columns {
			if i < len(p.Values) {
				latest[col] = p.Values[i]
			} else {
				latest[col] = nil
			}
		}
		cols := append([]string(nil), p.Columns...)
		sort.Strings(cols)
		md.Partitions = &PartitionMetadata{
			Columns: cols,
			Latest:  latest,
			Query:   partition.Query{Schema: schema, Table: table, Version: locator.Version}.SQL(),
		}
	}

	if view, ok := CreateView(ctx, conn, table, schema); ok {
		md.View = view
	}
	return md, nil
}
