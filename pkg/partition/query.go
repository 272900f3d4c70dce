// Package partition locates the newest partition of a partitioned table by
// querying the backend's partition listing.
package partition

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

// ListingSyntaxVersion is the first server version that exposes the
// "table$partitions" hidden table. Older servers use SHOW PARTITIONS.
const ListingSyntaxVersion = "0.199"

// Filter restricts the partition listing to one key value.
type Filter struct {
	Column string
	Value  string
}

// Query describes a partition listing statement.
type Query struct {
	Schema  string
	Table   string
	Filters []Filter

	// OrderBy columns are sorted descending.
	OrderBy []string
	Limit   int

	// Version is the server version; empty means current syntax.
	Version string
}

// SQL renders the statement.
func (q Query) SQL() string {
	var b strings.Builder
	if UsesPartitionsTable(q.Version) {
		b.WriteString("SELECT * FROM ")
		if q.Schema != "" {
			b.WriteString(quote(q.Schema) + ".")
		}
		b.WriteString(quote(q.Table + "$partitions"))
	} else {
		b.WriteString("SHOW PARTITIONS FROM ")
		if q.Schema != "" {
			b.WriteString(q.Schema + ".")
		}
		b.WriteString(q.Table)
	}

	if len(q.Filters) > 0 {
		conds := make([]string, len(q.Filters))
		for i, f := range q.Filters {
			conds[i] = fmt.Sprintf("%s = '%s'", f.Column, strings.ReplaceAll(f.Value, "'", "''"))
		}
		b.WriteString("\nWHERE " + strings.Join(conds, " AND "))
	}
	if len(q.OrderBy) > 0 {
		cols := make([]string, len(q.OrderBy))
		for i, c := range q.OrderBy {
			cols[i] = c + " DESC"
		}
		b.WriteString("\nORDER BY " + strings.Join(cols, ", "))
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, "\nLIMIT %d", q.Limit)
	}
	return b.String()
}

// UsesPartitionsTable reports whether a server of the given version lists
// partitions through the "table$partitions" hidden table. Unknown or
// unparsable versions are assumed current.
func UsesPartitionsTable(version string) bool {
	c, ok := dialect.CompareVersion(version, ListingSyntaxVersion)
	return !ok || c >= 0
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
