package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuerySQL(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "latest",
			query: Query{Schema: "hive", Table: "logs", OrderBy: []string{"ds"}, Limit: 1},
			want:  "SELECT * FROM \"hive\".\"logs$partitions\"\nORDER BY ds DESC\nLIMIT 1",
		},
		{
			name: "sub partition",
			query: Query{
				Table:   "logs",
				Filters: []Filter{{Column: "ds", Value: "2024-01-01"}, {Column: "region", Value: "o'hare"}},
				OrderBy: []string{"hour"},
				Limit:   1,
			},
			want: "SELECT * FROM \"logs$partitions\"\nWHERE ds = '2024-01-01' AND region = 'o''hare'\nORDER BY hour DESC\nLIMIT 1",
		},
		{
			name:  "legacy syntax",
			query: Query{Schema: "hive", Table: "logs", OrderBy: []string{"ds", "hour"}, Version: "0.198"},
			want:  "SHOW PARTITIONS FROM hive.logs\nORDER BY ds DESC, hour DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.SQL())
		})
	}
}

func TestUsesPartitionsTable(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"", true},
		{"0.199", true},
		{"0.200-SNAPSHOT", true},
		{"0.198", false},
		{"0.57", false},
		{"350", true},
		{"garbage", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, UsesPartitionsTable(tt.version))
		})
	}
}
