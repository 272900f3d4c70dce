package sqlscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tableNames(tables []Table) []string {
	out := make([]string, len(tables))
	for i, t := range tables {
		out[i] = t.String()
	}
	return out
}

func TestTables(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{"simple", "SELECT * FROM tbname", []string{"tbname"}},
		{"schema", "SELECT * FROM schemaname.tbname", []string{"schemaname.tbname"}},
		{"catalog", `SELECT * FROM "cat"."sch"."tb"`, []string{"cat.sch.tb"}},
		{"alias", "SELECT t.a FROM tbname AS t WHERE t.a = 1", []string{"tbname"}},
		{"bare alias", "SELECT t.a FROM tbname t JOIN other o ON t.id = o.id", []string{"other", "tbname"}},
		{"comma list", "SEL * FROM a, b x, c AS y WHERE 1 = 1", []string{"a", "b", "c"}},
		{"left join", "SELECT * FROM a LEFT JOIN b ON a.id = b.id", []string{"a", "b"}},
		{"subquery", "SELECT * FROM (SELECT * FROM inner_t) sub", []string{"inner_t"}},
		{"cte", "WITH recent AS (SELECT * FROM logs) SELECT * FROM recent", []string{"logs"}},
		{"cte prefix", "SELECT * FROM CTE__tmp JOIN real_t ON 1 = 1", []string{"real_t"}},
		{"table function", "SELECT * FROM generate_series(1, 3)", []string{}},
		{"describe", "DESCRIBE s.t", []string{"s.t"}},
		{"string", "SELECT 'FROM fake' FROM real_t", []string{"real_t"}},
		{"duplicates", "SELECT * FROM a JOIN a ON 1 = 1", []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tableNames(Tables(tt.sql)))
		})
	}
}
