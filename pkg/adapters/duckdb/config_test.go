package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]string
		want  Params
	}{
		{
			name:  "nil options return empty params",
			input: nil,
			want:  Params{},
		},
		{
			name:  "unrelated options are ignored",
			input: map[string]string{"sslmode": "disable"},
			want:  Params{},
		},
		{
			name:  "extensions only",
			input: map[string]string{"extensions": "httpfs, Spatial,,json,httpfs"},
			want:  Params{Extensions: []string{"httpfs", "spatial", "json"}},
		},
		{
			name: "settings only",
			input: map[string]string{
				"set.memory_limit": "4GB",
				"set.threads":      "4",
				"set.":             "ignored",
			},
			want: Params{Settings: map[string]string{
				"memory_limit": "4GB",
				"threads":      "4",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParams(tt.input))
		})
	}
}

func TestParamsStatements(t *testing.T) {
	p := Params{
		Extensions: []string{"httpfs", "json"},
		Settings: map[string]string{
			"threads":      "4",
			"memory_limit": "4GB",
			"search_path":  "it's",
		},
	}
	assert.Equal(t, []string{
		"INSTALL httpfs",
		"LOAD httpfs",
		"INSTALL json",
		"LOAD json",
		"SET memory_limit = '4GB'",
		"SET search_path = 'it''s'",
		"SET threads = '4'",
	}, p.Statements())

	assert.Empty(t, Params{}.Statements())
}
