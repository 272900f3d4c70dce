package all

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry(dialect.Options{})

	assert.Equal(t, []string{"duckdb", "hana", "mysql", "postgresql", "presto", "teradata", "trino"}, r.List())

	e, err := r.Get(" Presto ")
	require.NoError(t, err)
	assert.Equal(t, "presto", e.Name())

	_, err = r.Get("oracle")
	var unknown *dialect.UnknownDialectError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "oracle", unknown.Name)
}

// Every engine honours the shared contract.
func TestEngineContract(t *testing.T) {
	r := NewRegistry(dialect.Options{})
	ts := time.Date(2020, 2, 29, 23, 59, 59, 0, time.UTC)

	for _, name := range r.List() {
		t.Run(name, func(t *testing.T) {
			e, err := r.Get(name)
			require.NoError(t, err)

			got, err := e.TimeGrainExpression(dialect.GrainNone, "col")
			require.NoError(t, err)
			assert.Equal(t, "col", got)

			_, err = e.TimeGrainExpression("P7Q", "col")
			assert.True(t, dialect.ErrUnsupportedGrain.Is(err))

			for _, grain := range e.Dialect().TimeGrains() {
				a, err := e.TimeGrainExpression(grain, "col_a")
				require.NoError(t, err)
				b, err := e.TimeGrainExpression(grain, "col_b")
				require.NoError(t, err)

				assert.NotContains(t, a, "{col}", grain)
				assert.Contains(t, a, "col_a", grain)
				assert.NotEqual(t, a, b, grain)
				assert.NotContains(t, b, "col_a", grain)
			}

			spec, ok := e.GetColumnSpec("VARCHAR(10)")
			require.True(t, ok)
			assert.Equal(t, core.GenericString, spec.Generic)

			if lit, ok := e.ConvertDatetime("DATE", ts); ok {
				assert.Contains(t, lit, "2020-02-29")
			}

			once, err := e.ApplyLimit("SELECT a FROM t", 100)
			require.NoError(t, err)
			twice, err := e.ApplyLimit(once, 1000)
			require.NoError(t, err)
			assert.Contains(t, twice, "100")
			assert.NotContains(t, twice, "1000")

			_, err = e.ApplyLimit("SELECT a FROM t", -1)
			assert.True(t, dialect.ErrInvalidLimit.Is(err))

			se, ok := e.ClassifyError("some unmatched driver failure", nil)
			assert.False(t, ok)
			assert.Equal(t, core.GenericDBEngineError, se.Type)
			assert.Equal(t, "some unmatched driver failure", se.Message)
		})
	}
}
