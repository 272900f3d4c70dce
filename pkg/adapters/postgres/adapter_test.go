package postgres

import (
	"context"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/leapstack-labs/enginespec/pkg/adapter"
	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "testdb",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=testdb sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "proddb",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=proddb sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "mydb",
			},
			expected: "host=localhost port=5432 dbname=mydb sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)

	assert.NotNil(t, adp)
	assert.Nil(t, adp.DB, "DB should be nil before Connect")
	assert.False(t, adp.IsConnected())
	assert.Equal(t, "postgresql", adp.DialectName())
	assert.Equal(t, "public", adp.SchemaOr(""))
}

func TestAdapter_NotConnected(t *testing.T) {
	tests := []struct {
		name      string
		operation func(ctx context.Context, adp *Adapter) error
	}{
		{
			name: "exec without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				return adp.Exec(ctx, "SELECT 1")
			},
		},
		{
			name: "query without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Query(ctx, "SELECT 1")
				return err
			},
		},
		{
			name: "columns without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Columns(ctx, "users", "")
				return err
			},
		},
		{
			name: "indexes without connect",
			operation: func(ctx context.Context, adp *Adapter) error {
				_, err := adp.Indexes(ctx, "users", "")
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.operation(context.Background(), New(nil))
			require.Error(t, err)
			assert.ErrorIs(t, err, adapter.ErrNotConnected)
		})
	}
}

func TestAdapter_Columns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	adp := New(nil)
	adp.DB = db

	mock.ExpectQuery(`WHERE table_schema = \$1 AND table_name = \$2`).
		WithArgs("public", "events").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default"}).
			AddRow("id", "bigint", "NO", nil).
			AddRow("created_at", "timestamp without time zone", "YES", "now()"))

	cols, err := adp.Columns(context.Background(), "events", "")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "timestamp without time zone", cols[1].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Indexes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	adp := New(nil)
	adp.DB = db

	mock.ExpectQuery("FROM pg_index").
		WithArgs("sales", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"index_name", "column_name"}).
			AddRow("orders_pkey", "id").
			AddRow("orders_customer_day", "customer_id").
			AddRow("orders_customer_day", "day"))

	indexes, err := adp.Indexes(context.Background(), "orders", "sales")
	require.NoError(t, err)
	assert.Equal(t, []core.Index{
		{Name: "orders_pkey", Columns: []string{"id"}},
		{Name: "orders_customer_day", Columns: []string{"customer_id", "day"}},
	}, indexes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ErrorContext(t *testing.T) {
	adp := New(nil)
	adp.Cfg = adapter.Config{Host: "db.internal", Port: 5432, Username: "etl"}

	err := fmt.Errorf("failed to execute query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "x" does not exist`})
	ctx := adp.ErrorContext(err)
	assert.Equal(t, "42P01", ctx["code"])
	assert.Equal(t, "db.internal", ctx["hostname"])
	assert.Equal(t, "5432", ctx["port"])
	assert.Equal(t, "etl", ctx["username"])

	ctx = adp.ErrorContext(assert.AnError)
	_, ok := ctx["code"]
	assert.False(t, ok)
}

func TestAdapter_Close(t *testing.T) {
	adp := New(nil)
	assert.NoError(t, adp.Close())
}
