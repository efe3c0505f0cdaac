package datasource

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "fedcat/internal/db"
	"fedcat/internal/domain"
)

func seedSQLite(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shop.db")
	conn, err := internaldb.OpenSQLite(path, internaldb.ModeWrite, 0)
	require.NoError(t, err)
	defer conn.Close()

	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER PRIMARY KEY, total NUMERIC(10,2), placed_at TIMESTAMP, note)`,
		`CREATE TABLE customers (id INTEGER, name TEXT)`,
		`CREATE VIEW big_orders AS SELECT id, total FROM orders WHERE total > 100`,
	} {
		_, err := conn.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

func TestSQLiteSource(t *testing.T) {
	src, err := OpenSQLite(seedSQLite(t))
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })
	ctx := context.Background()

	require.NoError(t, src.Ping(ctx))

	t.Run("ListTables", func(t *testing.T) {
		tables, err := src.ListTables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.TableDescriptor{
			{Name: "big_orders", Type: domain.TableTypeView},
			{Name: "customers", Type: domain.TableTypeBase},
			{Name: "orders", Type: domain.TableTypeBase},
		}, tables)
	})

	t.Run("ListColumns in ordinal order", func(t *testing.T) {
		cols, err := src.ListColumns(ctx, "orders")
		require.NoError(t, err)
		assert.Equal(t, []domain.ColumnDescriptor{
			{Name: "id", Type: "INTEGER"},
			{Name: "total", Type: "NUMERIC(10,2)"},
			{Name: "placed_at", Type: "TIMESTAMP"},
			{Name: "note", Type: ""},
		}, cols)
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := src.ListColumns(ctx, "ghost")
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestOpen_UnsupportedEngine(t *testing.T) {
	_, err := Open(context.Background(), domain.Integration{Name: "x", Engine: "oracle", DSN: "x"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestOpen_DispatchesSQLite(t *testing.T) {
	h, err := DefaultOpener.Open(context.Background(), domain.Integration{
		Name: "shop", Engine: domain.EngineSQLite, DSN: seedSQLite(t),
	})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	tables, err := domain.ListTables(context.Background(), h)
	require.NoError(t, err)
	assert.Len(t, tables, 3)
}

func TestTableType(t *testing.T) {
	assert.Equal(t, domain.TableTypeView, tableType("VIEW"))
	assert.Equal(t, domain.TableTypeView, tableType("m"))
	assert.Equal(t, domain.TableTypeBase, tableType("BASE TABLE"))
	assert.Equal(t, domain.TableTypeBase, tableType("table"))
	assert.Equal(t, domain.TableTypeBase, tableType("LOCAL TEMPORARY"))
}
