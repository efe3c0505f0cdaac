package infoschema

import (
	"context"
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/require"

	"fedcat/internal/domain"
)

// === Mock Catalog ===

type mockCatalog struct {
	listDatabasesFn        func(ctx context.Context) ([]domain.Database, error)
	persistent             []domain.NamedDataSource
	listIntegrationNamesFn func(ctx context.Context) ([]string, error)
	listProjectNamesFn     func(ctx context.Context) ([]string, error)
	resolveFn              func(ctx context.Context, name string) (domain.DataSource, error)

	resolved []string
}

func (m *mockCatalog) ListDatabases(ctx context.Context) ([]domain.Database, error) {
	if m.listDatabasesFn != nil {
		return m.listDatabasesFn(ctx)
	}
	panic("unexpected call to ListDatabases")
}

func (m *mockCatalog) PersistentDataSources() []domain.NamedDataSource { return m.persistent }

func (m *mockCatalog) ListIntegrationNames(ctx context.Context) ([]string, error) {
	if m.listIntegrationNamesFn != nil {
		return m.listIntegrationNamesFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) ListProjectNames(ctx context.Context) ([]string, error) {
	if m.listProjectNamesFn != nil {
		return m.listProjectNamesFn(ctx)
	}
	return nil, nil
}

func (m *mockCatalog) Resolve(ctx context.Context, name string) (domain.DataSource, error) {
	m.resolved = append(m.resolved, name)
	if m.resolveFn != nil {
		return m.resolveFn(ctx, name)
	}
	return nil, domain.ErrNotFound("schema %q not found", name)
}

// sourcesCatalog resolves names from a fixed map.
func sourcesCatalog(sources map[string]domain.DataSource) *mockCatalog {
	return &mockCatalog{
		resolveFn: func(_ context.Context, name string) (domain.DataSource, error) {
			if src, ok := sources[name]; ok {
				return src, nil
			}
			return nil, domain.ErrNotFound("schema %q not found", name)
		},
	}
}

// === Fake datasource ===

type fakeTable struct {
	desc domain.TableDescriptor
	cols []domain.ColumnDescriptor
}

type fakeSource struct {
	tables     []fakeTable
	listErr    error
	columnsErr error

	listCalls int
}

func (f *fakeSource) ListTables(_ context.Context) ([]domain.TableDescriptor, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.TableDescriptor, len(f.tables))
	for i, t := range f.tables {
		out[i] = t.desc
	}
	return out, nil
}

func (f *fakeSource) ListColumns(_ context.Context, table string) ([]domain.ColumnDescriptor, error) {
	if f.columnsErr != nil {
		return nil, f.columnsErr
	}
	for _, t := range f.tables {
		if t.desc.Name == table {
			return t.cols, nil
		}
	}
	return nil, domain.ErrNotFound("table %q not found", table)
}

// nameOnlySource only enumerates plain table names.
type nameOnlySource struct {
	fakeSource
	names []string
}

func (n *nameOnlySource) ListTableNames(_ context.Context) ([]string, error) {
	return n.names, nil
}

func table(name string, cols ...domain.ColumnDescriptor) fakeTable {
	return fakeTable{desc: domain.TableDescriptor{Name: name}, cols: cols}
}

func col(name, typ string) domain.ColumnDescriptor {
	return domain.ColumnDescriptor{Name: name, Type: typ}
}

func mustWhere(t *testing.T, where string) *pg_query.Node {
	t.Helper()
	node, err := ParseWhere(where)
	require.NoError(t, err)
	return node
}

func query(t *testing.T, s *Schema, tableName, where string) *ResultSet {
	t.Helper()
	rs, err := s.Query(context.Background(), tableName, mustWhere(t, where))
	require.NoError(t, err)
	return rs
}

// column returns the values of one named column.
func column(t *testing.T, rs *ResultSet, name string) []any {
	t.Helper()
	idx := -1
	for i, c := range rs.Columns {
		if c == name {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0, "no column %s", name)
	out := make([]any, len(rs.Rows))
	for i, r := range rs.Rows {
		out[i] = r[idx]
	}
	return out
}

func requireArity(t *testing.T, rs *ResultSet) {
	t.Helper()
	for i, r := range rs.Rows {
		require.Len(t, r, len(rs.Columns), "row %d", i)
	}
}
