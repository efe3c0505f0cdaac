package infoschema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedcat/internal/domain"
)

func TestSchema_Registry(t *testing.T) {
	s := New(sourcesCatalog(nil), Options{})

	var names []string
	for _, tbl := range s.Tables() {
		names = append(names, tbl.Name)
		assert.Equal(t, "table", tbl.Kind)
		assert.False(t, tbl.Deletable)
		assert.False(t, tbl.Visible)
		assert.NotEmpty(t, tbl.Columns)
	}
	assert.Equal(t, []string{
		"SCHEMATA", "TABLES", "COLUMNS", "EVENTS", "ROUTINES", "PLUGINS",
		"ENGINES", "KEY_COLUMN_USAGE", "STATISTICS", "CHARACTER_SETS", "COLLATIONS",
	}, names)

	tbl, ok := s.Lookup("columns")
	require.True(t, ok)
	assert.Equal(t, "COLUMNS", tbl.Name)
	assert.Len(t, tbl.Columns, 21)

	_, ok = s.Lookup("nope")
	assert.False(t, ok)

	info := s.Info()
	require.Len(t, info, len(names))
	assert.Equal(t, "SCHEMATA", info[0].Name)
	assert.Equal(t, schemataColumns, info[0].Columns)
}

func TestSchema_QueryUnknownTable(t *testing.T) {
	s := New(sourcesCatalog(nil), Options{})

	_, err := s.Query(context.Background(), "VIEWS", nil)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Message, "information_schema.VIEWS")
}

func TestSchema_RegisterDuplicatePanics(t *testing.T) {
	s := New(sourcesCatalog(nil), Options{})
	assert.Panics(t, func() { s.register(newTable("tables", nil, nil)) })
}

func TestResultSet_ArityViolationPanics(t *testing.T) {
	rs := newResultSet([]string{"a", "b"})
	assert.Panics(t, func() { rs.add([]any{1}) })
	assert.NotPanics(t, func() { rs.add([]any{1, nil}) })
}

func TestDeclarationOnlyTablesAreEmpty(t *testing.T) {
	s := New(sourcesCatalog(nil), Options{})

	for name, cols := range map[string][]string{
		"EVENTS":           eventsColumns,
		"ROUTINES":         routinesColumns,
		"PLUGINS":          pluginsColumns,
		"KEY_COLUMN_USAGE": keyColumnUsageColumns,
		"STATISTICS":       statisticsColumns,
	} {
		t.Run(name, func(t *testing.T) {
			rs := query(t, s, name, "table_schema = 'x'")
			assert.Equal(t, cols, rs.Columns)
			assert.NotNil(t, rs.Rows)
			assert.Empty(t, rs.Rows)
		})
	}
}

func TestStaticTables(t *testing.T) {
	s := New(sourcesCatalog(nil), Options{})

	t.Run("ENGINES", func(t *testing.T) {
		rs := query(t, s, "ENGINES", "")
		requireArity(t, rs)
		require.Len(t, rs.Rows, 1)
		assert.Equal(t, "InnoDB", rs.Rows[0][0])
		assert.Equal(t, "DEFAULT", rs.Rows[0][1])
	})

	t.Run("CHARACTER_SETS", func(t *testing.T) {
		rs := query(t, s, "CHARACTER_SETS", "table_schema = 'ignored'")
		requireArity(t, rs)
		assert.Equal(t, []any{"utf8", "latin1", "utf8mb4"}, column(t, rs, "CHARACTER_SET_NAME"))
		assert.Equal(t, []any{"utf8_general_ci", "latin1_swedish_ci", "utf8mb4_general_ci"}, column(t, rs, "DEFAULT_COLLATE_NAME"))
		assert.Equal(t, []any{3, 1, 4}, column(t, rs, "MAXLEN"))
	})

	t.Run("COLLATIONS", func(t *testing.T) {
		rs := query(t, s, "COLLATIONS", "")
		requireArity(t, rs)
		assert.Equal(t, []any{"utf8_general_ci", "latin1_swedish_ci"}, column(t, rs, "COLLATION_NAME"))
		assert.Equal(t, []any{"utf8", "latin1"}, column(t, rs, "CHARACTER_SET_NAME"))
	})
}

func TestSchemata(t *testing.T) {
	cat := &mockCatalog{listDatabasesFn: func(_ context.Context) ([]domain.Database, error) {
		return []domain.Database{
			{Name: "information_schema", Type: domain.DatabaseTypeSystem},
			{Name: "files", Type: domain.DatabaseTypeFiles},
			{Name: "pg", Type: domain.DatabaseTypeData, Engine: "postgres"},
		}, nil
	}}
	s := New(cat, Options{})

	rs := query(t, s, "SCHEMATA", "schema_name = 'pg'")
	require.Len(t, rs.Rows, 3, "SCHEMATA ignores filters")
	assert.Equal(t, []any{"def", "pg", "utf8mb4", "utf8mb4_0900_ai_ci", nil}, rs.Rows[2])

	cat.listDatabasesFn = func(_ context.Context) ([]domain.Database, error) {
		return nil, errors.New("boom")
	}
	_, err := s.Query(context.Background(), "SCHEMATA", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schemata")
}
