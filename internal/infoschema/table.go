// Package infoschema implements the read-only information_schema virtual
// tables. Each table materializes a fresh result set on every query from the
// catalog aggregator and its datasources; nothing is cached.
package infoschema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"fedcat/internal/domain"
)

// SchemaName is the name under which the virtual tables are exposed.
const SchemaName = "information_schema"

// ResultSet is a table snapshot. Every row has len(Columns) values.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func newResultSet(columns []string) *ResultSet {
	return &ResultSet{Columns: columns, Rows: [][]any{}}
}

func (r *ResultSet) add(row []any) {
	if len(row) != len(r.Columns) {
		panic(fmt.Sprintf("infoschema: row has %d values, want %d", len(row), len(r.Columns)))
	}
	r.Rows = append(r.Rows, row)
}

// Request carries what a virtual table needs to produce its rows.
type Request struct {
	Where          *pg_query.Node
	Catalog        domain.Catalog
	Schema         *Schema
	DefaultProject string
	Logger         *slog.Logger
}

func (r *Request) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

type fillFunc func(ctx context.Context, req *Request, out *ResultSet) error

// Table is a virtual table definition. Name and Columns never change after
// process start.
type Table struct {
	Name      string
	Columns   []string
	Deletable bool
	Visible   bool
	Kind      string

	fill fillFunc
}

func newTable(name string, columns []string, fill fillFunc) *Table {
	return &Table{Name: name, Columns: columns, Kind: "table", fill: fill}
}

// GetData materializes the table. Tables that only declare columns return
// an empty result.
func (t *Table) GetData(ctx context.Context, req *Request) (*ResultSet, error) {
	out := newResultSet(t.Columns)
	if t.fill == nil {
		return out, nil
	}
	if err := t.fill(ctx, req, out); err != nil {
		return nil, fmt.Errorf("%s: %w", strings.ToLower(t.Name), err)
	}
	return out, nil
}

// TableInfo is the catalog introspection view of a virtual table.
type TableInfo struct {
	Name      string   `json:"name"`
	Columns   []string `json:"columns"`
	Deletable bool     `json:"deletable"`
	Visible   bool     `json:"visible"`
	Kind      string   `json:"kind"`
}

// Options configures a Schema.
type Options struct {
	// DefaultProject is included in the COLUMNS default scope.
	DefaultProject string
	Logger         *slog.Logger
}

// Schema is the information_schema registry bound to a catalog.
type Schema struct {
	catalog        domain.Catalog
	defaultProject string
	logger         *slog.Logger

	tables []*Table
	byName map[string]*Table
}

// New creates the registry with the full set of virtual tables.
func New(catalog domain.Catalog, opts Options) *Schema {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Schema{
		catalog:        catalog,
		defaultProject: opts.DefaultProject,
		logger:         logger,
		byName:         make(map[string]*Table),
	}
	for _, t := range builtinTables() {
		s.register(t)
	}
	return s
}

func (s *Schema) register(t *Table) {
	key := strings.ToUpper(t.Name)
	if _, dup := s.byName[key]; dup {
		panic("infoschema: duplicate table " + t.Name)
	}
	s.byName[key] = t
	s.tables = append(s.tables, t)
}

// Tables returns the virtual tables in registration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// Lookup finds a table by name, case-insensitively.
func (s *Schema) Lookup(name string) (*Table, bool) {
	t, ok := s.byName[strings.ToUpper(name)]
	return t, ok
}

// Info lists table metadata for SHOW TABLES style introspection.
func (s *Schema) Info() []TableInfo {
	out := make([]TableInfo, len(s.tables))
	for i, t := range s.tables {
		out[i] = TableInfo{
			Name:      t.Name,
			Columns:   t.Columns,
			Deletable: t.Deletable,
			Visible:   t.Visible,
			Kind:      t.Kind,
		}
	}
	return out
}

// Query materializes the named table with the given WHERE clause.
func (s *Schema) Query(ctx context.Context, name string, where *pg_query.Node) (*ResultSet, error) {
	t, ok := s.Lookup(name)
	if !ok {
		return nil, domain.ErrNotFound("table %s.%s does not exist", SchemaName, name)
	}
	return t.GetData(ctx, s.request(where))
}

func (s *Schema) request(where *pg_query.Node) *Request {
	return &Request{
		Where:          where,
		Catalog:        s.catalog,
		Schema:         s,
		DefaultProject: s.defaultProject,
		Logger:         s.logger,
	}
}

func builtinTables() []*Table {
	return []*Table{
		newTable("SCHEMATA", schemataColumns, fillSchemata),
		newTable("TABLES", tablesColumns, fillTables),
		newTable("COLUMNS", columnsColumns, fillColumns),
		newTable("EVENTS", eventsColumns, nil),
		newTable("ROUTINES", routinesColumns, nil),
		newTable("PLUGINS", pluginsColumns, nil),
		newTable("ENGINES", enginesColumns, fillEngines),
		newTable("KEY_COLUMN_USAGE", keyColumnUsageColumns, nil),
		newTable("STATISTICS", statisticsColumns, nil),
		newTable("CHARACTER_SETS", characterSetsColumns, fillCharacterSets),
		newTable("COLLATIONS", collationsColumns, fillCollations),
	}
}
