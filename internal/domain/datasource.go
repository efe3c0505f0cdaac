package domain

import (
	"context"
	"time"
)

// TableType is the TABLE_TYPE value reported for a table-like object.
type TableType string

// Possible values for TableType.
const (
	TableTypeBase          TableType = "BASE TABLE"
	TableTypeView          TableType = "VIEW"
	TableTypeSystemView    TableType = "SYSTEM VIEW"
	TableTypeModel         TableType = "MODEL"
	TableTypeKnowledgeBase TableType = "KNOWLEDGE BASE"
	TableTypeAgent         TableType = "AGENT"
	TableTypeJob           TableType = "JOB"
)

// TableDescriptor is the canonical description of one table exposed by a
// datasource or project. Only Name is required; zero values of the other
// fields are reported as information_schema defaults.
type TableDescriptor struct {
	Name      string
	Type      TableType // empty means BASE TABLE
	Engine    string
	Rows      *int64
	CreatedAt *time.Time
	UpdatedAt *time.Time
	Comment   string
}

// EffectiveType returns the descriptor's type, defaulting to BASE TABLE.
func (d TableDescriptor) EffectiveType() TableType {
	if d.Type == "" {
		return TableTypeBase
	}
	return d.Type
}

// ColumnDescriptor describes one column as reported by a datasource. Type is
// the datasource's native type name; empty means text.
type ColumnDescriptor struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// DataSource is the metadata accessor every schema visible through
// information_schema resolves to: integrations, persistent datasources and
// projects alike.
type DataSource interface {
	// ListTables returns the tables in the datasource's natural order.
	ListTables(ctx context.Context) ([]TableDescriptor, error)
	// ListColumns returns the columns of one table in ordinal order.
	ListColumns(ctx context.Context, table string) ([]ColumnDescriptor, error)
}

// TableNameLister is implemented by datasources that can only enumerate
// table names. ListTables normalizes them into default descriptors.
type TableNameLister interface {
	ListTableNames(ctx context.Context) ([]string, error)
}

// DetailedTableLister is implemented by datasources that can report row
// counts, timestamps or comments. It takes precedence over ListTables.
type DetailedTableLister interface {
	ListTablesDetailed(ctx context.Context) ([]TableDescriptor, error)
}

// ListTables is the single normalization point for datasource table
// listings. A detailed listing wins over a plain name listing, which wins
// over the DataSource's own ListTables.
func ListTables(ctx context.Context, src DataSource) ([]TableDescriptor, error) {
	if d, ok := src.(DetailedTableLister); ok {
		return d.ListTablesDetailed(ctx)
	}
	if n, ok := src.(TableNameLister); ok {
		names, err := n.ListTableNames(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]TableDescriptor, len(names))
		for i, name := range names {
			out[i] = TableDescriptor{Name: name, Type: TableTypeBase}
		}
		return out, nil
	}
	return src.ListTables(ctx)
}

// NamedDataSource pairs a datasource with the schema name it is exposed as.
type NamedDataSource struct {
	Name   string
	Source DataSource
}

// DatabaseType classifies an entry of the SCHEMATA listing.
type DatabaseType string

// Possible values for DatabaseType.
const (
	DatabaseTypeSystem  DatabaseType = "system"
	DatabaseTypeFiles   DatabaseType = "files"
	DatabaseTypeProject DatabaseType = "project"
	DatabaseTypeData    DatabaseType = "data"
)

// Database is one schema known to the catalog.
type Database struct {
	Name   string       `json:"name"`
	Type   DatabaseType `json:"type"`
	Engine string       `json:"engine,omitempty"`
}

// Catalog is the aggregator information_schema virtual tables read from.
// Implemented by catalog.Service.
type Catalog interface {
	// ListDatabases returns every schema, information_schema included.
	ListDatabases(ctx context.Context) ([]Database, error)
	// PersistentDataSources returns the always-present datasources in a
	// stable order.
	PersistentDataSources() []NamedDataSource
	// ListIntegrationNames returns the registered integration names.
	ListIntegrationNames(ctx context.Context) ([]string, error)
	// ListProjectNames returns the user project names.
	ListProjectNames(ctx context.Context) ([]string, error)
	// Resolve returns the datasource behind a schema name. Unknown names
	// yield a *NotFoundError.
	Resolve(ctx context.Context, name string) (DataSource, error)
}
