package infoschema

import (
	"context"
	"fmt"

	"fedcat/internal/domain"
)

var tablesColumns = []string{
	"TABLE_CATALOG",
	"TABLE_SCHEMA",
	"TABLE_NAME",
	"TABLE_TYPE",
	"ENGINE",
	"VERSION",
	"ROW_FORMAT",
	"TABLE_ROWS",
	"AVG_ROW_LENGTH",
	"DATA_LENGTH",
	"MAX_DATA_LENGTH",
	"INDEX_LENGTH",
	"DATA_FREE",
	"AUTO_INCREMENT",
	"CREATE_TIME",
	"UPDATE_TIME",
	"CHECK_TIME",
	"TABLE_COLLATION",
	"CHECKSUM",
	"CREATE_OPTIONS",
	"TABLE_COMMENT",
}

// tablesRow renders a descriptor as a TABLES row owned by schema.
func tablesRow(schema string, d domain.TableDescriptor) []any {
	var engine, createTime, updateTime, comment any
	if d.Engine != "" {
		engine = d.Engine
	}
	if d.CreatedAt != nil {
		createTime = *d.CreatedAt
	}
	if d.UpdatedAt != nil {
		updateTime = *d.UpdatedAt
	}
	if d.Comment != "" {
		comment = d.Comment
	}
	var rows int64
	if d.Rows != nil {
		rows = *d.Rows
	}
	return []any{
		"def",
		schema,
		d.Name,
		string(d.EffectiveType()),
		engine,
		nil,        // VERSION
		nil,        // ROW_FORMAT
		rows,       // TABLE_ROWS
		int64(0),   // AVG_ROW_LENGTH
		int64(0),   // DATA_LENGTH
		int64(0),   // MAX_DATA_LENGTH
		int64(0),   // INDEX_LENGTH
		int64(0),   // DATA_FREE
		nil,        // AUTO_INCREMENT
		createTime, // CREATE_TIME
		updateTime, // UPDATE_TIME
		nil,        // CHECK_TIME
		nil,        // TABLE_COLLATION
		nil,        // CHECKSUM
		nil,        // CREATE_OPTIONS
		comment,
	}
}

// fillTables unions system views, persistent datasources, integrations and
// projects, in that order. The schema filter prunes whole sources before
// any metadata call; the table filter prunes rows.
func fillTables(ctx context.Context, req *Request, out *ResultSet) error {
	scope := ExtractScope(req.Where)

	appendRows := func(schema string, tables []domain.TableDescriptor) {
		for _, t := range tables {
			if !scope.HasTable(t.Name) {
				continue
			}
			out.add(tablesRow(schema, t))
		}
	}

	if scope.HasSchema(SchemaName) && req.Schema != nil {
		for _, t := range req.Schema.Tables() {
			if !scope.HasSystemTable(t.Name) {
				continue
			}
			out.add(tablesRow(SchemaName, domain.TableDescriptor{Name: t.Name, Type: domain.TableTypeSystemView}))
		}
	}

	covered := make(map[string]bool)
	for _, ds := range req.Catalog.PersistentDataSources() {
		covered[ds.Name] = true
		if !scope.HasSchema(ds.Name) {
			continue
		}
		tables, err := domain.ListTables(ctx, ds.Source)
		if err != nil {
			return fmt.Errorf("list tables of %q: %w", ds.Name, err)
		}
		appendRows(ds.Name, tables)
	}

	integrations, err := req.Catalog.ListIntegrationNames(ctx)
	if err != nil {
		return fmt.Errorf("list integrations: %w", err)
	}
	for _, name := range integrations {
		if covered[name] || !scope.HasSchema(name) {
			continue
		}
		tables, err := integrationTables(ctx, req.Catalog, name)
		if err != nil {
			// One broken connector must not fail the whole listing.
			req.logger().Error("can't get tables from integration", "integration", name, "error", err)
			continue
		}
		appendRows(name, tables)
	}

	projects, err := req.Catalog.ListProjectNames(ctx)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	for _, name := range projects {
		if !scope.HasSchema(name) {
			continue
		}
		src, err := req.Catalog.Resolve(ctx, name)
		if err != nil {
			return fmt.Errorf("resolve project %q: %w", name, err)
		}
		tables, err := domain.ListTables(ctx, src)
		if err != nil {
			return fmt.Errorf("list tables of project %q: %w", name, err)
		}
		appendRows(name, tables)
	}
	return nil
}

func integrationTables(ctx context.Context, catalog domain.Catalog, name string) ([]domain.TableDescriptor, error) {
	src, err := catalog.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return domain.ListTables(ctx, src)
}
