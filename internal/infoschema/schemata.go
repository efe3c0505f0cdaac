package infoschema

import (
	"context"
	"fmt"
)

var schemataColumns = []string{
	"CATALOG_NAME",
	"SCHEMA_NAME",
	"DEFAULT_CHARACTER_SET_NAME",
	"DEFAULT_COLLATION_NAME",
	"SQL_PATH",
}

func fillSchemata(ctx context.Context, req *Request, out *ResultSet) error {
	dbs, err := req.Catalog.ListDatabases(ctx)
	if err != nil {
		return fmt.Errorf("list databases: %w", err)
	}
	for _, db := range dbs {
		out.add([]any{"def", db.Name, "utf8mb4", "utf8mb4_0900_ai_ci", nil})
	}
	return nil
}
