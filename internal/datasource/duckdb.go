package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

var duckdbDialect = dialect{
	engine: "duckdb",
	tables: `SELECT table_name, table_type FROM information_schema.tables
		WHERE table_catalog = current_database() AND table_schema = current_schema()
		ORDER BY table_name`,
	columns: `SELECT column_name, data_type FROM information_schema.columns
		WHERE table_catalog = current_database() AND table_schema = current_schema() AND table_name = ?
		ORDER BY ordinal_position`,
}

// openDuckDB opens a DuckDB pool. An empty path is an in-memory database.
func openDuckDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	return conn, nil
}

// OpenDuckDB opens a DuckDB database file and lists the tables of its
// default schema.
func OpenDuckDB(path string) (Handle, error) {
	conn, err := openDuckDB(path)
	if err != nil {
		return nil, err
	}
	return &sqlSource{db: conn, d: duckdbDialect}, nil
}
