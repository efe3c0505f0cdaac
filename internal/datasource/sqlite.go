package datasource

import (
	"fmt"

	"fedcat/internal/db"
)

var sqliteDialect = dialect{
	engine: "sqlite",
	tables: `SELECT name, type FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`,
	columns: `SELECT name, type FROM pragma_table_info(?) ORDER BY cid`,
}

// OpenSQLite opens a SQLite database file for metadata reads. The file is
// never written to.
func OpenSQLite(path string) (Handle, error) {
	conn, err := db.OpenSQLite(path, db.ModeQueryOnly, 2)
	if err != nil {
		return nil, fmt.Errorf("open sqlite integration: %w", err)
	}
	return &sqlSource{db: conn, d: sqliteDialect}, nil
}
