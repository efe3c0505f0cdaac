// Package datasource provides metadata accessors for the engines an
// integration can point at. Accessors only enumerate tables and columns;
// they never run user queries.
package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fedcat/internal/domain"
)

// Handle is an opened datasource.
type Handle interface {
	domain.DataSource
	Ping(ctx context.Context) error
	Close() error
}

// dialect holds the catalog queries of one database/sql engine. tables
// returns (name, type) rows; columns takes the table name as its only
// argument and returns (name, type) rows in ordinal order.
type dialect struct {
	engine  string
	tables  string
	columns string
}

// sqlSource is a Handle over a database/sql pool.
type sqlSource struct {
	db *sql.DB
	d  dialect
}

var _ Handle = (*sqlSource)(nil)

func (s *sqlSource) ListTables(ctx context.Context) ([]domain.TableDescriptor, error) {
	rows, err := s.db.QueryContext(ctx, s.d.tables)
	if err != nil {
		return nil, fmt.Errorf("%s: list tables: %w", s.d.engine, err)
	}
	defer rows.Close() //nolint:errcheck

	out := []domain.TableDescriptor{}
	for rows.Next() {
		var name, typ string
		if err := rows.Scan(&name, &typ); err != nil {
			return nil, fmt.Errorf("%s: scan table: %w", s.d.engine, err)
		}
		out = append(out, domain.TableDescriptor{Name: name, Type: tableType(typ)})
	}
	return out, rows.Err()
}

func (s *sqlSource) ListColumns(ctx context.Context, table string) ([]domain.ColumnDescriptor, error) {
	rows, err := s.db.QueryContext(ctx, s.d.columns, table)
	if err != nil {
		return nil, fmt.Errorf("%s: list columns of %q: %w", s.d.engine, table, err)
	}
	defer rows.Close() //nolint:errcheck

	out, err := scanColumns(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.d.engine, err)
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound("table %q not found", table)
	}
	return out, nil
}

func (s *sqlSource) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *sqlSource) Close() error { return s.db.Close() }

func scanColumns(rows *sql.Rows) ([]domain.ColumnDescriptor, error) {
	var out []domain.ColumnDescriptor
	for rows.Next() {
		var c domain.ColumnDescriptor
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// tableType maps engine-reported table kinds onto TABLE_TYPE values.
func tableType(kind string) domain.TableType {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "view", "v", "m", "materialized view":
		return domain.TableTypeView
	default:
		return domain.TableTypeBase
	}
}
