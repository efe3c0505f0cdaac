package datasource

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fedcat/internal/domain"
)

const pgTablesQuery = `
SELECT c.relname,
       c.relkind::text,
       GREATEST(c.reltuples, 0)::bigint,
       COALESCE(obj_description(c.oid, 'pg_class'), '')
FROM pg_class c
JOIN pg_namespace n ON n.oid = c.relnamespace
WHERE n.nspname = current_schema()
  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
  AND n.nspname NOT LIKE 'pg_toast%'
  AND c.relkind IN ('r', 'p', 'v', 'm', 'f')
ORDER BY c.relname`

const pgColumnsQuery = `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = current_schema()
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
  AND table_name = $1
ORDER BY ordinal_position`

// postgresSource reads PostgreSQL catalogs through a pgx pool. Only the
// connection's current schema is listed, and never a system schema, so
// table names stay unqualified. Row counts are planner estimates.
type postgresSource struct {
	pool *pgxpool.Pool
}

var (
	_ Handle                     = (*postgresSource)(nil)
	_ domain.DetailedTableLister = (*postgresSource)(nil)
)

// OpenPostgres connects with a postgres:// URL or keyword/value DSN.
func OpenPostgres(ctx context.Context, dsn string) (Handle, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &postgresSource{pool: pool}, nil
}

func (p *postgresSource) ListTables(ctx context.Context) ([]domain.TableDescriptor, error) {
	return p.ListTablesDetailed(ctx)
}

func (p *postgresSource) ListTablesDetailed(ctx context.Context) ([]domain.TableDescriptor, error) {
	rows, err := p.pool.Query(ctx, pgTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tables: %w", err)
	}
	defer rows.Close()

	out := []domain.TableDescriptor{}
	for rows.Next() {
		var (
			d     domain.TableDescriptor
			kind  string
			count int64
		)
		if err := rows.Scan(&d.Name, &kind, &count, &d.Comment); err != nil {
			return nil, fmt.Errorf("postgres: scan table: %w", err)
		}
		d.Type = tableType(kind)
		d.Rows = &count
		out = append(out, d)
	}
	return out, rows.Err()
}

func (p *postgresSource) ListColumns(ctx context.Context, table string) ([]domain.ColumnDescriptor, error) {
	rows, err := p.pool.Query(ctx, pgColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("postgres: list columns of %q: %w", table, err)
	}
	defer rows.Close()

	var out []domain.ColumnDescriptor
	for rows.Next() {
		var c domain.ColumnDescriptor
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("postgres: scan column: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, domain.ErrNotFound("table %q not found", table)
	}
	return out, nil
}

func (p *postgresSource) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *postgresSource) Close() error {
	p.pool.Close()
	return nil
}
