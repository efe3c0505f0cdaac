package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fedcat/internal/ddl"
	"fedcat/internal/domain"
)

// FilesSource exposes a directory of CSV, Parquet and JSON files as tables,
// one per file, named after the file stem. Files are scanned through an
// in-memory DuckDB on every call; nothing is cached.
type FilesSource struct {
	dir string
	db  *sql.DB
}

var (
	_ Handle                     = (*FilesSource)(nil)
	_ domain.DetailedTableLister = (*FilesSource)(nil)
)

// fileTable is one recognized file in the directory.
type fileTable struct {
	name   string
	path   string
	format ddl.FileFormat
	info   fs.FileInfo
}

// OpenFiles opens a files datasource over dir. A missing directory is an
// empty datasource.
func OpenFiles(dir string) (*FilesSource, error) {
	conn, err := openDuckDB("")
	if err != nil {
		return nil, err
	}
	return &FilesSource{dir: dir, db: conn}, nil
}

// Dir returns the directory the datasource reads.
func (f *FilesSource) Dir() string { return f.dir }

func (f *FilesSource) scan() ([]fileTable, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("files: read %s: %w", f.dir, err)
	}

	seen := make(map[string]bool)
	var out []fileTable
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		format, ok := ddl.FormatForFile(e.Name())
		if !ok {
			continue
		}
		name := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if seen[name] {
			// a.csv and a.parquet: the first in directory order wins.
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		seen[name] = true
		out = append(out, fileTable{
			name:   name,
			path:   filepath.Join(f.dir, e.Name()),
			format: format,
			info:   info,
		})
	}
	return out, nil
}

func (f *FilesSource) lookup(table string) (*fileTable, error) {
	files, err := f.scan()
	if err != nil {
		return nil, err
	}
	for i := range files {
		if files[i].name == table {
			return &files[i], nil
		}
	}
	return nil, domain.ErrNotFound("file table %q not found", table)
}

// ListTables implements domain.DataSource.
func (f *FilesSource) ListTables(ctx context.Context) ([]domain.TableDescriptor, error) {
	return f.ListTablesDetailed(ctx)
}

// ListTablesDetailed reports each file's row count and modification time.
// A file DuckDB cannot count is still listed, without a row count.
func (f *FilesSource) ListTablesDetailed(ctx context.Context) ([]domain.TableDescriptor, error) {
	files, err := f.scan()
	if err != nil {
		return nil, err
	}

	out := make([]domain.TableDescriptor, 0, len(files))
	for _, ft := range files {
		modified := ft.info.ModTime().UTC()
		d := domain.TableDescriptor{
			Name:      ft.name,
			Type:      domain.TableTypeBase,
			Engine:    string(ft.format),
			UpdatedAt: &modified,
		}
		if n, err := f.countRows(ctx, ft); err == nil {
			d.Rows = &n
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *FilesSource) countRows(ctx context.Context, ft fileTable) (int64, error) {
	query, err := ddl.CountRowsSQL(ft.path, ft.format)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := f.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListColumns describes a file's columns with DuckDB's inferred types.
func (f *FilesSource) ListColumns(ctx context.Context, table string) ([]domain.ColumnDescriptor, error) {
	ft, err := f.lookup(table)
	if err != nil {
		return nil, err
	}
	query, err := ddl.DiscoverColumnsSQL(ft.path, ft.format)
	if err != nil {
		return nil, err
	}

	rows, err := f.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("files: describe %s: %w", ft.path, err)
	}
	defer rows.Close() //nolint:errcheck

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(names) < 2 {
		return nil, fmt.Errorf("files: describe %s: unexpected result shape %v", ft.path, names)
	}

	var out []domain.ColumnDescriptor
	vals := make([]sql.NullString, len(names))
	ptrs := make([]any, len(names))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("files: scan column: %w", err)
		}
		// DESCRIBE yields column_name, column_type, null, key, default, extra.
		out = append(out, domain.ColumnDescriptor{Name: vals[0].String, Type: vals[1].String})
	}
	return out, rows.Err()
}

// Ping checks the embedded DuckDB.
func (f *FilesSource) Ping(ctx context.Context) error { return f.db.PingContext(ctx) }

// Close releases the embedded DuckDB.
func (f *FilesSource) Close() error { return f.db.Close() }
