package infoschema

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"fedcat/internal/domain"
)

var columnsColumns = []string{
	"TABLE_CATALOG",
	"TABLE_SCHEMA",
	"TABLE_NAME",
	"COLUMN_NAME",
	"ORDINAL_POSITION",
	"COLUMN_DEFAULT",
	"IS_NULLABLE",
	"DATA_TYPE",
	"CHARACTER_MAXIMUM_LENGTH",
	"CHARACTER_OCTET_LENGTH",
	"NUMERIC_PRECISION",
	"NUMERIC_SCALE",
	"DATETIME_PRECISION",
	"CHARACTER_SET_NAME",
	"COLLATION_NAME",
	"COLUMN_TYPE",
	"COLUMN_KEY",
	"EXTRA",
	"PRIVILEGES",
	"COLUMN_COMMENT",
	"GENERATION_EXPRESSION",
}

// Positions overwritten in a cloned template.
const (
	colSchema  = 1
	colTable   = 2
	colName    = 3
	colOrdinal = 4
)

// TypeBucket is the canonical MySQL type a native column type is reported as.
type TypeBucket string

const (
	BucketText      TypeBucket = "text"
	BucketTimestamp TypeBucket = "timestamp"
	BucketBigint    TypeBucket = "bigint"
	BucketFloat     TypeBucket = "float"
)

var columnTemplates = map[TypeBucket][]any{
	BucketText: {
		"def", nil, nil, nil, nil,
		nil, "YES", "varchar", 1024, 3072,
		nil, nil, nil, "utf8", "utf8_bin",
		"varchar(1024)", nil, nil, "select", nil,
		nil,
	},
	BucketTimestamp: {
		"def", nil, nil, nil, nil,
		"CURRENT_TIMESTAMP", "YES", "timestamp", nil, nil,
		nil, nil, 0, nil, nil,
		"timestamp", nil, nil, "select", nil,
		nil,
	},
	BucketBigint: {
		"def", nil, nil, nil, nil,
		nil, "YES", "bigint", nil, nil,
		20, 0, nil, nil, nil,
		"bigint unsigned", nil, nil, "select", nil,
		nil,
	},
	BucketFloat: {
		"def", nil, nil, nil, nil,
		nil, "YES", "float", nil, nil,
		12, 0, nil, nil, nil,
		"float", nil, nil, "select", nil,
		nil,
	},
}

var typeBuckets = map[string]TypeBucket{
	"double precision":            BucketFloat,
	"real":                        BucketFloat,
	"numeric":                     BucketFloat,
	"float":                       BucketFloat,
	"double":                      BucketFloat,
	"decimal":                     BucketFloat,
	"integer":                     BucketBigint,
	"smallint":                    BucketBigint,
	"int":                         BucketBigint,
	"bigint":                      BucketBigint,
	"timestamp without time zone": BucketTimestamp,
	"timestamp with time zone":    BucketTimestamp,
	"timestamp":                   BucketTimestamp,
	"date":                        BucketTimestamp,
	"datetime":                    BucketTimestamp,
	"text":                        BucketText,
}

// Bucket maps a native type name such as "INTEGER" or "numeric(10,2)" to its
// bucket. Unknown types are text.
func Bucket(nativeType string) TypeBucket {
	t := strings.ToLower(strings.TrimSpace(nativeType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if b, ok := typeBuckets[t]; ok {
		return b
	}
	return BucketText
}

func columnsRow(schema, table string, ordinal int, col domain.ColumnDescriptor) []any {
	row := slices.Clone(columnTemplates[Bucket(col.Type)])
	row[colSchema] = schema
	row[colTable] = table
	row[colName] = col.Name
	row[colOrdinal] = ordinal
	return row
}

// columnsDefaultSchemas is the scope used when the query names no schema.
func columnsDefaultSchemas(defaultProject string) []string {
	out := []string{SchemaName}
	if defaultProject != "" && defaultProject != SchemaName {
		out = append(out, defaultProject)
	}
	if defaultProject != domain.FilesSchemaName {
		out = append(out, domain.FilesSchemaName)
	}
	return out
}

func fillColumns(ctx context.Context, req *Request, out *ResultSet) error {
	scope := ExtractScope(req.Where)
	schemas := scope.Schemas
	if schemas == nil {
		schemas = columnsDefaultSchemas(req.DefaultProject)
	}

	for _, schema := range schemas {
		if strings.EqualFold(schema, SchemaName) {
			if req.Schema == nil {
				continue
			}
			for _, t := range req.Schema.Tables() {
				if !scope.HasSystemTable(t.Name) {
					continue
				}
				for i, name := range t.Columns {
					out.add(columnsRow(SchemaName, t.Name, i, domain.ColumnDescriptor{Name: name, Type: "text"}))
				}
			}
			continue
		}

		src, err := req.Catalog.Resolve(ctx, schema)
		if err != nil {
			var notFound *domain.NotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return fmt.Errorf("resolve %q: %w", schema, err)
		}

		tables := scope.Tables
		filtered := tables != nil
		if !filtered {
			descriptors, err := domain.ListTables(ctx, src)
			if err != nil {
				return fmt.Errorf("list tables of %q: %w", schema, err)
			}
			tables = make([]string, len(descriptors))
			for i, d := range descriptors {
				tables[i] = d.Name
			}
		}

		for _, table := range tables {
			cols, err := src.ListColumns(ctx, table)
			if err != nil {
				// A filtered name need not exist in every schema in scope.
				if filtered && domain.IsNotFound(err) {
					continue
				}
				return fmt.Errorf("list columns of %s.%s: %w", schema, table, err)
			}
			for i, col := range cols {
				out.add(columnsRow(schema, table, i, col))
			}
		}
	}
	return nil
}
