// Package ddl builds the DuckDB SQL used to inspect files and validates the
// identifiers fedcat accepts for schemas and objects.
package ddl

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileFormat names a file layout DuckDB can scan.
type FileFormat string

// Supported file formats.
const (
	FormatCSV     FileFormat = "csv"
	FormatParquet FileFormat = "parquet"
	FormatJSON    FileFormat = "json"
)

var formatsByExt = map[string]FileFormat{
	".csv":     FormatCSV,
	".tsv":     FormatCSV,
	".parquet": FormatParquet,
	".json":    FormatJSON,
	".jsonl":   FormatJSON,
	".ndjson":  FormatJSON,
}

// FormatForFile returns the format implied by a file extension.
func FormatForFile(name string) (FileFormat, bool) {
	f, ok := formatsByExt[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

func readFunc(format FileFormat) (string, error) {
	switch format {
	case FormatParquet:
		return "read_parquet", nil
	case FormatCSV:
		return "read_csv_auto", nil
	case FormatJSON:
		return "read_json_auto", nil
	default:
		return "", fmt.Errorf("unsupported file format: %q", format)
	}
}

// ScanFile returns the table function expression reading one file, e.g.
// read_parquet('/data/f.parquet').
func ScanFile(sourcePath string, format FileFormat) (string, error) {
	if sourcePath == "" {
		return "", fmt.Errorf("source path is required")
	}
	fn, err := readFunc(format)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, QuoteLiteral(sourcePath)), nil
}

// DiscoverColumnsSQL generates a DESCRIBE statement listing a file's columns.
func DiscoverColumnsSQL(sourcePath string, format FileFormat) (string, error) {
	scan, err := ScanFile(sourcePath, format)
	if err != nil {
		return "", err
	}
	return "DESCRIBE SELECT * FROM " + scan, nil
}

// CountRowsSQL generates a statement counting a file's rows.
func CountRowsSQL(sourcePath string, format FileFormat) (string, error) {
	scan, err := ScanFile(sourcePath, format)
	if err != nil {
		return "", err
	}
	return "SELECT count(*) FROM " + scan, nil
}
