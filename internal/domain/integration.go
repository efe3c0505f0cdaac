package domain

import (
	"context"
	"strings"
	"time"
)

// Engine names accepted for integrations.
const (
	EngineSQLite   = "sqlite"
	EngineDuckDB   = "duckdb"
	EnginePostgres = "postgres"
	EngineMSSQL    = "mssql"
	EngineFiles    = "files"
)

// Integration is a named connection to an external datasource. Its
// datasource handle is resolved lazily by name.
type Integration struct {
	ID        string
	Name      string
	Engine    string
	DSN       string // file path, directory, or connection string depending on Engine
	Comment   string
	CreatedAt time.Time
}

// CreateIntegrationRequest holds parameters for registering an integration.
type CreateIntegrationRequest struct {
	Name    string `json:"name" yaml:"name"`
	Engine  string `json:"engine" yaml:"engine"`
	DSN     string `json:"dsn" yaml:"dsn"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// IntegrationStatus is the outcome of a connectivity check.
type IntegrationStatus struct {
	Name   string `json:"name"`
	Engine string `json:"engine"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// IntegrationRepository persists integration registrations.
type IntegrationRepository interface {
	Create(ctx context.Context, i *Integration) (*Integration, error)
	GetByName(ctx context.Context, name string) (*Integration, error)
	List(ctx context.Context, page PageRequest) ([]Integration, int64, error)
	Delete(ctx context.Context, name string) error
}

// FilesSchemaName is the schema the uploaded-files datasource is exposed as.
const FilesSchemaName = "files"

// ReservedSchemaNames cannot be used for integrations or projects.
var ReservedSchemaNames = map[string]bool{
	"information_schema": true,
	FilesSchemaName:      true,
	"log":                true,
}

// IsReservedSchemaName reports whether name is reserved, case-insensitively.
func IsReservedSchemaName(name string) bool {
	return ReservedSchemaNames[strings.ToLower(name)]
}

// Validate checks that the request names a supported engine and a DSN.
// Identifier syntax is checked by the service.
func (r CreateIntegrationRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	if IsReservedSchemaName(r.Name) {
		return ErrValidation("name %q is reserved", r.Name)
	}
	switch r.Engine {
	case EngineSQLite, EngineDuckDB, EnginePostgres, EngineMSSQL, EngineFiles:
	case "":
		return ErrValidation("engine is required")
	default:
		return ErrValidation("unsupported engine %q", r.Engine)
	}
	if r.DSN == "" {
		return ErrValidation("dsn is required")
	}
	return nil
}
