package datasource

import (
	"context"

	"fedcat/internal/domain"
)

// Opener turns an integration registration into an opened Handle.
type Opener interface {
	Open(ctx context.Context, i domain.Integration) (Handle, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, i domain.Integration) (Handle, error)

// Open calls f.
func (f OpenerFunc) Open(ctx context.Context, i domain.Integration) (Handle, error) {
	return f(ctx, i)
}

// DefaultOpener dispatches on Integration.Engine.
var DefaultOpener Opener = OpenerFunc(Open)

// Open opens the datasource an integration points at. Unknown engines are
// validation errors.
func Open(ctx context.Context, i domain.Integration) (Handle, error) {
	switch i.Engine {
	case domain.EngineSQLite:
		return OpenSQLite(i.DSN)
	case domain.EngineDuckDB:
		return OpenDuckDB(i.DSN)
	case domain.EnginePostgres:
		return OpenPostgres(ctx, i.DSN)
	case domain.EngineMSSQL:
		return OpenMSSQL(ctx, i.DSN)
	case domain.EngineFiles:
		return OpenFiles(i.DSN)
	default:
		return nil, domain.ErrValidation("unsupported engine %q for integration %q", i.Engine, i.Name)
	}
}
