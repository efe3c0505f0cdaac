// Package app wires the control-plane store, datasources, catalog service
// and information_schema registry into one application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fedcat/internal/api"
	"fedcat/internal/config"
	"fedcat/internal/datasource"
	internaldb "fedcat/internal/db"
	"fedcat/internal/db/crypto"
	"fedcat/internal/db/repository"
	"fedcat/internal/domain"
	"fedcat/internal/infoschema"
	"fedcat/internal/middleware"
	"fedcat/internal/service/catalog"
)

// Deps holds the external dependencies that main() must provide.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	Logger  *slog.Logger
	// Opener overrides how integrations are opened. Nil means
	// datasource.DefaultOpener.
	Opener datasource.Opener
}

// App holds the fully-wired application.
type App struct {
	Catalog    *catalog.Service
	InfoSchema *infoschema.Schema

	cfg    *config.Config
	db     *sql.DB
	ownsDB bool
	logger *slog.Logger
}

// New wires repositories, the files datasource, the catalog service and the
// information_schema registry. A configured seed file is applied.
func New(ctx context.Context, deps Deps) (*App, error) {
	cfg := deps.Cfg
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	enc, err := crypto.NewEncryptor(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY: %w", err)
	}

	files, err := datasource.OpenFiles(cfg.FilesDir)
	if err != nil {
		return nil, fmt.Errorf("open files datasource: %w", err)
	}

	svc := catalog.New(catalog.Deps{
		Integrations: repository.NewIntegrationRepo(deps.WriteDB, enc),
		Projects:     repository.NewProjectRepo(deps.WriteDB),
		Opener:       deps.Opener,
		Persistent: []domain.NamedDataSource{
			{Name: domain.FilesSchemaName, Source: files},
		},
		ControlPlaneDBPath: cfg.MetaDBPath,
		Logger:             logger,
	})

	schema := infoschema.New(svc, infoschema.Options{
		DefaultProject: cfg.DefaultProject,
		Logger:         logger.With("component", "infoschema"),
	})

	a := &App{Catalog: svc, InfoSchema: schema, cfg: cfg, db: deps.WriteDB, logger: logger}

	if cfg.SeedFile != "" {
		seed, err := LoadSeed(cfg.SeedFile)
		if err != nil {
			_ = svc.Close()
			return nil, err
		}
		if err := ApplySeed(ctx, svc, seed, logger); err != nil {
			_ = svc.Close()
			return nil, err
		}
	}
	return a, nil
}

// Open opens the control-plane database at cfg.MetaDBPath, applies
// migrations and wires the application. The returned App owns the database.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	writeDB, err := internaldb.OpenSQLite(cfg.MetaDBPath, internaldb.ModeWrite, 0)
	if err != nil {
		return nil, fmt.Errorf("open control plane: %w", err)
	}
	if err := internaldb.RunMigrations(writeDB); err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("migrate control plane: %w", err)
	}

	a, err := New(ctx, Deps{Cfg: cfg, WriteDB: writeDB, Logger: logger})
	if err != nil {
		_ = writeDB.Close()
		return nil, err
	}
	a.ownsDB = true
	return a, nil
}

// Router builds the HTTP handler for the server.
func (a *App) Router() http.Handler {
	h := api.NewHandler(a.InfoSchema, a.Catalog, a.logger)
	return api.NewRouter(h, api.RouterConfig{
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: a.cfg.RateLimitRPS,
			Burst:             a.cfg.RateLimitBurst,
		},
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		Logger:             a.logger.With("component", "http"),
	})
}

// Close releases datasource handles and, when owned, the control-plane
// database.
func (a *App) Close() error {
	err := a.Catalog.Close()
	if a.ownsDB {
		err = errors.Join(err, a.db.Close())
	}
	return err
}

// ListenAddr is the configured HTTP listen address.
func (a *App) ListenAddr() string { return a.cfg.ListenAddr }
