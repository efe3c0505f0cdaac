// Package api serves the information_schema virtual tables and the catalog
// management endpoints over HTTP.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"fedcat/internal/domain"
	"fedcat/internal/infoschema"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// CatalogService is the management surface behind the integration and
// project endpoints. Implemented by catalog.Service.
type CatalogService interface {
	ListIntegrations(ctx context.Context, page domain.PageRequest) ([]domain.Integration, int64, error)
	GetIntegration(ctx context.Context, name string) (*domain.Integration, error)
	AddIntegration(ctx context.Context, req domain.CreateIntegrationRequest) (*domain.Integration, error)
	RemoveIntegration(ctx context.Context, name string) error
	CheckIntegrations(ctx context.Context) ([]domain.IntegrationStatus, error)

	ListProjects(ctx context.Context, page domain.PageRequest) ([]domain.Project, int64, error)
	GetProject(ctx context.Context, name string) (*domain.Project, error)
	CreateProject(ctx context.Context, name, comment string) (*domain.Project, error)
	DropProject(ctx context.Context, name string) error
	AddProjectObject(ctx context.Context, project string, req domain.CreateProjectObjectRequest) (*domain.ProjectObject, error)
	ListProjectObjects(ctx context.Context, project string) ([]domain.ProjectObject, error)
}

// InfoSchema is the virtual table registry. Implemented by
// *infoschema.Schema.
type InfoSchema interface {
	Info() []infoschema.TableInfo
	Query(ctx context.Context, name string, where *pg_query.Node) (*infoschema.ResultSet, error)
	Execute(ctx context.Context, sql string) (*infoschema.ResultSet, error)
}

// Handler implements the HTTP endpoints.
type Handler struct {
	infoSchema InfoSchema
	catalog    CatalogService
	logger     *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(infoSchema InfoSchema, catalog CatalogService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		infoSchema: infoSchema,
		catalog:    catalog,
		logger:     logger.With("component", "api"),
	}
}

// Routes mounts the /v1 endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/information-schema", func(r chi.Router) {
		r.Get("/tables", h.ListVirtualTables)
		r.Get("/tables/{name}", h.QueryVirtualTable)
		r.Post("/query", h.ExecuteQuery)
	})

	r.Route("/integrations", func(r chi.Router) {
		r.Get("/", h.ListIntegrations)
		r.Post("/", h.AddIntegration)
		r.Get("/health", h.CheckIntegrations)
		r.Get("/{name}", h.GetIntegration)
		r.Delete("/{name}", h.RemoveIntegration)
	})

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Post("/", h.CreateProject)
		r.Get("/{name}", h.GetProject)
		r.Delete("/{name}", h.DropProject)
		r.Get("/{name}/objects", h.ListProjectObjects)
		r.Post("/{name}/objects", h.AddProjectObject)
	})
}

// pageFromQuery extracts a PageRequest from max_results/page_token.
func pageFromQuery(r *http.Request) (domain.PageRequest, error) {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if _, err := domain.ParsePageToken(p.PageToken); err != nil {
		return p, err
	}
	if v := r.URL.Query().Get("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, domain.ErrValidation("invalid max_results %q", v)
		}
		p.MaxResults = n
	}
	return p, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.ErrValidation("invalid request body: %v", err)
	}
	return nil
}
