// Package catalog aggregates integrations, persistent datasources and
// projects into the single schema namespace information_schema reads from.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"fedcat/internal/datasource"
	"fedcat/internal/ddl"
	"fedcat/internal/domain"
)

// checkConcurrency bounds the number of concurrent integration pings.
const checkConcurrency = 8

// Deps holds the dependencies of a Service.
type Deps struct {
	Integrations domain.IntegrationRepository
	Projects     domain.ProjectRepository
	// Opener turns integration registrations into datasource handles.
	// Defaults to datasource.DefaultOpener.
	Opener datasource.Opener
	// Persistent datasources are always present, in this order.
	Persistent []domain.NamedDataSource
	// ControlPlaneDBPath is the path of the SQLite control-plane file.
	// File-backed integrations may not point at it.
	ControlPlaneDBPath string
	Logger             *slog.Logger
}

// Service implements domain.Catalog and the integration/project management
// operations behind the CLI and HTTP surfaces.
type Service struct {
	integrations       domain.IntegrationRepository
	projects           domain.ProjectRepository
	opener             datasource.Opener
	persistent         []domain.NamedDataSource
	controlPlaneDBPath string
	logger             *slog.Logger

	mu      sync.Mutex
	handles map[string]datasource.Handle // keyed by lowercased integration name
}

var _ domain.Catalog = (*Service)(nil)

// New creates a catalog Service.
func New(deps Deps) *Service {
	opener := deps.Opener
	if opener == nil {
		opener = datasource.DefaultOpener
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		integrations:       deps.Integrations,
		projects:           deps.Projects,
		opener:             opener,
		persistent:         append([]domain.NamedDataSource(nil), deps.Persistent...),
		controlPlaneDBPath: deps.ControlPlaneDBPath,
		logger:             logger.With("component", "catalog"),
		handles:            make(map[string]datasource.Handle),
	}
}

// ListDatabases returns information_schema, the persistent datasources,
// projects and integrations, in that order.
func (s *Service) ListDatabases(ctx context.Context) ([]domain.Database, error) {
	out := []domain.Database{{Name: "information_schema", Type: domain.DatabaseTypeSystem}}
	for _, p := range s.persistent {
		out = append(out, domain.Database{Name: p.Name, Type: domain.DatabaseTypeFiles, Engine: domain.EngineFiles})
	}

	projects, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		out = append(out, domain.Database{Name: p.Name, Type: domain.DatabaseTypeProject})
	}

	integrations, err := s.allIntegrations(ctx)
	if err != nil {
		return nil, err
	}
	for _, i := range integrations {
		if s.persistentSource(i.Name) != nil {
			continue
		}
		out = append(out, domain.Database{Name: i.Name, Type: domain.DatabaseTypeData, Engine: i.Engine})
	}
	return out, nil
}

// PersistentDataSources returns the always-present datasources.
func (s *Service) PersistentDataSources() []domain.NamedDataSource {
	return append([]domain.NamedDataSource(nil), s.persistent...)
}

// ListIntegrationNames returns every registered integration name.
func (s *Service) ListIntegrationNames(ctx context.Context) ([]string, error) {
	integrations, err := s.allIntegrations(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(integrations))
	for i, in := range integrations {
		names[i] = in.Name
	}
	return names, nil
}

// ListProjectNames returns every project name.
func (s *Service) ListProjectNames(ctx context.Context) ([]string, error) {
	projects, err := s.allProjects(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	return names, nil
}

// Resolve returns the datasource behind a schema name. Persistent
// datasources shadow projects, which shadow integrations.
func (s *Service) Resolve(ctx context.Context, name string) (domain.DataSource, error) {
	if src := s.persistentSource(name); src != nil {
		return src, nil
	}

	p, err := s.projects.GetByName(ctx, name)
	if err == nil {
		return &projectSource{repo: s.projects, project: p.Name}, nil
	}
	if !domain.IsNotFound(err) {
		return nil, fmt.Errorf("get project %q: %w", name, err)
	}

	in, err := s.integrations.GetByName(ctx, name)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.ErrNotFound("schema %q not found", name)
		}
		return nil, fmt.Errorf("get integration %q: %w", name, err)
	}
	return s.handle(ctx, *in)
}

func (s *Service) persistentSource(name string) domain.DataSource {
	for _, p := range s.persistent {
		if strings.EqualFold(p.Name, name) {
			return p.Source
		}
	}
	return nil
}

// handle returns the memoized handle for an integration, opening it on
// first use. Open runs outside s.mu. A handle that loses a race on the
// same name is closed.
func (s *Service) handle(ctx context.Context, in domain.Integration) (datasource.Handle, error) {
	key := strings.ToLower(in.Name)

	s.mu.Lock()
	h, ok := s.handles[key]
	s.mu.Unlock()
	if ok {
		return h, nil
	}

	opened, err := s.opener.Open(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("open integration %q: %w", in.Name, err)
	}

	s.mu.Lock()
	if h, ok := s.handles[key]; ok {
		s.mu.Unlock()
		if err := opened.Close(); err != nil {
			s.logger.Warn("close duplicate handle failed", "integration", in.Name, "error", err)
		}
		return h, nil
	}
	s.handles[key] = opened
	s.mu.Unlock()

	s.logger.Debug("integration opened", "integration", in.Name, "engine", in.Engine)
	return opened, nil
}

// evict closes and forgets the handle for an integration, if any.
func (s *Service) evict(name string) {
	key := strings.ToLower(name)

	s.mu.Lock()
	h, ok := s.handles[key]
	delete(s.handles, key)
	s.mu.Unlock()

	if ok {
		if err := h.Close(); err != nil {
			s.logger.Warn("close integration failed", "integration", name, "error", err)
		}
	}
}

// === Integrations ===

// AddIntegration validates and registers an integration. The datasource is
// not opened until it is first resolved.
func (s *Service) AddIntegration(ctx context.Context, req domain.CreateIntegrationRequest) (*domain.Integration, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ddl.ValidateIdentifier(req.Name); err != nil {
		return nil, domain.ErrValidation("invalid integration name: %s", err.Error())
	}
	if err := s.checkNameFree(ctx, req.Name); err != nil {
		return nil, err
	}
	if err := s.enforceControlPlaneSeparation(req); err != nil {
		return nil, err
	}

	in, err := s.integrations.Create(ctx, &domain.Integration{
		Name:    req.Name,
		Engine:  req.Engine,
		DSN:     req.DSN,
		Comment: req.Comment,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("integration added", "integration", in.Name, "engine", in.Engine)
	return in, nil
}

// checkNameFree rejects names already used by any schema.
func (s *Service) checkNameFree(ctx context.Context, name string) error {
	if s.persistentSource(name) != nil {
		return domain.ErrValidation("name %q is reserved", name)
	}
	if _, err := s.projects.GetByName(ctx, name); err == nil {
		return domain.ErrConflict("project %q already exists", name)
	} else if !domain.IsNotFound(err) {
		return err
	}
	if _, err := s.integrations.GetByName(ctx, name); err == nil {
		return domain.ErrConflict("integration %q already exists", name)
	} else if !domain.IsNotFound(err) {
		return err
	}
	return nil
}

// enforceControlPlaneSeparation rejects file-backed integrations that point
// at the control-plane database.
func (s *Service) enforceControlPlaneSeparation(req domain.CreateIntegrationRequest) error {
	if s.controlPlaneDBPath == "" {
		return nil
	}
	if req.Engine != domain.EngineSQLite && req.Engine != domain.EngineDuckDB {
		return nil
	}
	target, err := filepath.Abs(req.DSN)
	if err != nil {
		return domain.ErrValidation("invalid integration path: %v", err)
	}
	control, err := filepath.Abs(s.controlPlaneDBPath)
	if err != nil {
		return domain.ErrValidation("invalid control-plane path: %v", err)
	}
	if filepath.Clean(target) == filepath.Clean(control) {
		return domain.ErrValidation("integration %q cannot use the control-plane database", req.Name)
	}
	return nil
}

// GetIntegration returns one integration by name.
func (s *Service) GetIntegration(ctx context.Context, name string) (*domain.Integration, error) {
	return s.integrations.GetByName(ctx, name)
}

// ListIntegrations returns a page of integrations.
func (s *Service) ListIntegrations(ctx context.Context, page domain.PageRequest) ([]domain.Integration, int64, error) {
	return s.integrations.List(ctx, page)
}

// RemoveIntegration deletes an integration and closes its handle.
func (s *Service) RemoveIntegration(ctx context.Context, name string) error {
	if err := s.integrations.Delete(ctx, name); err != nil {
		return err
	}
	s.evict(name)
	s.logger.Info("integration removed", "integration", name)
	return nil
}

// CheckIntegrations pings every integration concurrently. Failures are
// reported per integration; the returned error is reserved for listing
// failures.
func (s *Service) CheckIntegrations(ctx context.Context) ([]domain.IntegrationStatus, error) {
	integrations, err := s.allIntegrations(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]domain.IntegrationStatus, len(integrations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)

	for i, in := range integrations {
		g.Go(func() error {
			statuses[i] = s.check(gctx, in)
			return nil
		})
	}
	_ = g.Wait()

	return statuses, nil
}

func (s *Service) check(ctx context.Context, in domain.Integration) domain.IntegrationStatus {
	st := domain.IntegrationStatus{Name: in.Name, Engine: in.Engine}
	h, err := s.handle(ctx, in)
	if err == nil {
		err = h.Ping(ctx)
		if err != nil {
			s.evict(in.Name)
		}
	}
	if err != nil {
		st.Error = err.Error()
		s.logger.Warn("integration check failed", "integration", in.Name, "error", err)
		return st
	}
	st.OK = true
	return st
}

// === Projects ===

// CreateProject creates an empty project.
func (s *Service) CreateProject(ctx context.Context, name, comment string) (*domain.Project, error) {
	if name == "" {
		return nil, domain.ErrValidation("name is required")
	}
	if domain.IsReservedSchemaName(name) {
		return nil, domain.ErrValidation("name %q is reserved", name)
	}
	if err := ddl.ValidateIdentifier(name); err != nil {
		return nil, domain.ErrValidation("invalid project name: %s", err.Error())
	}
	if err := s.checkNameFree(ctx, name); err != nil {
		return nil, err
	}

	p, err := s.projects.Create(ctx, &domain.Project{Name: name, Comment: comment})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", "project", p.Name)
	return p, nil
}

// GetProject returns one project by name.
func (s *Service) GetProject(ctx context.Context, name string) (*domain.Project, error) {
	return s.projects.GetByName(ctx, name)
}

// ListProjects returns a page of projects.
func (s *Service) ListProjects(ctx context.Context, page domain.PageRequest) ([]domain.Project, int64, error) {
	return s.projects.List(ctx, page)
}

// DropProject deletes a project and its objects.
func (s *Service) DropProject(ctx context.Context, name string) error {
	if err := s.projects.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info("project dropped", "project", name)
	return nil
}

// AddProjectObject adds a table-like object to a project.
func (s *Service) AddProjectObject(ctx context.Context, project string, req domain.CreateProjectObjectRequest) (*domain.ProjectObject, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ddl.ValidateIdentifier(req.Name); err != nil {
		return nil, domain.ErrValidation("invalid object name: %s", err.Error())
	}
	for _, c := range req.Columns {
		if err := ddl.ValidateIdentifier(c.Name); err != nil {
			return nil, domain.ErrValidation("invalid column name: %s", err.Error())
		}
		if err := ddl.ValidateColumnType(c.Type); err != nil {
			return nil, domain.ErrValidation("column %q: %s", c.Name, err.Error())
		}
	}

	o, err := s.projects.AddObject(ctx, &domain.ProjectObject{
		Project: project,
		Name:    req.Name,
		Type:    req.Type,
		Columns: req.Columns,
		Comment: req.Comment,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project object added", "project", project, "object", o.Name, "type", o.Type)
	return o, nil
}

// ListProjectObjects returns the objects of a project.
func (s *Service) ListProjectObjects(ctx context.Context, project string) ([]domain.ProjectObject, error) {
	return s.projects.ListObjects(ctx, project)
}

// Close closes every opened integration handle and any persistent
// datasource that holds resources.
func (s *Service) Close() error {
	s.mu.Lock()
	handles := s.handles
	s.handles = make(map[string]datasource.Handle)
	s.mu.Unlock()

	var errs []error
	for name, h := range handles {
		if err := h.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
	}
	for _, p := range s.persistent {
		if c, ok := p.Source.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", p.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// === Paging ===

func (s *Service) allIntegrations(ctx context.Context) ([]domain.Integration, error) {
	items, err := collectPages(ctx, s.integrations.List)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}
	return items, nil
}

func (s *Service) allProjects(ctx context.Context) ([]domain.Project, error) {
	items, err := collectPages(ctx, s.projects.List)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return items, nil
}

// collectPages follows page tokens until the listing is exhausted.
func collectPages[T any](ctx context.Context, list func(context.Context, domain.PageRequest) ([]T, int64, error)) ([]T, error) {
	var out []T
	page := domain.AllPages
	for {
		items, total, err := list(ctx, page)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		next := domain.NextPageToken(page.Offset(), page.Limit(), total)
		if next == "" || len(items) == 0 {
			return out, nil
		}
		page.PageToken = next
	}
}
