package api

import (
	"context"

	"fedcat/internal/domain"
)

// mockCatalogService implements CatalogService. Unconfigured methods panic.
type mockCatalogService struct {
	listIntegrationsFn   func(ctx context.Context, page domain.PageRequest) ([]domain.Integration, int64, error)
	getIntegrationFn     func(ctx context.Context, name string) (*domain.Integration, error)
	addIntegrationFn     func(ctx context.Context, req domain.CreateIntegrationRequest) (*domain.Integration, error)
	removeIntegrationFn  func(ctx context.Context, name string) error
	checkIntegrationsFn  func(ctx context.Context) ([]domain.IntegrationStatus, error)
	listProjectsFn       func(ctx context.Context, page domain.PageRequest) ([]domain.Project, int64, error)
	getProjectFn         func(ctx context.Context, name string) (*domain.Project, error)
	createProjectFn      func(ctx context.Context, name, comment string) (*domain.Project, error)
	dropProjectFn        func(ctx context.Context, name string) error
	addProjectObjectFn   func(ctx context.Context, project string, req domain.CreateProjectObjectRequest) (*domain.ProjectObject, error)
	listProjectObjectsFn func(ctx context.Context, project string) ([]domain.ProjectObject, error)
}

var _ CatalogService = (*mockCatalogService)(nil)

func (m *mockCatalogService) ListIntegrations(ctx context.Context, page domain.PageRequest) ([]domain.Integration, int64, error) {
	if m.listIntegrationsFn == nil {
		panic("unexpected call to mockCatalogService.ListIntegrations")
	}
	return m.listIntegrationsFn(ctx, page)
}

func (m *mockCatalogService) GetIntegration(ctx context.Context, name string) (*domain.Integration, error) {
	if m.getIntegrationFn == nil {
		panic("unexpected call to mockCatalogService.GetIntegration")
	}
	return m.getIntegrationFn(ctx, name)
}

func (m *mockCatalogService) AddIntegration(ctx context.Context, req domain.CreateIntegrationRequest) (*domain.Integration, error) {
	if m.addIntegrationFn == nil {
		panic("unexpected call to mockCatalogService.AddIntegration")
	}
	return m.addIntegrationFn(ctx, req)
}

func (m *mockCatalogService) RemoveIntegration(ctx context.Context, name string) error {
	if m.removeIntegrationFn == nil {
		panic("unexpected call to mockCatalogService.RemoveIntegration")
	}
	return m.removeIntegrationFn(ctx, name)
}

func (m *mockCatalogService) CheckIntegrations(ctx context.Context) ([]domain.IntegrationStatus, error) {
	if m.checkIntegrationsFn == nil {
		panic("unexpected call to mockCatalogService.CheckIntegrations")
	}
	return m.checkIntegrationsFn(ctx)
}

func (m *mockCatalogService) ListProjects(ctx context.Context, page domain.PageRequest) ([]domain.Project, int64, error) {
	if m.listProjectsFn == nil {
		panic("unexpected call to mockCatalogService.ListProjects")
	}
	return m.listProjectsFn(ctx, page)
}

func (m *mockCatalogService) GetProject(ctx context.Context, name string) (*domain.Project, error) {
	if m.getProjectFn == nil {
		panic("unexpected call to mockCatalogService.GetProject")
	}
	return m.getProjectFn(ctx, name)
}

func (m *mockCatalogService) CreateProject(ctx context.Context, name, comment string) (*domain.Project, error) {
	if m.createProjectFn == nil {
		panic("unexpected call to mockCatalogService.CreateProject")
	}
	return m.createProjectFn(ctx, name, comment)
}

func (m *mockCatalogService) DropProject(ctx context.Context, name string) error {
	if m.dropProjectFn == nil {
		panic("unexpected call to mockCatalogService.DropProject")
	}
	return m.dropProjectFn(ctx, name)
}

func (m *mockCatalogService) AddProjectObject(ctx context.Context, project string, req domain.CreateProjectObjectRequest) (*domain.ProjectObject, error) {
	if m.addProjectObjectFn == nil {
		panic("unexpected call to mockCatalogService.AddProjectObject")
	}
	return m.addProjectObjectFn(ctx, project, req)
}

func (m *mockCatalogService) ListProjectObjects(ctx context.Context, project string) ([]domain.ProjectObject, error) {
	if m.listProjectObjectsFn == nil {
		panic("unexpected call to mockCatalogService.ListProjectObjects")
	}
	return m.listProjectObjectsFn(ctx, project)
}

// stubCatalog is a fixed domain.Catalog backing a real infoschema.Schema.
type stubCatalog struct {
	integrations []string
	sources      map[string]domain.DataSource
}

func (c *stubCatalog) ListDatabases(_ context.Context) ([]domain.Database, error) {
	out := []domain.Database{{Name: "information_schema", Type: domain.DatabaseTypeSystem}}
	for _, name := range c.integrations {
		out = append(out, domain.Database{Name: name, Type: domain.DatabaseTypeData})
	}
	return out, nil
}

func (c *stubCatalog) PersistentDataSources() []domain.NamedDataSource { return nil }

func (c *stubCatalog) ListIntegrationNames(_ context.Context) ([]string, error) {
	return c.integrations, nil
}

func (c *stubCatalog) ListProjectNames(_ context.Context) ([]string, error) { return nil, nil }

func (c *stubCatalog) Resolve(_ context.Context, name string) (domain.DataSource, error) {
	if src, ok := c.sources[name]; ok {
		return src, nil
	}
	return nil, domain.ErrNotFound("schema %q not found", name)
}

// shopSource has one table, orders(id integer, placed_at timestamp).
type shopSource struct{}

func (shopSource) ListTables(_ context.Context) ([]domain.TableDescriptor, error) {
	return []domain.TableDescriptor{{Name: "orders"}}, nil
}

func (shopSource) ListColumns(_ context.Context, table string) ([]domain.ColumnDescriptor, error) {
	if table != "orders" {
		return nil, domain.ErrNotFound("table %q not found", table)
	}
	return []domain.ColumnDescriptor{{Name: "id", Type: "integer"}, {Name: "placed_at", Type: "timestamp"}}, nil
}
