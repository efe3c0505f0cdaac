package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fedcat/internal/domain"
	"fedcat/internal/infoschema"
)

func newTestServer(t *testing.T, svc *mockCatalogService) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	cat := &stubCatalog{
		integrations: []string{"shop"},
		sources:      map[string]domain.DataSource{"shop": shopSource{}},
	}
	schema := infoschema.New(cat, infoschema.Options{DefaultProject: "mindsdb", Logger: logger})
	srv := httptest.NewServer(NewRouter(NewHandler(schema, svc, logger), RouterConfig{
		CORSAllowedOrigins: []string{"*"},
		Logger:             logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireError(t *testing.T, resp *http.Response, status int) Error {
	t.Helper()
	require.Equal(t, status, resp.StatusCode)
	body := decode[Error](t, resp)
	assert.Equal(t, status, body.Code)
	return body
}

func colIndex(t *testing.T, rs infoschema.ResultSet, name string) int {
	t.Helper()
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %s not in result", name)
	return -1
}

func TestHTTPStatusFromDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrNotFound("x"), http.StatusNotFound},
		{domain.ErrValidation("x"), http.StatusBadRequest},
		{domain.ErrConflict("x"), http.StatusConflict},
		{errors.Join(errors.New("wrap"), domain.ErrConflict("x")), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, httpStatusFromDomainError(tc.err))
		})
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &mockCatalogService{})
	resp := do(t, srv, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, &mockCatalogService{})
	requireError(t, do(t, srv, http.MethodGet, "/v2/nothing", ""), http.StatusNotFound)
}

func TestListVirtualTables(t *testing.T) {
	srv := newTestServer(t, &mockCatalogService{})
	resp := do(t, srv, http.MethodGet, "/v1/information-schema/tables", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string][]infoschema.TableInfo](t, resp)
	require.Len(t, body["tables"], 11)
	assert.Equal(t, "SCHEMATA", body["tables"][0].Name)
}

func TestQueryVirtualTable(t *testing.T) {
	srv := newTestServer(t, &mockCatalogService{})

	t.Run("tables scoped", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet,
			"/v1/information-schema/tables/tables?where="+url.QueryEscape("table_schema = 'shop'"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rs := decode[infoschema.ResultSet](t, resp)
		require.Len(t, rs.Rows, 1)
		assert.Equal(t, "orders", rs.Rows[0][colIndex(t, rs, "TABLE_NAME")])
		assert.Equal(t, "BASE TABLE", rs.Rows[0][colIndex(t, rs, "TABLE_TYPE")])
	})

	t.Run("columns", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet,
			"/v1/information-schema/tables/COLUMNS?where="+url.QueryEscape("table_schema = 'shop' AND table_name = 'orders'"), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		rs := decode[infoschema.ResultSet](t, resp)
		require.Len(t, rs.Rows, 2)
		dt := colIndex(t, rs, "DATA_TYPE")
		assert.Equal(t, "bigint", rs.Rows[0][dt])
		assert.Equal(t, "timestamp", rs.Rows[1][dt])
		assert.InDelta(t, 2, rs.Rows[1][colIndex(t, rs, "ORDINAL_POSITION")], 0)
	})

	t.Run("unknown table", func(t *testing.T) {
		requireError(t, do(t, srv, http.MethodGet, "/v1/information-schema/tables/views", ""), http.StatusNotFound)
	})

	t.Run("bad where", func(t *testing.T) {
		resp := do(t, srv, http.MethodGet,
			"/v1/information-schema/tables/tables?where="+url.QueryEscape("table_schema ="), "")
		requireError(t, resp, http.StatusBadRequest)
	})
}

func TestExecuteQuery(t *testing.T) {
	srv := newTestServer(t, &mockCatalogService{})

	resp := do(t, srv, http.MethodPost, "/v1/information-schema/query",
		`{"sql": "SELECT * FROM information_schema.schemata"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rs := decode[infoschema.ResultSet](t, resp)
	require.Len(t, rs.Rows, 2)
	assert.Equal(t, "shop", rs.Rows[1][1])

	tests := []struct {
		name string
		body string
	}{
		{"empty sql", `{"sql": " "}`},
		{"unknown field", `{"query": "SELECT 1"}`},
		{"malformed", `{"sql": `},
		{"not information_schema", `{"sql": "SELECT * FROM shop.orders"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			requireError(t, do(t, srv, http.MethodPost, "/v1/information-schema/query", tc.body), http.StatusBadRequest)
		})
	}
}

func TestListIntegrations(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotPage domain.PageRequest
	svc := &mockCatalogService{
		listIntegrationsFn: func(_ context.Context, page domain.PageRequest) ([]domain.Integration, int64, error) {
			gotPage = page
			return []domain.Integration{
				{ID: "1", Name: "pg", Engine: "postgres", DSN: "postgres://user:secret@db/x", CreatedAt: created},
				{ID: "2", Name: "lite", Engine: "sqlite", DSN: "/data/x.db", CreatedAt: created},
			}, 5, nil
		},
	}
	srv := newTestServer(t, svc)

	resp := do(t, srv, http.MethodGet, "/v1/integrations?max_results=2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	var list IntegrationList
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Equal(t, 2, gotPage.MaxResults)
	require.Len(t, list.Integrations, 2)
	assert.Equal(t, "pg", list.Integrations[0].Name)
	assert.Equal(t, int64(5), list.TotalCount)
	assert.Equal(t, domain.EncodePageToken(2), list.NextPageToken)

	requireError(t, do(t, srv, http.MethodGet, "/v1/integrations?max_results=lots", ""), http.StatusBadRequest)
}

func TestAddIntegration(t *testing.T) {
	svc := &mockCatalogService{
		addIntegrationFn: func(_ context.Context, req domain.CreateIntegrationRequest) (*domain.Integration, error) {
			if req.Name == "pg" {
				return nil, domain.ErrConflict("integration %q already exists", req.Name)
			}
			return &domain.Integration{ID: "9", Name: req.Name, Engine: req.Engine, DSN: req.DSN}, nil
		},
	}
	srv := newTestServer(t, svc)

	resp := do(t, srv, http.MethodPost, "/v1/integrations", `{"name":"lite","engine":"sqlite","dsn":"/tmp/x.db"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	in := decode[Integration](t, resp)
	assert.Equal(t, "lite", in.Name)
	assert.Equal(t, "sqlite", in.Engine)

	body := requireError(t, do(t, srv, http.MethodPost, "/v1/integrations", `{"name":"pg","engine":"postgres","dsn":"x"}`), http.StatusConflict)
	assert.Contains(t, body.Message, "already exists")
}

func TestGetAndRemoveIntegration(t *testing.T) {
	svc := &mockCatalogService{
		getIntegrationFn: func(_ context.Context, name string) (*domain.Integration, error) {
			if name == "pg" {
				return &domain.Integration{Name: "pg", Engine: "postgres"}, nil
			}
			return nil, domain.ErrNotFound("integration %q not found", name)
		},
		removeIntegrationFn: func(_ context.Context, name string) error {
			if name == "pg" {
				return nil
			}
			return domain.ErrNotFound("integration %q not found", name)
		},
	}
	srv := newTestServer(t, svc)

	resp := do(t, srv, http.MethodGet, "/v1/integrations/pg", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "postgres", decode[Integration](t, resp).Engine)
	requireError(t, do(t, srv, http.MethodGet, "/v1/integrations/nope", ""), http.StatusNotFound)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/v1/integrations/pg", "").StatusCode)
	requireError(t, do(t, srv, http.MethodDelete, "/v1/integrations/nope", ""), http.StatusNotFound)
}

func TestCheckIntegrations(t *testing.T) {
	statuses := []domain.IntegrationStatus{{Name: "pg", Engine: "postgres", OK: true}}
	svc := &mockCatalogService{
		checkIntegrationsFn: func(_ context.Context) ([]domain.IntegrationStatus, error) { return statuses, nil },
	}
	srv := newTestServer(t, svc)

	resp := do(t, srv, http.MethodGet, "/v1/integrations/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[IntegrationHealth](t, resp).Healthy)

	statuses = append(statuses, domain.IntegrationStatus{Name: "down", Engine: "mssql", Error: "timeout"})
	resp = do(t, srv, http.MethodGet, "/v1/integrations/health", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	health := decode[IntegrationHealth](t, resp)
	assert.False(t, health.Healthy)
	assert.Len(t, health.Integrations, 2)
}

func TestInternalErrorsHideMessage(t *testing.T) {
	svc := &mockCatalogService{
		listProjectsFn: func(_ context.Context, _ domain.PageRequest) ([]domain.Project, int64, error) {
			return nil, 0, errors.New("disk I/O error at /var/lib/meta.sqlite")
		},
	}
	srv := newTestServer(t, svc)

	body := requireError(t, do(t, srv, http.MethodGet, "/v1/projects", ""), http.StatusInternalServerError)
	assert.NotContains(t, body.Message, "meta.sqlite")
}

func TestProjects(t *testing.T) {
	var added domain.CreateProjectObjectRequest
	svc := &mockCatalogService{
		createProjectFn: func(_ context.Context, name, comment string) (*domain.Project, error) {
			if name == "" {
				return nil, domain.ErrValidation("name is required")
			}
			return &domain.Project{ID: "p1", Name: name, Comment: comment}, nil
		},
		listProjectsFn: func(_ context.Context, _ domain.PageRequest) ([]domain.Project, int64, error) {
			return []domain.Project{{ID: "p1", Name: "mindsdb"}}, 1, nil
		},
		getProjectFn: func(_ context.Context, name string) (*domain.Project, error) {
			return &domain.Project{ID: "p1", Name: name}, nil
		},
		dropProjectFn: func(_ context.Context, _ string) error { return nil },
		addProjectObjectFn: func(_ context.Context, project string, req domain.CreateProjectObjectRequest) (*domain.ProjectObject, error) {
			added = req
			return &domain.ProjectObject{ID: "o1", Project: project, Name: req.Name, Type: req.Type, Columns: req.Columns}, nil
		},
		listProjectObjectsFn: func(_ context.Context, project string) ([]domain.ProjectObject, error) {
			return []domain.ProjectObject{{Project: project, Name: "churn", Type: domain.TableTypeModel}}, nil
		},
	}
	srv := newTestServer(t, svc)

	resp := do(t, srv, http.MethodPost, "/v1/projects", `{"name":"mindsdb","comment":"default"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "default", decode[Project](t, resp).Comment)
	requireError(t, do(t, srv, http.MethodPost, "/v1/projects", `{"name":""}`), http.StatusBadRequest)

	resp = do(t, srv, http.MethodGet, "/v1/projects", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[ProjectList](t, resp)
	require.Len(t, list.Projects, 1)
	assert.Empty(t, list.NextPageToken)

	resp = do(t, srv, http.MethodGet, "/v1/projects/mindsdb", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/v1/projects/mindsdb/objects",
		`{"name":"churn","type":"MODEL","columns":[{"name":"score","type":"double"}]}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	obj := decode[ProjectObject](t, resp)
	assert.Equal(t, "mindsdb", obj.Project)
	assert.Equal(t, domain.TableTypeModel, added.Type)
	assert.Equal(t, []domain.ColumnDescriptor{{Name: "score", Type: "double"}}, added.Columns)

	resp = do(t, srv, http.MethodGet, "/v1/projects/mindsdb/objects", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	objects := decode[ProjectObjectList](t, resp)
	require.Len(t, objects.Objects, 1)
	assert.Equal(t, []domain.ColumnDescriptor{}, objects.Objects[0].Columns)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/v1/projects/mindsdb", "").StatusCode)
}
