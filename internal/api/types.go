package api

import (
	"time"

	"fedcat/internal/domain"
)

// Integration is the API view of an integration. The DSN may hold
// credentials and is never returned.
type Integration struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Engine    string    `json:"engine"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IntegrationList is a page of integrations.
type IntegrationList struct {
	Integrations  []Integration `json:"integrations"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	TotalCount    int64         `json:"total_count"`
}

// Project is the API view of a project.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectList is a page of projects.
type ProjectList struct {
	Projects      []Project `json:"projects"`
	NextPageToken string    `json:"next_page_token,omitempty"`
	TotalCount    int64     `json:"total_count"`
}

// CreateProjectRequest is the body of POST /v1/projects.
type CreateProjectRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment,omitempty"`
}

// ProjectObject is the API view of a project object.
type ProjectObject struct {
	ID        string                    `json:"id"`
	Project   string                    `json:"project"`
	Name      string                    `json:"name"`
	Type      domain.TableType          `json:"type"`
	Columns   []domain.ColumnDescriptor `json:"columns"`
	Comment   string                    `json:"comment,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
}

// ProjectObjectList is the objects of one project.
type ProjectObjectList struct {
	Objects []ProjectObject `json:"objects"`
}

// QueryRequest is the body of POST /v1/information-schema/query.
type QueryRequest struct {
	SQL string `json:"sql"`
}

// IntegrationHealth is the body of GET /v1/integrations/health.
type IntegrationHealth struct {
	Integrations []domain.IntegrationStatus `json:"integrations"`
	Healthy      bool                       `json:"healthy"`
}

// === Mapping helpers ===

func integrationToAPI(i domain.Integration) Integration {
	return Integration{
		ID:        i.ID,
		Name:      i.Name,
		Engine:    i.Engine,
		Comment:   i.Comment,
		CreatedAt: i.CreatedAt,
	}
}

func projectToAPI(p domain.Project) Project {
	return Project{
		ID:        p.ID,
		Name:      p.Name,
		Comment:   p.Comment,
		CreatedAt: p.CreatedAt,
	}
}

func projectObjectToAPI(o domain.ProjectObject) ProjectObject {
	cols := o.Columns
	if cols == nil {
		cols = []domain.ColumnDescriptor{}
	}
	return ProjectObject{
		ID:        o.ID,
		Project:   o.Project,
		Name:      o.Name,
		Type:      o.Type,
		Columns:   cols,
		Comment:   o.Comment,
		CreatedAt: o.CreatedAt,
	}
}
