package domain

import (
	"context"
	"time"
)

// Project is a user namespace grouping models, views, knowledge bases and
// other user-created objects.
type Project struct {
	ID        string
	Name      string
	Comment   string
	CreatedAt time.Time
}

// ProjectObject is a table-like object owned by a project.
type ProjectObject struct {
	ID        string
	Project   string
	Name      string
	Type      TableType
	Columns   []ColumnDescriptor
	Comment   string
	CreatedAt time.Time
}

// CreateProjectObjectRequest holds parameters for adding an object to a project.
type CreateProjectObjectRequest struct {
	Name    string             `json:"name" yaml:"name"`
	Type    TableType          `json:"type" yaml:"type"`
	Columns []ColumnDescriptor `json:"columns,omitempty" yaml:"columns,omitempty"`
	Comment string             `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// ProjectRepository persists projects and their objects.
type ProjectRepository interface {
	Create(ctx context.Context, p *Project) (*Project, error)
	GetByName(ctx context.Context, name string) (*Project, error)
	List(ctx context.Context, page PageRequest) ([]Project, int64, error)
	Delete(ctx context.Context, name string) error

	AddObject(ctx context.Context, o *ProjectObject) (*ProjectObject, error)
	ListObjects(ctx context.Context, project string) ([]ProjectObject, error)
	GetObject(ctx context.Context, project, name string) (*ProjectObject, error)
}

// Validate checks that the object has a name and a project object type.
func (r CreateProjectObjectRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("name is required")
	}
	switch r.Type {
	case TableTypeModel, TableTypeView, TableTypeKnowledgeBase, TableTypeAgent, TableTypeJob, TableTypeBase:
	case "":
		return ErrValidation("type is required")
	default:
		return ErrValidation("unsupported object type %q", r.Type)
	}
	for i, c := range r.Columns {
		if c.Name == "" {
			return ErrValidation("column %d: name is required", i)
		}
	}
	return nil
}
