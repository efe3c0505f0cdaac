package catalog

import (
	"context"

	"fedcat/internal/domain"
)

// projectSource exposes a project's objects as tables.
type projectSource struct {
	repo    domain.ProjectRepository
	project string
}

var _ domain.DataSource = (*projectSource)(nil)

func (p *projectSource) ListTables(ctx context.Context) ([]domain.TableDescriptor, error) {
	objects, err := p.repo.ListObjects(ctx, p.project)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TableDescriptor, len(objects))
	for i, o := range objects {
		created := o.CreatedAt
		out[i] = domain.TableDescriptor{
			Name:      o.Name,
			Type:      o.Type,
			CreatedAt: &created,
			Comment:   o.Comment,
		}
	}
	return out, nil
}

// ListColumns returns the stored column list of an object.
func (p *projectSource) ListColumns(ctx context.Context, table string) ([]domain.ColumnDescriptor, error) {
	o, err := p.repo.GetObject(ctx, p.project, table)
	if err != nil {
		return nil, err
	}
	return o.Columns, nil
}
