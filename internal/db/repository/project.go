package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"fedcat/internal/domain"
)

// ProjectRepo implements domain.ProjectRepository on the control plane
// SQLite database. Object column lists are stored as JSON.
type ProjectRepo struct {
	db *sql.DB
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

var _ domain.ProjectRepository = (*ProjectRepo)(nil)

func scanProject(row rowScanner) (*domain.Project, error) {
	var p domain.Project
	var created string
	if err := row.Scan(&p.ID, &p.Name, &p.Comment, &created); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	return &p, nil
}

// Create persists a new project.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	id := p.ID
	if id == "" {
		id = domain.NewID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, comment, created_at) VALUES (?, ?, ?, ?)`,
		id, p.Name, p.Comment, now())
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("project %q", p.Name))
	}
	return r.GetByName(ctx, p.Name)
}

// GetByName returns a project by name.
func (r *ProjectRepo) GetByName(ctx context.Context, name string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, comment, created_at FROM projects WHERE name = ?`, name)
	p, err := scanProject(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("project %q", name))
	}
	return p, nil
}

// List returns a page of projects ordered by creation.
func (r *ProjectRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Project, int64, error) {
	total, err := countRows(r.db, `SELECT count(*) FROM projects`)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, comment, created_at FROM projects ORDER BY created_at, name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var result []domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	return result, total, rows.Err()
}

// Delete removes a project and, through the foreign key cascade, its objects.
func (r *ProjectRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("project %q not found", name)
	}
	return nil
}

const objectSelect = `SELECT o.id, p.name, o.name, o.type, o.columns_json, o.comment, o.created_at
	FROM project_objects o JOIN projects p ON p.id = o.project_id`

func scanObject(row rowScanner) (*domain.ProjectObject, error) {
	var o domain.ProjectObject
	var typ, cols, created string
	if err := row.Scan(&o.ID, &o.Project, &o.Name, &typ, &cols, &o.Comment, &created); err != nil {
		return nil, err
	}
	o.Type = domain.TableType(typ)
	o.CreatedAt = parseTime(created)
	if err := json.Unmarshal([]byte(cols), &o.Columns); err != nil {
		return nil, fmt.Errorf("decode columns of %s.%s: %w", o.Project, o.Name, err)
	}
	return &o, nil
}

// AddObject attaches an object to an existing project.
func (r *ProjectRepo) AddObject(ctx context.Context, o *domain.ProjectObject) (*domain.ProjectObject, error) {
	p, err := r.GetByName(ctx, o.Project)
	if err != nil {
		return nil, err
	}

	cols := o.Columns
	if cols == nil {
		cols = []domain.ColumnDescriptor{}
	}
	encoded, err := json.Marshal(cols)
	if err != nil {
		return nil, fmt.Errorf("encode columns: %w", err)
	}

	id := o.ID
	if id == "" {
		id = domain.NewID()
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO project_objects (id, project_id, name, type, columns_json, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, p.ID, o.Name, string(o.Type), string(encoded), o.Comment, now())
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("object %s.%s", o.Project, o.Name))
	}
	return r.GetObject(ctx, p.Name, o.Name)
}

// ListObjects returns a project's objects in creation order.
func (r *ProjectRepo) ListObjects(ctx context.Context, project string) ([]domain.ProjectObject, error) {
	if _, err := r.GetByName(ctx, project); err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx,
		objectSelect+` WHERE p.name = ? ORDER BY o.created_at, o.name`, project)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	result := []domain.ProjectObject{}
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	return result, rows.Err()
}

// GetObject returns one object of a project.
func (r *ProjectRepo) GetObject(ctx context.Context, project, name string) (*domain.ProjectObject, error) {
	row := r.db.QueryRowContext(ctx, objectSelect+` WHERE p.name = ? AND o.name = ?`, project, name)
	o, err := scanObject(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("object %s.%s", project, name))
	}
	return o, nil
}
