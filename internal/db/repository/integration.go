package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"fedcat/internal/db/crypto"
	"fedcat/internal/domain"
)

// IntegrationRepo implements domain.IntegrationRepository on the control
// plane SQLite database. DSNs are stored encrypted, bound to the
// lowercased integration name.
type IntegrationRepo struct {
	db  *sql.DB
	enc *crypto.Encryptor
}

// NewIntegrationRepo creates a new IntegrationRepo.
func NewIntegrationRepo(db *sql.DB, enc *crypto.Encryptor) *IntegrationRepo {
	return &IntegrationRepo{db: db, enc: enc}
}

// Compile-time interface check.
var _ domain.IntegrationRepository = (*IntegrationRepo)(nil)

const integrationColumns = `id, name, engine, dsn, comment, created_at`

func dsnLabel(name string) string { return strings.ToLower(name) }

func (r *IntegrationRepo) scan(row rowScanner) (*domain.Integration, error) {
	var i domain.Integration
	var sealed, created string
	if err := row.Scan(&i.ID, &i.Name, &i.Engine, &sealed, &i.Comment, &created); err != nil {
		return nil, err
	}
	dsn, err := r.enc.Decrypt(sealed, dsnLabel(i.Name))
	if err != nil {
		return nil, fmt.Errorf("decrypt dsn of integration %q: %w", i.Name, err)
	}
	i.DSN = dsn
	i.CreatedAt = parseTime(created)
	return &i, nil
}

// Create persists a new integration. Names are unique case-insensitively.
func (r *IntegrationRepo) Create(ctx context.Context, i *domain.Integration) (*domain.Integration, error) {
	id := i.ID
	if id == "" {
		id = domain.NewID()
	}
	sealed, err := r.enc.Encrypt(i.DSN, dsnLabel(i.Name))
	if err != nil {
		return nil, fmt.Errorf("encrypt dsn: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO integrations (id, name, engine, dsn, comment, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, i.Name, i.Engine, sealed, i.Comment, now())
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("integration %q", i.Name))
	}
	return r.GetByName(ctx, i.Name)
}

// GetByName returns an integration by name.
func (r *IntegrationRepo) GetByName(ctx context.Context, name string) (*domain.Integration, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+integrationColumns+` FROM integrations WHERE name = ?`, name)
	i, err := r.scan(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("integration %q", name))
	}
	return i, nil
}

// List returns a page of integrations ordered by creation.
func (r *IntegrationRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Integration, int64, error) {
	total, err := countRows(r.db, `SELECT count(*) FROM integrations`)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+integrationColumns+` FROM integrations ORDER BY created_at, name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close() //nolint:errcheck

	var result []domain.Integration
	for rows.Next() {
		i, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *i)
	}
	return result, total, rows.Err()
}

// Delete removes an integration by name.
func (r *IntegrationRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM integrations WHERE name = ?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("integration %q not found", name)
	}
	return nil
}
