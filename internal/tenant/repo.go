package tenant

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Repository defines persistence operations for organizations.
type Repository interface {
	FindByUser(ctx context.Context, userID int64) (*shared.Organization, error)
	Get(ctx context.Context, orgID int64) (*shared.Organization, error)
	UpdateName(ctx context.Context, orgID int64, name string) error
	Disable(ctx context.Context, orgID int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const orgColumns = `o.id, o.name, o.owner_user_id, o.deleted_at, o.created_at, o.updated_at`

// FindByUser fetches the organization the user belongs to.
func (r *PGRepository) FindByUser(ctx context.Context, userID int64) (*shared.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations o JOIN users u ON u.organization_id = o.id WHERE u.id = $1`
	return r.scanOne(ctx, query, userID)
}

// Get fetches an organization by id.
func (r *PGRepository) Get(ctx context.Context, orgID int64) (*shared.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations o WHERE o.id = $1`
	return r.scanOne(ctx, query, orgID)
}

// UpdateName renames an organization.
func (r *PGRepository) UpdateName(ctx context.Context, orgID int64, name string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET name = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`, name, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Disable soft-disables an organization by setting deleted_at.
func (r *PGRepository) Disable(ctx context.Context, orgID int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE organizations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) scanOne(ctx context.Context, query string, arg any) (*shared.Organization, error) {
	var org shared.Organization
	err := r.pool.QueryRow(ctx, query, arg).Scan(&org.ID, &org.Name, &org.OwnerUserID, &org.DeletedAt, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

var _ Repository = (*PGRepository)(nil)
