package gains

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballast-erp/ballast-erp/internal/platform/db"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// TxRepository is the storage slice available inside a gain transaction.
type TxRepository interface {
	InsertGain(ctx context.Context, g *DryingGain) error
	// IncrementProductStock adds quantity to the product's stock and returns
	// the new level. Missing product maps to shared.ErrNotFound.
	IncrementProductStock(ctx context.Context, orgID, productID, quantity int64) (int64, error)
}

// Repository provides gain reads, transactional writes and the post-commit
// activation flip.
type Repository interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	List(ctx context.Context, orgID, productID int64) ([]DryingGain, error)
	SetProductActive(ctx context.Context, orgID, productID int64, active bool) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL gain repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{q: tx})
	})
}

func (r *repository) List(ctx context.Context, orgID, productID int64) ([]DryingGain, error) {
	query := `SELECT id, organization_id, product_id, quantity, unit_cost, note, created_at
FROM drying_gains WHERE organization_id = $1`
	args := []any{orgID}
	if productID > 0 {
		query += ` AND product_id = $2`
		args = append(args, productID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []DryingGain
	for rows.Next() {
		var g DryingGain
		if err := rows.Scan(&g.ID, &g.OrganizationID, &g.ProductID, &g.Quantity, &g.UnitCost, &g.Note, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repository) SetProductActive(ctx context.Context, orgID, productID int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET active = $1, updated_at = NOW() WHERE id = $2 AND organization_id = $3`,
		active, productID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

type txRepository struct {
	q pgx.Tx
}

func (t *txRepository) InsertGain(ctx context.Context, g *DryingGain) error {
	now := time.Now().UTC()
	err := t.q.QueryRow(ctx,
		`INSERT INTO drying_gains (organization_id, product_id, quantity, unit_cost, note, created_at)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		g.OrganizationID, g.ProductID, g.Quantity, g.UnitCost, g.Note, now).Scan(&g.ID)
	if err != nil {
		return err
	}
	g.CreatedAt = now
	return nil
}

func (t *txRepository) IncrementProductStock(ctx context.Context, orgID, productID, quantity int64) (int64, error) {
	var stock int64
	err := t.q.QueryRow(ctx,
		`UPDATE products SET stock = stock + $1, updated_at = NOW()
WHERE id = $2 AND organization_id = $3 RETURNING stock`,
		quantity, productID, orgID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return stock, nil
}
