package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Repository persists manual transactions and serves the window reads the
// aggregator and reporting layer consume.
type Repository interface {
	CreateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	GetTransaction(ctx context.Context, orgID, id int64) (Transaction, error)
	ListTransactions(ctx context.Context, orgID int64, page shared.Pagination) ([]Transaction, error)
	CountTransactions(ctx context.Context, orgID int64) (int, error)
	UpdateTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, orgID, id int64) error

	OrdersInWindow(ctx context.Context, orgID int64, from time.Time) ([]OrderRecord, error)
	TransactionsInWindow(ctx context.Context, orgID int64, from time.Time) ([]Transaction, error)
	ItemSalesSince(ctx context.Context, orgID int64, from time.Time) ([]ItemSale, error)
	ValuationRows(ctx context.Context, orgID int64) ([]ValuationRow, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) CreateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	now := time.Now().UTC()
	if t.Date.IsZero() {
		t.Date = now
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (organization_id, type, amount, category, description, date, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		t.OrganizationID, t.Type, t.Amount, t.Category, t.Description, t.Date, now).Scan(&t.ID)
	if err != nil {
		return Transaction{}, err
	}
	t.CreatedAt = now
	return t, nil
}

func (r *repository) GetTransaction(ctx context.Context, orgID, id int64) (Transaction, error) {
	var t Transaction
	err := r.pool.QueryRow(ctx,
		`SELECT id, organization_id, type, amount, category, description, date, created_at
FROM transactions WHERE id = $1 AND organization_id = $2`, id, orgID).
		Scan(&t.ID, &t.OrganizationID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotFound
		}
		return Transaction{}, err
	}
	return t, nil
}

func (r *repository) ListTransactions(ctx context.Context, orgID int64, page shared.Pagination) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, type, amount, category, description, date, created_at
FROM transactions WHERE organization_id = $1 ORDER BY date DESC, id DESC LIMIT $2 OFFSET $3`,
		orgID, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *repository) CountTransactions(ctx context.Context, orgID int64) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE organization_id = $1`, orgID).Scan(&total)
	return total, err
}

func (r *repository) UpdateTransaction(ctx context.Context, t Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET type = $1, amount = $2, category = $3, description = $4, date = $5
WHERE id = $6 AND organization_id = $7`,
		t.Type, t.Amount, t.Category, t.Description, t.Date, t.ID, t.OrganizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteTransaction(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// OrdersInWindow joins headers with their summed line totals. COALESCE keeps
// rows with no lines (historical data) at zero rather than failing.
func (r *repository) OrdersInWindow(ctx context.Context, orgID int64, from time.Time) ([]OrderRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.id, o.kind, COALESCE(SUM(i.total), 0), o.transport_total, o.discount, o.paid_amount, o.created_at
FROM orders o
LEFT JOIN order_items i ON i.order_id = o.id
WHERE o.organization_id = $1 AND o.created_at >= $2
GROUP BY o.id
ORDER BY o.created_at DESC`, orgID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrderRecord
	for rows.Next() {
		var o OrderRecord
		if err := rows.Scan(&o.ID, &o.Kind, &o.ItemsTotal, &o.TransportTotal, &o.Discount, &o.PaidAmount, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repository) TransactionsInWindow(ctx context.Context, orgID int64, from time.Time) ([]Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, organization_id, type, amount, category, description, date, created_at
FROM transactions WHERE organization_id = $1 AND date >= $2 ORDER BY date DESC`, orgID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *repository) ItemSalesSince(ctx context.Context, orgID int64, from time.Time) ([]ItemSale, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT i.product_name, SUM(i.quantity)
FROM order_items i
JOIN orders o ON o.id = i.order_id
WHERE o.organization_id = $1 AND o.kind = 'sell' AND o.created_at >= $2
GROUP BY i.product_name`, orgID, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ItemSale
	for rows.Next() {
		var s ItemSale
		if err := rows.Scan(&s.ProductName, &s.Quantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) ValuationRows(ctx context.Context, orgID int64) ([]ValuationRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT buy_price, other_cost_per_unit, stock FROM products WHERE organization_id = $1`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ValuationRow
	for rows.Next() {
		var v ValuationRow
		if err := rows.Scan(&v.BuyPrice, &v.OtherCostPerUnit, &v.Stock); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.OrganizationID, &t.Type, &t.Amount, &t.Category, &t.Description, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
