package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballast-erp/ballast-erp/internal/platform/db"
	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// LockedProduct is a product row read FOR UPDATE inside an order transaction.
type LockedProduct struct {
	ID       int64
	Name     string
	Price    float64
	BuyPrice float64
	Stock    int64
}

// TxRepository is the slice of storage available inside one order transaction.
// Header, items and stock mutations through it commit or roll back together.
type TxRepository interface {
	InsertOrder(ctx context.Context, o *Order) error
	UpdateOrder(ctx context.Context, o Order) error
	DeleteOrder(ctx context.Context, orgID, orderID int64) error
	InsertItems(ctx context.Context, orderID int64, items []OrderItem) error
	DeleteItems(ctx context.Context, orderID int64) error
	ListItems(ctx context.Context, orderID int64) ([]OrderItem, error)
	LockProduct(ctx context.Context, orgID, productID int64) (LockedProduct, error)
	SetProductStock(ctx context.Context, orgID, productID, stock int64, active bool) error
}

// Repository provides order reads and transactional writes.
type Repository interface {
	WithTx(ctx context.Context, fn func(TxRepository) error) error
	Get(ctx context.Context, orgID, orderID int64) (Order, error)
	List(ctx context.Context, orgID int64, kind Kind, page shared.Pagination) ([]Order, error)
	Count(ctx context.Context, orgID int64, kind Kind) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL order repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&txRepository{q: tx})
	})
}

const orderColumns = `id, organization_id, kind, counterparty_id, status, discount, paid_amount,
transport_per_trip, transport_trips, transport_total, delivery_address, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrganizationID, &o.Kind, &o.CounterpartyID, &o.Status, &o.Discount,
		&o.PaidAmount, &o.TransportPerTrip, &o.TransportTrips, &o.TransportTotal,
		&o.DeliveryAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, shared.ErrNotFound
		}
		return Order{}, err
	}
	return o, nil
}

func (r *repository) Get(ctx context.Context, orgID, orderID int64) (Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND organization_id = $2`, orderID, orgID))
	if err != nil {
		return Order{}, err
	}
	items, err := listItems(ctx, r.pool, o.ID)
	if err != nil {
		return Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *repository) List(ctx context.Context, orgID int64, kind Kind, page shared.Pagination) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE organization_id = $1 AND kind = $2
ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`,
		orgID, kind, page.Limit(), page.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := listItems(ctx, r.pool, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *repository) Count(ctx context.Context, orgID int64, kind Kind) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE organization_id = $1 AND kind = $2`, orgID, kind).Scan(&total)
	return total, err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listItems(ctx context.Context, q querier, orderID int64) ([]OrderItem, error) {
	rows, err := q.Query(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, price, total
FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type txRepository struct {
	q pgx.Tx
}

func (t *txRepository) InsertOrder(ctx context.Context, o *Order) error {
	now := time.Now().UTC()
	err := t.q.QueryRow(ctx,
		`INSERT INTO orders (organization_id, kind, counterparty_id, status, discount, paid_amount,
transport_per_trip, transport_trips, transport_total, delivery_address, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11) RETURNING id`,
		o.OrganizationID, o.Kind, o.CounterpartyID, o.Status, o.Discount, o.PaidAmount,
		o.TransportPerTrip, o.TransportTrips, o.TransportTotal, o.DeliveryAddress, now).Scan(&o.ID)
	if err != nil {
		return err
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return nil
}

func (t *txRepository) UpdateOrder(ctx context.Context, o Order) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE orders SET status = $1, discount = $2, paid_amount = $3, transport_per_trip = $4,
transport_trips = $5, transport_total = $6, delivery_address = $7, updated_at = NOW()
WHERE id = $8 AND organization_id = $9`,
		o.Status, o.Discount, o.PaidAmount, o.TransportPerTrip, o.TransportTrips,
		o.TransportTotal, o.DeliveryAddress, o.ID, o.OrganizationID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *txRepository) DeleteOrder(ctx context.Context, orgID, orderID int64) error {
	tag, err := t.q.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND organization_id = $2`, orderID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (t *txRepository) InsertItems(ctx context.Context, orderID int64, items []OrderItem) error {
	for i := range items {
		err := t.q.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price, total)
VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
			orderID, items[i].ProductID, items[i].ProductName, items[i].Quantity, items[i].Price, items[i].Total).
			Scan(&items[i].ID)
		if err != nil {
			return err
		}
		items[i].OrderID = orderID
	}
	return nil
}

func (t *txRepository) DeleteItems(ctx context.Context, orderID int64) error {
	_, err := t.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepository) ListItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	return listItems(ctx, t.q, orderID)
}

func (t *txRepository) LockProduct(ctx context.Context, orgID, productID int64) (LockedProduct, error) {
	var p LockedProduct
	err := t.q.QueryRow(ctx,
		`SELECT id, name, price, buy_price, stock FROM products
WHERE id = $1 AND organization_id = $2 FOR UPDATE`, productID, orgID).
		Scan(&p.ID, &p.Name, &p.Price, &p.BuyPrice, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LockedProduct{}, shared.ErrNotFound
		}
		return LockedProduct{}, err
	}
	return p, nil
}

func (t *txRepository) SetProductStock(ctx context.Context, orgID, productID, stock int64, active bool) error {
	tag, err := t.q.Exec(ctx,
		`UPDATE products SET stock = $1, active = $2, updated_at = NOW() WHERE id = $3 AND organization_id = $4`,
		stock, active, productID, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
