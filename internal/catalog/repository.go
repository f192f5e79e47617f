package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// Repository persists catalog entities. Every query takes the organization id
// as part of its predicate, including single-row lookups.
type Repository interface {
	ListProducts(ctx context.Context, orgID int64) ([]Product, error)
	GetProduct(ctx context.Context, orgID, id int64) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, orgID, id int64, p Product) error
	DeleteProduct(ctx context.Context, orgID, id int64) error

	ListCustomers(ctx context.Context, orgID int64) ([]Customer, error)
	GetCustomer(ctx context.Context, orgID, id int64) (Customer, error)
	CreateCustomer(ctx context.Context, c Customer) (Customer, error)
	UpdateCustomer(ctx context.Context, orgID, id int64, c Customer) error
	DeleteCustomer(ctx context.Context, orgID, id int64) error

	ListVendors(ctx context.Context, orgID int64) ([]Vendor, error)
	GetVendor(ctx context.Context, orgID, id int64) (Vendor, error)
	CreateVendor(ctx context.Context, v Vendor) (Vendor, error)
	UpdateVendor(ctx context.Context, orgID, id int64, v Vendor) error
	DeleteVendor(ctx context.Context, orgID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const uniqueViolation = "23505"

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return shared.ErrDuplicate
	}
	return err
}

const productColumns = `id, organization_id, name, price, buy_price, other_cost_per_unit, stock, active, created_at, updated_at`

func (r *repository) ListProducts(ctx context.Context, orgID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Price, &p.BuyPrice, &p.OtherCostPerUnit, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) GetProduct(ctx context.Context, orgID, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 AND organization_id = $2`, id, orgID).
		Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Price, &p.BuyPrice, &p.OtherCostPerUnit, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, `INSERT INTO products (organization_id, name, price, buy_price, other_cost_per_unit, stock, active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8) RETURNING id`,
		p.OrganizationID, p.Name, p.Price, p.BuyPrice, p.OtherCostPerUnit, p.Stock, p.Active, now).Scan(&p.ID)
	if err != nil {
		return Product{}, mapWriteError(err)
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, orgID, id int64, p Product) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET name = $1, price = $2, buy_price = $3, other_cost_per_unit = $4, active = $5, updated_at = NOW()
WHERE id = $6 AND organization_id = $7`,
		p.Name, p.Price, p.BuyPrice, p.OtherCostPerUnit, p.Active, id, orgID)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteProduct(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const contactColumns = `id, organization_id, name, phone, address, created_at, updated_at`

func (r *repository) ListCustomers(ctx context.Context, orgID int64) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM customers WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *repository) GetCustomer(ctx context.Context, orgID, id int64) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM customers WHERE id = $1 AND organization_id = $2`, id, orgID).
		Scan(&c.ID, &c.OrganizationID, &c.Name, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, shared.ErrNotFound
		}
		return Customer{}, err
	}
	return c, nil
}

func (r *repository) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (organization_id, name, phone, address, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$5) RETURNING id`,
		c.OrganizationID, c.Name, c.Phone, c.Address, now).Scan(&c.ID)
	if err != nil {
		return Customer{}, mapWriteError(err)
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) UpdateCustomer(ctx context.Context, orgID, id int64, c Customer) error {
	tag, err := r.pool.Exec(ctx, `UPDATE customers SET name = $1, phone = $2, address = $3, updated_at = NOW() WHERE id = $4 AND organization_id = $5`,
		c.Name, c.Phone, c.Address, id, orgID)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteCustomer(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) ListVendors(ctx context.Context, orgID int64) ([]Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM vendors WHERE organization_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.OrganizationID, &v.Name, &v.Phone, &v.Address, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *repository) GetVendor(ctx context.Context, orgID, id int64) (Vendor, error) {
	var v Vendor
	err := r.pool.QueryRow(ctx, `SELECT `+contactColumns+` FROM vendors WHERE id = $1 AND organization_id = $2`, id, orgID).
		Scan(&v.ID, &v.OrganizationID, &v.Name, &v.Phone, &v.Address, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, shared.ErrNotFound
		}
		return Vendor{}, err
	}
	return v, nil
}

func (r *repository) CreateVendor(ctx context.Context, v Vendor) (Vendor, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, `INSERT INTO vendors (organization_id, name, phone, address, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$5) RETURNING id`,
		v.OrganizationID, v.Name, v.Phone, v.Address, now).Scan(&v.ID)
	if err != nil {
		return Vendor{}, mapWriteError(err)
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	return v, nil
}

func (r *repository) UpdateVendor(ctx context.Context, orgID, id int64, v Vendor) error {
	tag, err := r.pool.Exec(ctx, `UPDATE vendors SET name = $1, phone = $2, address = $3, updated_at = NOW() WHERE id = $4 AND organization_id = $5`,
		v.Name, v.Phone, v.Address, id, orgID)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteVendor(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM vendors WHERE id = $1 AND organization_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
