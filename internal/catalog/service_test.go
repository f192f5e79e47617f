package catalog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

type memoryRepo struct {
	products  map[int64]Product
	customers map[int64]Customer
	vendors   map[int64]Vendor
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:  make(map[int64]Product),
		customers: make(map[int64]Customer),
		vendors:   make(map[int64]Vendor),
	}
}

func (r *memoryRepo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *memoryRepo) ListProducts(ctx context.Context, orgID int64) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		if p.OrganizationID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetProduct(ctx context.Context, orgID, id int64) (Product, error) {
	p, ok := r.products[id]
	if !ok || p.OrganizationID != orgID {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) CreateProduct(ctx context.Context, p Product) (Product, error) {
	for _, existing := range r.products {
		if existing.OrganizationID == p.OrganizationID && existing.Name == p.Name {
			return Product{}, shared.ErrDuplicate
		}
	}
	p.ID = r.id()
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, orgID, id int64, p Product) error {
	current, ok := r.products[id]
	if !ok || current.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	current.Name = p.Name
	current.Price = p.Price
	current.BuyPrice = p.BuyPrice
	current.OtherCostPerUnit = p.OtherCostPerUnit
	current.Active = p.Active
	r.products[id] = current
	return nil
}

func (r *memoryRepo) DeleteProduct(ctx context.Context, orgID, id int64) error {
	p, ok := r.products[id]
	if !ok || p.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) ListCustomers(ctx context.Context, orgID int64) ([]Customer, error) {
	var out []Customer
	for _, c := range r.customers {
		if c.OrganizationID == orgID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetCustomer(ctx context.Context, orgID, id int64) (Customer, error) {
	c, ok := r.customers[id]
	if !ok || c.OrganizationID != orgID {
		return Customer{}, shared.ErrNotFound
	}
	return c, nil
}

func (r *memoryRepo) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	c.ID = r.id()
	r.customers[c.ID] = c
	return c, nil
}

func (r *memoryRepo) UpdateCustomer(ctx context.Context, orgID, id int64, c Customer) error {
	current, ok := r.customers[id]
	if !ok || current.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	current.Name = c.Name
	current.Phone = c.Phone
	current.Address = c.Address
	r.customers[id] = current
	return nil
}

func (r *memoryRepo) DeleteCustomer(ctx context.Context, orgID, id int64) error {
	c, ok := r.customers[id]
	if !ok || c.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *memoryRepo) ListVendors(ctx context.Context, orgID int64) ([]Vendor, error) {
	var out []Vendor
	for _, v := range r.vendors {
		if v.OrganizationID == orgID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memoryRepo) GetVendor(ctx context.Context, orgID, id int64) (Vendor, error) {
	v, ok := r.vendors[id]
	if !ok || v.OrganizationID != orgID {
		return Vendor{}, shared.ErrNotFound
	}
	return v, nil
}

func (r *memoryRepo) CreateVendor(ctx context.Context, v Vendor) (Vendor, error) {
	v.ID = r.id()
	r.vendors[v.ID] = v
	return v, nil
}

func (r *memoryRepo) UpdateVendor(ctx context.Context, orgID, id int64, v Vendor) error {
	current, ok := r.vendors[id]
	if !ok || current.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	current.Name = v.Name
	current.Phone = v.Phone
	current.Address = v.Address
	r.vendors[id] = current
	return nil
}

func (r *memoryRepo) DeleteVendor(ctx context.Context, orgID, id int64) error {
	v, ok := r.vendors[id]
	if !ok || v.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	delete(r.vendors, id)
	return nil
}

func newTestService(repo Repository) *Service {
	return NewService(slog.Default(), repo)
}

func TestCreateProductSetsActiveFromStock(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	stocked, err := svc.CreateProduct(ctx, 1, ProductInput{Name: "River Sand", Price: 100, BuyPrice: 60, Stock: 40})
	require.NoError(t, err)
	require.True(t, stocked.Active)

	empty, err := svc.CreateProduct(ctx, 1, ProductInput{Name: "Crushed Stone", Price: 150, BuyPrice: 90})
	require.NoError(t, err)
	require.False(t, empty.Active)
}

func TestCreateProductDuplicateName(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, 1, ProductInput{Name: "River Sand", Price: 100})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, 1, ProductInput{Name: "River Sand", Price: 120})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateProductPreservesStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, 1, ProductInput{Name: "River Sand", Price: 100, Stock: 40})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, 1, created.ID, ProductInput{Name: "Washed Sand", Price: 110, Stock: 0})
	require.NoError(t, err)
	require.Equal(t, "Washed Sand", updated.Name)
	require.Equal(t, float64(110), updated.Price)
	require.Equal(t, int64(40), updated.Stock, "catalog updates must not touch stock")
}

func TestProductLookupScopedToOrganization(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, 1, ProductInput{Name: "River Sand", Price: 100})
	require.NoError(t, err)

	_, err = svc.GetProduct(ctx, 2, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.UpdateProduct(ctx, 2, created.ID, ProductInput{Name: "Stolen", Price: 1})
	require.ErrorIs(t, err, shared.ErrNotFound)

	err = svc.DeleteProduct(ctx, 2, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCustomerCRUD(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, 1, ContactInput{Name: "Karim Builders", Phone: "01711"})
	require.NoError(t, err)

	updated, err := svc.UpdateCustomer(ctx, 1, created.ID, ContactInput{Name: "Karim Builders Ltd", Phone: "01712"})
	require.NoError(t, err)
	require.Equal(t, "Karim Builders Ltd", updated.Name)

	require.NoError(t, svc.DeleteCustomer(ctx, 1, created.ID))
	_, err = svc.GetCustomer(ctx, 1, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestVendorScopedToOrganization(t *testing.T) {
	svc := newTestService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.CreateVendor(ctx, 1, ContactInput{Name: "Padma Quarry"})
	require.NoError(t, err)

	_, err = svc.GetVendor(ctx, 2, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
