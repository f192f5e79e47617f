package orders

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

type memProduct struct {
	orgID int64
	LockedProduct
	active bool
}

type memStore struct {
	products    map[int64]*memProduct
	orders      map[int64]Order
	items       map[int64][]OrderItem
	nextOrderID int64
	nextItemID  int64
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]*memProduct),
		orders:   make(map[int64]Order),
		items:    make(map[int64][]OrderItem),
	}
}

func (s *memStore) clone() *memStore {
	out := newMemStore()
	out.nextOrderID = s.nextOrderID
	out.nextItemID = s.nextItemID
	for id, p := range s.products {
		copied := *p
		out.products[id] = &copied
	}
	for id, o := range s.orders {
		out.orders[id] = o
	}
	for id, items := range s.items {
		out.items[id] = append([]OrderItem(nil), items...)
	}
	return out
}

// memoryRepo mimics the transactional contract: on error the whole store is
// rolled back to its pre-transaction state.
type memoryRepo struct {
	store *memStore
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{store: newMemStore()}
}

func (r *memoryRepo) addProduct(orgID, id int64, name string, price, buyPrice float64, stock int64) {
	r.store.products[id] = &memProduct{
		orgID:         orgID,
		LockedProduct: LockedProduct{ID: id, Name: name, Price: price, BuyPrice: buyPrice, Stock: stock},
		active:        stock > 0,
	}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(TxRepository) error) error {
	snapshot := r.store.clone()
	if err := fn(&memTx{store: r.store}); err != nil {
		r.store = snapshot
		return err
	}
	return nil
}

func (r *memoryRepo) Get(ctx context.Context, orgID, orderID int64) (Order, error) {
	o, ok := r.store.orders[orderID]
	if !ok || o.OrganizationID != orgID {
		return Order{}, shared.ErrNotFound
	}
	o.Items = append([]OrderItem(nil), r.store.items[orderID]...)
	return o, nil
}

func (r *memoryRepo) List(ctx context.Context, orgID int64, kind Kind, page shared.Pagination) ([]Order, error) {
	var out []Order
	for id, o := range r.store.orders {
		if o.OrganizationID == orgID && o.Kind == kind {
			o.Items = append([]OrderItem(nil), r.store.items[id]...)
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memoryRepo) Count(ctx context.Context, orgID int64, kind Kind) (int, error) {
	var total int
	for _, o := range r.store.orders {
		if o.OrganizationID == orgID && o.Kind == kind {
			total++
		}
	}
	return total, nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	t.store.nextOrderID++
	o.ID = t.store.nextOrderID
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	saved := *o
	saved.Items = nil
	t.store.orders[o.ID] = saved
	return nil
}

func (t *memTx) UpdateOrder(ctx context.Context, o Order) error {
	current, ok := t.store.orders[o.ID]
	if !ok || current.OrganizationID != o.OrganizationID {
		return shared.ErrNotFound
	}
	o.Items = nil
	t.store.orders[o.ID] = o
	return nil
}

func (t *memTx) DeleteOrder(ctx context.Context, orgID, orderID int64) error {
	o, ok := t.store.orders[orderID]
	if !ok || o.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	delete(t.store.orders, orderID)
	return nil
}

func (t *memTx) InsertItems(ctx context.Context, orderID int64, items []OrderItem) error {
	for i := range items {
		t.store.nextItemID++
		items[i].ID = t.store.nextItemID
		items[i].OrderID = orderID
	}
	t.store.items[orderID] = append(t.store.items[orderID], items...)
	return nil
}

func (t *memTx) DeleteItems(ctx context.Context, orderID int64) error {
	delete(t.store.items, orderID)
	return nil
}

func (t *memTx) ListItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	return append([]OrderItem(nil), t.store.items[orderID]...), nil
}

func (t *memTx) LockProduct(ctx context.Context, orgID, productID int64) (LockedProduct, error) {
	p, ok := t.store.products[productID]
	if !ok || p.orgID != orgID {
		return LockedProduct{}, shared.ErrNotFound
	}
	return p.LockedProduct, nil
}

func (t *memTx) SetProductStock(ctx context.Context, orgID, productID, stock int64, active bool) error {
	p, ok := t.store.products[productID]
	if !ok || p.orgID != orgID {
		return shared.ErrNotFound
	}
	p.Stock = stock
	p.active = active
	return nil
}

type stubDirectory struct {
	customers map[int64]bool
	vendors   map[int64]bool
}

func (d stubDirectory) CustomerExists(ctx context.Context, orgID, id int64) error {
	if !d.customers[id] {
		return shared.ErrNotFound
	}
	return nil
}

func (d stubDirectory) VendorExists(ctx context.Context, orgID, id int64) error {
	if !d.vendors[id] {
		return shared.ErrNotFound
	}
	return nil
}

func newTestService(repo *memoryRepo, allowNegative bool) *Service {
	dir := stubDirectory{customers: map[int64]bool{10: true}, vendors: map[int64]bool{20: true}}
	return NewService(slog.Default(), repo, dir, allowNegative)
}

func TestCreateSellOrderComputesTotalsAndMovesStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)

	order, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID:   10,
		Items:            []ItemInput{{ProductID: 5, Quantity: 3}},
		Discount:         10,
		TransportPerTrip: 50,
		TransportTrips:   2,
		PaidAmount:       250,
	})
	require.NoError(t, err)

	require.Equal(t, float64(300), order.ItemsTotal())
	require.Equal(t, float64(100), order.TransportTotal)
	require.Equal(t, float64(390), order.GrandTotal())
	require.Equal(t, float64(140), order.Due())
	require.Equal(t, "River Sand", order.Items[0].ProductName)
	require.Equal(t, float64(100), order.Items[0].Price)
	require.Equal(t, int64(7), repo.store.products[5].Stock)
}

func TestCreateSellInsufficientStockRollsBackEverything(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	repo.addProduct(1, 6, "Crushed Stone", 150, 90, 2)
	svc := newTestService(repo, false)

	_, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items: []ItemInput{
			{ProductID: 5, Quantity: 3},
			{ProductID: 6, Quantity: 5},
		},
	})
	require.ErrorIs(t, err, shared.ErrInsufficientStock)

	require.Equal(t, int64(10), repo.store.products[5].Stock, "first line must roll back with the failed second")
	require.Equal(t, int64(2), repo.store.products[6].Stock)
	require.Empty(t, repo.store.orders, "no header may survive a failed transaction")
}

func TestCreateSellNegativeStockAllowedByConfig(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 2)
	svc := newTestService(repo, true)

	_, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 5}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(-3), repo.store.products[5].Stock)
}

func TestCreateBuyOrderSnapshotsBuyPriceAndIncrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)

	order, err := svc.Create(context.Background(), 1, KindBuy, CreateInput{
		CounterpartyID: 20,
		Items:          []ItemInput{{ProductID: 5, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, float64(60), order.Items[0].Price)
	require.Equal(t, float64(240), order.ItemsTotal())
	require.Equal(t, int64(14), repo.store.products[5].Stock)
}

func TestCreateUnknownCounterparty(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)

	_, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 999,
		Items:          []ItemInput{{ProductID: 5, Quantity: 1}},
	})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRecomputesTransportTotal(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, 1, KindSell, CreateInput{
		CounterpartyID:   10,
		Items:            []ItemInput{{ProductID: 5, Quantity: 1}},
		TransportPerTrip: 50,
		TransportTrips:   2,
	})
	require.NoError(t, err)

	trips := int64(4)
	updated, err := svc.Update(ctx, 1, order.ID, UpdateInput{TransportTrips: &trips})
	require.NoError(t, err)
	require.Equal(t, float64(200), updated.TransportTotal)
}

func TestReplaceItemsRestoresThenApplies(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), repo.store.products[5].Stock)

	replaced, err := svc.ReplaceItems(ctx, 1, order.ID, ReplaceItemsInput{
		Items: []ItemInput{{ProductID: 5, Quantity: 5}},
	})
	require.NoError(t, err)
	require.Len(t, replaced.Items, 1)
	require.Equal(t, int64(5), replaced.Items[0].Quantity)
	require.Equal(t, int64(5), repo.store.products[5].Stock, "old movement reversed before new applied")
}

func TestDeleteRestoresStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 3}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, 1, order.ID))
	require.Equal(t, int64(10), repo.store.products[5].Stock)
	_, err = svc.Get(ctx, 1, order.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderScopedToOrganization(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, order.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	err = svc.Delete(ctx, 2, order.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)

	_, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 0}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, int64(10), repo.store.products[5].Stock, "no stock movement on a rejected line")

	// A negative sell quantity would otherwise add stock through stockDelta.
	_, err = svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: -3}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, int64(10), repo.store.products[5].Stock)
}

func TestReplaceItemsRejectsNonPositiveQuantity(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)
	ctx := context.Background()

	order, err := svc.Create(ctx, 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 3}},
	})
	require.NoError(t, err)

	_, err = svc.ReplaceItems(ctx, 1, order.ID, ReplaceItemsInput{
		Items: []ItemInput{{ProductID: 5, Quantity: -1}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.Equal(t, int64(7), repo.store.products[5].Stock, "original lines must stay untouched")
}

func TestListReturnsPaginationMetadata(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 100)
	svc := newTestService(repo, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, 1, KindSell, CreateInput{
			CounterpartyID: 10,
			Items:          []ItemInput{{ProductID: 5, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	list, meta, err := svc.List(ctx, 1, KindSell, shared.Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, list, 3, "memory fake does not page; metadata is what is under test")
	require.Equal(t, 3, meta.Total)
	require.Equal(t, 2, meta.TotalPages)

	_, meta, err = svc.List(ctx, 1, KindBuy, shared.Pagination{})
	require.NoError(t, err)
	require.Zero(t, meta.Total, "books are counted separately")
}

func TestOverpaymentNeverNegativeDue(t *testing.T) {
	repo := newMemoryRepo()
	repo.addProduct(1, 5, "River Sand", 100, 60, 10)
	svc := newTestService(repo, false)

	order, err := svc.Create(context.Background(), 1, KindSell, CreateInput{
		CounterpartyID: 10,
		Items:          []ItemInput{{ProductID: 5, Quantity: 1}},
		PaidAmount:     500,
	})
	require.NoError(t, err)
	require.Equal(t, float64(0), order.Due())
}
