package ledger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

type memoryRepo struct {
	Repository
	txs    map[int64]Transaction
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{txs: make(map[int64]Transaction)}
}

func (r *memoryRepo) CreateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now().UTC()
	if t.Date.IsZero() {
		t.Date = t.CreatedAt
	}
	r.txs[t.ID] = t
	return t, nil
}

func (r *memoryRepo) GetTransaction(ctx context.Context, orgID, id int64) (Transaction, error) {
	t, ok := r.txs[id]
	if !ok || t.OrganizationID != orgID {
		return Transaction{}, shared.ErrNotFound
	}
	return t, nil
}

func (r *memoryRepo) ListTransactions(ctx context.Context, orgID int64, page shared.Pagination) ([]Transaction, error) {
	var out []Transaction
	for _, t := range r.txs {
		if t.OrganizationID == orgID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memoryRepo) CountTransactions(ctx context.Context, orgID int64) (int, error) {
	var total int
	for _, t := range r.txs {
		if t.OrganizationID == orgID {
			total++
		}
	}
	return total, nil
}

func (r *memoryRepo) UpdateTransaction(ctx context.Context, t Transaction) error {
	existing, ok := r.txs[t.ID]
	if !ok || existing.OrganizationID != t.OrganizationID {
		return shared.ErrNotFound
	}
	r.txs[t.ID] = t
	return nil
}

func (r *memoryRepo) DeleteTransaction(ctx context.Context, orgID, id int64) error {
	t, ok := r.txs[id]
	if !ok || t.OrganizationID != orgID {
		return shared.ErrNotFound
	}
	delete(r.txs, id)
	return nil
}

func TestCreateTransactionParsesDate(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo())

	created, err := svc.Create(context.Background(), 1, TransactionInput{
		Type:   TypeIncome,
		Amount: 500,
		Date:   "2026-03-15",
	})
	require.NoError(t, err)
	require.Equal(t, 2026, created.Date.Year())
	require.Equal(t, time.March, created.Date.Month())
	require.Equal(t, 15, created.Date.Day())
}

func TestCreateTransactionDefaultsDate(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo())

	created, err := svc.Create(context.Background(), 1, TransactionInput{Type: TypeExpense, Amount: 80})
	require.NoError(t, err)
	require.False(t, created.Date.IsZero())
}

func TestUpdateTransactionPatchesFields(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, TransactionInput{
		Type:     TypeIncome,
		Amount:   500,
		Category: "delivery",
		Date:     "2026-03-15",
	})
	require.NoError(t, err)

	amount := 650.0
	date := "2026-04-01"
	updated, err := svc.Update(ctx, 1, created.ID, UpdatePatch{Amount: &amount, Date: &date})
	require.NoError(t, err)
	require.Equal(t, 650.0, updated.Amount)
	require.Equal(t, time.April, updated.Date.Month())
	// Untouched fields survive the patch.
	require.Equal(t, TypeIncome, updated.Type)
	require.Equal(t, "delivery", updated.Category)

	_, err = svc.Update(ctx, 2, created.ID, UpdatePatch{Amount: &amount})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListTransactionsReturnsPaginationMetadata(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, 1, TransactionInput{Type: TypeIncome, Amount: 100})
		require.NoError(t, err)
	}

	_, meta, err := svc.List(ctx, 1, shared.Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.Equal(t, 5, meta.Total)
	require.Equal(t, 3, meta.TotalPages)
	require.Equal(t, 2, meta.PerPage)
}

func TestTransactionScopedToOrganization(t *testing.T) {
	svc := NewService(slog.Default(), newMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, TransactionInput{Type: TypeIncome, Amount: 500})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
	err = svc.Delete(ctx, 2, created.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
