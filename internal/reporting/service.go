package reporting

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ballast-erp/ballast-erp/internal/ledger"
)

// Window bounds. Out-of-range requests are clamped, never rejected.
const (
	DefaultMonths      = 6
	MaxMonths          = 24
	DefaultProductDays = 30
	MaxProductDays     = 365

	recentActivityLimit = 10
	topProductCount     = 4
)

// ReadModel is the slice of ledger storage the reporting layer consumes.
type ReadModel interface {
	OrdersInWindow(ctx context.Context, orgID int64, from time.Time) ([]ledger.OrderRecord, error)
	TransactionsInWindow(ctx context.Context, orgID int64, from time.Time) ([]ledger.Transaction, error)
	ItemSalesSince(ctx context.Context, orgID int64, from time.Time) ([]ledger.ItemSale, error)
	ValuationRows(ctx context.Context, orgID int64) ([]ledger.ValuationRow, error)
}

// Overview is the dashboard headline block. Income and expense come from the
// order books; manual transactions feed the accounts summary instead.
type Overview struct {
	Income        float64 `json:"income"`
	Expense       float64 `json:"expense"`
	Net           float64 `json:"net"`
	IncomeChange  float64 `json:"income_change"`
	MoneyReceived float64 `json:"money_received"`
	MoneyDue      float64 `json:"money_due"`
	StockedValue  float64 `json:"stocked_value"`
}

// Dashboard is the order-book read model.
type Dashboard struct {
	Overview      Overview              `json:"overview"`
	RevenueSeries []ledger.MonthlyPoint `json:"revenue_series"`
	ProductSales  []ledger.TopProduct   `json:"product_sales"`
}

// AccountsSummary is the manual-transaction read model, with the activity
// feed derived from orders.
type AccountsSummary struct {
	Totals  ledger.Totals          `json:"totals"`
	Monthly []ledger.MonthlyPoint  `json:"monthly"`
	Recent  []ledger.ActivityEntry `json:"recent"`
}

// Service composes aggregator output into the two read models. All fetches
// within one call are independent reads and run concurrently.
type Service struct {
	logger   *slog.Logger
	store    ReadModel
	cache    DashboardCache
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService constructs the reporting service.
func NewService(logger *slog.Logger, store ReadModel) *Service {
	return &Service{logger: logger, store: store, now: time.Now}
}

// WithCache enables warmed default-window dashboards. TTL 0 leaves the cache
// off so every request computes from the store.
func (s *Service) WithCache(cache DashboardCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithNow fixes the clock, for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

func clamp(n, min, max, def int) int {
	if n == 0 {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Dashboard builds the order-book overview for the trailing window. Requests
// for the default window are served from the warmed cache when one is present;
// anything else always computes from the store.
func (s *Service) Dashboard(ctx context.Context, orgID int64, months, productDays int) (Dashboard, error) {
	months = clamp(months, 1, MaxMonths, DefaultMonths)
	productDays = clamp(productDays, 1, MaxProductDays, DefaultProductDays)

	cacheable := s.cacheUsable() && months == DefaultMonths && productDays == DefaultProductDays
	if cacheable {
		cached, ok, err := s.cache.Get(ctx, orgID)
		if err != nil {
			s.logger.Warn("dashboard cache read", slog.Any("error", err))
		} else if ok {
			return *cached, nil
		}
	}

	d, err := s.buildDashboard(ctx, orgID, months, productDays)
	if err != nil {
		return Dashboard{}, err
	}
	if cacheable {
		if err := s.cache.Set(ctx, orgID, d, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write", slog.Any("error", err))
		}
	}
	return d, nil
}

// WarmDashboard recomputes the default-window dashboard and overwrites the
// cache entry, regardless of whether a fresh one is already present.
func (s *Service) WarmDashboard(ctx context.Context, orgID int64) error {
	if !s.cacheUsable() {
		return nil
	}
	d, err := s.buildDashboard(ctx, orgID, DefaultMonths, DefaultProductDays)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, orgID, d, s.cacheTTL)
}

func (s *Service) cacheUsable() bool {
	return s.cache != nil && s.cacheTTL > 0
}

func (s *Service) buildDashboard(ctx context.Context, orgID int64, months, productDays int) (Dashboard, error) {
	now := s.now().UTC()
	start := ledger.MonthWindow(now, months)
	salesFrom := now.AddDate(0, 0, -productDays)

	var (
		orders    []ledger.OrderRecord
		sales     []ledger.ItemSale
		valuation []ledger.ValuationRow
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.store.OrdersInWindow(ctx, orgID, start)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = s.store.ItemSalesSince(ctx, orgID, salesFrom)
		return err
	})
	g.Go(func() error {
		var err error
		valuation, err = s.store.ValuationRows(ctx, orgID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	totals := ledger.OrderTotals(orders)
	series := ledger.MonthlySeriesFromOrders(orders, start, months)

	var incomeChange float64
	if n := len(series); n >= 2 {
		incomeChange = ledger.PercentChange(series[n-1].Income, series[n-2].Income)
	}

	return Dashboard{
		Overview: Overview{
			Income:        totals.Income,
			Expense:       totals.Expense,
			Net:           totals.Net,
			IncomeChange:  incomeChange,
			MoneyReceived: ledger.MoneyReceived(orders),
			MoneyDue:      ledger.MoneyDue(orders),
			StockedValue:  ledger.StockedValue(valuation),
		},
		RevenueSeries: series,
		ProductSales:  ledger.TopProducts(sales, topProductCount),
	}, nil
}

// AccountsSummary builds the cash book view for the default trailing window.
func (s *Service) AccountsSummary(ctx context.Context, orgID int64) (AccountsSummary, error) {
	now := s.now().UTC()
	start := ledger.MonthWindow(now, DefaultMonths)

	var (
		txs    []ledger.Transaction
		orders []ledger.OrderRecord
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.store.TransactionsInWindow(ctx, orgID, start)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.store.OrdersInWindow(ctx, orgID, start)
		return err
	})
	if err := g.Wait(); err != nil {
		return AccountsSummary{}, err
	}

	return AccountsSummary{
		Totals:  ledger.TransactionTotals(txs),
		Monthly: ledger.MonthlySeriesFromTransactions(txs, start, DefaultMonths),
		Recent:  ledger.RecentActivity(orders, recentActivityLimit),
	}, nil
}
