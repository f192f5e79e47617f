package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sell(id int64, items, transport, discount, paid float64, at time.Time) OrderRecord {
	return OrderRecord{ID: id, Kind: "sell", ItemsTotal: items, TransportTotal: transport, Discount: discount, PaidAmount: paid, CreatedAt: at}
}

func buy(id int64, items, transport, discount, paid float64, at time.Time) OrderRecord {
	return OrderRecord{ID: id, Kind: "buy", ItemsTotal: items, TransportTotal: transport, Discount: discount, PaidAmount: paid, CreatedAt: at}
}

func TestGrandTotalClampedAtZero(t *testing.T) {
	o := sell(1, 100, 0, 500, 0, time.Now())
	require.Equal(t, float64(0), GrandTotal(o))
}

func TestOrderTotals(t *testing.T) {
	now := time.Now().UTC()
	totals := OrderTotals([]OrderRecord{
		sell(1, 300, 100, 10, 0, now),
		sell(2, 200, 0, 0, 0, now),
		buy(3, 150, 0, 0, 0, now),
	})
	require.Equal(t, float64(590), totals.Income)
	require.Equal(t, float64(150), totals.Expense)
	require.Equal(t, float64(440), totals.Net)
}

func TestMonthlySeriesZeroFillsEveryBucket(t *testing.T) {
	now := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	start := MonthWindow(now, 6)
	require.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), start)

	orders := []OrderRecord{
		sell(1, 100, 0, 0, 0, time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)),
		buy(2, 40, 0, 0, 0, time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)),
		sell(3, 70, 0, 0, 0, time.Date(2026, time.May, 9, 0, 0, 0, 0, time.UTC)),
		// outside the window, must be ignored
		sell(4, 999, 0, 0, 0, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)),
	}
	series := MonthlySeriesFromOrders(orders, start, 6)
	require.Len(t, series, 6)
	for i, p := range series {
		require.Equal(t, 2026, p.Year)
		require.Equal(t, i+1, p.Month, "buckets must be chronological")
	}
	require.Equal(t, float64(0), series[0].Income, "empty month stays zero")
	require.Equal(t, float64(100), series[1].Income)
	require.Equal(t, float64(40), series[1].Expense)
	require.Equal(t, float64(70), series[4].Income)
}

func TestMonthlySeriesSpansYearBoundary(t *testing.T) {
	now := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	start := MonthWindow(now, 4)
	series := MonthlySeriesFromTransactions(nil, start, 4)
	require.Len(t, series, 4)
	require.Equal(t, 2025, series[0].Year)
	require.Equal(t, 11, series[0].Month)
	require.Equal(t, 2026, series[3].Year)
	require.Equal(t, 2, series[3].Month)
}

func TestTransactionTotals(t *testing.T) {
	totals := TransactionTotals([]Transaction{
		{Type: TypeIncome, Amount: 500},
		{Type: TypeExpense, Amount: 120},
		{Type: TypeIncome, Amount: 80},
	})
	require.Equal(t, float64(580), totals.Income)
	require.Equal(t, float64(120), totals.Expense)
	require.Equal(t, float64(460), totals.Net)
}

func TestRecentActivityMergesAndTruncates(t *testing.T) {
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	var orders []OrderRecord
	for i := int64(1); i <= 7; i++ {
		orders = append(orders, sell(i, 100, 0, 0, 0, base.AddDate(0, 0, int(i))))
	}
	for i := int64(1); i <= 7; i++ {
		orders = append(orders, buy(i, 50, 0, 0, 0, base.AddDate(0, 0, int(i)).Add(time.Hour)))
	}

	feed := RecentActivity(orders, 10)
	require.Len(t, feed, 10)
	require.Equal(t, "buy-7", feed[0].ID)
	require.Equal(t, TypeExpense, feed[0].Type)
	require.Equal(t, "sell-7", feed[1].ID)
	require.Equal(t, TypeIncome, feed[1].Type)
	for i := 1; i < len(feed); i++ {
		require.False(t, feed[i].Date.After(feed[i-1].Date), "feed must be newest first")
	}
}

func TestMoneyDueFlooredPerOrder(t *testing.T) {
	now := time.Now().UTC()
	orders := []OrderRecord{
		sell(1, 300, 100, 10, 250, now), // due 140
		sell(2, 100, 0, 0, 500, now),    // overpaid, due 0 not -400
	}
	require.Equal(t, float64(140), MoneyDue(orders))
	require.Equal(t, float64(750), MoneyReceived(orders))
}

func TestTopProductsRanksAndLimits(t *testing.T) {
	sales := []ItemSale{
		{ProductName: "River Sand", Quantity: 10},
		{ProductName: "Crushed Stone", Quantity: 25},
		{ProductName: "River Sand", Quantity: 20},
		{ProductName: "Gravel", Quantity: 5},
		{ProductName: "Fill Sand", Quantity: 8},
		{ProductName: "Boulders", Quantity: 2},
	}
	top := TopProducts(sales, 4)
	require.Len(t, top, 4)
	require.Equal(t, TopProduct{Name: "River Sand", Quantity: 30}, top[0])
	require.Equal(t, TopProduct{Name: "Crushed Stone", Quantity: 25}, top[1])
	require.Equal(t, TopProduct{Name: "Fill Sand", Quantity: 8}, top[2])
	require.Equal(t, TopProduct{Name: "Gravel", Quantity: 5}, top[3])
}

func TestStockedValueIgnoresActiveFlag(t *testing.T) {
	rows := []ValuationRow{
		{BuyPrice: 60, OtherCostPerUnit: 5, Stock: 10},
		{BuyPrice: 90, OtherCostPerUnit: 0, Stock: 3},
	}
	require.Equal(t, float64(920), StockedValue(rows))
}

func TestPercentChangeZeroBaseline(t *testing.T) {
	require.Equal(t, float64(0), PercentChange(500, 0))
	require.Equal(t, float64(25), PercentChange(125, 100))
	require.Equal(t, float64(-50), PercentChange(50, 100))
}
