package ledger

import (
	"math"
	"sort"
	"strconv"
	"time"
)

// GrandTotal is the order revenue formula used everywhere in aggregation:
// items plus transport minus discount, clamped at zero.
func GrandTotal(o OrderRecord) float64 {
	return math.Max(0, o.ItemsTotal+o.TransportTotal-o.Discount)
}

// OrderTotals sums sell orders into income and buy orders into expense.
func OrderTotals(orders []OrderRecord) Totals {
	var t Totals
	for _, o := range orders {
		switch o.Kind {
		case "sell":
			t.Income += GrandTotal(o)
		case "buy":
			t.Expense += GrandTotal(o)
		}
	}
	t.Net = t.Income - t.Expense
	return t
}

// TransactionTotals sums manual entries by type.
func TransactionTotals(txs []Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case TypeIncome:
			t.Income += tx.Amount
		case TypeExpense:
			t.Expense += tx.Amount
		}
	}
	t.Net = t.Income - t.Expense
	return t
}

// MonthWindow returns the first instant of the month that starts the trailing
// window of n calendar months ending at now.
func MonthWindow(now time.Time, months int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -(months - 1), 0)
}

// emptySeries builds the zero-filled chronological bucket list for a window.
func emptySeries(start time.Time, months int) []MonthlyPoint {
	series := make([]MonthlyPoint, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		series = append(series, MonthlyPoint{Year: m.Year(), Month: int(m.Month())})
	}
	return series
}

func bucketIndex(start time.Time, months int, at time.Time) int {
	idx := (at.Year()-start.Year())*12 + int(at.Month()) - int(start.Month())
	if idx < 0 || idx >= months {
		return -1
	}
	return idx
}

// MonthlySeriesFromOrders buckets order revenue/spend per calendar month.
// Every month in the window is present, zero-valued when quiet.
func MonthlySeriesFromOrders(orders []OrderRecord, start time.Time, months int) []MonthlyPoint {
	series := emptySeries(start, months)
	for _, o := range orders {
		idx := bucketIndex(start, months, o.CreatedAt)
		if idx < 0 {
			continue
		}
		switch o.Kind {
		case "sell":
			series[idx].Income += GrandTotal(o)
		case "buy":
			series[idx].Expense += GrandTotal(o)
		}
	}
	return series
}

// MonthlySeriesFromTransactions buckets manual entries per calendar month.
func MonthlySeriesFromTransactions(txs []Transaction, start time.Time, months int) []MonthlyPoint {
	series := emptySeries(start, months)
	for _, tx := range txs {
		idx := bucketIndex(start, months, tx.Date)
		if idx < 0 {
			continue
		}
		switch tx.Type {
		case TypeIncome:
			series[idx].Income += tx.Amount
		case TypeExpense:
			series[idx].Expense += tx.Amount
		}
	}
	return series
}

// RecentActivity merges both order books into one feed of pseudo-transactions,
// newest first, truncated to limit.
func RecentActivity(orders []OrderRecord, limit int) []ActivityEntry {
	entries := make([]ActivityEntry, 0, len(orders))
	for _, o := range orders {
		entry := ActivityEntry{Amount: GrandTotal(o), Date: o.CreatedAt}
		switch o.Kind {
		case "sell":
			entry.ID = "sell-" + strconv.FormatInt(o.ID, 10)
			entry.Type = TypeIncome
		case "buy":
			entry.ID = "buy-" + strconv.FormatInt(o.ID, 10)
			entry.Type = TypeExpense
		default:
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// MoneyReceived sums paid amounts across the window.
func MoneyReceived(orders []OrderRecord) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.PaidAmount
	}
	return sum
}

// MoneyDue sums outstanding balances. Each order's due is floored at zero
// before summing so one overpaid order cannot offset another's debt.
func MoneyDue(orders []OrderRecord) float64 {
	var sum float64
	for _, o := range orders {
		sum += math.Max(0, GrandTotal(o)-o.PaidAmount)
	}
	return sum
}

// TopProducts ranks sold quantity per product name and keeps the top k.
func TopProducts(sales []ItemSale, k int) []TopProduct {
	byName := make(map[string]int64)
	for _, s := range sales {
		byName[s.ProductName] += s.Quantity
	}
	ranked := make([]TopProduct, 0, len(byName))
	for name, qty := range byName {
		ranked = append(ranked, TopProduct{Name: name, Quantity: qty})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}

// StockedValue is the inventory valuation: (buy price + other cost) times
// stock, summed over every product regardless of the active flag.
func StockedValue(rows []ValuationRow) float64 {
	var sum float64
	for _, row := range rows {
		sum += (row.BuyPrice + row.OtherCostPerUnit) * float64(row.Stock)
	}
	return sum
}

// PercentChange compares two period figures. A zero baseline reads as no
// change rather than a division error.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
