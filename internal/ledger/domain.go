package ledger

import "time"

// Transaction types. Manual entries are a separate book from orders; the two
// are never merged into one income figure.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a manual quick-entry in the organization's cash book.
type Transaction struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Type           string    `json:"type"`
	Amount         float64   `json:"amount"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Date           time.Time `json:"date"`
	CreatedAt      time.Time `json:"created_at"`
}

// OrderRecord is the slim order read model the aggregator consumes: header
// figures plus the summed line total, nothing else.
type OrderRecord struct {
	ID             int64
	Kind           string
	ItemsTotal     float64
	TransportTotal float64
	Discount       float64
	PaidAmount     float64
	CreatedAt      time.Time
}

// MonthlyPoint is one calendar-month bucket of a series.
type MonthlyPoint struct {
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// ActivityEntry is one row of the recent activity feed. ID is synthetic,
// "sell-<id>" or "buy-<id>".
type ActivityEntry struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// ItemSale is one sold line used for the top-product ranking.
type ItemSale struct {
	ProductName string
	Quantity    int64
}

// TopProduct is a ranked entry of the product sales leaderboard.
type TopProduct struct {
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// ValuationRow carries the three product figures inventory valuation needs.
type ValuationRow struct {
	BuyPrice         float64
	OtherCostPerUnit float64
	Stock            int64
}

// Totals is the income/expense/net triple.
type Totals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}
