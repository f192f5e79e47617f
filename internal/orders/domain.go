package orders

import (
	"math"
	"time"
)

// Kind discriminates the two order books.
type Kind string

const (
	KindSell Kind = "sell"
	KindBuy  Kind = "buy"
)

// Statuses an order moves through. There is no workflow engine; status is a
// plain label the trader sets.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// OrderItem is a frozen line: product name and unit price are snapshots taken
// at order creation and never re-read from the catalog.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// Order is a sell or buy transaction header with its lines.
type Order struct {
	ID               int64       `json:"id"`
	OrganizationID   int64       `json:"organization_id"`
	Kind             Kind        `json:"kind"`
	CounterpartyID   int64       `json:"counterparty_id"`
	Status           string      `json:"status"`
	Discount         float64     `json:"discount"`
	PaidAmount       float64     `json:"paid_amount"`
	TransportPerTrip float64     `json:"transport_per_trip"`
	TransportTrips   int64       `json:"transport_trips"`
	TransportTotal   float64     `json:"transport_total"`
	DeliveryAddress  string      `json:"delivery_address"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ItemsTotal sums the frozen line totals.
func (o Order) ItemsTotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Total
	}
	return sum
}

// GrandTotal is items plus transport minus discount, never negative.
func (o Order) GrandTotal() float64 {
	return math.Max(0, o.ItemsTotal()+o.TransportTotal-o.Discount)
}

// Due is the outstanding balance, floored at zero so overpayment never shows
// as a negative.
func (o Order) Due() float64 {
	return math.Max(0, o.GrandTotal()-o.PaidAmount)
}
