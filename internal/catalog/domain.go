package catalog

import "time"

// Product is a stocked trade good. Stock is mutated only by the order and
// drying-gain engines, never directly through catalog updates.
type Product struct {
	ID               int64     `json:"id"`
	OrganizationID   int64     `json:"organization_id"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	BuyPrice         float64   `json:"buy_price"`
	OtherCostPerUnit float64   `json:"other_cost_per_unit"`
	Stock            int64     `json:"stock"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Customer is a sell-order counterparty.
type Customer struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Vendor is a buy-order counterparty.
type Vendor struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
