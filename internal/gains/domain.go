package gains

import "time"

// DryingGain records extra sellable units discovered after wet material dries
// out. Quantity is always a positive whole number of units.
type DryingGain struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	ProductID      int64     `json:"product_id"`
	Quantity       int64     `json:"quantity"`
	UnitCost       float64   `json:"unit_cost"`
	Note           string    `json:"note"`
	CreatedAt      time.Time `json:"created_at"`
}
