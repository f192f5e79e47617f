package catalog

// ProductInput carries product fields accepted from clients. Stock is only
// honored on create, as the opening balance.
type ProductInput struct {
	Name             string  `json:"name" validate:"required,min=1,max=160"`
	Price            float64 `json:"price" validate:"gte=0"`
	BuyPrice         float64 `json:"buy_price" validate:"gte=0"`
	OtherCostPerUnit float64 `json:"other_cost_per_unit" validate:"gte=0"`
	Stock            int64   `json:"stock" validate:"gte=0"`
}

// ContactInput carries customer and vendor fields accepted from clients.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=1,max=160"`
	Phone   string `json:"phone" validate:"max=32"`
	Address string `json:"address" validate:"max=400"`
}
