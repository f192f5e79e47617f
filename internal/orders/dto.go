package orders

// ItemInput is one requested line. Price is never accepted from the client;
// it is snapshotted from the catalog inside the creating transaction.
type ItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gte=1"`
}

// CreateInput carries a new order request.
type CreateInput struct {
	CounterpartyID   int64       `json:"counterparty_id" validate:"required,gt=0"`
	Items            []ItemInput `json:"items" validate:"required,min=1,dive"`
	Discount         float64     `json:"discount" validate:"gte=0"`
	PaidAmount       float64     `json:"paid_amount" validate:"gte=0"`
	TransportPerTrip float64     `json:"transport_per_trip" validate:"gte=0"`
	TransportTrips   int64       `json:"transport_trips" validate:"gte=0"`
	DeliveryAddress  string      `json:"delivery_address" validate:"max=400"`
}

// UpdateInput patches mutable header fields. Nil means leave unchanged.
type UpdateInput struct {
	Status           *string  `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Discount         *float64 `json:"discount" validate:"omitempty,gte=0"`
	PaidAmount       *float64 `json:"paid_amount" validate:"omitempty,gte=0"`
	TransportPerTrip *float64 `json:"transport_per_trip" validate:"omitempty,gte=0"`
	TransportTrips   *int64   `json:"transport_trips" validate:"omitempty,gte=0"`
	DeliveryAddress  *string  `json:"delivery_address" validate:"omitempty,max=400"`
}

// ReplaceItemsInput swaps the full line set of an order.
type ReplaceItemsInput struct {
	Items []ItemInput `json:"items" validate:"required,min=1,dive"`
}
