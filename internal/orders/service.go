package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// CounterpartyDirectory checks that an order's counterparty exists within the
// organization. The catalog service satisfies it.
type CounterpartyDirectory interface {
	CustomerExists(ctx context.Context, orgID, id int64) error
	VendorExists(ctx context.Context, orgID, id int64) error
}

// Service runs order creation, mutation and the stock movements they imply.
type Service struct {
	logger             *slog.Logger
	repo               Repository
	directory          CounterpartyDirectory
	allowNegativeStock bool
}

// NewService constructs the order service.
func NewService(logger *slog.Logger, repo Repository, directory CounterpartyDirectory, allowNegativeStock bool) *Service {
	return &Service{logger: logger, repo: repo, directory: directory, allowNegativeStock: allowNegativeStock}
}

// stockDelta is how one line moves product stock: sells ship units out, buys
// bring units in.
func stockDelta(kind Kind, qty int64) int64 {
	if kind == KindSell {
		return -qty
	}
	return qty
}

// validateItems enforces the line invariants regardless of which transport
// the request arrived through: at least one line, every quantity ≥ 1.
func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return fmt.Errorf("order needs at least one item: %w", shared.ErrValidation)
	}
	for _, it := range items {
		if it.Quantity < 1 {
			return fmt.Errorf("product %d: quantity must be a positive whole number: %w",
				it.ProductID, shared.ErrValidation)
		}
	}
	return nil
}

func (s *Service) counterpartyExists(ctx context.Context, orgID int64, kind Kind, id int64) error {
	if kind == KindSell {
		return s.directory.CustomerExists(ctx, orgID, id)
	}
	return s.directory.VendorExists(ctx, orgID, id)
}

// applyLine locks the product, snapshots its name and unit price, moves stock
// and returns the frozen line. Must run inside the order transaction.
func (s *Service) applyLine(ctx context.Context, tx TxRepository, orgID int64, kind Kind, in ItemInput) (OrderItem, error) {
	product, err := tx.LockProduct(ctx, orgID, in.ProductID)
	if err != nil {
		return OrderItem{}, fmt.Errorf("product %d: %w", in.ProductID, err)
	}

	newStock := product.Stock + stockDelta(kind, in.Quantity)
	if newStock < 0 && !s.allowNegativeStock {
		return OrderItem{}, fmt.Errorf("product %q has %d in stock, need %d: %w",
			product.Name, product.Stock, in.Quantity, shared.ErrInsufficientStock)
	}
	if err := tx.SetProductStock(ctx, orgID, product.ID, newStock, newStock > 0); err != nil {
		return OrderItem{}, err
	}

	price := product.Price
	if kind == KindBuy {
		price = product.BuyPrice
	}
	return OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    in.Quantity,
		Price:       price,
		Total:       price * float64(in.Quantity),
	}, nil
}

// restoreLine reverses the stock movement a line made when it was applied.
func (s *Service) restoreLine(ctx context.Context, tx TxRepository, orgID int64, kind Kind, it OrderItem) error {
	product, err := tx.LockProduct(ctx, orgID, it.ProductID)
	if err != nil {
		// The product may have been deleted since the order was written;
		// the order mutation still has to go through.
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	newStock := product.Stock - stockDelta(kind, it.Quantity)
	if newStock < 0 && !s.allowNegativeStock {
		newStock = 0
	}
	return tx.SetProductStock(ctx, orgID, product.ID, newStock, newStock > 0)
}

// Create writes the order header, its lines and every stock movement as one
// transaction. Nothing is observable until all of it commits.
func (s *Service) Create(ctx context.Context, orgID int64, kind Kind, in CreateInput) (Order, error) {
	if err := validateItems(in.Items); err != nil {
		return Order{}, err
	}
	if err := s.counterpartyExists(ctx, orgID, kind, in.CounterpartyID); err != nil {
		return Order{}, fmt.Errorf("counterparty %d: %w", in.CounterpartyID, err)
	}

	order := Order{
		OrganizationID:   orgID,
		Kind:             kind,
		CounterpartyID:   in.CounterpartyID,
		Status:           StatusPending,
		Discount:         in.Discount,
		PaidAmount:       in.PaidAmount,
		TransportPerTrip: in.TransportPerTrip,
		TransportTrips:   in.TransportTrips,
		TransportTotal:   in.TransportPerTrip * float64(in.TransportTrips),
		DeliveryAddress:  in.DeliveryAddress,
	}

	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		items := make([]OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			item, err := s.applyLine(ctx, tx, orgID, kind, line)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := tx.InsertOrder(ctx, &order); err != nil {
			return err
		}
		if err := tx.InsertItems(ctx, order.ID, items); err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.Info("order created",
		slog.Int64("org_id", orgID),
		slog.String("kind", string(kind)),
		slog.Int64("order_id", order.ID),
		slog.Float64("grand_total", order.GrandTotal()))
	return order, nil
}

// Update patches mutable header fields. Transport total is always recomputed
// from its factors.
func (s *Service) Update(ctx context.Context, orgID, orderID int64, in UpdateInput) (Order, error) {
	order, err := s.repo.Get(ctx, orgID, orderID)
	if err != nil {
		return Order{}, err
	}
	if in.Status != nil {
		order.Status = *in.Status
	}
	if in.Discount != nil {
		order.Discount = *in.Discount
	}
	if in.PaidAmount != nil {
		order.PaidAmount = *in.PaidAmount
	}
	if in.TransportPerTrip != nil {
		order.TransportPerTrip = *in.TransportPerTrip
	}
	if in.TransportTrips != nil {
		order.TransportTrips = *in.TransportTrips
	}
	if in.DeliveryAddress != nil {
		order.DeliveryAddress = *in.DeliveryAddress
	}
	order.TransportTotal = order.TransportPerTrip * float64(order.TransportTrips)

	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, orgID, orderID)
}

// ReplaceItems swaps the order's full line set: old stock movements are
// reversed and the new lines applied, all in one transaction.
func (s *Service) ReplaceItems(ctx context.Context, orgID, orderID int64, in ReplaceItemsInput) (Order, error) {
	if err := validateItems(in.Items); err != nil {
		return Order{}, err
	}
	order, err := s.repo.Get(ctx, orgID, orderID)
	if err != nil {
		return Order{}, err
	}

	err = s.repo.WithTx(ctx, func(tx TxRepository) error {
		old, err := tx.ListItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, it := range old {
			if err := s.restoreLine(ctx, tx, orgID, order.Kind, it); err != nil {
				return err
			}
		}
		if err := tx.DeleteItems(ctx, orderID); err != nil {
			return err
		}
		items := make([]OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			item, err := s.applyLine(ctx, tx, orgID, order.Kind, line)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := tx.InsertItems(ctx, orderID, items); err != nil {
			return err
		}
		return tx.UpdateOrder(ctx, order)
	})
	if err != nil {
		return Order{}, err
	}
	return s.repo.Get(ctx, orgID, orderID)
}

// Delete reverses the order's stock movements, removes its lines and then the
// header, in that sequence, inside one transaction.
func (s *Service) Delete(ctx context.Context, orgID, orderID int64) error {
	order, err := s.repo.Get(ctx, orgID, orderID)
	if err != nil {
		return err
	}
	return s.repo.WithTx(ctx, func(tx TxRepository) error {
		items, err := tx.ListItems(ctx, orderID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := s.restoreLine(ctx, tx, orgID, order.Kind, it); err != nil {
				return err
			}
		}
		if err := tx.DeleteItems(ctx, orderID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, orgID, orderID)
	})
}

// Get returns one order with its lines.
func (s *Service) Get(ctx context.Context, orgID, orderID int64) (Order, error) {
	return s.repo.Get(ctx, orgID, orderID)
}

// List returns a page of one order book, newest first, with the pagination
// metadata for the full book.
func (s *Service) List(ctx context.Context, orgID int64, kind Kind, page shared.Pagination) ([]Order, shared.Pagination, error) {
	list, err := s.repo.List(ctx, orgID, kind, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.Count(ctx, orgID, kind)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page.Page, page.PerPage, total), nil
}
