package gains

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// RecordInput carries a drying gain entry.
type RecordInput struct {
	ProductID int64   `json:"product_id" validate:"required,gt=0"`
	Quantity  int64   `json:"quantity" validate:"required,gte=1"`
	UnitCost  float64 `json:"unit_cost" validate:"gte=0"`
	Note      string  `json:"note" validate:"max=400"`
}

// Service records drying gains and their stock effect.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs the gain service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

// Record inserts the gain row and bumps product stock in one transaction.
// The active flag flip happens after commit and is best effort: a recorded
// gain is never rolled back because the flag write failed.
func (s *Service) Record(ctx context.Context, orgID int64, in RecordInput) (DryingGain, error) {
	if in.Quantity < 1 {
		return DryingGain{}, fmt.Errorf("quantity must be a positive whole number: %w", shared.ErrValidation)
	}

	gain := DryingGain{
		OrganizationID: orgID,
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitCost:       in.UnitCost,
		Note:           in.Note,
	}
	var newStock int64
	err := s.repo.WithTx(ctx, func(tx TxRepository) error {
		stock, err := tx.IncrementProductStock(ctx, orgID, in.ProductID, in.Quantity)
		if err != nil {
			return err
		}
		newStock = stock
		return tx.InsertGain(ctx, &gain)
	})
	if err != nil {
		return DryingGain{}, err
	}

	if newStock > 0 {
		if err := s.repo.SetProductActive(ctx, orgID, in.ProductID, true); err != nil {
			s.logger.Warn("activate product after drying gain",
				slog.Int64("org_id", orgID),
				slog.Int64("product_id", in.ProductID),
				slog.Any("error", err))
		}
	}

	s.logger.Info("drying gain recorded",
		slog.Int64("org_id", orgID),
		slog.Int64("product_id", in.ProductID),
		slog.Int64("quantity", in.Quantity),
		slog.Int64("stock", newStock))
	return gain, nil
}

// List returns gains for the organization, optionally filtered by product.
func (s *Service) List(ctx context.Context, orgID, productID int64) ([]DryingGain, error) {
	return s.repo.List(ctx, orgID, productID)
}
