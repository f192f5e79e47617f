package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/ballast-erp/ballast-erp/internal/shared"
)

// TransactionInput carries a manual cash book entry.
type TransactionInput struct {
	Type        string  `json:"type" validate:"required,oneof=income expense"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"max=120"`
	Description string  `json:"description" validate:"max=400"`
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// Service manages manual transactions.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs the ledger service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

func (s *Service) Create(ctx context.Context, orgID int64, in TransactionInput) (Transaction, error) {
	t := Transaction{
		OrganizationID: orgID,
		Type:           in.Type,
		Amount:         in.Amount,
		Category:       in.Category,
		Description:    in.Description,
	}
	if in.Date != "" {
		// Validated upstream; a parse failure here means the validator and
		// this layout diverged.
		parsed, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return Transaction{}, shared.ErrValidation
		}
		t.Date = parsed
	}
	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return Transaction{}, err
	}
	s.logger.Info("transaction recorded",
		slog.Int64("org_id", orgID),
		slog.String("type", created.Type),
		slog.Float64("amount", created.Amount))
	return created, nil
}

// UpdatePatch carries the mutable transaction fields. Nil leaves a field
// unchanged.
type UpdatePatch struct {
	Type        *string  `json:"type" validate:"omitempty,oneof=income expense"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=400"`
	Date        *string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (s *Service) Update(ctx context.Context, orgID, id int64, patch UpdatePatch) (Transaction, error) {
	t, err := s.repo.GetTransaction(ctx, orgID, id)
	if err != nil {
		return Transaction{}, err
	}
	if patch.Type != nil {
		t.Type = *patch.Type
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Date != nil {
		parsed, err := time.Parse("2006-01-02", *patch.Date)
		if err != nil {
			return Transaction{}, shared.ErrValidation
		}
		t.Date = parsed
	}
	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return Transaction{}, err
	}
	return s.repo.GetTransaction(ctx, orgID, id)
}

func (s *Service) Get(ctx context.Context, orgID, id int64) (Transaction, error) {
	return s.repo.GetTransaction(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID int64, page shared.Pagination) ([]Transaction, shared.Pagination, error) {
	list, err := s.repo.ListTransactions(ctx, orgID, page)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	total, err := s.repo.CountTransactions(ctx, orgID)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(page.Page, page.PerPage, total), nil
}

func (s *Service) Delete(ctx context.Context, orgID, id int64) error {
	return s.repo.DeleteTransaction(ctx, orgID, id)
}
