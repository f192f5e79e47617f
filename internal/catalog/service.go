package catalog

import (
	"context"
	"log/slog"
)

// Service applies catalog business rules on top of the repository.
type Service struct {
	logger *slog.Logger
	repo   Repository
}

// NewService constructs the catalog service.
func NewService(logger *slog.Logger, repo Repository) *Service {
	return &Service{logger: logger, repo: repo}
}

func (s *Service) ListProducts(ctx context.Context, orgID int64) ([]Product, error) {
	return s.repo.ListProducts(ctx, orgID)
}

func (s *Service) GetProduct(ctx context.Context, orgID, id int64) (Product, error) {
	return s.repo.GetProduct(ctx, orgID, id)
}

func (s *Service) CreateProduct(ctx context.Context, orgID int64, in ProductInput) (Product, error) {
	p := Product{
		OrganizationID:   orgID,
		Name:             in.Name,
		Price:            in.Price,
		BuyPrice:         in.BuyPrice,
		OtherCostPerUnit: in.OtherCostPerUnit,
		Stock:            in.Stock,
		Active:           in.Stock > 0,
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.logger.Info("product created", slog.Int64("org_id", orgID), slog.Int64("product_id", created.ID))
	return created, nil
}

// UpdateProduct changes pricing and naming. Stock is deliberately absent from
// the input: movements go through orders and drying gains.
func (s *Service) UpdateProduct(ctx context.Context, orgID, id int64, in ProductInput) (Product, error) {
	current, err := s.repo.GetProduct(ctx, orgID, id)
	if err != nil {
		return Product{}, err
	}
	current.Name = in.Name
	current.Price = in.Price
	current.BuyPrice = in.BuyPrice
	current.OtherCostPerUnit = in.OtherCostPerUnit
	if err := s.repo.UpdateProduct(ctx, orgID, id, current); err != nil {
		return Product{}, err
	}
	return s.repo.GetProduct(ctx, orgID, id)
}

func (s *Service) DeleteProduct(ctx context.Context, orgID, id int64) error {
	return s.repo.DeleteProduct(ctx, orgID, id)
}

func (s *Service) ListCustomers(ctx context.Context, orgID int64) ([]Customer, error) {
	return s.repo.ListCustomers(ctx, orgID)
}

func (s *Service) GetCustomer(ctx context.Context, orgID, id int64) (Customer, error) {
	return s.repo.GetCustomer(ctx, orgID, id)
}

func (s *Service) CreateCustomer(ctx context.Context, orgID int64, in ContactInput) (Customer, error) {
	return s.repo.CreateCustomer(ctx, Customer{
		OrganizationID: orgID,
		Name:           in.Name,
		Phone:          in.Phone,
		Address:        in.Address,
	})
}

func (s *Service) UpdateCustomer(ctx context.Context, orgID, id int64, in ContactInput) (Customer, error) {
	if err := s.repo.UpdateCustomer(ctx, orgID, id, Customer{Name: in.Name, Phone: in.Phone, Address: in.Address}); err != nil {
		return Customer{}, err
	}
	return s.repo.GetCustomer(ctx, orgID, id)
}

func (s *Service) DeleteCustomer(ctx context.Context, orgID, id int64) error {
	return s.repo.DeleteCustomer(ctx, orgID, id)
}

func (s *Service) ListVendors(ctx context.Context, orgID int64) ([]Vendor, error) {
	return s.repo.ListVendors(ctx, orgID)
}

func (s *Service) GetVendor(ctx context.Context, orgID, id int64) (Vendor, error) {
	return s.repo.GetVendor(ctx, orgID, id)
}

func (s *Service) CreateVendor(ctx context.Context, orgID int64, in ContactInput) (Vendor, error) {
	return s.repo.CreateVendor(ctx, Vendor{
		OrganizationID: orgID,
		Name:           in.Name,
		Phone:          in.Phone,
		Address:        in.Address,
	})
}

func (s *Service) UpdateVendor(ctx context.Context, orgID, id int64, in ContactInput) (Vendor, error) {
	if err := s.repo.UpdateVendor(ctx, orgID, id, Vendor{Name: in.Name, Phone: in.Phone, Address: in.Address}); err != nil {
		return Vendor{}, err
	}
	return s.repo.GetVendor(ctx, orgID, id)
}

func (s *Service) DeleteVendor(ctx context.Context, orgID, id int64) error {
	return s.repo.DeleteVendor(ctx, orgID, id)
}

// CustomerExists reports whether the customer belongs to the organization.
func (s *Service) CustomerExists(ctx context.Context, orgID, id int64) error {
	_, err := s.repo.GetCustomer(ctx, orgID, id)
	return err
}

// VendorExists reports whether the vendor belongs to the organization.
func (s *Service) VendorExists(ctx context.Context, orgID, id int64) error {
	_, err := s.repo.GetVendor(ctx, orgID, id)
	return err
}
