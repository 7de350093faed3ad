package partner

import (
	"context"

	"github.com/dukkan/backend/internal/domain/partner"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerInput carries customer contact details
type CustomerInput struct {
	Name      string
	Phone     string
	Email     string
	TaxNumber string
	Address   string
	Notes     string
}

// CustomerDTO is the response shape of a customer
type CustomerDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	TaxNumber   string          `json:"tax_number,omitempty"`
	Address     string          `json:"address,omitempty"`
	OpenBalance decimal.Decimal `json:"open_balance"`
	IsActive    bool            `json:"is_active"`
	Notes       string          `json:"notes,omitempty"`
}

// ToCustomerDTO converts a customer to its response shape
func ToCustomerDTO(c *partner.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:          c.ID,
		Name:        c.Name,
		Phone:       c.Phone,
		Email:       c.Email,
		TaxNumber:   c.TaxNumber,
		Address:     c.Address,
		OpenBalance: c.OpenBalance,
		IsActive:    c.IsActive,
		Notes:       c.Notes,
	}
}

// CustomerService manages customers and their receivable balances.
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomer creates a customer
func (s *CustomerService) CreateCustomer(ctx context.Context, tenantID, userID uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	customer, err := partner.NewCustomer(tenantID, input.Name)
	if err != nil {
		return nil, err
	}
	customer.SetCreatedBy(userID)
	if err := customer.Update(input.Name, input.Phone, input.Email, input.TaxNumber, input.Address, input.Notes); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerDTO(customer), nil
}

// UpdateCustomer updates a customer's contact details
func (s *CustomerService) UpdateCustomer(ctx context.Context, tenantID, customerID uuid.UUID, input CustomerInput) (*CustomerDTO, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.ErrNotFound
	}
	if err := customer.Update(input.Name, input.Phone, input.Email, input.TaxNumber, input.Address, input.Notes); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	return ToCustomerDTO(customer), nil
}

// DeactivateCustomer archives a customer. Customers with an open balance
// cannot be deactivated.
func (s *CustomerService) DeactivateCustomer(ctx context.Context, tenantID, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.ErrNotFound
	}
	if !customer.OpenBalance.IsZero() {
		return shared.NewDomainError("CUSTOMER_HAS_BALANCE", "Customer still has an open balance")
	}
	if err := customer.Deactivate(); err != nil {
		return err
	}
	return s.customerRepo.Save(ctx, customer)
}

// GetCustomer returns a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, shared.ErrNotFound
	}
	return ToCustomerDTO(customer), nil
}

// ListCustomers returns a page of customers
func (s *CustomerService) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CustomerDTO], error) {
	items, err := s.customerRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToCustomerDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListDebtors returns customers with a non-zero open balance
func (s *CustomerService) ListDebtors(ctx context.Context, tenantID uuid.UUID) ([]CustomerDTO, error) {
	items, err := s.customerRepo.FindWithOpenBalanceForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dtos := make([]CustomerDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToCustomerDTO(&items[i]))
	}
	return dtos, nil
}
