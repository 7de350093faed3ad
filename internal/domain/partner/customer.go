package partner

import (
	"strings"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a buyer with an optional receivable running balance.
// OpenBalance grows on credit sales and shrinks on payments and returns.
type Customer struct {
	shared.TenantAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(50)"`
	Email       string          `gorm:"type:varchar(200)"`
	TaxNumber   string          `gorm:"type:varchar(50)"`
	Address     string          `gorm:"type:text"`
	OpenBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
	Notes       string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Customer name must be 1-200 characters")
	}
	return &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		OpenBalance:         decimal.Zero,
		IsActive:            true,
	}, nil
}

// Update updates the customer's contact details
func (c *Customer) Update(name, phone, email, taxNumber, address, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name must be 1-200 characters")
	}
	c.Name = name
	c.Phone = phone
	c.Email = email
	c.TaxNumber = taxNumber
	c.Address = address
	c.Notes = notes
	c.Touch()
	c.IncrementVersion()
	return nil
}

// AddReceivable increases the customer's open balance (credit sale)
func (c *Customer) AddReceivable(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	c.OpenBalance = c.OpenBalance.Add(amount)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// ReduceReceivable decreases the customer's open balance (payment or return).
// The balance may go negative, representing credit owed to the customer.
func (c *Customer) ReduceReceivable(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	c.OpenBalance = c.OpenBalance.Sub(amount)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate archives the customer
func (c *Customer) Deactivate() error {
	if !c.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Customer is already inactive")
	}
	c.IsActive = false
	c.Touch()
	c.IncrementVersion()
	return nil
}
