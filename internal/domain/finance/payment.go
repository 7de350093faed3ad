package finance

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records money received, tied to a sale, a customer, or freestanding.
type Payment struct {
	shared.TenantAggregateRoot
	SaleID     *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method     string          `gorm:"type:varchar(20);not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note       string          `gorm:"type:varchar(500)"`
	PaidAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment row
func NewPayment(tenantID, accountID uuid.UUID, saleID, customerID *uuid.UUID, method string, amount decimal.Decimal, note string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if method == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is required")
	}
	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		CustomerID:          customerID,
		AccountID:           accountID,
		Method:              method,
		Amount:              amount,
		Note:                note,
		PaidAt:              time.Now(),
	}, nil
}
