package finance

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection is the direction of money flow for an account movement
type MovementDirection string

const (
	MovementDirectionIn  MovementDirection = "in"
	MovementDirectionOut MovementDirection = "out"
)

// MovementSourceType identifies what caused an account movement
type MovementSourceType string

const (
	MovementSourceSale     MovementSourceType = "sale"
	MovementSourceReturn   MovementSourceType = "return"
	MovementSourcePayment  MovementSourceType = "payment"
	MovementSourceTransfer MovementSourceType = "transfer"
	MovementSourceManual   MovementSourceType = "manual"
)

// AccountMovement is an immutable ledger row. BalanceAfter is the account
// balance immediately after the movement, so movements read as a running
// total in creation order.
type AccountMovement struct {
	shared.BaseEntity
	TenantID     uuid.UUID          `gorm:"type:uuid;not null;index"`
	AccountID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	Direction    MovementDirection  `gorm:"type:varchar(10);not null"`
	Amount       decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	BalanceAfter decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	SourceType   MovementSourceType `gorm:"type:varchar(20);not null"`
	SourceID     *uuid.UUID         `gorm:"type:uuid;index"`
	Description  string             `gorm:"type:varchar(500)"`
	MovedAt      time.Time          `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (AccountMovement) TableName() string {
	return "account_movements"
}

// newAccountMovement captures the account's balance after the mutation has
// been applied. Only Account.Credit and Account.Debit create movements, which
// keeps the balance_after running total consistent by construction.
func newAccountMovement(a *Account, direction MovementDirection, amount decimal.Decimal, sourceType MovementSourceType, sourceID *uuid.UUID, description string) *AccountMovement {
	return &AccountMovement{
		BaseEntity:   shared.NewBaseEntity(),
		TenantID:     a.TenantID,
		AccountID:    a.ID,
		Direction:    direction,
		Amount:       amount,
		BalanceAfter: a.Balance,
		SourceType:   sourceType,
		SourceID:     sourceID,
		Description:  description,
		MovedAt:      time.Now(),
	}
}

// SignedAmount returns the amount with direction applied
func (m *AccountMovement) SignedAmount() decimal.Decimal {
	if m.Direction == MovementDirectionOut {
		return m.Amount.Neg()
	}
	return m.Amount
}
