package finance

import (
	"strings"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of money account
type AccountType string

const (
	AccountTypeCash AccountType = "cash"
	AccountTypeBank AccountType = "bank"
	AccountTypePOS  AccountType = "pos"
)

// IsValid checks if the account type is a valid value
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypePOS:
		return true
	}
	return false
}

// Account is a cash, bank or POS account with a running balance. The balance
// is only ever changed together with an AccountMovement row recording the
// change and the resulting balance.
type Account struct {
	shared.TenantAggregateRoot
	Name     string          `gorm:"type:varchar(100);not null"`
	Type     AccountType     `gorm:"type:varchar(20);not null"`
	Currency string          `gorm:"type:varchar(10);not null;default:'TRY'"`
	Balance  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new active account with zero balance
func NewAccount(tenantID uuid.UUID, name string, accountType AccountType, currency string) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name must be 1-100 characters")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type")
	}
	if currency == "" {
		currency = "TRY"
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                accountType,
		Currency:            currency,
		Balance:             decimal.Zero,
		IsActive:            true,
	}, nil
}

// Rename changes the account name
func (a *Account) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Account name must be 1-100 characters")
	}
	a.Name = name
	a.Touch()
	a.IncrementVersion()
	return nil
}

// Credit increases the balance and returns the movement recording it
func (a *Account) Credit(amount decimal.Decimal, sourceType MovementSourceType, sourceID *uuid.UUID, description string) (*AccountMovement, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !a.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}
	a.Balance = a.Balance.Add(amount)
	a.Touch()
	a.IncrementVersion()
	return newAccountMovement(a, MovementDirectionIn, amount, sourceType, sourceID, description), nil
}

// Debit decreases the balance and returns the movement recording it.
// The balance cannot go negative.
func (a *Account) Debit(amount decimal.Decimal, sourceType MovementSourceType, sourceID *uuid.UUID, description string) (*AccountMovement, error) {
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !a.IsActive {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}
	if a.Balance.LessThan(amount) {
		return nil, shared.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	a.Touch()
	a.IncrementVersion()
	return newAccountMovement(a, MovementDirectionOut, amount, sourceType, sourceID, description), nil
}

// Deactivate archives the account. Accounts with a non-zero balance cannot
// be deactivated.
func (a *Account) Deactivate() error {
	if !a.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Account is already inactive")
	}
	if !a.Balance.IsZero() {
		return shared.NewDomainError("ACCOUNT_NOT_EMPTY", "Account balance must be zero before deactivation")
	}
	a.IsActive = false
	a.Touch()
	a.IncrementVersion()
	return nil
}
