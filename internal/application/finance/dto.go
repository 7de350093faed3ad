package finance

import (
	"time"

	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateAccountInput is the request to create an account
type CreateAccountInput struct {
	Name     string
	Type     finance.AccountType
	Currency string
}

// MoneyInput is a manual deposit or withdrawal request
type MoneyInput struct {
	Amount      decimal.Decimal
	Description string
}

// TransferInput moves money between two accounts of the same tenant
type TransferInput struct {
	FromAccountID uuid.UUID
	ToAccountID   uuid.UUID
	Amount        decimal.Decimal
	Description   string
}

// RecordPaymentInput records money received from a customer
type RecordPaymentInput struct {
	AccountID  uuid.UUID
	CustomerID *uuid.UUID
	SaleID     *uuid.UUID
	Method     string
	Amount     decimal.Decimal
	Note       string
}

// AccountDTO is the response shape of an account
type AccountDTO struct {
	ID       uuid.UUID           `json:"id"`
	Name     string              `json:"name"`
	Type     finance.AccountType `json:"type"`
	Currency string              `json:"currency"`
	Balance  decimal.Decimal     `json:"balance"`
	IsActive bool                `json:"is_active"`
}

// ToAccountDTO converts an account to its response shape
func ToAccountDTO(a *finance.Account) *AccountDTO {
	return &AccountDTO{
		ID:       a.ID,
		Name:     a.Name,
		Type:     a.Type,
		Currency: a.Currency,
		Balance:  a.Balance,
		IsActive: a.IsActive,
	}
}

// AccountMovementDTO is the response shape of a ledger row
type AccountMovementDTO struct {
	ID           uuid.UUID                  `json:"id"`
	AccountID    uuid.UUID                  `json:"account_id"`
	Direction    finance.MovementDirection  `json:"direction"`
	Amount       decimal.Decimal            `json:"amount"`
	BalanceAfter decimal.Decimal            `json:"balance_after"`
	SourceType   finance.MovementSourceType `json:"source_type"`
	SourceID     *uuid.UUID                 `json:"source_id,omitempty"`
	Description  string                     `json:"description,omitempty"`
	MovedAt      time.Time                  `json:"moved_at"`
}

// ToAccountMovementDTO converts a ledger row to its response shape
func ToAccountMovementDTO(m *finance.AccountMovement) *AccountMovementDTO {
	return &AccountMovementDTO{
		ID:           m.ID,
		AccountID:    m.AccountID,
		Direction:    m.Direction,
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		SourceType:   m.SourceType,
		SourceID:     m.SourceID,
		Description:  m.Description,
		MovedAt:      m.MovedAt,
	}
}

// PaymentDTO is the response shape of a payment
type PaymentDTO struct {
	ID         uuid.UUID       `json:"id"`
	AccountID  uuid.UUID       `json:"account_id"`
	SaleID     *uuid.UUID      `json:"sale_id,omitempty"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
	Method     string          `json:"method"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	PaidAt     time.Time       `json:"paid_at"`
}

// ToPaymentDTO converts a payment to its response shape
func ToPaymentDTO(p *finance.Payment) *PaymentDTO {
	return &PaymentDTO{
		ID:         p.ID,
		AccountID:  p.AccountID,
		SaleID:     p.SaleID,
		CustomerID: p.CustomerID,
		Method:     p.Method,
		Amount:     p.Amount,
		Note:       p.Note,
		PaidAt:     p.PaidAt,
	}
}
