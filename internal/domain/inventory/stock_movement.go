package inventory

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies why stock changed
type MovementType string

const (
	MovementTypeSale       MovementType = "sale"
	MovementTypeSaleCancel MovementType = "sale_cancel"
	MovementTypeReturn     MovementType = "return"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeInitial    MovementType = "initial"
)

// IsValid checks if the movement type is a valid value
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeSale, MovementTypeSaleCancel, MovementTypeReturn,
		MovementTypeAdjustment, MovementTypeInitial:
		return true
	}
	return false
}

// SourceType identifies the aggregate that caused a movement
type SourceType string

const (
	SourceTypeSale   SourceType = "sale"
	SourceTypeReturn SourceType = "return"
	SourceTypeManual SourceType = "manual"
)

// StockMovement is an immutable audit row recording a single stock change.
// Quantity is signed: negative for outbound, positive for inbound.
// StockAfter is the product's stock level immediately after the movement,
// so the movement history of a product reads as a running total.
type StockMovement struct {
	shared.BaseEntity
	TenantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type       MovementType    `gorm:"type:varchar(20);not null;index"`
	Quantity   decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	StockAfter decimal.Decimal `gorm:"type:decimal(18,3);not null"`
	SourceType SourceType      `gorm:"type:varchar(20);not null"`
	SourceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Note       string          `gorm:"type:varchar(500)"`
	MovedAt    time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a movement row. stockBefore is the product's stock
// level before applying the change; quantity is the signed change.
func NewStockMovement(tenantID, productID uuid.UUID, movementType MovementType, quantity, stockBefore decimal.Decimal, sourceType SourceType, sourceID *uuid.UUID, note string) (*StockMovement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid stock movement type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	stockAfter := stockBefore.Add(quantity)
	if stockAfter.IsNegative() {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		ProductID:  productID,
		Type:       movementType,
		Quantity:   quantity,
		StockAfter: stockAfter,
		SourceType: sourceType,
		SourceID:   sourceID,
		Note:       note,
		MovedAt:    time.Now(),
	}, nil
}

// IsInbound reports whether the movement increased stock
func (m *StockMovement) IsInbound() bool {
	return m.Quantity.IsPositive()
}
