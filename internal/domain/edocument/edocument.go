package edocument

import (
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType distinguishes the kinds of electronic documents submitted to
// the government clearing system.
type DocumentType string

const (
	DocumentTypeEInvoice DocumentType = "e_invoice"
	DocumentTypeEArchive DocumentType = "e_archive"
)

// IsValid checks if the document type is a valid value
func (t DocumentType) IsValid() bool {
	return t == DocumentTypeEInvoice || t == DocumentTypeEArchive
}

// DocumentStatus represents the state of an e-document.
// Allowed transitions: draft -> pending -> sent -> approved|rejected,
// and draft|pending -> cancelled. Everything else is rejected.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPending   DocumentStatus = "pending"
	DocumentStatusSent      DocumentStatus = "sent"
	DocumentStatusApproved  DocumentStatus = "approved"
	DocumentStatusRejected  DocumentStatus = "rejected"
	DocumentStatusCancelled DocumentStatus = "cancelled"
)

// CanTransitionTo checks if a status transition is allowed
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case DocumentStatusDraft:
		return target == DocumentStatusPending || target == DocumentStatusCancelled
	case DocumentStatusPending:
		return target == DocumentStatusSent || target == DocumentStatusCancelled
	case DocumentStatusSent:
		return target == DocumentStatusApproved || target == DocumentStatusRejected
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusApproved || s == DocumentStatusRejected || s == DocumentStatusCancelled
}

// EDocument represents an invoice submission to the clearing system.
// Every successful status transition appends exactly one log row; a rejected
// transition appends nothing.
type EDocument struct {
	shared.TenantAggregateRoot
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type         DocumentType    `gorm:"type:varchar(20);not null"`
	Status       DocumentStatus  `gorm:"type:varchar(20);not null;default:'draft'"`
	GrandTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ExternalUUID string          `gorm:"type:varchar(100);index"`
	ResponseCode string          `gorm:"type:varchar(50)"`
	Logs         []TransitionLog `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
	SubmittedAt  *time.Time
	FinalizedAt  *time.Time
}

// TableName returns the table name for GORM
func (EDocument) TableName() string {
	return "e_documents"
}

// TransitionLog is an append-only audit row, one per status transition.
type TransitionLog struct {
	shared.BaseEntity
	DocumentID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	TenantID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	StatusBefore DocumentStatus `gorm:"type:varchar(20);not null"`
	StatusAfter  DocumentStatus `gorm:"type:varchar(20);not null"`
	Message      string         `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (TransitionLog) TableName() string {
	return "e_document_logs"
}

// NewEDocument creates a draft e-document for a sale
func NewEDocument(tenantID, saleID uuid.UUID, docType DocumentType, grandTotal decimal.Decimal) (*EDocument, error) {
	if !docType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_TYPE", "Invalid e-document type")
	}
	if grandTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Document total cannot be negative")
	}
	return &EDocument{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SaleID:              saleID,
		Type:                docType,
		Status:              DocumentStatusDraft,
		GrandTotal:          grandTotal,
		Logs:                make([]TransitionLog, 0),
	}, nil
}

// Submit moves the document from draft to pending
func (d *EDocument) Submit() error {
	return d.transitionTo(DocumentStatusPending, "queued for submission")
}

// MarkSent records a successful handoff to the clearing system
func (d *EDocument) MarkSent(externalUUID string) error {
	if err := d.transitionTo(DocumentStatusSent, "submitted to clearing system"); err != nil {
		return err
	}
	d.ExternalUUID = externalUUID
	now := time.Now()
	d.SubmittedAt = &now
	return nil
}

// Approve records clearing-system approval
func (d *EDocument) Approve(responseCode string) error {
	if err := d.transitionTo(DocumentStatusApproved, "approved by clearing system"); err != nil {
		return err
	}
	d.ResponseCode = responseCode
	now := time.Now()
	d.FinalizedAt = &now
	return nil
}

// Reject records clearing-system rejection
func (d *EDocument) Reject(responseCode, reason string) error {
	msg := "rejected by clearing system"
	if reason != "" {
		msg = msg + ": " + reason
	}
	if err := d.transitionTo(DocumentStatusRejected, msg); err != nil {
		return err
	}
	d.ResponseCode = responseCode
	now := time.Now()
	d.FinalizedAt = &now
	return nil
}

// Cancel withdraws a document that has not been sent yet
func (d *EDocument) Cancel() error {
	return d.transitionTo(DocumentStatusCancelled, "cancelled before submission")
}

func (d *EDocument) transitionTo(target DocumentStatus, message string) error {
	if !d.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_DOCUMENT_TRANSITION",
			"E-document cannot move from "+string(d.Status)+" to "+string(target))
	}
	d.Logs = append(d.Logs, TransitionLog{
		BaseEntity:   shared.NewBaseEntity(),
		DocumentID:   d.ID,
		TenantID:     d.TenantID,
		StatusBefore: d.Status,
		StatusAfter:  target,
		Message:      message,
	})
	d.Status = target
	d.Touch()
	d.IncrementVersion()
	return nil
}
