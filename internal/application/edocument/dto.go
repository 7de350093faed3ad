package edocument

import (
	"time"

	"github.com/dukkan/backend/internal/domain/edocument"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentInput requests an e-document for a completed sale
type CreateDocumentInput struct {
	SaleID uuid.UUID
	Type   edocument.DocumentType
}

// ClearingResultInput carries the clearing system's decision on a sent document
type ClearingResultInput struct {
	ResponseCode string
	Reason       string
}

// TransitionLogDTO is the response shape of one audit row
type TransitionLogDTO struct {
	ID           uuid.UUID                `json:"id"`
	StatusBefore edocument.DocumentStatus `json:"status_before"`
	StatusAfter  edocument.DocumentStatus `json:"status_after"`
	Message      string                   `json:"message,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// DocumentDTO is the response shape of an e-document
type DocumentDTO struct {
	ID           uuid.UUID                `json:"id"`
	SaleID       uuid.UUID                `json:"sale_id"`
	Type         edocument.DocumentType   `json:"type"`
	Status       edocument.DocumentStatus `json:"status"`
	GrandTotal   decimal.Decimal          `json:"grand_total"`
	ExternalUUID string                   `json:"external_uuid,omitempty"`
	ResponseCode string                   `json:"response_code,omitempty"`
	Logs         []TransitionLogDTO       `json:"logs,omitempty"`
	SubmittedAt  *time.Time               `json:"submitted_at,omitempty"`
	FinalizedAt  *time.Time               `json:"finalized_at,omitempty"`
}

// ToDocumentDTO converts an e-document to its response shape
func ToDocumentDTO(d *edocument.EDocument) *DocumentDTO {
	logs := make([]TransitionLogDTO, 0, len(d.Logs))
	for _, log := range d.Logs {
		logs = append(logs, TransitionLogDTO{
			ID:           log.ID,
			StatusBefore: log.StatusBefore,
			StatusAfter:  log.StatusAfter,
			Message:      log.Message,
			CreatedAt:    log.CreatedAt,
		})
	}
	return &DocumentDTO{
		ID:           d.ID,
		SaleID:       d.SaleID,
		Type:         d.Type,
		Status:       d.Status,
		GrandTotal:   d.GrandTotal,
		ExternalUUID: d.ExternalUUID,
		ResponseCode: d.ResponseCode,
		Logs:         logs,
		SubmittedAt:  d.SubmittedAt,
		FinalizedAt:  d.FinalizedAt,
	}
}
