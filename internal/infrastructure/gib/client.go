package gib

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appedocument "github.com/dukkan/backend/internal/application/edocument"
	"github.com/dukkan/backend/internal/domain/edocument"
	"github.com/dukkan/backend/internal/infrastructure/config"
)

const sendPath = "/api/v1/einvoice/send"

// sendRequest is the submission payload sent to the clearing system
type sendRequest struct {
	DocumentID string `json:"document_id"`
	TenantID   string `json:"tenant_id"`
	SaleID     string `json:"sale_id"`
	Type       string `json:"type"`
	GrandTotal string `json:"grand_total"`
}

// sendResponse is the clearing system's reply to a submission
type sendResponse struct {
	UUID    string `json:"uuid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Client submits e-documents to the government clearing system. In sandbox
// mode no network call is made; a locally generated UUID stands in for the
// clearing system's reference.
type Client struct {
	cfg        config.ClearingConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a clearing client from configuration
func NewClient(cfg config.ClearingConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send submits a document and returns the clearing system's external UUID
func (c *Client) Send(ctx context.Context, doc *edocument.EDocument) (string, error) {
	if c.cfg.Sandbox {
		externalUUID := uuid.New().String()
		c.logger.Info("sandbox clearing submission",
			zap.String("document_id", doc.ID.String()),
			zap.String("external_uuid", externalUUID),
		)
		return externalUUID, nil
	}

	payload := sendRequest{
		DocumentID: doc.ID.String(),
		TenantID:   doc.TenantID.String(),
		SaleID:     doc.SaleID.String(),
		Type:       string(doc.Type),
		GrandTotal: doc.GrandTotal.StringFixed(2),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal clearing request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+sendPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build clearing request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("clearing request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read clearing response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("clearing system returned status %d: %s", resp.StatusCode, respBody)
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decode clearing response: %w", err)
	}
	if result.UUID == "" {
		return "", fmt.Errorf("clearing system returned no document UUID: %s", result.Message)
	}

	return result.UUID, nil
}

// Ensure Client implements ClearingClient
var _ appedocument.ClearingClient = (*Client)(nil)
