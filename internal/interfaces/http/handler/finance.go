package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appfinance "github.com/dukkan/backend/internal/application/finance"
	"github.com/dukkan/backend/internal/domain/finance"
)

// FinanceHandler serves the account, transfer and payment endpoints
type FinanceHandler struct {
	BaseHandler
	finance *appfinance.FinanceService
}

// NewFinanceHandler creates a FinanceHandler
func NewFinanceHandler(finance *appfinance.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// RegisterRoutes registers the finance endpoints
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.GET("", h.ListAccounts)
	accounts.POST("", h.CreateAccount)
	accounts.POST("/transfer", h.Transfer)
	accounts.GET("/:id", h.GetAccount)
	accounts.PUT("/:id", h.RenameAccount)
	accounts.POST("/:id/deactivate", h.DeactivateAccount)
	accounts.POST("/:id/deposit", h.Deposit)
	accounts.POST("/:id/withdraw", h.Withdraw)
	accounts.GET("/:id/movements", h.ListMovements)

	payments := rg.Group("/payments")
	payments.GET("", h.ListPayments)
	payments.POST("", h.RecordPayment)
}

type createAccountRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Type     string `json:"type" binding:"required,oneof=cash bank pos"`
	Currency string `json:"currency" binding:"omitempty,len=3"`
}

// CreateAccount adds a cash or bank account, subject to the plan limit
func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req createAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.finance.CreateAccount(c.Request.Context(), tenantID, userID, appfinance.CreateAccountInput{
		Name:     req.Name,
		Type:     finance.AccountType(req.Type),
		Currency: req.Currency,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

type renameAccountRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// RenameAccount changes an account's name
func (h *FinanceHandler) RenameAccount(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req renameAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := h.finance.RenameAccount(c.Request.Context(), tenantID, accountID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, account)
}

// DeactivateAccount disables an account. Accounts holding a balance are
// rejected.
func (h *FinanceHandler) DeactivateAccount(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	if err := h.finance.DeactivateAccount(c.Request.Context(), tenantID, accountID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type moneyRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"max=500"`
}

// Deposit records a manual inflow
func (h *FinanceHandler) Deposit(c *gin.Context) {
	h.moveMoney(c, h.finance.Deposit)
}

// Withdraw records a manual outflow. Overdrafts are rejected.
func (h *FinanceHandler) Withdraw(c *gin.Context) {
	h.moveMoney(c, h.finance.Withdraw)
}

func (h *FinanceHandler) moveMoney(
	c *gin.Context,
	op func(ctx context.Context, tenantID, accountID uuid.UUID, input appfinance.MoneyInput) (*appfinance.AccountDTO, error),
) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	var req moneyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	account, err := op(c.Request.Context(), tenantID, accountID, appfinance.MoneyInput{
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, account)
}

type transferRequest struct {
	FromAccountID uuid.UUID       `json:"from_account_id" binding:"required"`
	ToAccountID   uuid.UUID       `json:"to_account_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=500"`
}

// Transfer moves money between two accounts atomically
func (h *FinanceHandler) Transfer(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	var req transferRequest
	if !h.BindJSON(c, &req) {
		return
	}

	err := h.finance.Transfer(c.Request.Context(), tenantID, appfinance.TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetAccount returns one account
func (h *FinanceHandler) GetAccount(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	account, err := h.finance.GetAccount(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.OK(c, account)
}

// ListAccounts returns a page of accounts
func (h *FinanceHandler) ListAccounts(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("type"); v != "" {
		filter.Filters["type"] = v
	}
	if v := c.Query("is_active"); v != "" {
		if active, err := strconv.ParseBool(v); err == nil {
			filter.Filters["is_active"] = active
		}
	}

	page, err := h.finance.ListAccounts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}

// ListMovements returns a page of one account's ledger rows
func (h *FinanceHandler) ListMovements(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}
	accountID, ok := h.PathID(c, "id")
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("direction"); v != "" {
		filter.Filters["direction"] = v
	}

	page, err := h.finance.ListAccountMovements(c.Request.Context(), tenantID, accountID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}

type recordPaymentRequest struct {
	AccountID  uuid.UUID       `json:"account_id" binding:"required"`
	CustomerID *uuid.UUID      `json:"customer_id"`
	SaleID     *uuid.UUID      `json:"sale_id"`
	Method     string          `json:"method" binding:"required,oneof=cash card transfer"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Note       string          `json:"note" binding:"max=500"`
}

// RecordPayment records money received against a sale or a customer balance
func (h *FinanceHandler) RecordPayment(c *gin.Context) {
	tenantID, userID, ok := h.Identity(c)
	if !ok {
		return
	}

	var req recordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	payment, err := h.finance.RecordPayment(c.Request.Context(), tenantID, userID, appfinance.RecordPaymentInput{
		AccountID:  req.AccountID,
		CustomerID: req.CustomerID,
		SaleID:     req.SaleID,
		Method:     req.Method,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// ListPayments returns a page of payments
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	tenantID, _, ok := h.Identity(c)
	if !ok {
		return
	}

	filter, ok := h.ListFilter(c)
	if !ok {
		return
	}
	if v := c.Query("account_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["account_id"] = id
		}
	}
	if v := c.Query("customer_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			filter.Filters["customer_id"] = id
		}
	}
	if v := c.Query("method"); v != "" {
		filter.Filters["method"] = v
	}

	page, err := h.finance.ListPayments(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	OKPaginated(c, page)
}
