package sales

import (
	"context"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/finance"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService orchestrates sale creation and cancellation. Every multi-row
// write runs inside a TransactionScope so stock, ledger and sale rows can
// never diverge.
type SaleService struct {
	scope      TransactionScope
	saleRepo   sales.SaleRepository
	capability *appidentity.CapabilityService
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewSaleService creates a SaleService
func NewSaleService(
	scope TransactionScope,
	saleRepo sales.SaleRepository,
	capability *appidentity.CapabilityService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:      scope,
		saleRepo:   saleRepo,
		capability: capability,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateSale creates a sale with its line items, a stock movement per item,
// the product stock decrements, and, for immediate payment methods, a payment
// plus an account movement. Everything happens in one transaction: any
// failure (unknown product, insufficient stock, duplicate invoice number,
// plan limit) leaves zero rows behind.
func (s *SaleService) CreateSale(ctx context.Context, tenantID, userID uuid.UUID, input CreateSaleInput) (*SaleDTO, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A sale requires at least one item")
	}
	if input.PaymentMethod.IsImmediate() && input.AccountID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "An account is required for immediate payment methods")
	}

	monthCount, err := s.saleRepo.CountThisMonthForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.capability.EnsureCanCreate(ctx, tenantID, appidentity.ResourceMonthlySales, monthCount); err != nil {
		return nil, err
	}

	var created *sales.Sale
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoiceNumber, err := repos.Sales().GenerateInvoiceNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		sale, err := sales.NewSale(tenantID, invoiceNumber, input.CustomerID, input.PaymentMethod, input.VATIncluded)
		if err != nil {
			return err
		}
		sale.SetCreatedBy(userID)
		sale.Note = input.Note

		if input.CustomerID != nil {
			customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, *input.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return shared.NewDomainError("NOT_FOUND", "Customer not found")
			}
		}

		for _, line := range input.Items {
			if err := s.addSaleLine(ctx, repos, sale, line); err != nil {
				return err
			}
		}

		if input.GlobalDiscount.IsPositive() {
			if err := sale.SetGlobalDiscount(input.GlobalDiscount); err != nil {
				return err
			}
		}

		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		if err := s.settleSale(ctx, repos, sale, input.AccountID); err != nil {
			return err
		}

		created = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", created.InvoiceNumber),
		zap.String("grand_total", created.GrandTotal.String()),
	)
	if err := s.publisher.Publish(ctx, sales.NewSaleCreatedEvent(created)); err != nil {
		s.logger.Warn("failed to publish sale created event", zap.Error(err))
	}

	return ToSaleDTO(created), nil
}

// addSaleLine loads the product, appends the sale item, decrements stock and
// writes the outbound stock movement.
func (s *SaleService) addSaleLine(ctx context.Context, repos TransactionalRepositories, sale *sales.Sale, line CreateSaleItemInput) error {
	product, err := repos.Products().FindByIDForTenant(ctx, sale.TenantID, line.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	if !product.IsActive {
		return shared.NewDomainError("PRODUCT_ARCHIVED", "Archived products cannot be sold")
	}

	unitPrice := product.SalePrice
	if line.UnitPrice != nil {
		unitPrice = *line.UnitPrice
	}
	if err := sale.AddItem(product.ID, product.Name, line.Quantity, unitPrice, line.DiscountRate, product.VATRate); err != nil {
		return err
	}

	loadedVersion := product.Version
	stockBefore := product.StockQuantity
	if err := product.DecreaseStock(line.Quantity); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(sale.TenantID, product.ID, inventory.MovementTypeSale,
		line.Quantity.Neg(), stockBefore, inventory.SourceTypeSale, &sale.ID, sale.InvoiceNumber)
	if err != nil {
		return err
	}

	if err := repos.Products().SaveWithLock(ctx, product, loadedVersion); err != nil {
		return err
	}
	return repos.StockMovements().Create(ctx, movement)
}

// settleSale records the money side of the sale: a payment and an account
// movement for immediate methods, or a receivable on the customer for credit
// sales.
func (s *SaleService) settleSale(ctx context.Context, repos TransactionalRepositories, sale *sales.Sale, accountID *uuid.UUID) error {
	if !sale.GrandTotal.IsPositive() {
		return nil
	}

	if sale.PaymentMethod.IsImmediate() {
		account, err := repos.Accounts().FindByIDForTenant(ctx, sale.TenantID, *accountID)
		if err != nil {
			return err
		}
		if account == nil {
			return shared.NewDomainError("NOT_FOUND", "Account not found")
		}

		loadedVersion := account.Version
		movement, err := account.Credit(sale.GrandTotal, finance.MovementSourceSale, &sale.ID, "Sale "+sale.InvoiceNumber)
		if err != nil {
			return err
		}
		if err := repos.Accounts().SaveWithLock(ctx, account, loadedVersion); err != nil {
			return err
		}
		if err := repos.AccountMovements().Create(ctx, movement); err != nil {
			return err
		}

		payment, err := finance.NewPayment(sale.TenantID, account.ID, &sale.ID, sale.CustomerID,
			string(sale.PaymentMethod), sale.GrandTotal, "")
		if err != nil {
			return err
		}
		return repos.Payments().Save(ctx, payment)
	}

	// credit sale: the amount becomes a receivable on the customer
	customer, err := repos.Customers().FindByIDForTenant(ctx, sale.TenantID, *sale.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if err := customer.AddReceivable(sale.GrandTotal); err != nil {
		return err
	}
	return repos.Customers().Save(ctx, customer)
}

// CancelSale cancels a completed sale, reversing its stock movements and any
// ledger entries it created. The status check plus the optimistic lock on
// the sale row make the reversal run at most once.
func (s *SaleService) CancelSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleDTO, error) {
	var cancelled *sales.Sale
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.Sales().FindByIDForTenant(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return shared.ErrNotFound
		}

		loadedVersion := sale.Version
		if err := sale.Cancel(); err != nil {
			return err
		}
		if err := repos.Sales().SaveWithLock(ctx, sale, loadedVersion); err != nil {
			return err
		}

		for i := range sale.Items {
			item := &sale.Items[i]
			if err := s.reverseSaleLine(ctx, repos, sale, item); err != nil {
				return err
			}
		}

		if err := s.reverseSettlement(ctx, repos, sale); err != nil {
			return err
		}

		cancelled = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale cancelled",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_number", cancelled.InvoiceNumber),
	)
	for _, event := range cancelled.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish sale cancelled event", zap.Error(err))
		}
	}
	cancelled.ClearDomainEvents()

	return ToSaleDTO(cancelled), nil
}

func (s *SaleService) reverseSaleLine(ctx context.Context, repos TransactionalRepositories, sale *sales.Sale, item *sales.SaleItem) error {
	product, err := repos.Products().FindByIDForTenant(ctx, sale.TenantID, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		// The product row must still exist: sale items reference products
		// with ON DELETE RESTRICT semantics at the application level.
		return shared.NewDomainError("NOT_FOUND", "Product not found")
	}

	loadedVersion := product.Version
	stockBefore := product.StockQuantity
	if err := product.IncreaseStock(item.Quantity); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(sale.TenantID, product.ID, inventory.MovementTypeSaleCancel,
		item.Quantity, stockBefore, inventory.SourceTypeSale, &sale.ID, "Cancellation of "+sale.InvoiceNumber)
	if err != nil {
		return err
	}

	if err := repos.Products().SaveWithLock(ctx, product, loadedVersion); err != nil {
		return err
	}
	return repos.StockMovements().Create(ctx, movement)
}

func (s *SaleService) reverseSettlement(ctx context.Context, repos TransactionalRepositories, sale *sales.Sale) error {
	if !sale.GrandTotal.IsPositive() {
		return nil
	}

	if sale.PaymentMethod.IsImmediate() {
		payments, err := repos.Payments().FindBySaleForTenant(ctx, sale.TenantID, sale.ID)
		if err != nil {
			return err
		}
		for i := range payments {
			payment := &payments[i]
			account, err := repos.Accounts().FindByIDForTenant(ctx, sale.TenantID, payment.AccountID)
			if err != nil {
				return err
			}
			if account == nil {
				return shared.NewDomainError("NOT_FOUND", "Account not found")
			}
			loadedVersion := account.Version
			movement, err := account.Debit(payment.Amount, finance.MovementSourceSale, &sale.ID,
				"Cancellation of "+sale.InvoiceNumber)
			if err != nil {
				return err
			}
			if err := repos.Accounts().SaveWithLock(ctx, account, loadedVersion); err != nil {
				return err
			}
			if err := repos.AccountMovements().Create(ctx, movement); err != nil {
				return err
			}
		}
		return nil
	}

	if sale.CustomerID == nil {
		return nil
	}
	customer, err := repos.Customers().FindByIDForTenant(ctx, sale.TenantID, *sale.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	if err := customer.ReduceReceivable(sale.GrandTotal); err != nil {
		return err
	}
	return repos.Customers().Save(ctx, customer)
}

// GetSale returns a sale by ID
func (s *SaleService) GetSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleDTO, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, shared.ErrNotFound
	}
	return ToSaleDTO(sale), nil
}

// ListSales returns a page of sales
func (s *SaleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[SaleDTO], error) {
	items, err := s.saleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]SaleDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToSaleDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}
