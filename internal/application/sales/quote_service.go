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

// QuoteService manages quotes and their exactly-once conversion into sales.
type QuoteService struct {
	scope      TransactionScope
	quoteRepo  sales.QuoteRepository
	saleRepo   sales.SaleRepository
	capability *appidentity.CapabilityService
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewQuoteService creates a QuoteService
func NewQuoteService(
	scope TransactionScope,
	quoteRepo sales.QuoteRepository,
	saleRepo sales.SaleRepository,
	capability *appidentity.CapabilityService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		scope:      scope,
		quoteRepo:  quoteRepo,
		saleRepo:   saleRepo,
		capability: capability,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateQuote creates a draft quote
func (s *QuoteService) CreateQuote(ctx context.Context, tenantID, userID uuid.UUID, input CreateQuoteInput) (*QuoteDTO, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A quote requires at least one item")
	}

	var created *sales.Quote
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		quoteNumber, err := repos.Quotes().GenerateQuoteNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		quote, err := sales.NewQuote(tenantID, quoteNumber, input.CustomerID, input.VATIncluded)
		if err != nil {
			return err
		}
		quote.SetCreatedBy(userID)
		quote.Note = input.Note

		for _, line := range input.Items {
			product, err := repos.Products().FindByIDForTenant(ctx, tenantID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return shared.NewDomainError("NOT_FOUND", "Product not found")
			}
			unitPrice := product.SalePrice
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}
			if err := quote.AddItem(product.ID, product.Name, line.Quantity, unitPrice, line.DiscountRate, product.VATRate); err != nil {
				return err
			}
		}

		if input.GlobalDiscount.IsPositive() {
			if err := quote.SetGlobalDiscount(input.GlobalDiscount); err != nil {
				return err
			}
		}
		if input.ValidUntil != nil {
			if err := quote.SetValidUntil(*input.ValidUntil); err != nil {
				return err
			}
		}

		if err := repos.Quotes().Save(ctx, quote); err != nil {
			return err
		}
		created = quote
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToQuoteDTO(created), nil
}

// UpdateStatus applies a plain status transition (send, accept, reject, expire)
func (s *QuoteService) UpdateStatus(ctx context.Context, tenantID, quoteID uuid.UUID, target sales.QuoteStatus) (*QuoteDTO, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, shared.ErrNotFound
	}

	loadedVersion := quote.Version
	switch target {
	case sales.QuoteStatusSent:
		err = quote.Send()
	case sales.QuoteStatusAccepted:
		err = quote.Accept()
	case sales.QuoteStatusRejected:
		err = quote.Reject()
	case sales.QuoteStatusExpired:
		err = quote.Expire()
	default:
		err = shared.NewDomainError("INVALID_QUOTE_TRANSITION", "Unsupported quote status")
	}
	if err != nil {
		return nil, err
	}

	if err := s.quoteRepo.SaveWithLock(ctx, quote, loadedVersion); err != nil {
		return nil, err
	}
	return ToQuoteDTO(quote), nil
}

// ConvertQuote turns a sent or accepted quote into a sale exactly once.
// Stock availability is re-validated at conversion time, not quote-creation
// time, and the created sale carries the quote's items and totals unchanged.
func (s *QuoteService) ConvertQuote(ctx context.Context, tenantID, userID, quoteID uuid.UUID, input ConvertQuoteInput) (*SaleDTO, error) {
	if input.PaymentMethod.IsImmediate() && input.AccountID == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "An account is required for immediate payment methods")
	}

	// Conversion mints a sale, so the monthly sale limit applies here too.
	monthCount, err := s.saleRepo.CountThisMonthForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := s.capability.EnsureCanCreate(ctx, tenantID, appidentity.ResourceMonthlySales, monthCount); err != nil {
		return nil, err
	}

	var createdSale *sales.Sale
	var convertedQuote *sales.Quote
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		quote, err := repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
		if err != nil {
			return err
		}
		if quote == nil {
			return shared.ErrNotFound
		}
		loadedVersion := quote.Version

		if input.PaymentMethod == sales.PaymentMethodCredit && quote.CustomerID == nil {
			return shared.NewDomainError("CUSTOMER_REQUIRED", "Credit sales require a customer")
		}

		invoiceNumber, err := repos.Sales().GenerateInvoiceNumber(ctx, tenantID)
		if err != nil {
			return err
		}
		sale, err := sales.NewSale(tenantID, invoiceNumber, quote.CustomerID, input.PaymentMethod, quote.VATIncluded)
		if err != nil {
			return err
		}
		sale.SetCreatedBy(userID)
		sale.Note = "Converted from quote " + quote.QuoteNumber

		for _, qi := range quote.Items {
			product, err := repos.Products().FindByIDForTenant(ctx, tenantID, qi.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return shared.NewDomainError("NOT_FOUND", "Product not found")
			}
			if err := sale.AddItem(product.ID, qi.ProductName, qi.Quantity, qi.UnitPrice, qi.DiscountRate, qi.VATRate); err != nil {
				return err
			}

			productVersion := product.Version
			stockBefore := product.StockQuantity
			if err := product.DecreaseStock(qi.Quantity); err != nil {
				return err
			}
			movement, err := inventory.NewStockMovement(tenantID, product.ID, inventory.MovementTypeSale,
				qi.Quantity.Neg(), stockBefore, inventory.SourceTypeSale, &sale.ID, invoiceNumber)
			if err != nil {
				return err
			}
			if err := repos.Products().SaveWithLock(ctx, product, productVersion); err != nil {
				return err
			}
			if err := repos.StockMovements().Create(ctx, movement); err != nil {
				return err
			}
		}

		if quote.DiscountTotal.IsPositive() {
			if err := sale.SetGlobalDiscount(quote.DiscountTotal); err != nil {
				return err
			}
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return err
		}

		if err := s.settleConvertedSale(ctx, repos, sale, input.AccountID); err != nil {
			return err
		}

		if err := quote.MarkConverted(sale.ID); err != nil {
			return err
		}
		// optimistic lock: two concurrent conversions race on the quote row,
		// the loser rolls everything back
		if err := repos.Quotes().SaveWithLock(ctx, quote, loadedVersion); err != nil {
			return err
		}

		quote.AddDomainEvent(sales.NewQuoteConvertedEvent(quote))
		createdSale = sale
		convertedQuote = quote
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quote converted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("quote_number", convertedQuote.QuoteNumber),
		zap.String("invoice_number", createdSale.InvoiceNumber),
	)
	for _, event := range convertedQuote.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish quote converted event", zap.Error(err))
		}
	}
	convertedQuote.ClearDomainEvents()

	return ToSaleDTO(createdSale), nil
}

func (s *QuoteService) settleConvertedSale(ctx context.Context, repos TransactionalRepositories, sale *sales.Sale, accountID *uuid.UUID) error {
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

// GetQuote returns a quote by ID
func (s *QuoteService) GetQuote(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteDTO, error) {
	quote, err := s.quoteRepo.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, shared.ErrNotFound
	}
	return ToQuoteDTO(quote), nil
}

// ListQuotes returns a page of quotes
func (s *QuoteService) ListQuotes(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[QuoteDTO], error) {
	items, err := s.quoteRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.quoteRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]QuoteDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToQuoteDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}
