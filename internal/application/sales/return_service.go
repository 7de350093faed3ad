package sales

import (
	"context"

	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/sales"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReturnService orchestrates return creation. Returned quantities are capped
// against the original sale item quantities minus everything already
// returned, checked inside the same transaction that writes the rows.
type ReturnService struct {
	scope      TransactionScope
	returnRepo sales.ReturnRepository
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewReturnService creates a ReturnService
func NewReturnService(
	scope TransactionScope,
	returnRepo sales.ReturnRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		scope:      scope,
		returnRepo: returnRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// CreateReturn creates a return with its items and incrementing stock
// movements in one transaction. Sale-linked returns validate quantity caps
// and credit the customer's receivable balance for credit sales.
func (s *ReturnService) CreateReturn(ctx context.Context, tenantID, userID uuid.UUID, input CreateReturnInput) (*ReturnDTO, error) {
	if len(input.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A return requires at least one item")
	}

	var created *sales.Return
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var sale *sales.Sale
		if input.SaleID != nil {
			var err error
			sale, err = repos.Sales().FindByIDForTenant(ctx, tenantID, *input.SaleID)
			if err != nil {
				return err
			}
			if sale == nil {
				return shared.NewDomainError("NOT_FOUND", "Sale not found")
			}
		}

		returnNumber, err := repos.Returns().GenerateReturnNumber(ctx, tenantID)
		if err != nil {
			return err
		}

		var customerID *uuid.UUID
		if sale != nil {
			customerID = sale.CustomerID
		}
		ret, err := sales.NewReturn(tenantID, returnNumber, input.SaleID, customerID, input.Reason)
		if err != nil {
			return err
		}
		ret.SetCreatedBy(userID)

		for _, line := range input.Items {
			unitPrice, err := s.resolveReturnPrice(ctx, repos, tenantID, sale, line)
			if err != nil {
				return err
			}
			if err := ret.AddItem(line.ProductID, line.SaleItemID, line.Quantity, unitPrice); err != nil {
				return err
			}
		}

		if sale != nil {
			previouslyReturned, err := repos.Returns().SumReturnedQuantitiesBySale(ctx, tenantID, sale.ID)
			if err != nil {
				return err
			}
			if err := ret.ValidateAgainstSale(sale, previouslyReturned); err != nil {
				return err
			}
		}

		for _, item := range ret.Items {
			if err := s.restockReturnLine(ctx, repos, ret, item); err != nil {
				return err
			}
		}

		if err := repos.Returns().Save(ctx, ret); err != nil {
			return err
		}

		// a return against a credit sale reduces what the customer owes
		if sale != nil && sale.PaymentMethod == sales.PaymentMethodCredit && customerID != nil && ret.Total.IsPositive() {
			customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, *customerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return shared.NewDomainError("NOT_FOUND", "Customer not found")
			}
			if err := customer.ReduceReceivable(ret.Total); err != nil {
				return err
			}
			if err := repos.Customers().Save(ctx, customer); err != nil {
				return err
			}
		}

		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("return created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("return_number", created.ReturnNumber),
	)
	if err := s.publisher.Publish(ctx, sales.NewReturnCreatedEvent(created)); err != nil {
		s.logger.Warn("failed to publish return created event", zap.Error(err))
	}

	return ToReturnDTO(created), nil
}

// resolveReturnPrice picks the refund unit price: the original sale item's
// price when linked, otherwise the explicit price or the product's current
// sale price.
func (s *ReturnService) resolveReturnPrice(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, sale *sales.Sale, line CreateReturnItemInput) (price decimal.Decimal, err error) {
	if sale != nil && line.SaleItemID != nil {
		if item := sale.FindItem(*line.SaleItemID); item != nil {
			return item.UnitPrice, nil
		}
		return price, shared.NewDomainError("INVALID_RETURN_ITEM", "Sale item does not belong to the referenced sale")
	}
	if line.UnitPrice != nil {
		return *line.UnitPrice, nil
	}
	product, err := repos.Products().FindByIDForTenant(ctx, tenantID, line.ProductID)
	if err != nil {
		return price, err
	}
	if product == nil {
		return price, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product.SalePrice, nil
}

func (s *ReturnService) restockReturnLine(ctx context.Context, repos TransactionalRepositories, ret *sales.Return, item sales.ReturnItem) error {
	product, err := repos.Products().FindByIDForTenant(ctx, ret.TenantID, item.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return shared.NewDomainError("NOT_FOUND", "Product not found")
	}

	loadedVersion := product.Version
	stockBefore := product.StockQuantity
	if err := product.IncreaseStock(item.Quantity); err != nil {
		return err
	}
	movement, err := inventory.NewStockMovement(ret.TenantID, product.ID, inventory.MovementTypeReturn,
		item.Quantity, stockBefore, inventory.SourceTypeReturn, &ret.ID, ret.ReturnNumber)
	if err != nil {
		return err
	}

	if err := repos.Products().SaveWithLock(ctx, product, loadedVersion); err != nil {
		return err
	}
	return repos.StockMovements().Create(ctx, movement)
}

// GetReturn returns a return by ID
func (s *ReturnService) GetReturn(ctx context.Context, tenantID, returnID uuid.UUID) (*ReturnDTO, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, shared.ErrNotFound
	}
	return ToReturnDTO(ret), nil
}

// ListReturns returns a page of returns
func (s *ReturnService) ListReturns(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReturnDTO], error) {
	items, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]ReturnDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToReturnDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}
