package catalog

import (
	"context"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/inventory"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService manages the product catalog and manual stock corrections.
type ProductService struct {
	scope        TransactionScope
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	movementRepo inventory.StockMovementRepository
	capability   *appidentity.CapabilityService
	logger       *zap.Logger
}

// NewProductService creates a ProductService
func NewProductService(
	scope TransactionScope,
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	movementRepo inventory.StockMovementRepository,
	capability *appidentity.CapabilityService,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		scope:        scope,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		movementRepo: movementRepo,
		capability:   capability,
		logger:       logger,
	}
}

// CreateProduct creates a product, subject to the tenant's plan limit.
// A non-zero initial stock writes an inventory movement alongside.
func (s *ProductService) CreateProduct(ctx context.Context, tenantID, userID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	count, err := s.productRepo.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	if err := s.capability.EnsureCanCreate(ctx, tenantID, appidentity.ResourceProducts, count); err != nil {
		return nil, err
	}

	if input.Barcode != "" {
		existing, err := s.productRepo.FindByBarcodeForTenant(ctx, tenantID, input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("BARCODE_EXISTS", "A product with this barcode already exists")
		}
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Category not found")
		}
	}

	product, err := catalog.NewProduct(tenantID, input.Name, input.Barcode, input.SalePrice, input.VATRate)
	if err != nil {
		return nil, err
	}
	product.SetCreatedBy(userID)
	product.SKU = input.SKU
	product.Description = input.Description
	if input.Unit != "" {
		product.Unit = input.Unit
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if err := product.SetPrices(input.PurchasePrice, input.SalePrice, input.VATRate); err != nil {
		return nil, err
	}
	if err := product.SetMinStockLevel(input.MinStockLevel); err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if input.InitialStock.IsPositive() {
			movement, err := inventory.NewStockMovement(tenantID, product.ID, inventory.MovementTypeInitial,
				input.InitialStock, decimal.Zero, inventory.SourceTypeManual, nil, "initial stock")
			if err != nil {
				return err
			}
			if err := product.IncreaseStock(input.InitialStock); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
			return repos.StockMovements().Create(ctx, movement)
		}
		return repos.Products().Save(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product", product.Name),
	)
	return ToProductDTO(product), nil
}

// UpdateProduct updates descriptive fields, prices and the category
func (s *ProductService) UpdateProduct(ctx context.Context, tenantID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}

	if input.Barcode != "" && input.Barcode != product.Barcode {
		existing, err := s.productRepo.FindByBarcodeForTenant(ctx, tenantID, input.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, shared.NewDomainError("BARCODE_EXISTS", "A product with this barcode already exists")
		}
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *input.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Category not found")
		}
	}

	loadedVersion := product.Version
	if err := product.Update(input.Name, input.Barcode, input.SKU, input.Unit, input.Description); err != nil {
		return nil, err
	}
	if err := product.SetPrices(input.PurchasePrice, input.SalePrice, input.VATRate); err != nil {
		return nil, err
	}
	if err := product.SetMinStockLevel(input.MinStockLevel); err != nil {
		return nil, err
	}
	product.SetCategory(input.CategoryID)

	if err := s.productRepo.SaveWithLock(ctx, product, loadedVersion); err != nil {
		return nil, err
	}
	return ToProductDTO(product), nil
}

// AdjustStock corrects the stock level by a signed quantity and records an
// adjustment movement. Corrections that would drive stock negative fail.
func (s *ProductService) AdjustStock(ctx context.Context, tenantID, productID uuid.UUID, input AdjustStockInput) (*ProductDTO, error) {
	var product *catalog.Product
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		product, err = repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return shared.ErrNotFound
		}

		loadedVersion := product.Version
		stockBefore := product.StockQuantity
		movement, err := inventory.NewStockMovement(tenantID, product.ID, inventory.MovementTypeAdjustment,
			input.Quantity, stockBefore, inventory.SourceTypeManual, nil, input.Note)
		if err != nil {
			return err
		}
		if input.Quantity.IsPositive() {
			err = product.IncreaseStock(input.Quantity)
		} else {
			err = product.DecreaseStock(input.Quantity.Neg())
		}
		if err != nil {
			return err
		}

		if err := repos.Products().SaveWithLock(ctx, product, loadedVersion); err != nil {
			return err
		}
		return repos.StockMovements().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product", product.Name),
		zap.String("quantity", input.Quantity.String()),
	)
	return ToProductDTO(product), nil
}

// ArchiveProduct hides the product from sale
func (s *ProductService) ArchiveProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return shared.ErrNotFound
	}
	loadedVersion := product.Version
	if err := product.Archive(); err != nil {
		return err
	}
	return s.productRepo.SaveWithLock(ctx, product, loadedVersion)
}

// RestoreProduct makes an archived product sellable again
func (s *ProductService) RestoreProduct(ctx context.Context, tenantID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return shared.ErrNotFound
	}
	loadedVersion := product.Version
	product.Restore()
	return s.productRepo.SaveWithLock(ctx, product, loadedVersion)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, tenantID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}
	return ToProductDTO(product), nil
}

// GetProductByBarcode returns a product by barcode, for POS-style lookups
func (s *ProductService) GetProductByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*ProductDTO, error) {
	product, err := s.productRepo.FindByBarcodeForTenant(ctx, tenantID, barcode)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}
	return ToProductDTO(product), nil
}

// ListProducts returns a page of products
func (s *ProductService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductDTO], error) {
	items, err := s.productRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToProductDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListLowStock returns products at or below their minimum stock level
func (s *ProductService) ListLowStock(ctx context.Context, tenantID uuid.UUID) ([]ProductDTO, error) {
	items, err := s.productRepo.FindLowStockForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToProductDTO(&items[i]))
	}
	return dtos, nil
}

// ListAllStockMovements returns a page of movements across all products
func (s *ProductService) ListAllStockMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockMovementDTO], error) {
	items, err := s.movementRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.movementRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]StockMovementDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToStockMovementDTO(&items[i]))
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListStockMovements returns a page of movements for one product
func (s *ProductService) ListStockMovements(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockMovementDTO, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}
	items, err := s.movementRepo.FindByProductForTenant(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]StockMovementDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToStockMovementDTO(&items[i]))
	}
	return dtos, nil
}
