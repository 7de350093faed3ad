package catalog

import (
	"context"

	"github.com/dukkan/backend/internal/domain/catalog"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService manages product categories.
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

// CreateCategory creates a category, optionally under a parent
func (s *CategoryService) CreateCategory(ctx context.Context, tenantID, userID uuid.UUID, input CreateCategoryInput) (*CategoryDTO, error) {
	if input.ParentID != nil {
		parent, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Parent category not found")
		}
	}

	category, err := catalog.NewCategory(tenantID, input.Name, input.ParentID)
	if err != nil {
		return nil, err
	}
	category.SetCreatedBy(userID)

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return ToCategoryDTO(category), nil
}

// RenameCategory changes a category's name
func (s *CategoryService) RenameCategory(ctx context.Context, tenantID, categoryID uuid.UUID, name string) (*CategoryDTO, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, shared.ErrNotFound
	}
	if err := category.Rename(name); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}
	return ToCategoryDTO(category), nil
}

// DeleteCategory removes an empty category. Categories still referenced by
// products or child categories cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return shared.ErrNotFound
	}

	inUse, err := s.productRepo.CountForTenant(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"category_id": categoryID},
	})
	if err != nil {
		return err
	}
	if inUse > 0 {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category still has products")
	}
	return s.categoryRepo.Delete(ctx, tenantID, categoryID)
}

// ListCategories returns a page of categories
func (s *CategoryService) ListCategories(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CategoryDTO], error) {
	items, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.categoryRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]CategoryDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToCategoryDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}
