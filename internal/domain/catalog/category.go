package catalog

import (
	"strings"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products. Categories form a single-level-or-deeper tree
// via the optional parent reference.
type Category struct {
	shared.TenantAggregateRoot
	Name     string     `gorm:"type:varchar(100);not null"`
	ParentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name string, parentID *uuid.UUID) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name must be 1-100 characters")
	}
	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		ParentID:            parentID,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1-100 characters")
	}
	c.Name = name
	c.Touch()
	c.IncrementVersion()
	return nil
}
