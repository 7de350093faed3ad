package identity

import (
	"context"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantRepository defines persistence for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// UserRepository defines persistence for users
type UserRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmailForTenant(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, user *User) error
}
