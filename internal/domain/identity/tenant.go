package identity

import (
	"strings"
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusTrial     TenantStatus = "trial"
)

// TenantPlan represents the subscription plan of a tenant
type TenantPlan string

const (
	TenantPlanFree       TenantPlan = "free"
	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPro        TenantPlan = "pro"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

// Unlimited is the sentinel limit value meaning "no cap" for a plan resource.
const Unlimited = -1

// PlanLimits holds the numeric resource caps for a plan.
// A value of Unlimited (-1) means the resource is not capped.
type PlanLimits struct {
	MaxProducts     int `json:"max_products"`
	MaxUsers        int `json:"max_users"`
	MaxAccounts     int `json:"max_accounts"`
	MaxMonthlySales int `json:"max_monthly_sales"`
}

// Allows reports whether a resource with the given current count may grow by one.
func (l PlanLimits) Allows(limit, current int) bool {
	return limit == Unlimited || current < limit
}

// LimitsForPlan returns the default resource caps for a plan.
func LimitsForPlan(plan TenantPlan) PlanLimits {
	switch plan {
	case TenantPlanBasic:
		return PlanLimits{MaxProducts: 5000, MaxUsers: 10, MaxAccounts: 10, MaxMonthlySales: 5000}
	case TenantPlanPro:
		return PlanLimits{MaxProducts: 50000, MaxUsers: 50, MaxAccounts: 50, MaxMonthlySales: Unlimited}
	case TenantPlanEnterprise:
		return PlanLimits{MaxProducts: Unlimited, MaxUsers: Unlimited, MaxAccounts: Unlimited, MaxMonthlySales: Unlimited}
	default:
		return PlanLimits{MaxProducts: 100, MaxUsers: 3, MaxAccounts: 2, MaxMonthlySales: 500}
	}
}

// Tenant represents an organization in the multi-tenant system.
// It is the aggregate root for tenant-related operations.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string       `gorm:"type:varchar(200);not null"`
	Status       TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Plan         TenantPlan   `gorm:"type:varchar(20);not null;default:'free'"`
	ContactName  string       `gorm:"type:varchar(100)"`
	ContactPhone string       `gorm:"type:varchar(50)"`
	ContactEmail string       `gorm:"type:varchar(200)"`
	Address      string       `gorm:"type:text"`
	Domain       string       `gorm:"type:varchar(200);uniqueIndex"`
	TaxNumber    string       `gorm:"type:varchar(50)"`
	Currency     string       `gorm:"type:varchar(10);not null;default:'TRY'"`
	ExpiresAt    *time.Time   `gorm:"index"`
	TrialEndsAt  *time.Time
	Limits       PlanLimits `gorm:"embedded;embeddedPrefix:limit_"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant on the free plan
func NewTenant(code, name string) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name must be 1-200 characters")
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TenantStatusActive,
		Plan:              TenantPlanFree,
		Currency:          "TRY",
		Limits:            LimitsForPlan(TenantPlanFree),
	}

	tenant.AddDomainEvent(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// SetPlan changes the subscription plan and resets limits to the plan defaults
func (t *Tenant) SetPlan(plan TenantPlan) error {
	switch plan {
	case TenantPlanFree, TenantPlanBasic, TenantPlanPro, TenantPlanEnterprise:
	default:
		return shared.NewDomainError("INVALID_PLAN", "Invalid tenant plan")
	}

	oldPlan := t.Plan
	t.Plan = plan
	t.Limits = LimitsForPlan(plan)
	if t.Status == TenantStatusTrial && plan != TenantPlanFree {
		t.Status = TenantStatusActive
		t.TrialEndsAt = nil
	}
	t.Touch()
	t.IncrementVersion()

	t.AddDomainEvent(NewTenantPlanChangedEvent(t, oldPlan, plan))

	return nil
}

// SetContact sets the tenant's contact information
func (t *Tenant) SetContact(contactName, phone, email string) error {
	if len(contactName) > 100 || len(phone) > 50 || len(email) > 200 {
		return shared.ErrInvalidInput
	}
	t.ContactName = contactName
	t.ContactPhone = phone
	t.ContactEmail = email
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Suspend suspends the tenant, blocking all non-admin access
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Activate activates the tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsActive returns true if the tenant may use the system
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive || t.Status == TenantStatusTrial
}

// IsSubscriptionExpired returns true if the subscription has expired
func (t *Tenant) IsSubscriptionExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return time.Now().After(*t.ExpiresAt)
}

func validateTenantCode(code string) error {
	if code == "" || len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code must be 1-50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
