package identity

import (
	"github.com/dukkan/backend/internal/domain/shared"
)

// Event types for the identity context
const (
	EventTypeTenantCreated     = "identity.tenant.created"
	EventTypeTenantPlanChanged = "identity.tenant.plan_changed"
)

// TenantCreatedEvent is raised when a new tenant is registered
type TenantCreatedEvent struct {
	shared.BaseDomainEvent
	Code string     `json:"code"`
	Name string     `json:"name"`
	Plan TenantPlan `json:"plan"`
}

// NewTenantCreatedEvent creates a TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantCreated, "Tenant", t.ID, t.ID),
		Code:            t.Code,
		Name:            t.Name,
		Plan:            t.Plan,
	}
}

// TenantPlanChangedEvent is raised when a tenant changes subscription plan
type TenantPlanChangedEvent struct {
	shared.BaseDomainEvent
	OldPlan TenantPlan `json:"old_plan"`
	NewPlan TenantPlan `json:"new_plan"`
}

// NewTenantPlanChangedEvent creates a TenantPlanChangedEvent
func NewTenantPlanChangedEvent(t *Tenant, oldPlan, newPlan TenantPlan) *TenantPlanChangedEvent {
	return &TenantPlanChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTenantPlanChanged, "Tenant", t.ID, t.ID),
		OldPlan:         oldPlan,
		NewPlan:         newPlan,
	}
}
