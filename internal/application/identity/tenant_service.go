package identity

import (
	"context"
	"time"

	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantDTO is the response shape of a tenant
type TenantDTO struct {
	ID        uuid.UUID             `json:"id"`
	Code      string                `json:"code"`
	Name      string                `json:"name"`
	Status    identity.TenantStatus `json:"status"`
	Plan      identity.TenantPlan   `json:"plan"`
	Currency  string                `json:"currency"`
	Limits    identity.PlanLimits   `json:"limits"`
	ExpiresAt *time.Time            `json:"expires_at,omitempty"`
}

// ToTenantDTO converts a tenant to its response shape
func ToTenantDTO(t *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Status:    t.Status,
		Plan:      t.Plan,
		Currency:  t.Currency,
		Limits:    t.Limits,
		ExpiresAt: t.ExpiresAt,
	}
}

// CreateUserInput adds a user to a tenant
type CreateUserInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        identity.UserRole
}

// TenantService covers tenant administration: plan changes, suspension and
// user management within a tenant.
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	capability *CapabilityService
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewTenantService creates a TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	capability *CapabilityService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		capability: capability,
		publisher:  publisher,
		logger:     logger,
	}
}

// GetTenant returns the tenant
func (s *TenantService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.ErrNotFound
	}
	return ToTenantDTO(tenant), nil
}

// ChangePlan switches the tenant to a new plan; limits reset to the plan
// defaults immediately
func (s *TenantService) ChangePlan(ctx context.Context, tenantID uuid.UUID, plan identity.TenantPlan) (*TenantDTO, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, shared.ErrNotFound
	}

	if err := tenant.SetPlan(plan); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant plan changed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("plan", string(plan)),
	)
	for _, event := range tenant.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish plan change event", zap.Error(err))
		}
	}
	tenant.ClearDomainEvents()

	return ToTenantDTO(tenant), nil
}

// SuspendTenant blocks all of the tenant's users from the system
func (s *TenantService) SuspendTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return shared.ErrNotFound
	}
	if err := tenant.Suspend(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}

// ActivateTenant lifts a suspension
func (s *TenantService) ActivateTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if tenant == nil {
		return shared.ErrNotFound
	}
	if err := tenant.Activate(); err != nil {
		return err
	}
	return s.tenantRepo.Save(ctx, tenant)
}

// CreateUser adds a user to the tenant, subject to the plan's user limit
func (s *TenantService) CreateUser(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*UserDTO, error) {
	count, err := s.userRepo.CountForTenant(ctx, tenantID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	if err := s.capability.EnsureCanCreate(ctx, tenantID, ResourceUsers, count); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmailForTenant(ctx, tenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "A user with this email already exists")
	}

	user, err := identity.NewUser(tenantID, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// SetUserRole changes a user's role. The last owner cannot be demoted.
func (s *TenantService) SetUserRole(ctx context.Context, tenantID, userID uuid.UUID, role identity.UserRole) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	if user.Role == identity.UserRoleOwner && role != identity.UserRoleOwner {
		owners, err := s.countOwners(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if owners <= 1 {
			return nil, shared.NewDomainError("LAST_OWNER", "A tenant must keep at least one owner")
		}
	}

	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return ToUserDTO(user), nil
}

// DeactivateUser blocks a user from logging in. The last owner cannot be
// deactivated.
func (s *TenantService) DeactivateUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.ErrNotFound
	}
	if user.Role == identity.UserRoleOwner {
		owners, err := s.countOwners(ctx, tenantID)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return shared.NewDomainError("LAST_OWNER", "A tenant must keep at least one owner")
		}
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// ActivateUser re-activates a locked or deactivated user
func (s *TenantService) ActivateUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.ErrNotFound
	}
	user.Activate()
	return s.userRepo.Save(ctx, user)
}

// ListUsers returns a page of the tenant's users
func (s *TenantService) ListUsers(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	items, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *ToUserDTO(&items[i]))
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *TenantService) countOwners(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.userRepo.CountForTenant(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"role": string(identity.UserRoleOwner)},
	})
}
