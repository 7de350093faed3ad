package identity

import (
	"context"
	"time"

	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxLoginAttempts = 5
	lockDuration     = 15 * time.Minute
)

// TokenPair is an access token plus the refresh token that renews it
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// TokenClaims is the identity carried inside a verified token
type TokenClaims struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Email    string
	Role     identity.UserRole
	TokenID  string
	IsAdmin  bool
}

// TokenIssuer mints and verifies signed tokens
type TokenIssuer interface {
	IssuePair(user *identity.User) (*TokenPair, error)
	VerifyAccessToken(token string) (*TokenClaims, error)
	VerifyRefreshToken(token string) (*TokenClaims, error)
}

// TokenBlacklist revokes refresh tokens until their natural expiry
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// RegisterInput creates a tenant together with its owner user
type RegisterInput struct {
	TenantCode  string
	TenantName  string
	Email       string
	Password    string
	DisplayName string
}

// LoginInput authenticates a user within a tenant
type LoginInput struct {
	TenantCode string
	Email      string
	Password   string
	IP         string
}

// UserDTO is the response shape of a user
type UserDTO struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenant_id"`
	Email       string              `json:"email"`
	DisplayName string              `json:"display_name,omitempty"`
	Role        identity.UserRole   `json:"role"`
	Status      identity.UserStatus `json:"status"`
	LastLoginAt *time.Time          `json:"last_login_at,omitempty"`
}

// ToUserDTO converts a user to its response shape
func ToUserDTO(u *identity.User) *UserDTO {
	return &UserDTO{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Status:      u.Status,
		LastLoginAt: u.LastLoginAt,
	}
}

// AuthService handles registration, login and token lifecycle. Failed logins
// lock the account after five attempts for fifteen minutes; refresh tokens
// are rotated on use and the replaced token is blacklisted.
type AuthService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	issuer     TokenIssuer
	blacklist  TokenBlacklist
	publisher  shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates an AuthService
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	issuer TokenIssuer,
	blacklist TokenBlacklist,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		issuer:     issuer,
		blacklist:  blacklist,
		publisher:  publisher,
		logger:     logger,
	}
}

// Register creates a tenant on the free plan with its owner user
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	existing, err := s.tenantRepo.FindByCode(ctx, input.TenantCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("TENANT_CODE_EXISTS", "Tenant code is already taken")
	}

	tenant, err := identity.NewTenant(input.TenantCode, input.TenantName)
	if err != nil {
		return nil, err
	}
	owner, err := identity.NewUser(tenant.ID, input.Email, input.Password, identity.UserRoleOwner)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := owner.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	s.logger.Info("tenant registered",
		zap.String("tenant_code", tenant.Code),
		zap.String("owner_email", owner.Email),
	)
	for _, event := range tenant.GetDomainEvents() {
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish tenant event", zap.Error(err))
		}
	}
	tenant.ClearDomainEvents()

	return ToUserDTO(owner), nil
}

// Login authenticates a user and returns a token pair. Failures are counted
// per user; the response never reveals whether the email or the password was
// wrong.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*TokenPair, *UserDTO, error) {
	tenant, err := s.tenantRepo.FindByCode(ctx, input.TenantCode)
	if err != nil {
		return nil, nil, err
	}
	if tenant == nil || !tenant.IsActive() {
		return nil, nil, shared.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmailForTenant(ctx, tenant.ID, input.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, shared.ErrInvalidCredentials
	}
	if !user.CanLogin() {
		return nil, nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(maxLoginAttempts, lockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Warn("failed to persist login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("account locked after repeated failures",
				zap.String("tenant_id", tenant.ID.String()),
				zap.String("email", user.Email),
			)
		}
		return nil, nil, shared.ErrInvalidCredentials
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return pair, ToUserDTO(user), nil
}

// Refresh exchanges a valid refresh token for a new pair. The used token is
// blacklisted so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, shared.ErrInvalidToken
	}

	user, err := s.userRepo.FindByIDForTenant(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CanLogin() {
		return nil, shared.ErrInvalidToken
	}

	pair, err := s.issuer.IssuePair(user)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.TokenID, pair.RefreshExpiresAt); err != nil {
		s.logger.Warn("failed to blacklist rotated refresh token", zap.Error(err))
	}
	return pair, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.VerifyRefreshToken(refreshToken)
	if err != nil {
		// already unusable
		return nil
	}
	return s.blacklist.Revoke(ctx, claims.TokenID, time.Now().Add(30*24*time.Hour))
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrNotFound
	}
	return ToUserDTO(user), nil
}

// ChangePassword verifies the current password before setting the new one
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return shared.ErrNotFound
	}
	if err := user.ChangePassword(oldPassword, newPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}
