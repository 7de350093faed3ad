package identity

import (
	"strings"
	"time"

	"github.com/dukkan/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole represents the role of a user within a tenant
type UserRole string

const (
	UserRoleOwner UserRole = "owner"
	UserRoleAdmin UserRole = "admin"
	UserRoleStaff UserRole = "staff"
)

// Password cost for bcrypt
const bcryptCost = 12

// User is a tenant-scoped account that can authenticate against the API.
type User struct {
	shared.TenantAggregateRoot
	Email          string     `gorm:"type:varchar(200);not null;index:idx_users_tenant_email,unique,composite:tenant_email"`
	DisplayName    string     `gorm:"type:varchar(100)"`
	PasswordHash   string     `gorm:"type:varchar(100);not null"`
	Role           UserRole   `gorm:"type:varchar(20);not null;default:'staff'"`
	Status         UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user with a hashed password
func NewUser(tenantID uuid.UUID, email, password string, role UserRole) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	switch role {
	case UserRoleOwner, UserRoleAdmin, UserRoleStaff:
	default:
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid user role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_FAILED", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		PasswordHash:        string(hash),
		Role:                role,
		Status:              UserStatusActive,
	}

	return user, nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(name string) error {
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 100 characters")
	}
	u.DisplayName = name
	u.Touch()
	u.IncrementVersion()
	return nil
}

// ChangePassword verifies the old password before setting a new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_CREDENTIALS", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without verifying the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_FAILED", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	u.Touch()
	u.IncrementVersion()
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRole changes the user's role
func (u *User) SetRole(role UserRole) error {
	switch role {
	case UserRoleOwner, UserRoleAdmin, UserRoleStaff:
	default:
		return shared.NewDomainError("INVALID_ROLE", "Invalid user role")
	}
	u.Role = role
	u.Touch()
	u.IncrementVersion()
	return nil
}

// RecordLoginSuccess resets the failure counter and stores login metadata
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure increments the failure counter and locks the account
// when maxAttempts is reached. Returns true if the account was locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		u.Status = UserStatusLocked
		return true
	}
	return false
}

// Deactivate deactivates the user
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.Touch()
	u.IncrementVersion()
	return nil
}

// Activate re-activates a locked or deactivated user
func (u *User) Activate() {
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	u.IncrementVersion()
}

// IsLocked returns true if the user is currently locked
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the user may authenticate right now
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive || (u.Status == UserStatusLocked && !u.IsLocked())
}

// IsAdmin returns true for owner and admin roles
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleOwner || u.Role == UserRoleAdmin
}

func validateEmail(email string) error {
	if email == "" || len(email) > 200 || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
