package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/identity"
	"github.com/dukkan/backend/internal/infrastructure/config"
)

// Token types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWT errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingSecret    = errors.New("jwt secret is not configured")
)

// Claims is the payload carried inside signed tokens
type Claims struct {
	jwt.RegisteredClaims
	TenantID  string `json:"tenant_id"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
}

// JWTService issues and verifies HS256 token pairs. Access and refresh
// tokens are signed with separate secrets; when no refresh secret is
// configured the access secret is reused.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewJWTService creates a JWTService from configuration
func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &JWTService{
		accessSecret:  []byte(cfg.Secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     cfg.AccessTokenExpiration,
		refreshTTL:    cfg.RefreshTokenExpiration,
		issuer:        cfg.Issuer,
	}, nil
}

// IssuePair generates an access/refresh token pair for a user
func (s *JWTService) IssuePair(user *identity.User) (*appidentity.TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.accessTTL)
	refreshExpiry := now.Add(s.refreshTTL)

	accessToken, err := s.generateToken(user, TokenTypeAccess, now, accessExpiry, s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.generateToken(user, TokenTypeRefresh, now, refreshExpiry, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &appidentity.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExpiry,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccessToken validates an access token and returns its claims
func (s *JWTService) VerifyAccessToken(token string) (*appidentity.TokenClaims, error) {
	return s.verifyToken(token, TokenTypeAccess, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims
func (s *JWTService) VerifyRefreshToken(token string) (*appidentity.TokenClaims, error) {
	return s.verifyToken(token, TokenTypeRefresh, s.refreshSecret)
}

func (s *JWTService) generateToken(user *identity.User, tokenType string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TenantID:  user.TenantID.String(),
		UserID:    user.ID.String(),
		Email:     user.Email,
		Role:      string(user.Role),
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *JWTService) verifyToken(tokenString, expectedType string, secret []byte) (*appidentity.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidTokenType
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidClaims
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	role := identity.UserRole(claims.Role)
	return &appidentity.TokenClaims{
		UserID:   userID,
		TenantID: tenantID,
		Email:    claims.Email,
		Role:     role,
		TokenID:  claims.ID,
		IsAdmin:  role == identity.UserRoleOwner || role == identity.UserRoleAdmin,
	}, nil
}
