package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appidentity "github.com/dukkan/backend/internal/application/identity"
	"github.com/dukkan/backend/internal/domain/identity"
	infraauth "github.com/dukkan/backend/internal/infrastructure/auth"
)

type stubIssuer struct {
	claims *appidentity.TokenClaims
	err    error
}

func (s *stubIssuer) IssuePair(*identity.User) (*appidentity.TokenPair, error) {
	return nil, errors.New("not implemented")
}
func (s *stubIssuer) VerifyAccessToken(string) (*appidentity.TokenClaims, error) {
	return s.claims, s.err
}
func (s *stubIssuer) VerifyRefreshToken(string) (*appidentity.TokenClaims, error) {
	return s.claims, s.err
}

type stubBlacklist struct {
	revoked bool
	err     error
}

func (s *stubBlacklist) Revoke(context.Context, string, time.Time) error { return nil }
func (s *stubBlacklist) IsRevoked(context.Context, string) (bool, error) {
	return s.revoked, s.err
}

func staffClaims() *appidentity.TokenClaims {
	return &appidentity.TokenClaims{
		UserID:   uuid.New(),
		TenantID: uuid.New(),
		Email:    "staff@acme.example",
		Role:     identity.UserRoleStaff,
		TokenID:  uuid.New().String(),
	}
}

func runAuth(t *testing.T, issuer appidentity.TokenIssuer, blacklist appidentity.TokenBlacklist, header string) (*httptest.ResponseRecorder, *appidentity.TokenClaims) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen *appidentity.TokenClaims
	engine := gin.New()
	engine.GET("/protected", Auth(issuer, blacklist, zap.NewNop()), func(c *gin.Context) {
		seen = GetClaims(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w, seen
}

func TestAuth_ValidToken(t *testing.T) {
	claims := staffClaims()
	w, seen := runAuth(t, &stubIssuer{claims: claims}, &stubBlacklist{}, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, claims.UserID, seen.UserID)
}

func TestAuth_MissingHeader(t *testing.T) {
	w, _ := runAuth(t, &stubIssuer{claims: staffClaims()}, &stubBlacklist{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing authorization header")
}

func TestAuth_MalformedHeader(t *testing.T) {
	w, _ := runAuth(t, &stubIssuer{claims: staffClaims()}, &stubBlacklist{}, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	w, _ := runAuth(t, &stubIssuer{err: infraauth.ErrExpiredToken}, &stubBlacklist{}, "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has expired")
}

func TestAuth_RevokedToken(t *testing.T) {
	w, _ := runAuth(t, &stubIssuer{claims: staffClaims()}, &stubBlacklist{revoked: true}, "Bearer revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "revoked")
}

func TestAuth_BlacklistOutageFailsOpen(t *testing.T) {
	blacklist := &stubBlacklist{err: errors.New("redis: connection refused")}
	w, seen := runAuth(t, &stubIssuer{claims: staffClaims()}, blacklist, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, seen)
}
