package auth

import (
	"testing"
	"time"

	"github.com/erp/posprint/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-key-at-least-32-chars",
		Issuer: "test-issuer",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()
	tenantID, userID := uuid.New(), uuid.New()

	token, expiresAt, err := svc.GenerateAccessToken(GenerateTokenInput{
		TenantID:    tenantID,
		UserID:      userID,
		Username:    "caixa1",
		Permissions: []string{"print:submit"},
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "caixa1", claims.Username)
	assert.Equal(t, []string{"print:submit"}, claims.Permissions)

	gotTenant, err := claims.TenantUUID()
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)
	gotUser, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
}

func TestJWTService_ValidateAccessToken_Errors(t *testing.T) {
	svc := newTestJWTService()
	now := time.Now()

	sign := func(claims *Claims, secret string) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	base := func() *Claims {
		return &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID:  uuid.NewString(),
			UserID:    uuid.NewString(),
			TokenType: tokenTypeAccess,
		}
	}

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{"garbage", func() string { return "not-a-token" }, ErrInvalidToken},
		{"wrong secret", func() string { return sign(base(), "another-secret") }, ErrInvalidToken},
		{"expired", func() string {
			c := base()
			c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrExpiredToken},
		{"not yet valid", func() string {
			c := base()
			c.NotBefore = jwt.NewNumericDate(now.Add(time.Hour))
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrTokenNotYetValid},
		{"other issuer", func() string {
			c := base()
			c.Issuer = "someone-else"
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrInvalidToken},
		{"refresh token", func() string {
			c := base()
			c.TokenType = "refresh"
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrInvalidTokenType},
		{"missing tenant", func() string {
			c := base()
			c.TenantID = ""
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrMissingTenantID},
		{"missing user", func() string {
			c := base()
			c.UserID = ""
			return sign(c, "test-secret-key-at-least-32-chars")
		}, ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaims_HasAnyPermission(t *testing.T) {
	claims := &Claims{Permissions: []string{"print:submit", "print:read"}}

	assert.True(t, claims.HasAnyPermission("print:maintain", "print:read"))
	assert.False(t, claims.HasAnyPermission("print:maintain"))
	assert.False(t, (&Claims{}).HasAnyPermission("print:read"))
}
