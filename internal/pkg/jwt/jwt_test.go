package jwt

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/identity"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	id := identity.Identity{UserID: "user-1", EmployeeID: "emp-1", Role: identity.RolePayrollOfficer}

	token, expiresAt, err := svc.GenerateAccessToken(id)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, int64(0))

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	got, err := IdentityFromClaims(claims, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAccessTokenWithoutEmployee(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, _, err := svc.GenerateAccessToken(identity.Identity{UserID: "admin-1", Role: identity.RoleAdmin})
	require.NoError(t, err)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	got, err := IdentityFromClaims(claims, TokenTypeAccess)
	require.NoError(t, err)
	assert.Empty(t, got.EmployeeID)
	assert.Equal(t, identity.RoleAdmin, got.Role)
}

func TestSSETokenIsNotAnAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	id := identity.Identity{UserID: "user-1", Role: identity.RoleAdmin}

	sseToken, expiresIn, err := svc.GenerateSSEToken(id)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	got, err := svc.ValidateSSEToken(sseToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.UserID)

	access, _, err := svc.GenerateAccessToken(id)
	require.NoError(t, err)
	_, err = svc.ValidateSSEToken(access)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestIdentityFromClaims_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{"wrong type", map[string]interface{}{"type": "refresh", "user_id": "u", "role": "admin"}},
		{"no user", map[string]interface{}{"type": "access", "role": "admin"}},
		{"unknown role", map[string]interface{}{"type": "access", "user_id": "u", "role": "ceo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := IdentityFromClaims(tt.claims, TokenTypeAccess)
			assert.Error(t, err)
		})
	}
}
