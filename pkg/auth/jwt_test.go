package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
)

func testPrincipal() *model.Principal {
	return &model.Principal{
		ID:    uuid.New(),
		Email: "doc@example.com",
		Role:  model.RoleDoctor,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService(Config{Secret: "access-secret", RefreshSecret: "refresh-secret"})
	p := testPrincipal()

	token, err := svc.GenerateAccessToken(p)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.PrincipalID)
	assert.Equal(t, p.Email, claims.Email)
	assert.Equal(t, model.RoleDoctor, claims.Role)
}

func TestRefreshTokenUsesItsOwnSecret(t *testing.T) {
	svc := NewJWTService(Config{Secret: "access-secret", RefreshSecret: "refresh-secret"})
	p := testPrincipal()

	refresh, err := svc.GenerateRefreshToken(p)
	require.NoError(t, err)

	// The refresh token is not a valid access token and vice versa.
	_, err = svc.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, p.ID, claims.PrincipalID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc := NewJWTService(Config{Secret: "access-secret", RefreshSecret: "refresh-secret"})
	other := NewJWTService(Config{Secret: "other-secret", RefreshSecret: "other-refresh"})

	token, err := other.GenerateAccessToken(testPrincipal())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
