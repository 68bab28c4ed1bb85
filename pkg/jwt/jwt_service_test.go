package jwt

import (
	"testing"
	"time"

	"food-recognizer/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := NewJWTService("secret")

	token := svc.GenerateTokenUser("4b0b1e84-2f7e-4c55-9a3c-2a4f0e6d9b11", domain.RoleUser)
	require.NotEmpty(t, token)

	userID, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "4b0b1e84-2f7e-4c55-9a3c-2a4f0e6d9b11", userID)
	assert.Equal(t, domain.RoleUser, role)
}

func TestGetUserIDByToken_WrongSecret(t *testing.T) {
	token := NewJWTService("secret").GenerateTokenUser("u1", domain.RoleUser)

	_, _, err := NewJWTService("other").GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestGetUserIDByToken_Expired(t *testing.T) {
	svc := &jwtService{
		secretKey: "secret",
		issuer:    defaultIssuer,
		now:       func() time.Time { return time.Now().Add(-3 * time.Hour) },
	}
	token := svc.GenerateTokenUser("u1", domain.RoleUser)

	_, _, err := svc.GetUserIDByToken(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestGetUserIDByToken_Garbage(t *testing.T) {
	_, _, err := NewJWTService("secret").GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}
