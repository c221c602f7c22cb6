package auth

import (
	"testing"

	"market-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	secret := "test-secret-en-az-otuz-iki-karakter!!"
	storeID := uint(3)
	user := &models.User{
		Username: "kasiyer1",
		Role:     models.RoleStoreUser,
		StoreID:  &storeID,
	}
	user.ID = 7

	signed, err := GenerateToken(secret, user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "kasiyer1", claims.Username)
	assert.Equal(t, models.RoleStoreUser, claims.Role)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, uint(3), *claims.StoreID)
	require.NotNil(t, claims.ExpiresAt)
}

func TestGenerateTokenWrongSecretRejected(t *testing.T) {
	user := &models.User{Username: "admin", Role: models.RoleAdmin}
	user.ID = 1

	signed, err := GenerateToken("dogru-gizli-anahtar-dogru-gizli-anahtar", user)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("yanlis-gizli-anahtar-yanlis-gizli-anahtar"), nil
	})
	require.Error(t, err)
}
