package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsphere_back_end/internal/models"
)

func TestGenerateJWT_RoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	tokenString, err := GenerateJWT(models.User{
		ID:    42,
		Email: "alice@example.com",
		Role:  models.RoleCustomer,
	})
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (interface{}, error) {
		return []byte("secret-de-test"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, "CUSTOMER", claims["role"])
	assert.NotZero(t, claims["exp"])
}
