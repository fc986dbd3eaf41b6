package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	details, err := GenerateJWT("user-1", "broker@example.com", RoleBroker, "secret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", details.TokenType)
	assert.Equal(t, int64(86400), details.ExpiresIn)

	claims, err := ValidateJWT(details.Token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleBroker, claims.Role)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	details, err := GenerateJWT("user-1", "", RoleAdmin, "secret")
	require.NoError(t, err)

	_, err = ValidateJWT(details.Token, "other")
	assert.Error(t, err)

	_, err = ValidateJWT("", "secret")
	assert.Error(t, err)
}
