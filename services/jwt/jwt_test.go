package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "superstar", "test-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAndGetClaims(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, float64(42), claims["id"])
	assert.Equal(t, "superstar", claims["role"])
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(42, "user", "test-secret")
	require.NoError(t, err)

	_, err = ValidateAndGetClaims(token, "other-secret")
	assert.Error(t, err)
}

func TestGenerateRequiresSecret(t *testing.T) {
	_, err := GenerateToken(1, "user", "")
	assert.Error(t, err)
}
