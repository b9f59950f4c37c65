package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", "alice@example.com", "user", "test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", "alice@example.com", "user", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-1", "alice@example.com", "user", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}
