package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewManager("test-secret", 15*time.Minute, time.Hour)

	tokenString, err := manager.GenerateAccessToken("user@example.com", "USER")
	require.NoError(t, err)

	claims, err := manager.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "USER", claims.Role)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute, time.Hour)

	tokenString, err := manager.GenerateAccessToken("user@example.com", "USER")
	require.NoError(t, err)

	_, err = manager.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateWrongSecret(t *testing.T) {
	manager := NewManager("test-secret", 15*time.Minute, time.Hour)
	other := NewManager("other-secret", 15*time.Minute, time.Hour)

	tokenString, err := manager.GenerateAccessToken("user@example.com", "USER")
	require.NoError(t, err)

	_, err = other.Validate(tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	manager := NewManager("test-secret", 15*time.Minute, time.Hour)

	_, err := manager.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
