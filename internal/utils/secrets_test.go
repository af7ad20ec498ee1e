package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAPISecretIsRandom(t *testing.T) {
	a, err := NewAPISecret()
	require.NoError(t, err)
	b, err := NewAPISecret()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	// 48 raw bytes come out as 64 URL-safe characters.
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
	assert.NotContains(t, a, "=")
}

func TestHashAndVerifySecret(t *testing.T) {
	secret := "super-secret-value"
	hash, err := HashSecret(secret, bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, secret, hash)

	assert.True(t, VerifySecret(hash, secret))
	assert.False(t, VerifySecret(hash, "wrong"))
	assert.False(t, VerifySecret("not-a-hash", secret))
}
