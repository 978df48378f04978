package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.True(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "secret123"))
}

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("secret", 42, "alice", 24)
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.False(t, tok.Exp.IsZero())
}
