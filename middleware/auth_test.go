package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("changeme123")
	assert.NoError(t, err)
	assert.NotEqual(t, "changeme123", hash)

	assert.True(t, VerifyPassword(hash, "changeme123"))
	assert.False(t, VerifyPassword(hash, "wrong-password"))
}
