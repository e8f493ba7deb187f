package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptSaltsEveryCall(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	a, err := h.Hash("password")
	require.NoError(t, err)
	b, err := h.Hash("password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "$2a$04$"))
	assert.True(t, Verify(a, "password"))
	assert.True(t, Verify(b, "password"))
	assert.False(t, Verify(a, "Password"))
}

func TestBcryptCostOutOfRangeFallsBack(t *testing.T) {
	assert.Equal(t, DefaultCost, NewBcrypt(0).Cost())
	assert.Equal(t, DefaultCost, NewBcrypt(99).Cost())
	assert.Equal(t, 12, NewBcrypt(12).Cost())
}

func TestBcryptRejectsOverlongInput(t *testing.T) {
	_, err := NewBcrypt(bcrypt.MinCost).Hash(strings.Repeat("x", 100))
	assert.Error(t, err)
}
