package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	encoded, err := HashPassword("password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := VerifyPassword("password", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("not-the-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("password")
	require.NoError(t, err)

	second, err := HashPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	_, err := VerifyPassword("password", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("password", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	assert.ErrorIs(t, err, ErrInvalidHash)
}
