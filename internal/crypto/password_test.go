package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(digest, "$argon2id$"))

	ok, err := VerifyPassword("correct horse battery staple", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPassword_CorruptDigest(t *testing.T) {
	for _, digest := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$only-one-section",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	} {
		_, err := VerifyPassword("whatever", digest)
		assert.ErrorIs(t, err, ErrCorruptDigest, "digest: %q", digest)
	}
}
