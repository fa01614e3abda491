// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := VerifyPassword("s3cret!", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, newHash, err := VerifyPasswordWithRehash("s3cret!", hash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, newHash)
}

func TestLegacyBcryptIsRehashed(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, newHash, err := VerifyPasswordWithRehash("123456", string(legacy))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(newHash, "$argon2id$"))

	ok, newHash, err = VerifyPasswordWithRehash("654321", string(legacy))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)
}

func TestVerifyPasswordTimingSafeWithoutHash(t *testing.T) {
	ok, newHash, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, newHash)

	empty := ""
	ok, _, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	_, err := VerifyPassword("x", "plaintext")
	assert.Error(t, err)
}

func TestOutdatedArgonCostIsRehashed(t *testing.T) {
	weak := argonDigest{
		memory:  8 * 1024,
		time:    1,
		threads: 1,
		salt:    []byte("0123456789abcdef"),
		key:     make([]byte, argonKeyLen),
	}
	weak.key = weak.derive("hunter22")

	ok, upgraded, err := VerifyPasswordWithRehash("hunter22", weak.String())
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotEmpty(t, upgraded)

	parsed, err := parseArgonDigest(upgraded)
	require.NoError(t, err)
	assert.True(t, parsed.current())
}

func TestParseArgonDigestRejectsOtherAlgorithms(t *testing.T) {
	_, err := parseArgonDigest("$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5")
	assert.ErrorIs(t, err, ErrMalformedHash)
}
