package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// sha256("secret1")
const legacySecret1 = "5b11618c2e44027877d0cd0921ed166b9f176f50587fc91e7534dd2946db77d6"

func TestSHA256Hasher_MatchesLegacyDigest(t *testing.T) {
	h := NewSHA256Hasher()

	got, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.Equal(t, legacySecret1, got)

	ok, err := h.Verify("secret1", legacySecret1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("secret2", legacySecret1)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.False(t, h.NeedsUpgrade(legacySecret1))
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)
	assert.False(t, h.NeedsUpgrade(hashed))

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "bcrypt match", password: "secret1", hash: hashed, want: true},
		{name: "bcrypt mismatch", password: "wrong", hash: hashed, want: false},
		{name: "legacy match", password: "secret1", hash: legacySecret1, want: true},
		{name: "legacy mismatch", password: "wrong", hash: legacySecret1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(tt.password, tt.hash)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	assert.True(t, h.NeedsUpgrade(legacySecret1))
}

func TestBcryptHasher_EmptyPassword(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher(SchemeSHA256, 0)
	require.NoError(t, err)
	assert.IsType(t, &SHA256Hasher{}, h)

	h, err = NewHasher(SchemeBcrypt, 0)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)

	_, err = NewHasher("md5", 0)
	assert.Error(t, err)
}

func TestBcryptHasher_LongPasswords(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, n := range []int{72, 73, 200} {
		password := strings.Repeat("p", n)

		hashed, err := h.Hash(password)
		require.NoError(t, err, n)

		ok, err := h.Verify(password, hashed)
		require.NoError(t, err, n)
		assert.True(t, ok, n)

		ok, err = h.Verify(password+"q", hashed)
		require.NoError(t, err, n)
		assert.False(t, ok, n)
	}
}

func TestBcryptHasher_LongPasswordsDifferAfterByte72(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	prefix := strings.Repeat("p", 72)

	hashed, err := h.Hash(prefix + "a")
	require.NoError(t, err)

	ok, err := h.Verify(prefix+"b", hashed)
	require.NoError(t, err)
	assert.False(t, ok)
}
