package crypt_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/crypt"
)

func TestSHA256_IsDeterministicHex(t *testing.T) {
	a, err := crypt.Default.Hash("secret1")
	require.NoError(t, err)
	b, err := crypt.Default.Hash("secret1")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, crypt.DigestLen)
	assert.Regexp(t, "^[0-9a-f]+$", a)
}

func TestSHA256_KnownVector(t *testing.T) {
	got, err := crypt.SHA256{}.Hash("abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)
}

func TestHasherFunc_PropagatesFailure(t *testing.T) {
	broken := crypt.HasherFunc(func(string) (string, error) {
		return "", crypt.ErrHash
	})
	_, err := broken.Hash("pw")
	assert.True(t, errors.Is(err, crypt.ErrHash))
}
