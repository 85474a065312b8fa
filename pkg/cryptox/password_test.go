package cryptox_test

import (
	"strings"
	"testing"

	"github.com/ordercraft/auth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := cryptox.HashPassword("right-password")
	require.NoError(t, err)

	err = cryptox.VerifyPassword("wrong-password", hash)
	require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
}

func TestVerifyPasswordCorruptHash(t *testing.T) {
	// A damaged stored hash must not read as "wrong password".
	err := cryptox.VerifyPassword("whatever", "not-a-bcrypt-hash")
	require.ErrorIs(t, err, cryptox.ErrInvalidHash)
	require.NotErrorIs(t, err, cryptox.ErrPasswordMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	a, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	b, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}
