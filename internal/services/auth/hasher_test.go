// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth_test

import (
	"strings"
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewHasher_CostFallback(t *testing.T) {
	tests := []struct {
		name     string
		cost     int
		expected int
	}{
		{"min cost", bcrypt.MinCost, bcrypt.MinCost},
		{"custom cost", 6, 6},
		{"zero", 0, bcrypt.DefaultCost},
		{"too low", 1, bcrypt.DefaultCost},
		{"too high", 99, bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.NewHasher(tt.cost).Cost())
		})
	}
}

func TestHasher_HashAndVerify(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, "secret", digest)
	assert.True(t, h.Verify("secret", digest))
	assert.False(t, h.Verify("Secret", digest))
	assert.False(t, h.Verify("", digest))
}

func TestHasher_HashIsSalted(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	first, err := h.Hash("same")
	require.NoError(t, err)
	second, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same", first))
	assert.True(t, h.Verify("same", second))
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	digest, err := h.Hash("")
	require.NoError(t, err)
	assert.True(t, h.Verify("", digest))
	assert.False(t, h.Verify("x", digest))
}

func TestHasher_VerifyMalformedDigest(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	for _, digest := range []string{"", "not-a-hash", "$2a$04$short", strings.Repeat("$", 60)} {
		assert.NotPanics(t, func() {
			assert.False(t, h.Verify("secret", digest))
		})
	}
}

func TestHasher_PasswordTooLong(t *testing.T) {
	h := auth.NewHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
