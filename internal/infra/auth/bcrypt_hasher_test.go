package auth

import (
	"testing"

	"github.com/dabinj96/Peaberry-sub000/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}} // MinCost keeps the test fast
	hasher := NewBcryptHasher(cfg)

	password := "correct-horse-battery"
	hash, err := hasher.HashPassword(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.NoError(t, hasher.VerifyPassword(hash, password))
	assert.Error(t, hasher.VerifyPassword(hash, "wrong-password"))
	assert.Error(t, hasher.VerifyPassword(hash, ""))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 4}})

	h1, err := hasher.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := hasher.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash carries its own salt")
}

func TestBcryptHasher_OutOfRangeCostFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}})

	hash, err := hasher.HashPassword("whatever-password")
	require.NoError(t, err)
	assert.NoError(t, hasher.VerifyPassword(hash, "whatever-password"))
}
