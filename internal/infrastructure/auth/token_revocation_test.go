package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/foodcourt/pos/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRevocationStore_Revoke(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_Expiry(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-short", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "jti-short")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryRevocationStore_RevokeUser(t *testing.T) {
	store := auth.NewInMemoryRevocationStore()
	ctx := context.Background()
	issuedBefore := time.Now().Add(-time.Minute)

	revoked, err := store.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.RevokeUser(ctx, "user-1", time.Hour))

	revoked, err = store.IsUserRevoked(ctx, "user-1", issuedBefore)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsUserRevoked(ctx, "user-1", time.Now().Add(time.Second))
	require.NoError(t, err)
	assert.False(t, revoked, "tokens issued after the revocation stay valid")

	revoked, err = store.IsUserRevoked(ctx, "user-2", issuedBefore)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationStores_Interface(t *testing.T) {
	var _ auth.RevocationStore = (*auth.InMemoryRevocationStore)(nil)
	var _ auth.RevocationStore = (*auth.RedisRevocationStore)(nil)
}
