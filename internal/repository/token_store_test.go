package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisTokenStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTokenStore(client), mr
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryTokenStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisTokenStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// After the TTL passes the key disappears.
	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestFailoverTokenStore_FallsBack(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	store, mr := newRedisStore(t)
	fallback := NewMemoryTokenStore()
	failover := NewFailoverTokenStore(store, fallback, &logger)

	require.NoError(t, failover.Revoke(ctx, "jti-1", time.Hour))

	// The revocation is mirrored into the fallback.
	revoked, err := fallback.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Redis goes away; the fallback still answers.
	mr.Close()

	require.NoError(t, failover.Revoke(ctx, "jti-2", time.Hour))

	revoked, err = failover.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = failover.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestFailoverTokenStore_ConsultsFallbackOnMiss(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	store, _ := newRedisStore(t)
	fallback := NewMemoryTokenStore()
	failover := NewFailoverTokenStore(store, fallback, &logger)

	// A revocation that only the fallback knows about still counts.
	require.NoError(t, fallback.Revoke(ctx, "jti-orphan", time.Hour))

	revoked, err := failover.IsRevoked(ctx, "jti-orphan")
	require.NoError(t, err)
	assert.True(t, revoked)
}
