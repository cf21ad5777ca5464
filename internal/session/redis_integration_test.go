package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		t.Skipf("跳过集成测试: 无法连接 Redis: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestIntegration_RedisStore(t *testing.T) {
	rdb := setupRedis(t)
	ctx := context.Background()
	store := NewRedisStore(rdb, time.Minute)

	token, err := store.Start(ctx, 99)
	require.NoError(t, err)
	defer store.End(ctx, token)

	userID, ok, err := store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(99), userID)

	ttl, err := rdb.TTL(ctx, buildSessionKey(token)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.End(ctx, token))
	require.NoError(t, store.End(ctx, token))

	_, ok, err = store.Lookup(ctx, token)
	require.NoError(t, err)
	assert.False(t, ok)
}
