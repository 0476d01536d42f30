package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary struct {
	TotalUsers int            `json:"totalUsers"`
	ByRole     map[string]int `json:"byRole"`
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Noop
	require.NoError(t, c.Set(ctx, "k", summary{TotalUsers: 1}, time.Minute))

	var got summary
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func setupRedis(t *testing.T) *RedisCache {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/1"
	}
	c, err := NewRedisCache(context.Background(), url, "storerating-test")
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	in := summary{TotalUsers: 7, ByRole: map[string]int{"NORMAL_USER": 5, "SYSTEM_ADMIN": 2}}
	require.NoError(t, c.Set(ctx, "dashboard", in, time.Minute))

	var out summary
	found, err := c.Get(ctx, "dashboard", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)
}

func TestRedisCache_MissAndExpiry(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	var out summary
	found, err := c.Get(ctx, "never-set", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "short", summary{TotalUsers: 1}, 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	found, err = c.Get(ctx, "short", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache_Delete(t *testing.T) {
	c := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", summary{TotalUsers: 1}, time.Minute))
	require.NoError(t, c.Set(ctx, "b", summary{TotalUsers: 2}, time.Minute))
	require.NoError(t, c.Delete(ctx, "a", "b", "missing"))
	require.NoError(t, c.Delete(ctx))

	var out summary
	for _, k := range []string{"a", "b"} {
		found, err := c.Get(ctx, k, &out)
		require.NoError(t, err)
		assert.False(t, found, k)
	}
}

func TestRedisCache_KeyPrefix(t *testing.T) {
	assert.Equal(t, "p:k", (&RedisCache{prefix: "p"}).key("k"))
	assert.Equal(t, "k", (&RedisCache{}).key("k"))
}
