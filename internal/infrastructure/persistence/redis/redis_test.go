package redis

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-report-ai-api/internal/config"
)

// newTestClient 连接 REDIS_TEST_HOST 指定的实例，未设置时跳过
func newTestClient(t *testing.T) *Client {
	t.Helper()
	host := os.Getenv("REDIS_TEST_HOST")
	if host == "" {
		t.Skip("REDIS_TEST_HOST not set")
	}
	client, err := NewClient(context.Background(), &config.RedisConfig{Host: host, Port: 6379, PoolSize: 4})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRoomLocker_Exclusive(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	locker := NewRoomLocker(client, 5*time.Second, 200*time.Millisecond)
	key := "test-room-" + time.Now().Format("150405.000000")

	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, ErrLockTimeout)

	unlock()
	unlock()

	unlock2, err := locker.Lock(ctx, key)
	require.NoError(t, err)
	unlock2()
}

func TestCache_GetOrLoad(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	cache := NewCache(client)
	key := fmt.Sprintf("test:status:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.rdb.Del(ctx, key).Err() })

	calls := 0
	loader := func() (any, error) {
		calls++
		return map[string]string{"work_done": "missing"}, nil
	}

	first, err := cache.GetOrLoad(ctx, key, time.Minute, loader)
	require.NoError(t, err)
	second, err := cache.GetOrLoad(ctx, key, time.Minute, loader)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, calls)
}

func TestCache_GenerationBump(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	cache := NewCache(client)
	key := fmt.Sprintf("test:gen:%d", time.Now().UnixNano())
	t.Cleanup(func() { _ = client.rdb.Del(ctx, key).Err() })

	gen, err := cache.Generation(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, gen)

	require.NoError(t, cache.Bump(ctx, key, time.Minute))
	require.NoError(t, cache.Bump(ctx, key, time.Minute))
	gen, err = cache.Generation(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)

	ttl, err := client.rdb.PTTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRoomLocker_ConcurrentUnlock(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	locker := NewRoomLocker(client, 5*time.Second, 200*time.Millisecond)
	key := fmt.Sprintf("test-room-%d", time.Now().UnixNano())

	unlock, err := locker.Lock(ctx, key)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock()
		}()
	}
	wg.Wait()

	next, err := locker.Lock(ctx, key)
	require.NoError(t, err)
	// 已释放的句柄再次调用不影响新的持有者
	unlock()
	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, ErrLockTimeout)
	next()
}

func TestRateLimiter_Allow(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	limiter := NewRateLimiter(client)
	key := BuildClientRateLimitKey("192.0.2.10", fmt.Sprintf("/test/%d", time.Now().UnixNano()))

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}
	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildRateLimitKeys(t *testing.T) {
	assert.Equal(t, "ratelimit:user:7:/api/v1/chat_rooms", BuildUserRateLimitKey(7, "/api/v1/chat_rooms"))
	assert.Equal(t, "ratelimit:ip:10.0.0.1:/api/v1/login", BuildClientRateLimitKey("10.0.0.1", "/api/v1/login"))
}
