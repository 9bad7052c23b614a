package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/metrics"
)

// ErrLockTimeout 等待锁超时
var ErrLockTimeout = errors.New("lock wait timeout")

const lockPollInterval = 50 * time.Millisecond

// 仅删除自己持有的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RoomLocker 基于 SET NX PX 的分布式房间锁
type RoomLocker struct {
	client *Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRoomLocker 创建房间锁
func NewRoomLocker(client *Client, ttl, wait time.Duration) *RoomLocker {
	return &RoomLocker{client: client, ttl: ttl, wait: wait}
}

// Lock 获取锁，最多等待 wait；返回的 unlock 可重复调用
func (l *RoomLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, span := tracer.Start(ctx, "redis.RoomLocker.Lock",
		trace.WithAttributes(attribute.String("lock.key", key)))
	defer span.End()

	lockKey := "lock:" + key
	token := uuid.NewString()
	start := time.Now()
	deadline := start.Add(l.wait)

	for {
		ok, err := l.client.rdb.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			span.RecordError(err)
			metrics.RoomLockWait.WithLabelValues("error").Observe(time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			metrics.RoomLockWait.WithLabelValues("timeout").Observe(time.Since(start).Seconds())
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			metrics.RoomLockWait.WithLabelValues("canceled").Observe(time.Since(start).Seconds())
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}

	metrics.RoomLockWait.WithLabelValues("acquired").Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int64("lock.wait_ms", time.Since(start).Milliseconds()))

	var once sync.Once
	return func() {
		once.Do(func() {
			// 调用方 ctx 可能已取消，释放使用独立的短超时
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.client.rdb, []string{lockKey}, token).Err(); err != nil {
				logger.Warn(ctx, "failed to release room lock", "key", key, "error", err)
			}
		})
	}, nil
}
