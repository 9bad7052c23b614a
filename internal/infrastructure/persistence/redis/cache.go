package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"daily-report-ai-api/pkg/logger"
)

// Cache JSON 读穿透缓存
type Cache struct {
	client *Client
	loads  singleflight.Group
}

// NewCache 创建缓存
func NewCache(client *Client) *Cache {
	return &Cache{client: client}
}

// GetOrLoad 命中时直接返回缓存的 JSON；未命中时由 singleflight 合并加载，
// 加载结果序列化后写回，写回失败只记日志
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "redis.Cache.GetOrLoad",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	raw, err := c.client.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return raw, nil
	case !IsNil(err):
		span.RecordError(err)
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	v, err, shared := c.loads.Do(key, func() (any, error) {
		loaded, err := loader()
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(loaded)
		if err != nil {
			return nil, fmt.Errorf("encode cache value %s: %w", key, err)
		}
		if err := c.client.rdb.Set(ctx, key, encoded, ttl).Err(); err != nil {
			logger.Warn(ctx, "cache write failed", "key", key, "error", err.Error())
		}
		return encoded, nil
	})
	span.SetAttributes(attribute.Bool("cache.shared", shared))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return v.([]byte), nil
}

// Generation 读取代数计数键，不存在时为 0
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	n, err := c.client.rdb.Get(ctx, key).Int64()
	switch {
	case err == nil:
		return n, nil
	case IsNil(err):
		return 0, nil
	default:
		return 0, fmt.Errorf("cache generation %s: %w", key, err)
	}
}

// Bump 递增代数计数键并刷新其过期时间，依赖旧代数的缓存键随之失效
func (c *Cache) Bump(ctx context.Context, key string, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "redis.Cache.Bump",
		trace.WithAttributes(attribute.String("cache.key", key)))
	defer span.End()

	pipe := c.client.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.PExpire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("cache bump %s: %w", key, err)
	}
	return nil
}
