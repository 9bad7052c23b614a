// Package middleware 提供 HTTP 中间件
package middleware

import (
	"context"
	"time"

	"daily-report-ai-api/internal/infrastructure/persistence/redis"
	apperrors "daily-report-ai-api/pkg/errors"
	"daily-report-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// Enabled 是否启用限流
	Enabled bool
	// RequestsPerSecond 每秒请求数
	RequestsPerSecond int
	// Burst 突发容量，与 RequestsPerSecond 相加作为窗口上限
	Burst int
}

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 限流中间件
// 已认证请求按用户限流，其余按客户端 IP 限流
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 100
	}
	limit := cfg.RequestsPerSecond + max(cfg.Burst, 0)

	return func(c *gin.Context) {
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		var key string
		if userID := GetUserID(c); userID != 0 {
			key = redis.BuildUserRateLimitKey(userID, endpoint)
		} else {
			key = redis.BuildClientRateLimitKey(c.ClientIP(), endpoint)
		}

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, time.Second)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			abortWithAppError(c, apperrors.ErrTooManyRequests)
			return
		}

		c.Next()
	}
}
