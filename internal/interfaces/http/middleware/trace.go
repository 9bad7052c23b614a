// Package middleware 提供 HTTP 中间件
package middleware

import (
	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/tracer"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Trace OpenTelemetry 追踪中间件，跳过探针与指标路径
func Trace(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		switch c.Request.URL.Path {
		case "/health", "/ready", "/live", "/metrics":
			return false
		}
		return true
	}))
}

// TraceContext 将 trace_id / span_id 注入 Gin Context 与日志上下文
func TraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if traceID, spanID := tracer.IDs(c.Request.Context()); traceID != "" {
			c.Set("trace_id", traceID)
			c.Set("span_id", spanID)

			ctx := logger.WithContext(c.Request.Context(), logger.TraceIDKey, traceID)
			ctx = logger.WithContext(ctx, logger.SpanIDKey, spanID)
			c.Request = c.Request.WithContext(ctx)

			c.Header("X-Trace-ID", traceID)
		}

		c.Next()
	}
}
