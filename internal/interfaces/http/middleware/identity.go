// Package middleware 提供 HTTP 中间件
package middleware

import (
	apperrors "daily-report-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

const (
	ctxKeyUserID = "user_id"
	ctxKeyTeamID = "team_id"
	ctxKeyRole   = "role"
)

// GetUserID 从 Gin Context 中获取当前用户 ID，未认证时返回 0
func GetUserID(c *gin.Context) uint64 {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// GetTeamID 从 Gin Context 中获取当前用户所属团队 ID
func GetTeamID(c *gin.Context) uint64 {
	if v, ok := c.Get(ctxKeyTeamID); ok {
		if id, ok := v.(uint64); ok {
			return id
		}
	}
	return 0
}

// GetRole 从 Gin Context 中获取当前用户角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// abortWithAppError 以统一错误结构终止请求
func abortWithAppError(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, gin.H{
		"code":    err.HTTPStatus,
		"message": err.Message,
		"error": gin.H{
			"error_code": err.Code,
			"retryable":  err.Retryable,
		},
		"trace_id": c.GetString("trace_id"),
	})
}
