// Package middleware 提供 HTTP 中间件
package middleware

import (
	"errors"
	"strings"

	apperrors "daily-report-ai-api/pkg/errors"
	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret JWT 密钥
	Secret string
	// Issuer JWT 签发者
	Issuer string
	// SkipPaths 跳过认证的路径前缀
	SkipPaths []string
	// Enabled 是否启用认证
	Enabled bool
}

// Auth 认证中间件
func Auth(cfg AuthConfig) gin.HandlerFunc {
	jwtManager := utils.NewJWTManager(cfg.Secret, cfg.Issuer)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		for _, path := range cfg.SkipPaths {
			if strings.HasPrefix(c.Request.URL.Path, path) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortAuth(c, apperrors.ErrTokenMissing)
			return
		}

		// 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			abortAuth(c, apperrors.ErrTokenInvalid)
			return
		}

		claims, err := jwtManager.ParseToken(parts[1])
		if err != nil {
			if errors.Is(err, utils.ErrExpiredToken) {
				abortAuth(c, apperrors.ErrTokenExpired)
				return
			}
			abortAuth(c, apperrors.ErrTokenInvalid)
			return
		}

		// 刷新令牌不能用于访问业务接口
		if claims.Type != utils.TokenTypeAccess {
			abortAuth(c, apperrors.ErrTokenInvalid)
			return
		}

		SetIdentity(c, claims.ToSubject())
		c.Next()
	}
}

// SetIdentity 将认证后的主体写入 Gin Context 与 request context
func SetIdentity(c *gin.Context, sub utils.Subject) {
	c.Set(ctxKeyUserID, sub.UserID)
	c.Set(ctxKeyTeamID, sub.TeamID)
	c.Set(ctxKeyRole, sub.Role)

	ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, sub.UserID)
	c.Request = c.Request.WithContext(ctx)
}

// abortAuth 终止请求并返回 401
func abortAuth(c *gin.Context, err *apperrors.AppError) {
	abortWithAppError(c, err)
}

// DefaultSkipPaths 默认跳过认证的路径
var DefaultSkipPaths = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
	"/api/v1/login",
	"/api/v1/auth/",
}
