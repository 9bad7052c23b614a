// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"daily-report-ai-api/internal/domain/entity"
)

// LoginRequest 登录请求，支持 JSON 与表单
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required,max=64"`
	Password string `json:"password" form:"password" binding:"required"`
}

// TokenResponse 登录响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // 秒
	UserID      uint64 `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// NewTokenResponse 构造登录响应
func NewTokenResponse(accessToken string, expiresIn int, u *entity.User) *TokenResponse {
	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		UserID:      u.ID,
		Username:    u.Username,
		Role:        string(u.Role),
	}
}
