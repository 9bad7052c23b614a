// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"daily-report-ai-api/internal/domain/entity"
)

// UserResponse 用户响应
type UserResponse struct {
	ID          uint64          `json:"user_id"`
	Username    string          `json:"username"`
	Name        string          `json:"name"`
	TeamID      *uint64         `json:"team_id,omitempty"`
	Role        entity.UserRole `json:"role"`
	LastLoginAt *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToUserResponse 实体转换为响应
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		TeamID:      u.TeamID,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
