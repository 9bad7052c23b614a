// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"daily-report-ai-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户，不存在时返回 nil
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByUsername 根据用户名获取用户，不存在时返回 nil
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// ListByTeam 获取团队成员
	ListByTeam(ctx context.Context, teamID uint64) ([]*entity.User, error)

	// UpdateLastLogin 更新最后登录时间
	UpdateLastLogin(ctx context.Context, id uint64) error
}
