package repository

import (
	"context"

	"daily-report-ai-api/internal/domain/entity"
)

// ChatRoomRepository 对话房间仓储接口
type ChatRoomRepository interface {
	Create(ctx context.Context, room *entity.ChatRoom) error

	// GetByID 不存在时返回 nil
	GetByID(ctx context.Context, id uint64) (*entity.ChatRoom, error)

	// ListByUser 按创建时间倒序
	ListByUser(ctx context.Context, userID uint64, pagination Pagination) (*PagedResult[*entity.ChatRoom], error)

	// LatestByUser 用户最近创建的房间，不存在时返回 nil
	LatestByUser(ctx context.Context, userID uint64) (*entity.ChatRoom, error)

	UpdateTitle(ctx context.Context, id uint64, title string) error

	Delete(ctx context.Context, id uint64) error
}
