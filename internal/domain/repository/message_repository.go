package repository

import (
	"context"

	"daily-report-ai-api/internal/domain/entity"
)

// MessageRepository 消息仓储接口
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error

	// ListByRoom 房间全部消息，按 ID 升序
	ListByRoom(ctx context.Context, roomID uint64) ([]*entity.Message, error)

	// ListRecent 最近 limit 条消息，按 ID 升序返回
	ListRecent(ctx context.Context, roomID uint64, limit int) ([]*entity.Message, error)

	DeleteByRoom(ctx context.Context, roomID uint64) error
}
