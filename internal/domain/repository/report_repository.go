package repository

import (
	"context"

	"daily-report-ai-api/internal/domain/entity"
)

// ReportRepository 日报仓储接口
type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error

	// GetByID 不存在时返回 nil
	GetByID(ctx context.Context, id uint64) (*entity.Report, error)

	ExistsByRoomID(ctx context.Context, roomID uint64) (bool, error)

	// ListByUser 按创建时间倒序
	ListByUser(ctx context.Context, userID uint64, pagination Pagination) (*PagedResult[*entity.Report], error)

	// LatestByUsers 每个用户最新的一份日报
	LatestByUsers(ctx context.Context, userIDs []uint64) (map[uint64]*entity.Report, error)

	DeleteByRoom(ctx context.Context, roomID uint64) error
}
