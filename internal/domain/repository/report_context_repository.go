package repository

import (
	"context"

	"daily-report-ai-api/internal/domain/entity"
)

// ReportContextRepository 日报上下文仓储接口
type ReportContextRepository interface {
	Create(ctx context.Context, rc *entity.ReportContext) error

	// GetByRoomID 不存在时返回 nil
	GetByRoomID(ctx context.Context, roomID uint64) (*entity.ReportContext, error)

	// UpdateWithVersion 仅当数据库中版本等于 rc.Version 时写入，成功后版本加一；
	// 版本不一致返回 ErrVersionConflict
	UpdateWithVersion(ctx context.Context, rc *entity.ReportContext) error

	DeleteByRoom(ctx context.Context, roomID uint64) error
}
