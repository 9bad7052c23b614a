package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
)

// ReportContextRepository 日报上下文仓储实现
type ReportContextRepository struct {
	client *Client
}

// NewReportContextRepository 创建日报上下文仓储
func NewReportContextRepository(client *Client) *ReportContextRepository {
	return &ReportContextRepository{client: client}
}

func (r *ReportContextRepository) Create(ctx context.Context, rc *entity.ReportContext) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportContextRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(rc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create report context: %w", err)
	}
	return nil
}

func (r *ReportContextRepository) GetByRoomID(ctx context.Context, roomID uint64) (*entity.ReportContext, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportContextRepository.GetByRoomID")
	defer span.End()

	rc, err := firstOrNil[entity.ReportContext](getDB(ctx, r.client.db), "room_id = ?", roomID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get report context: %w", err)
	}
	return rc, nil
}

// UpdateWithVersion 带版本校验的更新
func (r *ReportContextRepository) UpdateWithVersion(ctx context.Context, rc *entity.ReportContext) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportContextRepository.UpdateWithVersion")
	defer span.End()

	db := getDB(ctx, r.client.db)
	result := db.Model(&entity.ReportContext{}).
		Where("id = ? AND version = ?", rc.ID, rc.Version).
		Updates(map[string]interface{}{
			"work_done":     rc.WorkDone,
			"blockers":      rc.Blockers,
			"tomorrow_plan": rc.TomorrowPlan,
			"condition":     rc.Condition,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		span.RecordError(result.Error)
		return fmt.Errorf("failed to update report context: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrVersionConflict
	}
	rc.Version++
	return nil
}

func (r *ReportContextRepository) DeleteByRoom(ctx context.Context, roomID uint64) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportContextRepository.DeleteByRoom")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("room_id = ?", roomID).Delete(&entity.ReportContext{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete report context: %w", err)
	}
	return nil
}
