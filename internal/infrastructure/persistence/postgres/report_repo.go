package postgres

import (
	"context"
	"fmt"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
)

// ReportRepository 日报仓储实现
type ReportRepository struct {
	client *Client
}

// NewReportRepository 创建日报仓储
func NewReportRepository(client *Client) *ReportRepository {
	return &ReportRepository{client: client}
}

func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(report).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uint64) (*entity.Report, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.GetByID")
	defer span.End()

	report, err := firstOrNil[entity.Report](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return report, nil
}

func (r *ReportRepository) ExistsByRoomID(ctx context.Context, roomID uint64) (bool, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.ExistsByRoomID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var count int64
	if err := db.Model(&entity.Report{}).Where("room_id = ?", roomID).Count(&count).Error; err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("failed to check report existence: %w", err)
	}
	return count > 0, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID uint64, pagination repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.Report{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []*entity.Report
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&reports).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return repository.NewPagedResult(reports, total, pagination), nil
}

// LatestByUsers 每个用户最新的一份日报
func (r *ReportRepository) LatestByUsers(ctx context.Context, userIDs []uint64) (map[uint64]*entity.Report, error) {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.LatestByUsers")
	defer span.End()

	out := make(map[uint64]*entity.Report, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	db := getDB(ctx, r.client.db)
	latest := db.Model(&entity.Report{}).
		Select("MAX(id)").
		Where("user_id IN ?", userIDs).
		Group("user_id")

	var reports []*entity.Report
	if err := db.Where("id IN (?)", latest).Find(&reports).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get latest reports: %w", err)
	}
	for _, rep := range reports {
		out[rep.UserID] = rep
	}
	return out, nil
}

func (r *ReportRepository) DeleteByRoom(ctx context.Context, roomID uint64) error {
	ctx, span := tracer.Start(ctx, "postgres.ReportRepository.DeleteByRoom")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("room_id = ?", roomID).Delete(&entity.Report{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	return nil
}
