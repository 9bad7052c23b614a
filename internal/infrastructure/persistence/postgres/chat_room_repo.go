package postgres

import (
	"context"
	"fmt"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
)

// ChatRoomRepository 对话房间仓储实现
type ChatRoomRepository struct {
	client *Client
}

// NewChatRoomRepository 创建对话房间仓储
func NewChatRoomRepository(client *Client) *ChatRoomRepository {
	return &ChatRoomRepository{client: client}
}

func (r *ChatRoomRepository) Create(ctx context.Context, room *entity.ChatRoom) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(room).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create chat room: %w", err)
	}
	return nil
}

func (r *ChatRoomRepository) GetByID(ctx context.Context, id uint64) (*entity.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.GetByID")
	defer span.End()

	room, err := firstOrNil[entity.ChatRoom](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return room, nil
}

func (r *ChatRoomRepository) ListByUser(ctx context.Context, userID uint64, pagination repository.Pagination) (*repository.PagedResult[*entity.ChatRoom], error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)

	var total int64
	if err := db.Model(&entity.ChatRoom{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count chat rooms: %w", err)
	}

	var rooms []*entity.ChatRoom
	if err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.Limit()).
		Offset(pagination.Offset()).
		Find(&rooms).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chat rooms: %w", err)
	}

	return repository.NewPagedResult(rooms, total, pagination), nil
}

func (r *ChatRoomRepository) LatestByUser(ctx context.Context, userID uint64) (*entity.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.LatestByUser")
	defer span.End()

	q := getDB(ctx, r.client.db).Where("user_id = ?", userID).Order("created_at DESC, id DESC")
	room, err := firstOrNil[entity.ChatRoom](q)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get latest chat room: %w", err)
	}
	return room, nil
}

func (r *ChatRoomRepository) UpdateTitle(ctx context.Context, id uint64, title string) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.UpdateTitle")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.ChatRoom{}).Where("id = ?", id).Update("title", title).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update chat room title: %w", err)
	}
	return nil
}

func (r *ChatRoomRepository) Delete(ctx context.Context, id uint64) error {
	ctx, span := tracer.Start(ctx, "postgres.ChatRoomRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.ChatRoom{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete chat room: %w", err)
	}
	return nil
}
