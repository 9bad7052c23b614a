package postgres

import (
	"context"
	"fmt"

	"daily-report-ai-api/internal/domain/entity"
)

// MessageRepository 消息仓储实现
type MessageRepository struct {
	client *Client
}

// NewMessageRepository 创建消息仓储
func NewMessageRepository(client *Client) *MessageRepository {
	return &MessageRepository{client: client}
}

func (r *MessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(msg).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByRoom(ctx context.Context, roomID uint64) ([]*entity.Message, error) {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.ListByRoom")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var msgs []*entity.Message
	if err := db.Where("room_id = ?", roomID).Order("id ASC").Find(&msgs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return msgs, nil
}

func (r *MessageRepository) ListRecent(ctx context.Context, roomID uint64, limit int) ([]*entity.Message, error) {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.ListRecent")
	defer span.End()

	if limit <= 0 {
		return nil, nil
	}

	db := getDB(ctx, r.client.db)
	var msgs []*entity.Message
	if err := db.Where("room_id = ?", roomID).Order("id DESC").Limit(limit).Find(&msgs).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}

	// 转为时间正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *MessageRepository) DeleteByRoom(ctx context.Context, roomID uint64) error {
	ctx, span := tracer.Start(ctx, "postgres.MessageRepository.DeleteByRoom")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Where("room_id = ?", roomID).Delete(&entity.Message{}).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
