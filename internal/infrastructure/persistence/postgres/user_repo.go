package postgres

import (
	"context"
	"fmt"
	"time"

	"daily-report-ai-api/internal/domain/entity"
)

// UserRepository 用户仓储
type UserRepository struct {
	client *Client
}

func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.Create")
	defer span.End()

	if err := getDB(ctx, r.client.db).Create(user).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create user %s: %w", user.Username, err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByID")
	defer span.End()

	user, err := firstOrNil[entity.User](getDB(ctx, r.client.db), "id = ?", id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername 登录时按用户名查找
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.GetByUsername")
	defer span.End()

	user, err := firstOrNil[entity.User](getDB(ctx, r.client.db), "username = ?", username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// ListByTeam 团队成员，按 ID 升序
func (r *UserRepository) ListByTeam(ctx context.Context, teamID uint64) ([]*entity.User, error) {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.ListByTeam")
	defer span.End()

	var users []*entity.User
	err := getDB(ctx, r.client.db).
		Where("team_id = ?", teamID).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list users of team %d: %w", teamID, err)
	}
	return users, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint64) error {
	ctx, span := tracer.Start(ctx, "postgres.UserRepository.UpdateLastLogin")
	defer span.End()

	err := getDB(ctx, r.client.db).
		Model(&entity.User{}).
		Where("id = ?", id).
		Update("last_login_at", time.Now().UTC()).Error
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}
