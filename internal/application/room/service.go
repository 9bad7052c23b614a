// Package room 提供对话房间的管理：创建、列表、详情、重命名、删除与归属校验
package room

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	apperrors "daily-report-ai-api/pkg/errors"
	"daily-report-ai-api/pkg/logger"
)

var tracer = otel.Tracer("room")

const (
	defaultGreeting  = "안녕하세요! AI 업무 비서입니다. 오늘 하루는 어떠셨나요?"
	maxTitleRunes    = 100
	defaultCacheSize = 4096
)

// ErrNotOwner 房间不属于当前用户
var ErrNotOwner = apperrors.New(apperrors.CodePermissionDenied, "대화방에 접근할 권한이 없습니다.")

// Detail 房间详情
type Detail struct {
	Room         *entity.ChatRoom
	Messages     []*entity.Message
	Completeness report.CompletenessMap
	HasReport    bool
}

// Service 房间服务
type Service struct {
	tx       repository.Transactor
	rooms    repository.ChatRoomRepository
	messages repository.MessageRepository
	contexts repository.ReportContextRepository
	reports  repository.ReportRepository
	cache    report.KVCache
	locker   report.Locker
	owners   *lru.Cache[uint64, uint64]
	greeting string
	now      func() time.Time
}

// Options 房间服务参数
type Options struct {
	Greeting       string
	OwnerCacheSize int
}

// NewService 创建房间服务，cache 可为 nil；
// locker 须与对话编排器、日报生成器共用同一实例，为 nil 时使用进程内锁
func NewService(
	tx repository.Transactor,
	rooms repository.ChatRoomRepository,
	messages repository.MessageRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
	cache report.KVCache,
	locker report.Locker,
	opts Options,
) (*Service, error) {
	size := opts.OwnerCacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	owners, err := lru.New[uint64, uint64](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create owner cache: %w", err)
	}
	greeting := strings.TrimSpace(opts.Greeting)
	if greeting == "" {
		greeting = defaultGreeting
	}
	if locker == nil {
		locker = report.NewLocalLocker(0)
	}
	return &Service{
		tx:       tx,
		rooms:    rooms,
		messages: messages,
		contexts: contexts,
		reports:  reports,
		cache:    cache,
		locker:   locker,
		owners:   owners,
		greeting: greeting,
		now:      time.Now,
	}, nil
}

// Create 创建房间，同时创建空上下文与 AI 开场白
func (s *Service) Create(ctx context.Context, userID uint64, title string) (*entity.ChatRoom, error) {
	ctx, span := tracer.Start(ctx, "room.Service.Create")
	defer span.End()

	title, err := normalizeTitle(title, true)
	if err != nil {
		return nil, err
	}

	room := entity.NewChatRoom(userID, title, s.now())
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.rooms.Create(ctx, room); err != nil {
			return err
		}
		if err := s.contexts.Create(ctx, entity.NewReportContext(room.ID)); err != nil {
			return err
		}
		return s.messages.Create(ctx, entity.NewMessage(room.ID, entity.SenderAI, s.greeting))
	})
	if err != nil {
		return nil, err
	}

	s.owners.Add(room.ID, userID)
	logger.Info(ctx, "chat room created", "room_id", room.ID, "user_id", userID)
	return room, nil
}

// List 按创建时间倒序列出用户的房间
func (s *Service) List(ctx context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.ChatRoom], error) {
	return s.rooms.ListByUser(ctx, userID, p)
}

// Get 房间详情（消息、完成度与是否已生成日报）
func (s *Service) Get(ctx context.Context, userID, roomID uint64) (*Detail, error) {
	ctx, span := tracer.Start(ctx, "room.Service.Get")
	defer span.End()

	room, err := s.owned(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	msgs, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	d := &Detail{Room: room, Messages: msgs}

	rc, err := s.contexts.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		d.Completeness = report.Evaluate(rc)
	} else {
		logger.Warn(ctx, "report context missing for room", "room_id", roomID)
	}

	if d.HasReport, err = s.reports.ExistsByRoomID(ctx, roomID); err != nil {
		return nil, err
	}
	return d, nil
}

// Rename 修改房间标题
func (s *Service) Rename(ctx context.Context, userID, roomID uint64, title string) (*entity.ChatRoom, error) {
	title, err := normalizeTitle(title, false)
	if err != nil {
		return nil, err
	}
	room, err := s.owned(ctx, userID, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.rooms.UpdateTitle(ctx, roomID, title); err != nil {
		return nil, err
	}
	room.Title = title
	return room, nil
}

// Delete 删除房间及其消息、上下文与日报
func (s *Service) Delete(ctx context.Context, userID, roomID uint64) error {
	ctx, span := tracer.Start(ctx, "room.Service.Delete")
	defer span.End()

	if _, err := s.owned(ctx, userID, roomID); err != nil {
		return err
	}
	// 与进行中的对话轮次和日报生成互斥，避免删除后再写入孤立记录
	unlock, err := s.locker.Lock(ctx, report.RoomLockKey(roomID))
	if err != nil {
		return &report.RoomBusyError{RoomID: roomID, Err: err}
	}
	defer unlock()

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.messages.DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		if err := s.contexts.DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		if err := s.reports.DeleteByRoom(ctx, roomID); err != nil {
			return err
		}
		return s.rooms.Delete(ctx, roomID)
	})
	if err != nil {
		return err
	}

	s.owners.Remove(roomID)
	report.InvalidateStatus(ctx, s.cache, roomID)
	logger.Info(ctx, "chat room deleted", "room_id", roomID, "user_id", userID)
	return nil
}

// Authorize 校验房间归属，房间归属缓存在进程内 LRU 中
func (s *Service) Authorize(ctx context.Context, userID, roomID uint64) error {
	if owner, ok := s.owners.Get(roomID); ok {
		if owner != userID {
			return ErrNotOwner
		}
		return nil
	}
	_, err := s.owned(ctx, userID, roomID)
	return err
}

func (s *Service) owned(ctx context.Context, userID, roomID uint64) (*entity.ChatRoom, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &report.RoomNotFoundError{RoomID: roomID}
	}
	s.owners.Add(room.ID, room.UserID)
	if room.UserID != userID {
		return nil, ErrNotOwner
	}
	return room, nil
}

func normalizeTitle(title string, allowEmpty bool) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" && !allowEmpty {
		return "", apperrors.New(apperrors.CodeInvalidParam, "제목을 입력해 주세요.")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return "", apperrors.New(apperrors.CodeInvalidParam, "제목이 너무 깁니다.").
			WithDetail(fmt.Sprintf("max %d characters", maxTitleRunes))
	}
	return title, nil
}
