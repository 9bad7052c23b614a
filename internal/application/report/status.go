package report

import (
	"context"
	"encoding/json"
	"fmt"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/pkg/logger"
)

// RoomStatus 房间的完成度快照
type RoomStatus struct {
	RoomID       uint64          `json:"room_id"`
	Completeness CompletenessMap `json:"completeness"`
	NextMove     NextMove        `json:"next_move"`
	HasReport    bool            `json:"has_report"`
}

// StatusService 只读的完成度查询，可选 Redis 缓存
type StatusService struct {
	rooms    repository.ChatRoomRepository
	contexts repository.ReportContextRepository
	reports  repository.ReportRepository
	cache    KVCache
	opts     Options
}

// NewStatusService 创建完成度查询服务，cache 可为 nil
func NewStatusService(
	rooms repository.ChatRoomRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
	cache KVCache,
	opts Options,
) *StatusService {
	return &StatusService{rooms: rooms, contexts: contexts, reports: reports, cache: cache, opts: opts}
}

// GetCompletenessStatus 查询房间完成度
func (s *StatusService) GetCompletenessStatus(ctx context.Context, roomID uint64) (*RoomStatus, error) {
	ctx, span := tracer.Start(ctx, "report.StatusService.GetCompletenessStatus")
	defer span.End()

	if s.cache == nil {
		return s.load(ctx, roomID)
	}

	// 代数必须在加载之前读取
	gen, err := s.cache.Generation(ctx, StatusGenerationKey(roomID))
	if err != nil {
		logger.Warn(ctx, "room status cache unavailable, loading directly", "room_id", roomID, "error", err.Error())
		return s.load(ctx, roomID)
	}
	raw, err := s.cache.GetOrLoad(ctx, StatusCacheKey(roomID, gen), s.opts.StatusCacheTTL, func() (any, error) {
		return s.load(ctx, roomID)
	})
	if err != nil {
		return nil, err
	}
	var st RoomStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("failed to decode cached room status: %w", err)
	}
	return &st, nil
}

func (s *StatusService) load(ctx context.Context, roomID uint64) (*RoomStatus, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, &RoomNotFoundError{RoomID: roomID}
	}
	rc, err := s.contexts.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rc == nil {
		return nil, &MissingContextError{RoomID: roomID}
	}
	hasReport, err := s.reports.ExistsByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	m := Evaluate(rc)
	return &RoomStatus{RoomID: roomID, Completeness: m, NextMove: SelectNextMove(m), HasReport: hasReport}, nil
}

// Labels 以展示名称为键的完成度
func (m CompletenessMap) Labels() map[string]Status {
	out := make(map[string]Status, len(m))
	for _, c := range entity.TrackedCategories {
		if st, ok := m[c]; ok {
			out[c.Label()] = st
		}
	}
	return out
}
