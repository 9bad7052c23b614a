// Package team 提供日报查询：个人日报、日报详情、团队看板与团队成员日报
package team

import (
	"context"

	"go.opentelemetry.io/otel"

	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	apperrors "daily-report-ai-api/pkg/errors"
)

var tracer = otel.Tracer("team")

var (
	// ErrNotManager 仅团队负责人或高管可访问
	ErrNotManager = apperrors.New(apperrors.CodePermissionDenied, "권한이 없습니다.")
	// ErrOtherTeam 只能查看本团队成员的日报
	ErrOtherTeam = apperrors.New(apperrors.CodePermissionDenied, "같은 팀원의 리포트만 볼 수 있습니다.")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.New(apperrors.CodeUserNotFound, "사용자를 찾을 수 없습니다.")
	// ErrReportNotFound 日报不存在
	ErrReportNotFound = apperrors.New(apperrors.CodeReportNotFound, "리포트를 찾을 수 없습니다.")
)

// NoConditionRecorded 成员最近房间没有记录状态时的展示值
const NoConditionRecorded = "기록 없음"

// ReportView 日报详情及其来源对话
type ReportView struct {
	Report   *entity.Report
	Room     *entity.ChatRoom
	Messages []*entity.Message
}

// MemberStatus 团队看板中的一行
type MemberStatus struct {
	User          *entity.User
	LatestReport  *entity.Report
	LastCondition string
}

// Service 日报查询服务
type Service struct {
	users    repository.UserRepository
	rooms    repository.ChatRoomRepository
	messages repository.MessageRepository
	contexts repository.ReportContextRepository
	reports  repository.ReportRepository
}

// NewService 创建日报查询服务
func NewService(
	users repository.UserRepository,
	rooms repository.ChatRoomRepository,
	messages repository.MessageRepository,
	contexts repository.ReportContextRepository,
	reports repository.ReportRepository,
) *Service {
	return &Service{users: users, rooms: rooms, messages: messages, contexts: contexts, reports: reports}
}

// ListMine 当前用户的日报，按生成时间倒序
func (s *Service) ListMine(ctx context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	return s.reports.ListByUser(ctx, userID, p)
}

// GetReport 日报详情：作者本人或同团队的负责人可见
func (s *Service) GetReport(ctx context.Context, viewerID, reportID uint64) (*ReportView, error) {
	ctx, span := tracer.Start(ctx, "team.Service.GetReport")
	defer span.End()

	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}

	if rep.UserID != viewerID {
		viewer, err := s.viewer(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if !viewer.IsManager() {
			return nil, ErrReportNotFound
		}
		author, err := s.users.GetByID(ctx, rep.UserID)
		if err != nil {
			return nil, err
		}
		if author == nil || !viewer.SameTeam(author) {
			return nil, ErrOtherTeam
		}
	}

	view := &ReportView{Report: rep}
	if view.Room, err = s.rooms.GetByID(ctx, rep.RoomID); err != nil {
		return nil, err
	}
	if view.Messages, err = s.messages.ListByRoom(ctx, rep.RoomID); err != nil {
		return nil, err
	}
	return view, nil
}

// Dashboard 团队看板：除本人外每个成员的最新日报与最近状态
func (s *Service) Dashboard(ctx context.Context, viewerID uint64) ([]*MemberStatus, error) {
	ctx, span := tracer.Start(ctx, "team.Service.Dashboard")
	defer span.End()

	viewer, err := s.manager(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer.TeamID == nil {
		return []*MemberStatus{}, nil
	}

	members, err := s.users.ListByTeam(ctx, *viewer.TeamID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		if m.ID != viewer.ID {
			ids = append(ids, m.ID)
		}
	}
	latest, err := s.reports.LatestByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*MemberStatus, 0, len(ids))
	for _, m := range members {
		if m.ID == viewer.ID {
			continue
		}
		cond, err := s.lastCondition(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &MemberStatus{User: m, LatestReport: latest[m.ID], LastCondition: cond})
	}
	return out, nil
}

// MemberReports 团队成员的日报列表
func (s *Service) MemberReports(ctx context.Context, viewerID, memberID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	viewer, err := s.manager(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	member, err := s.users.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrUserNotFound
	}
	if !viewer.SameTeam(member) {
		return nil, ErrOtherTeam
	}
	return s.reports.ListByUser(ctx, memberID, p)
}

func (s *Service) viewer(ctx context.Context, id uint64) (*entity.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) manager(ctx context.Context, id uint64) (*entity.User, error) {
	u, err := s.viewer(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsManager() {
		return nil, ErrNotManager
	}
	return u, nil
}

// lastCondition 取成员最近一个房间的状态字段
func (s *Service) lastCondition(ctx context.Context, userID uint64) (string, error) {
	room, err := s.rooms.LatestByUser(ctx, userID)
	if err != nil || room == nil {
		return NoConditionRecorded, err
	}
	rc, err := s.contexts.GetByRoomID(ctx, room.ID)
	if err != nil || rc == nil || !rc.Present(entity.CategoryCondition) {
		return NoConditionRecorded, err
	}
	return rc.Condition, nil
}
