// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/application/team"
	"daily-report-ai-api/internal/domain/entity"
)

// ReportResponse 日报响应
type ReportResponse struct {
	ReportID       uint64    `json:"report_id"`
	RoomID         uint64    `json:"room_id"`
	UserID         uint64    `json:"user_id"`
	SummaryContent string    `json:"summary_content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ReportDetailResponse 日报详情及来源对话
type ReportDetailResponse struct {
	Report   *ReportResponse    `json:"report"`
	ChatRoom *ChatRoomResponse  `json:"chat_room,omitempty"`
	Messages []*MessageResponse `json:"messages"`
}

// CreateReportResponse 生成日报响应
type CreateReportResponse struct {
	ReportID       uint64 `json:"report_id"`
	RoomTitle      string `json:"room_title"`
	SummaryContent string `json:"summary_content"`
	TitleUpdated   bool   `json:"title_updated"`
}

// TeamMemberResponse 团队看板中的成员状态
type TeamMemberResponse struct {
	User             *UserResponse   `json:"user"`
	LatestReport     *ReportResponse `json:"latest_report"`
	LastCondition    string          `json:"last_condition"`
	LatestReportDate *time.Time      `json:"latest_report_date,omitempty"`
}

// ToReportResponse 实体转换为响应
func ToReportResponse(r *entity.Report) *ReportResponse {
	if r == nil {
		return nil
	}
	return &ReportResponse{
		ReportID:       r.ID,
		RoomID:         r.RoomID,
		UserID:         r.UserID,
		SummaryContent: r.SummaryContent,
		CreatedAt:      r.CreatedAt,
	}
}

// ToReportListResponse 实体列表转换为响应
func ToReportListResponse(reports []*entity.Report) []*ReportResponse {
	out := make([]*ReportResponse, len(reports))
	for i, r := range reports {
		out[i] = ToReportResponse(r)
	}
	return out
}

// ToReportDetailResponse 日报详情转换为响应
func ToReportDetailResponse(v *team.ReportView) *ReportDetailResponse {
	return &ReportDetailResponse{
		Report:   ToReportResponse(v.Report),
		ChatRoom: ToChatRoomResponse(v.Room),
		Messages: ToMessageListResponse(v.Messages),
	}
}

// ToCreateReportResponse 生成结果转换为响应
func ToCreateReportResponse(r *report.SynthesisResult) *CreateReportResponse {
	return &CreateReportResponse{
		ReportID:       r.Report.ID,
		RoomTitle:      r.Title,
		SummaryContent: r.Report.SummaryContent,
		TitleUpdated:   r.TitleUpdated,
	}
}

// ToTeamDashboardResponse 团队看板转换为响应
func ToTeamDashboardResponse(rows []*team.MemberStatus) []*TeamMemberResponse {
	out := make([]*TeamMemberResponse, len(rows))
	for i, row := range rows {
		item := &TeamMemberResponse{
			User:          ToUserResponse(row.User),
			LatestReport:  ToReportResponse(row.LatestReport),
			LastCondition: row.LastCondition,
		}
		if row.LatestReport != nil {
			created := row.LatestReport.CreatedAt
			item.LatestReportDate = &created
		}
		out[i] = item
	}
	return out
}
