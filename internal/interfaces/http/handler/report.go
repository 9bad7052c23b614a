// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"daily-report-ai-api/internal/application/team"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/interfaces/http/dto"
	"daily-report-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// ReportReader 日报查询
type ReportReader interface {
	ListMine(ctx context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error)
	GetReport(ctx context.Context, viewerID, reportID uint64) (*team.ReportView, error)
	Dashboard(ctx context.Context, viewerID uint64) ([]*team.MemberStatus, error)
	MemberReports(ctx context.Context, viewerID, memberID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error)
}

// ReportHandler 日报处理器
type ReportHandler struct {
	reports ReportReader
}

// NewReportHandler 创建日报处理器
func NewReportHandler(svc *team.Service) *ReportHandler {
	return &ReportHandler{reports: svc}
}

// ListMine 当前用户的日报列表
// @Summary 我的日报
// @Tags Reports
// @Produce json
// @Success 200 {object} dto.Response[[]dto.ReportResponse]
// @Router /api/v1/reports [get]
func (h *ReportHandler) ListMine(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.reports.ListMine(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToReportListResponse(result.Items), dto.PageMetaOf(result))
}

// Get 日报详情及来源对话
// @Summary 日报详情
// @Description 本人或同团队的负责人可查看
// @Tags Reports
// @Produce json
// @Param report_id path int true "日报 ID"
// @Success 200 {object} dto.Response[dto.ReportDetailResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/reports/{report_id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	reportID, ok := pathID(c, "report_id")
	if !ok {
		return
	}
	view, err := h.reports.GetReport(c.Request.Context(), middleware.GetUserID(c), reportID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToReportDetailResponse(view))
}

// TeamDashboard 团队成员的最新日报与状态
// @Summary 团队看板
// @Tags Team
// @Produce json
// @Success 200 {object} dto.Response[[]dto.TeamMemberResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/team/reports [get]
func (h *ReportHandler) TeamDashboard(c *gin.Context) {
	rows, err := h.reports.Dashboard(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToTeamDashboardResponse(rows))
}

// MemberReports 团队成员的日报列表
// @Summary 成员日报
// @Tags Team
// @Produce json
// @Param user_id path int true "成员 ID"
// @Success 200 {object} dto.Response[[]dto.ReportResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/v1/team/reports/{user_id} [get]
func (h *ReportHandler) MemberReports(c *gin.Context) {
	memberID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	page := dto.BindPage(c)
	result, err := h.reports.MemberReports(c.Request.Context(), middleware.GetUserID(c), memberID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToReportListResponse(result.Items), dto.PageMetaOf(result))
}
