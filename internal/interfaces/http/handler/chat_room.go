// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/application/room"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/interfaces/http/dto"
	"daily-report-ai-api/internal/interfaces/http/middleware"
	"daily-report-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RoomService 房间管理
type RoomService interface {
	Create(ctx context.Context, userID uint64, title string) (*entity.ChatRoom, error)
	List(ctx context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.ChatRoom], error)
	Get(ctx context.Context, userID, roomID uint64) (*room.Detail, error)
	Rename(ctx context.Context, userID, roomID uint64, title string) (*entity.ChatRoom, error)
	Delete(ctx context.Context, userID, roomID uint64) error
	Authorize(ctx context.Context, userID, roomID uint64) error
}

// TurnRunner 处理一轮对话
type TurnRunner interface {
	SubmitUtterance(ctx context.Context, roomID uint64, text string) (*report.TurnResult, error)
}

// ReportSynthesizer 生成日报
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, roomID uint64) (*report.SynthesisResult, error)
}

// StatusReader 查询房间完成度
type StatusReader interface {
	GetCompletenessStatus(ctx context.Context, roomID uint64) (*report.RoomStatus, error)
}

// ChatRoomHandler 对话房间处理器
type ChatRoomHandler struct {
	rooms       RoomService
	turns       TurnRunner
	synthesizer ReportSynthesizer
	status      StatusReader
}

// NewChatRoomHandler 创建对话房间处理器
func NewChatRoomHandler(rooms *room.Service, turns *report.Orchestrator, synthesizer *report.Synthesizer, status *report.StatusService) *ChatRoomHandler {
	return &ChatRoomHandler{rooms: rooms, turns: turns, synthesizer: synthesizer, status: status}
}

// List 获取当前用户的房间列表
// @Summary 房间列表
// @Tags ChatRooms
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.ChatRoomResponse]
// @Router /api/v1/chat_rooms [get]
func (h *ChatRoomHandler) List(c *gin.Context) {
	page := dto.BindPage(c)
	result, err := h.rooms.List(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.SuccessWithPage(c, dto.ToChatRoomListResponse(result.Items), dto.PageMetaOf(result))
}

// Create 创建房间
// @Summary 创建房间
// @Description 创建房间并写入 AI 开场白
// @Tags ChatRooms
// @Accept json
// @Produce json
// @Param body body dto.CreateChatRoomRequest false "房间信息"
// @Success 201 {object} dto.Response[dto.ChatRoomResponse]
// @Router /api/v1/chat_rooms [post]
func (h *ChatRoomHandler) Create(c *gin.Context) {
	var req dto.CreateChatRoomRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	r, err := h.rooms.Create(c.Request.Context(), middleware.GetUserID(c), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToChatRoomResponse(r))
}

// Get 获取房间详情（含消息与完成度）
// @Summary 房间详情
// @Tags ChatRooms
// @Produce json
// @Param room_id path int true "房间 ID"
// @Success 200 {object} dto.Response[dto.ChatRoomDetailResponse]
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/chat_rooms/{room_id} [get]
func (h *ChatRoomHandler) Get(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}

	detail, err := h.rooms.Get(c.Request.Context(), middleware.GetUserID(c), roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChatRoomDetailResponse(detail))
}

// Rename 重命名房间
// @Summary 重命名房间
// @Tags ChatRooms
// @Accept json
// @Produce json
// @Param room_id path int true "房间 ID"
// @Param body body dto.UpdateChatRoomRequest true "新标题"
// @Success 200 {object} dto.Response[dto.ChatRoomResponse]
// @Router /api/v1/chat_rooms/{room_id} [put]
func (h *ChatRoomHandler) Rename(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	var req dto.UpdateChatRoomRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.rooms.Rename(c.Request.Context(), middleware.GetUserID(c), roomID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChatRoomResponse(r))
}

// Delete 删除房间及其消息、上下文与日报
// @Summary 删除房间
// @Tags ChatRooms
// @Param room_id path int true "房间 ID"
// @Success 204
// @Router /api/v1/chat_rooms/{room_id} [delete]
func (h *ChatRoomHandler) Delete(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	if err := h.rooms.Delete(c.Request.Context(), middleware.GetUserID(c), roomID); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}

// SendMessage 发送消息并获取 AI 回复
// @Summary 发送消息
// @Description 分析用户消息、更新日报上下文，并返回追问或收尾回复
// @Tags ChatRooms
// @Accept json
// @Produce json
// @Param room_id path int true "房间 ID"
// @Param body body dto.SendMessageRequest true "消息内容"
// @Success 200 {object} dto.Response[dto.ChatResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/chat_rooms/{room_id}/messages [post]
func (h *ChatRoomHandler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.rooms.Authorize(ctx, middleware.GetUserID(c), roomID); err != nil {
		respondError(c, err)
		return
	}

	ctx = logger.WithContext(ctx, logger.RoomIDKey, roomID)
	result, err := h.turns.SubmitUtterance(ctx, roomID, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToChatResponse(result))
}

// Status 查询房间的日报完成度
// @Summary 完成度
// @Tags ChatRooms
// @Produce json
// @Param room_id path int true "房间 ID"
// @Success 200 {object} dto.Response[dto.RoomStatusResponse]
// @Router /api/v1/chat_rooms/{room_id}/status [get]
func (h *ChatRoomHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	if err := h.rooms.Authorize(ctx, middleware.GetUserID(c), roomID); err != nil {
		respondError(c, err)
		return
	}

	status, err := h.status.GetCompletenessStatus(ctx, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.ToRoomStatusResponse(status))
}

// CreateReport 根据房间上下文生成日报
// @Summary 生成日报
// @Description 生成日报正文并尝试更新房间标题，每个房间只能生成一次
// @Tags ChatRooms
// @Produce json
// @Param room_id path int true "房间 ID"
// @Success 201 {object} dto.Response[dto.CreateReportResponse]
// @Failure 409 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /api/v1/chat_rooms/{room_id}/reports [post]
func (h *ChatRoomHandler) CreateReport(c *gin.Context) {
	ctx := c.Request.Context()
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	if err := h.rooms.Authorize(ctx, middleware.GetUserID(c), roomID); err != nil {
		respondError(c, err)
		return
	}

	ctx = logger.WithContext(ctx, logger.RoomIDKey, roomID)
	result, err := h.synthesizer.Synthesize(ctx, roomID)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.ToCreateReportResponse(result))
}
