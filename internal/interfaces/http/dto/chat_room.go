// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/application/room"
	"daily-report-ai-api/internal/domain/entity"
)

// CreateChatRoomRequest 创建房间请求，标题可省略
type CreateChatRoomRequest struct {
	Title string `json:"title" binding:"max=100"`
}

// UpdateChatRoomRequest 重命名请求
type UpdateChatRoomRequest struct {
	Title string `json:"title" binding:"required,max=100"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
}

// ChatRoomResponse 房间响应
type ChatRoomResponse struct {
	RoomID    uint64    `json:"room_id"`
	UserID    uint64    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageResponse 消息响应
type MessageResponse struct {
	MessageID uint64        `json:"message_id"`
	RoomID    uint64        `json:"room_id"`
	Sender    entity.Sender `json:"sender"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
}

// ChatRoomDetailResponse 房间详情
type ChatRoomDetailResponse struct {
	ChatRoomResponse
	Messages     []*MessageResponse       `json:"messages"`
	ReportStatus map[string]report.Status `json:"report_status,omitempty"`
	HasReport    bool                     `json:"has_report"`
}

// ChatResponse 一轮对话的响应
type ChatResponse struct {
	Message      *MessageResponse         `json:"message"`
	ReportStatus map[string]report.Status `json:"report_status"`
	NextMove     report.NextMove          `json:"next_move"`
}

// RoomStatusResponse 完成度查询响应
type RoomStatusResponse struct {
	RoomID       uint64                   `json:"room_id"`
	ReportStatus map[string]report.Status `json:"report_status"`
	Missing      []entity.Category        `json:"missing"`
	NextMove     report.NextMove          `json:"next_move"`
	HasReport    bool                     `json:"has_report"`
}

// ToChatRoomResponse 实体转换为响应
func ToChatRoomResponse(r *entity.ChatRoom) *ChatRoomResponse {
	if r == nil {
		return nil
	}
	return &ChatRoomResponse{RoomID: r.ID, UserID: r.UserID, Title: r.Title, CreatedAt: r.CreatedAt}
}

// ToChatRoomListResponse 实体列表转换为响应
func ToChatRoomListResponse(rooms []*entity.ChatRoom) []*ChatRoomResponse {
	out := make([]*ChatRoomResponse, len(rooms))
	for i, r := range rooms {
		out[i] = ToChatRoomResponse(r)
	}
	return out
}

// ToMessageResponse 实体转换为响应
func ToMessageResponse(m *entity.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{MessageID: m.ID, RoomID: m.RoomID, Sender: m.Sender, Content: m.Content, CreatedAt: m.CreatedAt}
}

// ToMessageListResponse 实体列表转换为响应
func ToMessageListResponse(msgs []*entity.Message) []*MessageResponse {
	out := make([]*MessageResponse, len(msgs))
	for i, m := range msgs {
		out[i] = ToMessageResponse(m)
	}
	return out
}

// ToChatRoomDetailResponse 房间详情转换为响应
func ToChatRoomDetailResponse(d *room.Detail) *ChatRoomDetailResponse {
	resp := &ChatRoomDetailResponse{
		ChatRoomResponse: *ToChatRoomResponse(d.Room),
		Messages:         ToMessageListResponse(d.Messages),
		HasReport:        d.HasReport,
	}
	if d.Completeness != nil {
		resp.ReportStatus = d.Completeness.Labels()
	}
	return resp
}

// ToChatResponse 对话结果转换为响应
func ToChatResponse(r *report.TurnResult) *ChatResponse {
	return &ChatResponse{
		Message:      ToMessageResponse(r.AIMessage),
		ReportStatus: r.Completeness.Labels(),
		NextMove:     r.NextMove,
	}
}

// ToRoomStatusResponse 完成度转换为响应
func ToRoomStatusResponse(s *report.RoomStatus) *RoomStatusResponse {
	return &RoomStatusResponse{
		RoomID:       s.RoomID,
		ReportStatus: s.Completeness.Labels(),
		Missing:      s.Completeness.Missing(),
		NextMove:     s.NextMove,
		HasReport:    s.HasReport,
	}
}
