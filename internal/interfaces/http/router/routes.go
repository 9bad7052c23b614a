// Package router 提供 HTTP 路由配置
package router

import (
	"daily-report-ai-api/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h *RouterHandlers) {
	// 认证
	v1.POST("/login", h.Auth.Login)
	auth := v1.Group("/auth")
	{
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 用户
	v1.GET("/users/me", h.User.GetMe)

	// 对话房间
	rooms := v1.Group("/chat_rooms", middleware.RequirePermission(middleware.PermRoomWrite))
	{
		rooms.GET("", h.ChatRoom.List)
		rooms.POST("", h.ChatRoom.Create)
		rooms.GET("/:room_id", h.ChatRoom.Get)
		rooms.PUT("/:room_id", h.ChatRoom.Rename)
		rooms.DELETE("/:room_id", h.ChatRoom.Delete)

		rooms.POST("/:room_id/messages", h.ChatRoom.SendMessage)
		rooms.GET("/:room_id/status", h.ChatRoom.Status)
		rooms.POST("/:room_id/reports", middleware.RequirePermission(middleware.PermReportCreate), h.ChatRoom.CreateReport)
	}

	// 日报
	reports := v1.Group("/reports", middleware.RequirePermission(middleware.PermReportRead))
	{
		reports.GET("", h.Report.ListMine)
		reports.GET("/:report_id", h.Report.Get)
	}

	// 团队看板
	team := v1.Group("/team", middleware.RequireManager())
	{
		team.GET("/reports", h.Report.TeamDashboard)
		team.GET("/reports/:user_id", h.Report.MemberReports)
	}
}
