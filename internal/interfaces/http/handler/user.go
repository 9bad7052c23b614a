// Package handler 提供 HTTP 请求处理器
package handler

import (
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/interfaces/http/dto"
	"daily-report-ai-api/internal/interfaces/http/middleware"
	apperrors "daily-report-ai-api/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户处理器
type UserHandler struct {
	users repository.UserRepository
}

// NewUserHandler 创建用户处理器
func NewUserHandler(users repository.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags Users
// @Produce json
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		dto.AppError(c, apperrors.New(apperrors.CodeUserNotFound, "사용자를 찾을 수 없습니다."))
		return
	}
	dto.Success(c, dto.ToUserResponse(user))
}
