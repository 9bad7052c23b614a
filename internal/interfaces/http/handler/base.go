// Package handler 提供 HTTP 请求处理器
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/interfaces/http/dto"
	"daily-report-ai-api/pkg/logger"
)

// respondError 将错误转换为统一错误响应，5xx 记录错误日志
func respondError(c *gin.Context, err error) {
	appErr := report.ToAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "request failed", err,
			"path", c.FullPath(),
			"error_code", string(appErr.Code),
		)
	}
	dto.AppError(c, appErr)
}

// pathID 解析路径 ID，失败时直接写入 400 响应
func pathID(c *gin.Context, name string) (uint64, bool) {
	id, ok := dto.ParseID(c, name)
	if !ok {
		dto.BadRequest(c, "invalid "+name)
	}
	return id, ok
}

// bindJSON 绑定请求体，失败时直接写入 400 响应
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
