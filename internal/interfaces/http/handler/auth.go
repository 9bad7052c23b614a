// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"net/http"
	"time"

	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/interfaces/http/dto"
	apperrors "daily-report-ai-api/pkg/errors"
	"daily-report-ai-api/pkg/logger"
	"daily-report-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"

	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var errBadCredentials = apperrors.New(apperrors.CodeUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다.")

// AuthHandler 认证处理器
type AuthHandler struct {
	jwtManager *utils.JWTManager
	users      repository.UserRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg config.JWTConfig, users repository.UserRepository) *AuthHandler {
	h := &AuthHandler{
		jwtManager: utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		users:      users,
		accessTTL:  cfg.Expiration,
		refreshTTL: cfg.RefreshExpiration,
	}
	if h.accessTTL <= 0 {
		h.accessTTL = defaultAccessTTL
	}
	if h.refreshTTL <= 0 {
		h.refreshTTL = defaultRefreshTTL
	}
	return h
}

// Login 登录
// @Summary 用户登录
// @Description 校验用户名密码，返回访问令牌并通过 Cookie 下发刷新令牌
// @Tags Auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.users.GetByUsername(ctx, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil || !user.CheckPassword(req.Password) {
		logger.Warn(ctx, "login failed", "username", req.Username)
		dto.AppError(c, errBadCredentials)
		return
	}

	if err := h.users.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login time", "error", err.Error(), "user_id", user.ID)
	}

	sub := utils.Subject{UserID: user.ID, TeamID: user.TeamIDValue(), Role: string(user.Role)}
	tokens, err := h.jwtManager.GenerateTokenPair(sub, h.accessTTL, h.refreshTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, tokens.RefreshToken, int(h.refreshTTL.Seconds()))
	dto.Success(c, dto.NewTokenResponse(tokens.AccessToken, int(h.accessTTL.Seconds()), user))
}

// RefreshToken 使用刷新令牌换取新的访问令牌
// @Summary 刷新访问令牌
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.Response[dto.TokenResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := c.Request.Context()

	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		dto.AppError(c, apperrors.ErrTokenMissing)
		return
	}

	claims, err := h.jwtManager.ParseToken(refreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrExpiredToken) {
			dto.AppError(c, apperrors.ErrTokenExpired)
			return
		}
		dto.AppError(c, apperrors.ErrTokenInvalid)
		return
	}
	if claims.Type != utils.TokenTypeRefresh {
		dto.AppError(c, apperrors.ErrTokenInvalid)
		return
	}

	// 角色与团队以最新的用户记录为准
	user, err := h.users.GetByID(ctx, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		dto.AppError(c, apperrors.ErrTokenInvalid)
		return
	}

	sub := utils.Subject{UserID: user.ID, TeamID: user.TeamIDValue(), Role: string(user.Role)}
	accessToken, err := h.jwtManager.GenerateToken(sub, utils.TokenTypeAccess, h.accessTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.NewTokenResponse(accessToken, int(h.accessTTL.Seconds()), user))
}

// Logout 登出，清除刷新令牌 Cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, value, maxAge, refreshCookiePath, "", c.Request.TLS != nil, true)
}
