package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/interfaces/http/handler"
	"daily-report-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestRouter() *Router {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.App.Name = "daily-report-ai-api"
	cfg.Security.JWT = config.JWTConfig{Secret: "secret", Issuer: "daily-report", Expiration: time.Minute}
	cfg.Observability.Metrics = config.MetricsConfig{Enabled: true, Path: "/metrics"}

	handlers := &RouterHandlers{
		Health:   handler.NewHealthHandler(nil, nil, "test"),
		Auth:     handler.NewAuthHandler(cfg.Security.JWT, nil),
		User:     handler.NewUserHandler(nil),
		ChatRoom: handler.NewChatRoomHandler(nil, nil, nil, nil),
		Report:   handler.NewReportHandler(nil),
	}
	return NewWithDeps(cfg, handlers, nil)
}

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewJWTManager("secret", "daily-report").
		GenerateToken(utils.Subject{UserID: 1, TeamID: 1, Role: role}, utils.TokenTypeAccess, time.Minute)
	assert.NoError(t, err)
	return "Bearer " + tok
}

func TestRouter_Guards(t *testing.T) {
	r := newTestRouter().Engine()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"login skips auth", http.MethodPost, "/api/v1/login", "", http.StatusBadRequest},
		{"refresh skips auth", http.MethodPost, "/api/v1/auth/refresh", "", http.StatusUnauthorized},
		{"rooms need token", http.MethodGet, "/api/v1/chat_rooms", "", http.StatusUnauthorized},
		{"team needs manager", http.MethodGet, "/api/v1/team/reports", bearer(t, "member"), http.StatusForbidden},
		{"bad room id", http.MethodGet, "/api/v1/chat_rooms/x", bearer(t, "member"), http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v1/nope", bearer(t, "member"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
