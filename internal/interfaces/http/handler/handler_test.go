package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/application/room"
	"daily-report-ai-api/internal/application/team"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/interfaces/http/middleware"
	"daily-report-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRooms struct {
	authErr error
	created *entity.ChatRoom
	detail  *room.Detail
	deleted []uint64
}

func (f *fakeRooms) Create(_ context.Context, userID uint64, title string) (*entity.ChatRoom, error) {
	f.created = entity.NewChatRoom(userID, title, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC))
	f.created.ID = 11
	return f.created, nil
}

func (f *fakeRooms) List(_ context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.ChatRoom], error) {
	items := []*entity.ChatRoom{{ID: 1, UserID: userID, Title: "a"}}
	return repository.NewPagedResult(items, 1, p), nil
}

func (f *fakeRooms) Get(_ context.Context, _, roomID uint64) (*room.Detail, error) {
	if f.detail == nil {
		return nil, &report.RoomNotFoundError{RoomID: roomID}
	}
	return f.detail, nil
}

func (f *fakeRooms) Rename(_ context.Context, userID, roomID uint64, title string) (*entity.ChatRoom, error) {
	return &entity.ChatRoom{ID: roomID, UserID: userID, Title: title}, nil
}

func (f *fakeRooms) Delete(_ context.Context, _, roomID uint64) error {
	f.deleted = append(f.deleted, roomID)
	return nil
}

func (f *fakeRooms) Authorize(context.Context, uint64, uint64) error { return f.authErr }

type fakeTurns struct {
	result *report.TurnResult
	err    error
	text   string
}

func (f *fakeTurns) SubmitUtterance(_ context.Context, _ uint64, text string) (*report.TurnResult, error) {
	f.text = text
	return f.result, f.err
}

type fakeSynth struct {
	result *report.SynthesisResult
	err    error
}

func (f *fakeSynth) Synthesize(context.Context, uint64) (*report.SynthesisResult, error) {
	return f.result, f.err
}

type fakeStatus struct{}

func (fakeStatus) GetCompletenessStatus(_ context.Context, roomID uint64) (*report.RoomStatus, error) {
	m := report.CompletenessMap{
		entity.CategoryWorkDone:     report.StatusSufficient,
		entity.CategoryBlockers:     report.StatusMissing,
		entity.CategoryTomorrowPlan: report.StatusMissing,
		entity.CategoryCondition:    report.StatusMissing,
	}
	return &report.RoomStatus{RoomID: roomID, Completeness: m, NextMove: report.SelectNextMove(m)}, nil
}

func newRoomEngine(h *ChatRoomHandler) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, utils.Subject{UserID: 7, TeamID: 1, Role: "member"})
	})
	g := r.Group("/api/v1/chat_rooms")
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:room_id", h.Get)
	g.PUT("/:room_id", h.Rename)
	g.DELETE("/:room_id", h.Delete)
	g.POST("/:room_id/messages", h.SendMessage)
	g.GET("/:room_id/status", h.Status)
	g.POST("/:room_id/reports", h.CreateReport)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		ErrorCode string   `json:"error_code"`
		Retryable bool     `json:"retryable"`
		Fields    []string `json:"missing_fields"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestChatRoomHandler_CreateAndList(t *testing.T) {
	rooms := &fakeRooms{}
	r := newRoomEngine(&ChatRoomHandler{rooms: rooms})

	w := do(r, http.MethodPost, "/api/v1/chat_rooms", `{"title":"월요일"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, uint64(7), rooms.created.UserID)
	assert.Equal(t, "월요일", rooms.created.Title)

	w = do(r, http.MethodPost, "/api/v1/chat_rooms", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, strings.HasPrefix(rooms.created.Title, "대화 "))

	w = do(r, http.MethodGet, "/api/v1/chat_rooms?page=1&page_size=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"page_size":5`)
}

func TestChatRoomHandler_Get(t *testing.T) {
	rooms := &fakeRooms{}
	r := newRoomEngine(&ChatRoomHandler{rooms: rooms})

	w := do(r, http.MethodGet, "/api/v1/chat_rooms/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/chat_rooms/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	rooms.detail = &room.Detail{
		Room:     &entity.ChatRoom{ID: 9, UserID: 7, Title: "t"},
		Messages: []*entity.Message{entity.NewMessage(9, entity.SenderAI, "안녕하세요")},
		Completeness: report.CompletenessMap{
			entity.CategoryWorkDone: report.StatusMissing,
		},
	}
	w = do(r, http.MethodGet, "/api/v1/chat_rooms/9", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"오늘 한 일":"missing"`)
	assert.Contains(t, w.Body.String(), "안녕하세요")
}

func TestChatRoomHandler_SendMessage(t *testing.T) {
	m := report.CompletenessMap{entity.CategoryWorkDone: report.StatusSufficient, entity.CategoryBlockers: report.StatusMissing}
	turns := &fakeTurns{result: &report.TurnResult{
		AIMessage:    entity.NewMessage(3, entity.SenderAI, "이슈는 없었나요?"),
		Completeness: m,
		NextMove:     report.NextMove{Kind: report.MoveAskFollowUp, Target: entity.CategoryBlockers},
	}}
	rooms := &fakeRooms{}
	r := newRoomEngine(&ChatRoomHandler{rooms: rooms, turns: turns})

	w := do(r, http.MethodPost, "/api/v1/chat_rooms/3/messages", `{"prompt":"API 개발 끝냈어요"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API 개발 끝냈어요", turns.text)
	env := decode(t, w)
	assert.Contains(t, string(env.Data), `"kind":"ask_follow_up"`)
	assert.Contains(t, string(env.Data), `"target":"blockers"`)

	w = do(r, http.MethodPost, "/api/v1/chat_rooms/3/messages", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	rooms.authErr = room.ErrNotOwner
	w = do(r, http.MethodPost, "/api/v1/chat_rooms/3/messages", `{"prompt":"hi"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChatRoomHandler_SendMessageErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		retryable bool
	}{
		{"classification", &report.ClassificationError{Err: errors.New("bad json")}, http.StatusBadGateway, true},
		{"generation", &report.GenerationError{Stage: "reply", Err: context.DeadlineExceeded}, http.StatusBadGateway, true},
		{"busy", &report.RoomBusyError{RoomID: 3}, http.StatusConflict, true},
		{"concurrent", &report.ConcurrentTurnError{RoomID: 3}, http.StatusConflict, true},
		{"missing context", &report.MissingContextError{RoomID: 3}, http.StatusInternalServerError, false},
		{"empty", report.ErrEmptyUtterance, http.StatusBadRequest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRoomEngine(&ChatRoomHandler{rooms: &fakeRooms{}, turns: &fakeTurns{err: tt.err}})
			w := do(r, http.MethodPost, "/api/v1/chat_rooms/3/messages", `{"prompt":"x"}`)
			require.Equal(t, tt.status, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.retryable, env.Error.Retryable)
		})
	}
}

func TestChatRoomHandler_CreateReport(t *testing.T) {
	synth := &fakeSynth{result: &report.SynthesisResult{
		Report:       &entity.Report{ID: 5, RoomID: 3, UserID: 7, SummaryContent: "## 오늘 한 일"},
		Title:        "API 개발",
		TitleUpdated: true,
	}}
	r := newRoomEngine(&ChatRoomHandler{rooms: &fakeRooms{}, synthesizer: synth})

	w := do(r, http.MethodPost, "/api/v1/chat_rooms/3/reports", "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"report_id":5`)
	assert.Contains(t, w.Body.String(), `"title_updated":true`)

	synth.err = &report.InsufficientDataError{Missing: []entity.Category{entity.CategoryWorkDone, entity.CategoryBlockers}}
	w = do(r, http.MethodPost, "/api/v1/chat_rooms/3/reports", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, []string{"work_done", "blockers"}, env.Error.Fields)

	synth.err = &report.DuplicateReportError{RoomID: 3}
	w = do(r, http.MethodPost, "/api/v1/chat_rooms/3/reports", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestChatRoomHandler_StatusRenameDelete(t *testing.T) {
	rooms := &fakeRooms{}
	r := newRoomEngine(&ChatRoomHandler{rooms: rooms, status: fakeStatus{}})

	w := do(r, http.MethodGet, "/api/v1/chat_rooms/4/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"missing":["blockers","tomorrow_plan","condition"]`)

	w = do(r, http.MethodPut, "/api/v1/chat_rooms/4", `{"title":"새 제목"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "새 제목")

	w = do(r, http.MethodPut, "/api/v1/chat_rooms/4", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/chat_rooms/4", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uint64{4}, rooms.deleted)
}

type fakeReports struct {
	viewErr error
}

func (f *fakeReports) ListMine(_ context.Context, userID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	return repository.NewPagedResult([]*entity.Report{{ID: 1, UserID: userID}}, 1, p), nil
}

func (f *fakeReports) GetReport(_ context.Context, _, reportID uint64) (*team.ReportView, error) {
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return &team.ReportView{Report: &entity.Report{ID: reportID, RoomID: 2}, Room: &entity.ChatRoom{ID: 2}}, nil
}

func (f *fakeReports) Dashboard(context.Context, uint64) ([]*team.MemberStatus, error) {
	return []*team.MemberStatus{{User: &entity.User{ID: 8, Username: "user"}, LastCondition: team.NoConditionRecorded}}, nil
}

func (f *fakeReports) MemberReports(_ context.Context, _, memberID uint64, p repository.Pagination) (*repository.PagedResult[*entity.Report], error) {
	return repository.NewPagedResult([]*entity.Report{{ID: 3, UserID: memberID}}, 1, p), nil
}

func TestReportHandler(t *testing.T) {
	reports := &fakeReports{}
	h := &ReportHandler{reports: reports}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetIdentity(c, utils.Subject{UserID: 7, TeamID: 1, Role: "leader"})
	})
	r.GET("/api/v1/reports", h.ListMine)
	r.GET("/api/v1/reports/:report_id", h.Get)
	r.GET("/api/v1/team/reports", h.TeamDashboard)
	r.GET("/api/v1/team/reports/:user_id", h.MemberReports)

	w := do(r, http.MethodGet, "/api/v1/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)

	w = do(r, http.MethodGet, "/api/v1/reports/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"report_id":4`)

	reports.viewErr = team.ErrOtherTeam
	w = do(r, http.MethodGet, "/api/v1/reports/4", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodGet, "/api/v1/team/reports", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), team.NoConditionRecorded)

	w = do(r, http.MethodGet, "/api/v1/team/reports/8", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":8`)
}

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestHealthHandler_Ready(t *testing.T) {
	tests := []struct {
		name string
		h    *HealthHandler
		want int
	}{
		{"db ok without redis", &HealthHandler{pg: stubChecker{}}, http.StatusOK},
		{"redis down is degraded", &HealthHandler{pg: stubChecker{}, redis: stubChecker{err: errors.New("down")}}, http.StatusOK},
		{"db down", &HealthHandler{pg: stubChecker{err: errors.New("down")}}, http.StatusServiceUnavailable},
		{"db missing", &HealthHandler{}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/ready", tt.h.Ready)
			assert.Equal(t, tt.want, do(r, http.MethodGet, "/ready", "").Code)
		})
	}
}
