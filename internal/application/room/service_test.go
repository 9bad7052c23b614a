package room

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-report-ai-api/internal/application/report"
	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/infrastructure/persistence/postgres"
	apperrors "daily-report-ai-api/pkg/errors"
)

type fixture struct {
	svc      *Service
	messages *postgres.MessageRepository
	contexts *postgres.ReportContextRepository
	reports  *postgres.ReportRepository
	rooms    *postgres.ChatRoomRepository
	locker   *report.LocalLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, err := postgres.NewClient(&config.PostgresConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "room.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		rooms:    postgres.NewChatRoomRepository(client),
		messages: postgres.NewMessageRepository(client),
		contexts: postgres.NewReportContextRepository(client),
		reports:  postgres.NewReportRepository(client),
		locker:   report.NewLocalLocker(50 * time.Millisecond),
	}
	f.svc, err = NewService(postgres.NewTxManager(client), f.rooms, f.messages, f.contexts, f.reports, nil, f.locker,
		Options{Greeting: "안녕하세요!", OwnerCacheSize: 16})
	require.NoError(t, err)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return f
}

func TestService_CreateSeedsContextAndGreeting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	room, err := f.svc.Create(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "대화 2025-03-14 09:30", room.Title)

	msgs, err := f.messages.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.SenderAI, msgs[0].Sender)
	assert.Equal(t, "안녕하세요!", msgs[0].Content)

	rc, err := f.contexts.GetByRoomID(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, rc)
	assert.Equal(t, entity.NoContent, rc.WorkDone)
}

func TestService_GetAndOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room, err := f.svc.Create(ctx, 1, "월요일")
	require.NoError(t, err)

	d, err := f.svc.Get(ctx, 1, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "월요일", d.Room.Title)
	assert.Len(t, d.Messages, 1)
	assert.False(t, d.HasReport)
	assert.Equal(t, report.StatusMissing, d.Completeness[entity.CategoryWorkDone])

	_, err = f.svc.Get(ctx, 2, room.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, f.svc.Authorize(ctx, 2, room.ID), ErrNotOwner)
	assert.NoError(t, f.svc.Authorize(ctx, 1, room.ID))

	_, err = f.svc.Get(ctx, 1, 999)
	var nf *report.RoomNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestService_Rename(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room, err := f.svc.Create(ctx, 1, "")
	require.NoError(t, err)

	renamed, err := f.svc.Rename(ctx, 1, room.ID, "  금요일 회고  ")
	require.NoError(t, err)
	assert.Equal(t, "금요일 회고", renamed.Title)

	_, err = f.svc.Rename(ctx, 1, room.ID, "   ")
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)

	_, err = f.svc.Rename(ctx, 1, room.ID, strings.Repeat("가", maxTitleRunes+1))
	assert.Error(t, err)

	_, err = f.svc.Rename(ctx, 2, room.ID, "남의 방")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room, err := f.svc.Create(ctx, 1, "")
	require.NoError(t, err)
	require.NoError(t, f.reports.Create(ctx, entity.NewReport(room.ID, 1, "본문")))

	require.ErrorIs(t, f.svc.Delete(ctx, 2, room.ID), ErrNotOwner)
	require.NoError(t, f.svc.Delete(ctx, 1, room.ID))

	got, err := f.rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	msgs, err := f.messages.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	rc, err := f.contexts.GetByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, rc)

	exists, err := f.reports.ExistsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	var nf *report.RoomNotFoundError
	assert.ErrorAs(t, f.svc.Authorize(ctx, 1, room.ID), &nf)
}

func TestService_DeleteWaitsForRoomLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	room, err := f.svc.Create(ctx, 1, "")
	require.NoError(t, err)

	// 模拟进行中的日报生成持有房间锁
	unlock, err := f.locker.Lock(ctx, report.RoomLockKey(room.ID))
	require.NoError(t, err)

	err = f.svc.Delete(ctx, 1, room.ID)
	var busy *report.RoomBusyError
	require.ErrorAs(t, err, &busy)
	assert.Equal(t, apperrors.CodeRoomBusy, report.ToAppError(err).Code)

	got, err := f.rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "room must survive while the lock is held")

	// 持有者在锁内写入日报后释放，删除随后清掉全部记录
	require.NoError(t, f.reports.Create(ctx, entity.NewReport(room.ID, 1, "본문")))
	unlock()
	require.NoError(t, f.svc.Delete(ctx, 1, room.ID))

	exists, err := f.reports.ExistsByRoomID(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_ListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.svc.Create(ctx, 1, "첫째")
	require.NoError(t, err)
	f.svc.now = func() time.Time { return time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC) }
	second, err := f.svc.Create(ctx, 1, "둘째")
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, 2, "남의 방")
	require.NoError(t, err)

	page, err := f.svc.List(ctx, 1, repository.NewPagination(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, second.ID, page.Items[0].ID)
	assert.Equal(t, first.ID, page.Items[1].ID)
}
