package team

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/domain/repository"
	"daily-report-ai-api/internal/infrastructure/persistence/postgres"
)

type fixture struct {
	svc      *Service
	users    *postgres.UserRepository
	rooms    *postgres.ChatRoomRepository
	messages *postgres.MessageRepository
	contexts *postgres.ReportContextRepository
	reports  *postgres.ReportRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client, err := postgres.NewClient(&config.PostgresConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "team.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		users:    postgres.NewUserRepository(client),
		rooms:    postgres.NewChatRoomRepository(client),
		messages: postgres.NewMessageRepository(client),
		contexts: postgres.NewReportContextRepository(client),
		reports:  postgres.NewReportRepository(client),
	}
	f.svc = NewService(f.users, f.rooms, f.messages, f.contexts, f.reports)
	return f
}

func (f *fixture) user(t *testing.T, username string, role entity.UserRole, team uint64) *entity.User {
	t.Helper()
	var teamID *uint64
	if team != 0 {
		teamID = &team
	}
	u := entity.NewUser(username, username, role, teamID)
	require.NoError(t, u.SetPassword("password"))
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// report 为用户创建一个带状态字段的房间和一份日报
func (f *fixture) report(t *testing.T, u *entity.User, condition, body string) *entity.Report {
	t.Helper()
	ctx := context.Background()
	room := entity.NewChatRoom(u.ID, "", time.Now())
	require.NoError(t, f.rooms.Create(ctx, room))
	rc := entity.NewReportContext(room.ID)
	rc.Condition = condition
	require.NoError(t, f.contexts.Create(ctx, rc))
	require.NoError(t, f.messages.Create(ctx, entity.NewMessage(room.ID, entity.SenderUser, body)))
	rep := entity.NewReport(room.ID, u.ID, body)
	require.NoError(t, f.reports.Create(ctx, rep))
	return rep
}

func TestService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.user(t, "leader", entity.UserRoleLeader, 1)
	alice := f.user(t, "alice", entity.UserRoleMember, 1)
	bob := f.user(t, "bob", entity.UserRoleMember, 1)
	f.user(t, "outsider", entity.UserRoleMember, 2)

	f.report(t, alice, "피곤함", "첫 번째")
	latest := f.report(t, alice, "좋음", "두 번째")

	rows, err := f.svc.Dashboard(ctx, leader.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := map[string]*MemberStatus{}
	for _, r := range rows {
		byName[r.User.Username] = r
	}
	require.NotNil(t, byName["alice"].LatestReport)
	assert.Equal(t, latest.ID, byName["alice"].LatestReport.ID)
	assert.Equal(t, "좋음", byName["alice"].LastCondition)
	assert.Nil(t, byName["bob"].LatestReport)
	assert.Equal(t, NoConditionRecorded, byName["bob"].LastCondition)
	assert.Equal(t, bob.ID, byName["bob"].User.ID)

	_, err = f.svc.Dashboard(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotManager)
}

func TestService_MemberReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.user(t, "leader", entity.UserRoleLeader, 1)
	alice := f.user(t, "alice", entity.UserRoleMember, 1)
	outsider := f.user(t, "outsider", entity.UserRoleMember, 2)
	f.report(t, alice, "좋음", "본문")

	page, err := f.svc.MemberReports(ctx, leader.ID, alice.ID, repository.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = f.svc.MemberReports(ctx, leader.ID, outsider.ID, repository.NewPagination(1, 10))
	assert.ErrorIs(t, err, ErrOtherTeam)

	_, err = f.svc.MemberReports(ctx, leader.ID, 999, repository.NewPagination(1, 10))
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.MemberReports(ctx, alice.ID, leader.ID, repository.NewPagination(1, 10))
	assert.ErrorIs(t, err, ErrNotManager)
}

func TestService_GetReportAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	leader := f.user(t, "leader", entity.UserRoleLeader, 1)
	alice := f.user(t, "alice", entity.UserRoleMember, 1)
	bob := f.user(t, "bob", entity.UserRoleMember, 1)
	otherLeader := f.user(t, "other", entity.UserRoleLeader, 2)
	rep := f.report(t, alice, "좋음", "본문")

	view, err := f.svc.GetReport(ctx, alice.ID, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.RoomID, view.Room.ID)
	assert.Len(t, view.Messages, 1)

	_, err = f.svc.GetReport(ctx, leader.ID, rep.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetReport(ctx, bob.ID, rep.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = f.svc.GetReport(ctx, otherLeader.ID, rep.ID)
	assert.ErrorIs(t, err, ErrOtherTeam)

	_, err = f.svc.GetReport(ctx, alice.ID, 999)
	assert.ErrorIs(t, err, ErrReportNotFound)

	mine, err := f.svc.ListMine(ctx, alice.ID, repository.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)
}
