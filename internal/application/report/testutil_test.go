package report

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/require"

	"daily-report-ai-api/internal/config"
	"daily-report-ai-api/internal/domain/entity"
	"daily-report-ai-api/internal/infrastructure/persistence/postgres"
	workflowprompt "daily-report-ai-api/internal/workflow/prompt"
)

type testEnv struct {
	client   *postgres.Client
	tx       *postgres.TxManager
	rooms    *postgres.ChatRoomRepository
	messages *postgres.MessageRepository
	contexts *postgres.ReportContextRepository
	reports  *postgres.ReportRepository
	registry *workflowprompt.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	client, err := postgres.NewClient(&config.PostgresConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "report.db"),
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, client.AutoMigrate(context.Background()))
	t.Cleanup(func() { _ = client.Close() })

	return &testEnv{
		client:   client,
		tx:       postgres.NewTxManager(client),
		rooms:    postgres.NewChatRoomRepository(client),
		messages: postgres.NewMessageRepository(client),
		contexts: postgres.NewReportContextRepository(client),
		reports:  postgres.NewReportRepository(client),
		registry: workflowprompt.NewRegistry(),
	}
}

// seedRoom 创建房间及其空上下文
func (e *testEnv) seedRoom(t *testing.T, userID uint64) (*entity.ChatRoom, *entity.ReportContext) {
	t.Helper()
	ctx := context.Background()
	room := entity.NewChatRoom(userID, "", time.Now())
	require.NoError(t, e.rooms.Create(ctx, room))
	rc := entity.NewReportContext(room.ID)
	require.NoError(t, e.contexts.Create(ctx, rc))
	return room, rc
}

func testOptions() Options {
	return Options{
		HistoryWindow:   10,
		ClassifyTimeout: time.Second,
		GenerateTimeout: time.Second,
		TitleTimeout:    time.Second,
		StatusCacheTTL:  time.Minute,
		Language:        "Korean",
	}
}

// fakeJSONModel 返回预设的 JSON 文本
type fakeJSONModel struct {
	mu    sync.Mutex
	out   string
	err   error
	calls [][]*schema.Message
}

func (f *fakeJSONModel) GenerateJSON(_ context.Context, msgs []*schema.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msgs)
	return f.out, f.err
}

// fakeTextModel 依次返回预设的输出，用尽后重复最后一个
type fakeTextModel struct {
	mu    sync.Mutex
	outs  []string
	errs  []error
	calls [][]*schema.Message
}

func (f *fakeTextModel) Generate(_ context.Context, msgs []*schema.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, msgs)

	var (
		out string
		err error
	)
	if len(f.outs) > 0 {
		out = f.outs[min(i, len(f.outs)-1)]
	}
	if len(f.errs) > 0 {
		err = f.errs[min(i, len(f.errs)-1)]
	}
	return out, err
}

func (f *fakeTextModel) prompt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var b strings.Builder
	for _, m := range f.calls[i] {
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

type classifierFunc func(ctx context.Context, in ClassifyInput) ([]Unit, error)

func (f classifierFunc) Classify(ctx context.Context, in ClassifyInput) ([]Unit, error) {
	return f(ctx, in)
}

type failingLocker struct{ err error }

func (l failingLocker) Lock(context.Context, string) (func(), error) {
	return nil, l.err
}

// memoryCache 进程内的 KVCache 实现；beforeStore 在加载完成、写回之前执行
type memoryCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	gens        map[string]int64
	loads       int
	bumps       []string
	beforeStore func()
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte), gens: make(map[string]int64)}
}

func (c *memoryCache) GetOrLoad(_ context.Context, key string, _ time.Duration, loader func() (any, error)) ([]byte, error) {
	c.mu.Lock()
	if v, ok := c.data[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err := loader()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if hook := c.beforeStore; hook != nil {
		c.beforeStore = nil
		hook()
	}
	c.mu.Lock()
	c.loads++
	c.data[key] = raw
	c.mu.Unlock()
	return raw, nil
}

func (c *memoryCache) Generation(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[key], nil
}

func (c *memoryCache) Bump(_ context.Context, key string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[key]++
	c.bumps = append(c.bumps, key)
	return nil
}
