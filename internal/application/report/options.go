package report

import (
	"context"
	"fmt"
	"time"

	"daily-report-ai-api/internal/config"
)

// Options 流程参数
type Options struct {
	HistoryWindow   int
	ClassifyTimeout time.Duration
	GenerateTimeout time.Duration
	TitleTimeout    time.Duration
	StatusCacheTTL  time.Duration
	Language        string
}

// OptionsFromConfig 从配置构造流程参数
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		HistoryWindow:   cfg.Report.HistoryWindow,
		ClassifyTimeout: cfg.Report.ClassifyTimeout,
		GenerateTimeout: cfg.Report.GenerateTimeout,
		TitleTimeout:    cfg.Report.TitleTimeout,
		StatusCacheTTL:  cfg.Report.StatusCacheTTL,
		Language:        cfg.Report.ReplyLanguage,
	}
}

func (o Options) historyWindow() int {
	if o.HistoryWindow < 1 {
		return 10
	}
	return o.HistoryWindow
}

// RoomLockKey 房间锁键
func RoomLockKey(roomID uint64) string {
	return fmt.Sprintf("room:%d", roomID)
}

// StatusGenerationKey 房间完成度缓存的代数计数键
func StatusGenerationKey(roomID uint64) string {
	return fmt.Sprintf("room:%d:status:gen", roomID)
}

// StatusCacheKey 某一代数下的房间完成度缓存键
func StatusCacheKey(roomID uint64, gen int64) string {
	return fmt.Sprintf("room:%d:status:g%d", roomID, gen)
}

// statusGenerationTTL 代数键的保留时间，需长于完成度缓存本身
const statusGenerationTTL = 24 * time.Hour

// withTimeout d 不大于 0 时不设超时
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
