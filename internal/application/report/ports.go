// Package report 实现日报对话的核心流程：话语分类、上下文合并、完成度评估、追问回复和日报生成
package report

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"

	"daily-report-ai-api/internal/domain/entity"
)

// TextModel 文本生成模型
type TextModel interface {
	Generate(ctx context.Context, msgs []*schema.Message) (string, error)
}

// JSONModel 结构化（JSON）输出模型
type JSONModel interface {
	GenerateJSON(ctx context.Context, msgs []*schema.Message) (string, error)
}

// Unit 分类器输出的一个话语片段
type Unit struct {
	Category          string `json:"category"`
	Content           string `json:"content"`
	ProfanityDetected bool   `json:"profanity_detected"`
}

// ClassifyInput 分类输入
type ClassifyInput struct {
	Context   *entity.ReportContext
	History   []*entity.Message
	Utterance string
}

// Classifier 话语切分与分类
type Classifier interface {
	Classify(ctx context.Context, in ClassifyInput) ([]Unit, error)
}

// Locker 按键互斥，返回的 unlock 可重复调用
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// KVCache 读穿透缓存，并发未命中同一键时只加载一次。
// 失效通过递增代数计数完成：读方先取代数再拼出数据键，
// 晚到的旧快照只会写进已经作废的代数键里。
type KVCache interface {
	GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (any, error)) ([]byte, error)
	Generation(ctx context.Context, key string) (int64, error)
	Bump(ctx context.Context, key string, ttl time.Duration) error
}
