// Package port 定义工作流对模型提供商的最小依赖
package port

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"daily-report-ai-api/internal/config"
)

// ChatModelSource 按提供商名称取得 ChatModel
type ChatModelSource interface {
	Get(ctx context.Context, provider string) (model.BaseChatModel, error)
}

// GenAISource 额外提供 Gemini 原生客户端，用于 response_schema 结构化输出
type GenAISource interface {
	GenAI(ctx context.Context, provider string) (*genai.Client, config.ProviderConfig, error)
}
