package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"daily-report-ai-api/internal/config"
	llmctx "daily-report-ai-api/internal/domain/service"
	einoobs "daily-report-ai-api/internal/observability/eino"
	wfnode "daily-report-ai-api/internal/workflow/node"
	workflowport "daily-report-ai-api/internal/workflow/port"
	"daily-report-ai-api/pkg/logger"
)

// ErrEmptyResponse 模型返回空内容
var ErrEmptyResponse = errors.New("empty llm response")

// ChatClient 绑定到某个提供商和工作流的模型客户端，提供文本与 JSON 两种生成方式
type ChatClient struct {
	factory  workflowport.ChatModelSource
	provider string
	kind     string
	workflow string
	schema   *jsonSchema
}

type jsonSchema struct {
	name   string
	schema map[string]any
}

// NewChatClient 创建模型客户端
func NewChatClient(factory workflowport.ChatModelSource, provider, kind, workflow string) *ChatClient {
	return &ChatClient{factory: factory, provider: provider, kind: kind, workflow: workflow}
}

// WithJSONSchema 返回携带输出结构约束的副本：OpenAI 走 response_format=json_schema，
// Gemini 走 ResponseJsonSchema；未设置时 OpenAI 使用 json_object
func (c *ChatClient) WithJSONSchema(name string, schema map[string]any) *ChatClient {
	cp := *c
	cp.schema = &jsonSchema{name: name, schema: schema}
	return &cp
}

// Generate 生成纯文本回复
func (c *ChatClient) Generate(ctx context.Context, msgs []*schema.Message) (string, error) {
	ctx = llmctx.WithCallInfo(ctx, c.workflow, c.provider)

	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		return "", err
	}
	out, err := chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", err
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(out.Content), nil
}

// GenerateJSON 以 JSON 模式生成，返回截取后的 JSON 文本
func (c *ChatClient) GenerateJSON(ctx context.Context, msgs []*schema.Message) (string, error) {
	ctx = llmctx.WithCallInfo(ctx, c.workflow, c.provider)

	var (
		raw string
		err error
	)
	if c.kind == config.ProviderKindGemini {
		if gp, ok := c.factory.(workflowport.GenAISource); ok {
			raw, err = c.generateGeminiJSON(ctx, gp, msgs)
		} else {
			raw, err = c.generateOpenAIJSON(ctx, msgs)
		}
	} else {
		raw, err = c.generateOpenAIJSON(ctx, msgs)
	}
	if err != nil {
		return "", err
	}

	out := wfnode.ExtractJSONObject(raw)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

func (c *ChatClient) generateOpenAIJSON(ctx context.Context, msgs []*schema.Message) (string, error) {
	chatModel, err := c.factory.Get(ctx, c.provider)
	if err != nil {
		return "", err
	}

	out, err := chatModel.Generate(ctx, msgs, c.responseFormat())
	if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
		logger.Warn(ctx, "llm response_format not supported, fallback to prompt-only",
			"provider", c.provider,
			"workflow", c.workflow,
			"error", err.Error(),
		)
		out, err = chatModel.Generate(ctx, msgs)
	}
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", ErrEmptyResponse
	}
	return out.Content, nil
}

func (c *ChatClient) responseFormat() model.Option {
	return openaiopts.WithExtraFields(map[string]any{"response_format": c.responseFormatField()})
}

// responseFormatField json_object 只允许顶层为对象，提示词需与之一致
func (c *ChatClient) responseFormatField() map[string]any {
	if c.schema == nil {
		return map[string]any{"type": "json_object"}
	}
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   c.schema.name,
			"strict": false,
			"schema": c.schema.schema,
		},
	}
}

// generateGeminiJSON 直接调用 genai，使用 application/json 响应类型
func (c *ChatClient) generateGeminiJSON(ctx context.Context, gp workflowport.GenAISource, msgs []*schema.Message) (string, error) {
	client, providerCfg, err := gp.GenAI(ctx, c.provider)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(float32(providerCfg.Temperature)),
	}
	if providerCfg.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(providerCfg.MaxTokens)
	}
	if c.schema != nil {
		cfg.ResponseJsonSchema = c.schema.schema
	}
	contents, system := toGenAIContents(msgs)
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, providerCfg.Model, contents, cfg)
	usage := einoobs.CallUsage{Model: providerCfg.Model, Status: "success", Duration: time.Since(start)}
	if err != nil {
		usage.Status = "error"
		einoobs.ObserveCall(ctx, usage)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	einoobs.ObserveCall(ctx, usage)

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// toGenAIContents 将 Eino 消息转换为 genai 内容，系统消息合并为 SystemInstruction
func toGenAIContents(msgs []*schema.Message) ([]*genai.Content, string) {
	var (
		contents []*genai.Content
		system   []string
	)
	for _, m := range msgs {
		if m == nil {
			continue
		}
		switch m.Role {
		case schema.System:
			system = append(system, m.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
