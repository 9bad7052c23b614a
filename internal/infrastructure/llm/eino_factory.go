// Package llm 提供基于 Eino 的大模型客户端
package llm

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"daily-report-ai-api/internal/config"
)

// EinoFactory 管理多个 Eino ChatModel 客户端实例
type EinoFactory struct {
	config *config.LLMConfig
	models map[string]model.BaseChatModel
	genai  map[string]*genai.Client
	mu     sync.RWMutex
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
		genai:  make(map[string]*genai.Client),
	}
}

// Provider 返回提供商配置，name 为空时使用默认提供商
func (f *EinoFactory) Provider(name string) (string, config.ProviderConfig, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return name, config.ProviderConfig{}, fmt.Errorf("provider %s not found in LLM config", name)
	}
	if providerCfg.Kind == "" {
		providerCfg.Kind = config.ProviderKindOpenAI
	}
	return name, providerCfg, nil
}

// Get 获取指定名称的 ChatModel，如果未指定则返回默认客户端
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	name, providerCfg, err := f.Provider(name)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	// 惰性加载
	f.mu.Lock()
	defer f.mu.Unlock()

	// 再次检查防止竞态
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	var chatModel model.BaseChatModel
	switch providerCfg.Kind {
	case config.ProviderKindGemini:
		client, err := f.genaiClientLocked(ctx, name, providerCfg)
		if err != nil {
			return nil, err
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client:      client,
			Model:       providerCfg.Model,
			MaxTokens:   ptrInt(providerCfg.MaxTokens),
			Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini chat model for %s: %w", name, err)
		}
	default:
		// OpenAI 及兼容接口
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      providerCfg.APIKey,
			BaseURL:     providerCfg.BaseURL,
			Model:       providerCfg.Model,
			MaxTokens:   ptrInt(providerCfg.MaxTokens),
			Temperature: ptrFloat32(float32(providerCfg.Temperature)),
			Timeout:     providerCfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model for %s: %w", name, err)
		}
	}

	f.models[name] = chatModel
	return chatModel, nil
}

// GenAI 返回 Gemini 提供商的原生客户端（用于 JSON 模式输出）
func (f *EinoFactory) GenAI(ctx context.Context, name string) (*genai.Client, config.ProviderConfig, error) {
	name, providerCfg, err := f.Provider(name)
	if err != nil {
		return nil, providerCfg, err
	}
	if providerCfg.Kind != config.ProviderKindGemini {
		return nil, providerCfg, fmt.Errorf("provider %s is not a gemini provider", name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	client, err := f.genaiClientLocked(ctx, name, providerCfg)
	return client, providerCfg, err
}

func (f *EinoFactory) genaiClientLocked(ctx context.Context, name string, providerCfg config.ProviderConfig) (*genai.Client, error) {
	if c, ok := f.genai[name]; ok {
		return c, nil
	}
	cc := &genai.ClientConfig{
		APIKey:  providerCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if providerCfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: providerCfg.BaseURL}
	}
	if providerCfg.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: providerCfg.Timeout}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client for %s: %w", name, err)
	}
	f.genai[name] = client
	return client, nil
}

func ptrInt(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

func ptrFloat32(f float32) *float32 {
	return &f
}
