// Package llm 提供 LLM ChatModel 工厂
package llm

import (
	"context"
	"fmt"
	"sync"

	"ticket-contest-api/internal/config"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 按提供商名缓存 Eino ChatModel，首次使用时惰性创建
type EinoFactory struct {
	cfg    *config.LLMConfig
	mu     sync.Mutex
	models map[string]model.BaseChatModel
}

// NewEinoFactory 创建 LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		cfg:    &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Default 返回默认提供商的 ChatModel
func (f *EinoFactory) Default(ctx context.Context) (model.BaseChatModel, error) {
	return f.Get(ctx, "")
}

// Get 按名称返回 ChatModel，name 为空时使用默认提供商
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.cfg.DefaultProvider
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if m, ok := f.models[name]; ok {
		return m, nil
	}

	providerCfg, ok := f.cfg.Providers[name]
	if !ok {
		return nil, fmt.Errorf("llm provider %q not configured", name)
	}

	temperature := float32(providerCfg.Temperature)
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: &temperature,
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model for %q: %w", name, err)
	}

	f.models[name] = chatModel
	return chatModel, nil
}
