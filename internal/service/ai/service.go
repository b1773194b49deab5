package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"marketingcoach/internal/config"
)

// NewChatModel builds the provider chat model described by cfg. The API key
// is taken from cfg only; an empty key yields ErrMissingAPIKey so callers can
// keep serving and report the misconfiguration per request.
func NewChatModel(ctx context.Context, cfg config.ProviderConfig) (model.BaseChatModel, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required for provider %s", cfg.Name)
	}

	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch cfg.Name {
	case "claude", "":
		return NewAnthropic(cfg), nil
	case "openai":
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.APIKey,
		})
	case "gemini":
		client, cerr := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if cerr != nil {
			return nil, fmt.Errorf("create gemini client: %w", cerr)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  cfg.Model,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", cfg.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Name, err)
	}
	return chatModel, nil
}
