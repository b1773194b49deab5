package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"marketingcoach/internal/config"
)

// AnthropicChatModel implements model.BaseChatModel over the Anthropic
// Messages API. Transcript messages are forwarded in order and unmodified;
// the reply is the first text block of the response.
type AnthropicChatModel struct {
	client    anthropic.Client
	modelName string
	maxTokens int
}

// NewAnthropic builds the chat model from cfg. The SDK sets the x-api-key and
// anthropic-version headers; retries are disabled so one request is one call.
func NewAnthropic(cfg config.ProviderConfig) *AnthropicChatModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultMaxTokens
	}
	return &AnthropicChatModel{
		client:    anthropic.NewClient(opts...),
		modelName: cfg.Model,
		maxTokens: maxTokens,
	}
}

func (m *AnthropicChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (outMsg *schema.Message, err error) {
	ctx = callbacks.EnsureRunInfo(ctx, "Anthropic", components.ComponentOfChatModel)

	cbInput := &model.CallbackInput{
		Messages: messages,
		Config:   &model.Config{Model: m.modelName},
	}
	ctx = callbacks.OnStart(ctx, cbInput)
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	params, err := m.buildParams(messages, opts)
	if err != nil {
		return nil, err
	}
	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	outMsg, err = convertResponse(resp)
	if err != nil {
		return nil, err
	}
	callbacks.OnEnd(ctx, &model.CallbackOutput{
		Message: outMsg,
		Config:  cbInput.Config,
		TokenUsage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	})
	return outMsg, nil
}

// Stream delivers the complete reply as a single chunk.
func (m *AnthropicChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *AnthropicChatModel) buildParams(messages []*schema.Message, opts []model.Option) (anthropic.MessageNewParams, error) {
	options := model.GetCommonOptions(&model.Options{
		Model:     &m.modelName,
		MaxTokens: &m.maxTokens,
	}, opts...)

	maxTokens := m.maxTokens
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		maxTokens = *options.MaxTokens
	}
	modelName := m.modelName
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: int64(maxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(messages)),
	}
	for i, msg := range messages {
		switch msg.Role {
		case schema.System:
			params.System = append(params.System, anthropic.TextBlockParam{Text: msg.Content})
		case schema.User:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case schema.Assistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			return params, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}
	return params, nil
}

// convertResponse takes the first text block as the reply. A response
// without one is malformed.
func convertResponse(resp *anthropic.Message) (*schema.Message, error) {
	if resp == nil {
		return nil, ErrMalformedResponse
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return &schema.Message{
				Role:    schema.Assistant,
				Content: block.Text,
				ResponseMeta: &schema.ResponseMeta{
					FinishReason: string(resp.StopReason),
					Usage: &schema.TokenUsage{
						PromptTokens:     int(resp.Usage.InputTokens),
						CompletionTokens: int(resp.Usage.OutputTokens),
						TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
					},
				},
			}, nil
		}
	}
	return nil, ErrMalformedResponse
}
