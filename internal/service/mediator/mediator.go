// Package mediator turns one coaching request into one provider call: it
// composes the mode's system instruction with the business context, forwards
// the transcript unchanged and extracts the single text reply.
package mediator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"marketingcoach/internal/config"
	"marketingcoach/internal/exchangelog"
	"marketingcoach/internal/models"
	"marketingcoach/internal/observability"
	"marketingcoach/internal/service/ai"
	"marketingcoach/internal/service/prompt"
)

// Request is the input of one mediation call.
type Request struct {
	Mode     models.Mode
	Messages []models.Message
	Business models.BusinessContext
}

// Mediator is safe for concurrent use. It holds only immutable configuration
// and the provider chat model.
type Mediator struct {
	chat     model.BaseChatModel
	provider config.ProviderConfig
	recorder exchangelog.Recorder
}

// New wires a mediator. A nil chat model marks the mediator as
// misconfigured; a nil recorder discards exchange records.
func New(chat model.BaseChatModel, provider config.ProviderConfig, recorder exchangelog.Recorder) *Mediator {
	if recorder == nil {
		recorder = exchangelog.Nop{}
	}
	if provider.MaxTokens <= 0 {
		provider.MaxTokens = config.DefaultMaxTokens
	}
	return &Mediator{chat: chat, provider: provider, recorder: recorder}
}

// Configured reports whether a provider chat model is available.
func (m *Mediator) Configured() bool {
	return m.chat != nil
}

// Complete returns the provider's reply for req. Errors belong to the
// package taxonomy; see Kind.
func (m *Mediator) Complete(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	reply, err := m.complete(ctx, req)
	m.record(ctx, req, time.Since(start), err)
	return reply, err
}

func (m *Mediator) complete(ctx context.Context, req Request) (string, error) {
	if m.chat == nil {
		return "", ErrMisconfigured
	}
	system, err := prompt.SystemInstruction(req.Mode, req.Business)
	if err != nil {
		return "", err
	}
	input, err := buildInput(system, req.Messages)
	if err != nil {
		return "", err
	}

	if m.provider.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(m.provider.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	resp, err := m.chat.Generate(ctx, input, model.WithMaxTokens(m.provider.MaxTokens))
	if err != nil {
		err = ai.ClassifyError(err)
		logger := observability.LoggerFromContext(ctx)
		var up *UpstreamError
		if errors.As(err, &up) {
			logger.Error("provider returned error status", "status", up.StatusCode, "body", up.Body)
		} else {
			logger.Error("provider call failed", "error", err)
		}
		return "", err
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrMalformedResponse
	}
	return resp.Content, nil
}

// buildInput puts the system instruction first and the transcript after it,
// in order and unmodified.
func buildInput(system string, msgs []models.Message) ([]*schema.Message, error) {
	input := make([]*schema.Message, 0, len(msgs)+1)
	input = append(input, schema.SystemMessage(system))
	for i, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			input = append(input, schema.UserMessage(msg.Content))
		case models.RoleAssistant:
			input = append(input, schema.AssistantMessage(msg.Content, nil))
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, msg.Role)
		}
	}
	return input, nil
}

func (m *Mediator) record(ctx context.Context, req Request, latency time.Duration, err error) {
	ex := models.Exchange{
		RequestID:    observability.RequestID(ctx),
		Mode:         string(req.Mode),
		Provider:     m.provider.Name,
		Model:        m.provider.Model,
		MessageCount: len(req.Messages),
		Outcome:      Kind(err),
		LatencyMs:    latency.Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err != nil {
		ex.Detail = err.Error()
		var up *UpstreamError
		if errors.As(err, &up) {
			ex.UpstreamStatus = up.StatusCode
		}
	}
	// The caller's context may already be cancelled; the record should still land.
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if rerr := m.recorder.Record(recCtx, ex); rerr != nil {
		observability.LoggerFromContext(ctx).Warn("record exchange failed", "error", rerr)
	}
}
