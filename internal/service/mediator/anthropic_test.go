package mediator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketingcoach/internal/config"
	"marketingcoach/internal/models"
	"marketingcoach/internal/service/ai"
	"marketingcoach/internal/service/prompt"
)

type capturedCall struct {
	APIKey  string
	Version string
	Body    struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		System    []struct {
			Text string `json:"text"`
		} `json:"system"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
}

func newAnthropicServer(t *testing.T, status int, body string) (*[]capturedCall, string) {
	t.Helper()
	calls := &[]capturedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c capturedCall
		c.APIKey = r.Header.Get("x-api-key")
		c.Version = r.Header.Get("anthropic-version")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c.Body))
		*calls = append(*calls, c)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return calls, srv.URL
}

func newClaudeMediator(t *testing.T, baseURL string, rec *memRecorder) *Mediator {
	t.Helper()
	cfg := config.ProviderConfig{
		Name:      "claude",
		BaseURL:   baseURL,
		Model:     config.DefaultModel,
		APIKey:    "sk-test",
		MaxTokens: config.DefaultMaxTokens,
	}
	chat, err := ai.NewChatModel(context.Background(), cfg)
	require.NoError(t, err)
	return New(chat, cfg, rec)
}

func TestCompleteThroughClaudeWithGreetingFirst(t *testing.T) {
	calls, url := newAnthropicServer(t, http.StatusOK, `{"id":"msg_1","type":"message","role":"assistant",
"model":"claude-3-5-sonnet-20241022","content":[{"type":"text","text":"first"},{"type":"text","text":"second"}],
"stop_reason":"end_turn","usage":{"input_tokens":40,"output_tokens":2}}`)
	rec := &memRecorder{}
	m := newClaudeMediator(t, url, rec)

	greeting, err := prompt.Greeting(models.ModeOffers, testBusiness)
	require.NoError(t, err)
	msgs := []models.Message{
		{Role: models.RoleAssistant, Content: greeting},
		{Role: models.RoleUser, Content: "help me"},
	}

	reply, err := m.Complete(context.Background(), Request{Mode: models.ModeOffers, Messages: msgs, Business: testBusiness})
	require.NoError(t, err)
	assert.Equal(t, "first", reply)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "sk-test", call.APIKey)
	assert.Equal(t, "2023-06-01", call.Version)
	assert.Equal(t, "claude-3-5-sonnet-20241022", call.Body.Model)
	assert.Equal(t, 2048, call.Body.MaxTokens)

	system, err := prompt.SystemInstruction(models.ModeOffers, testBusiness)
	require.NoError(t, err)
	require.Len(t, call.Body.System, 1)
	assert.Equal(t, system, call.Body.System[0].Text)

	require.Len(t, call.Body.Messages, len(msgs))
	for i, msg := range msgs {
		assert.Equal(t, string(msg.Role), call.Body.Messages[i].Role)
		require.Len(t, call.Body.Messages[i].Content, 1)
		assert.Equal(t, msg.Content, call.Body.Messages[i].Content[0].Text)
	}

	require.Len(t, rec.records, 1)
	assert.Equal(t, models.OutcomeOK, rec.records[0].Outcome)
}

func TestCompleteThroughClaudeEmptyContent(t *testing.T) {
	_, url := newAnthropicServer(t, http.StatusOK, `{"id":"msg_2","type":"message","role":"assistant",
"model":"claude-3-5-sonnet-20241022","content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`)
	rec := &memRecorder{}
	m := newClaudeMediator(t, url, rec)

	_, err := m.Complete(context.Background(), Request{
		Mode:     models.ModeContentPlan,
		Messages: []models.Message{{Role: models.RoleUser, Content: "hi"}},
		Business: testBusiness,
	})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	require.Len(t, rec.records, 1)
	assert.Equal(t, models.OutcomeMalformed, rec.records[0].Outcome)
}

func TestCompleteThroughClaudeErrorStatus(t *testing.T) {
	_, url := newAnthropicServer(t, http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	m := newClaudeMediator(t, url, &memRecorder{})

	_, err := m.Complete(context.Background(), Request{Mode: models.ModePainPoints, Business: testBusiness})
	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusUnauthorized, up.StatusCode)
	assert.Equal(t, models.OutcomeUpstream, Kind(err))
}
