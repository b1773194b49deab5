package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketingcoach/internal/config"
	"marketingcoach/internal/models"
	"marketingcoach/internal/service/ai"
	"marketingcoach/internal/service/mediator"
)

func TestSessionRepliesThroughClaude(t *testing.T) {
	var (
		mu    sync.Mutex
		roles []string
		hits  int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role string `json:"role"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		hits++
		roles = roles[:0]
		for _, m := range body.Messages {
			roles = append(roles, m.Role)
		}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
"content":[{"type":"text","text":"Lead with a 30-day guarantee."}],"stop_reason":"end_turn",
"usage":{"input_tokens":50,"output_tokens":8}}`))
	}))
	defer srv.Close()

	cfg := config.ProviderConfig{
		Name:      "claude",
		BaseURL:   srv.URL,
		Model:     config.DefaultModel,
		APIKey:    "sk-test",
		MaxTokens: config.DefaultMaxTokens,
	}
	chat, err := ai.NewChatModel(context.Background(), cfg)
	require.NoError(t, err)

	c := chattingController(t, mediator.New(chat, cfg, nil), models.ModeOffers)
	reply, err := c.SendMessage(context.Background(), "help me")
	require.NoError(t, err)
	assert.Equal(t, "Lead with a 30-day guarantee.", reply.Content)

	transcript := c.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, models.RoleAssistant, transcript[0].Role)
	assert.Equal(t, reply, transcript[2])
	assert.Equal(t, 1, hits)
	assert.Equal(t, []string{"assistant", "user"}, roles)
}
