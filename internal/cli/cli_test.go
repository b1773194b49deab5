package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketingcoach/internal/api"
	"marketingcoach/internal/config"
	"marketingcoach/internal/controller"
	"marketingcoach/internal/models"
	"marketingcoach/internal/service/mediator"
)

type scriptedMediator struct {
	replies []string
	err     error
	reqs    []mediator.Request
}

func (s *scriptedMediator) Complete(_ context.Context, req mediator.Request) (string, error) {
	s.reqs = append(s.reqs, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "ok", nil
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func runScript(t *testing.T, m controller.Mediator, script string) string {
	t.Helper()
	var out bytes.Buffer
	ui := newLineUI(strings.NewReader(script), &out)
	err := runChat(context.Background(), controller.New(m), ui, models.Modes())
	require.NoError(t, err)
	return out.String()
}

func TestRunChatFullSession(t *testing.T) {
	m := &scriptedMediator{replies: []string{"Offer a 30-day guarantee."}}
	out := runScript(t, m, "3\nSaaS\nfounders\nCRM tool\nHow do I price it?\n/quit\n")

	assert.Contains(t, out, "irresistible offer for your CRM tool.")
	assert.Contains(t, out, "You: How do I price it?")
	assert.Contains(t, out, "Coach: Offer a 30-day guarantee.")
	require.Len(t, m.reqs, 1)
	assert.Equal(t, models.ModeOffers, m.reqs[0].Mode)
	assert.Len(t, m.reqs[0].Messages, 2)
}

func TestRunChatIncompleteContextAsksAgain(t *testing.T) {
	m := &scriptedMediator{}
	out := runScript(t, m, "pain-points\nSaaS\n   \nCRM tool\nSaaS\nfounders\nCRM tool\n")

	assert.Equal(t, 1, strings.Count(out, incompleteContextNotice))
	assert.Contains(t, out, "Let's dive deep into understanding your founders")
	assert.Empty(t, m.reqs)
}

func TestRunChatFallbackOnFailure(t *testing.T) {
	m := &scriptedMediator{err: errors.New("boom")}
	out := runScript(t, m, "1\nSaaS\nfounders\nCRM tool\nhello\n")
	assert.Contains(t, out, "Coach: "+controller.FallbackReply)
}

func TestRunChatSwitchMode(t *testing.T) {
	m := &scriptedMediator{}
	out := runScript(t, m, "1\nSaaS\nfounders\nCRM tool\n   \n/mode\n2\nRetail\nparents\nstrollers\nhi\n")

	assert.Contains(t, out, "content plan for your CRM tool")
	assert.Contains(t, out, "understanding your parents in the Retail space")
	require.Len(t, m.reqs, 1)
	assert.Equal(t, models.ModePainPoints, m.reqs[0].Mode)
	assert.Equal(t, "strollers", m.reqs[0].Business.Product)
}

func TestLineUIRejectsUnknownMode(t *testing.T) {
	var out bytes.Buffer
	ui := newLineUI(strings.NewReader("9\nbogus\noffers\n"), &out)
	mode, err := ui.pickMode(models.Modes())
	require.NoError(t, err)
	assert.Equal(t, models.ModeOffers, mode)
	assert.Equal(t, 2, strings.Count(out.String(), "Unknown mode"))
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["chat"])
}

func TestRouterServesHealthAndMisconfiguredAgent(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderConfig{Name: "claude", Model: config.DefaultModel}}
	m, store, err := buildMediator(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()
	assert.False(t, m.Configured())

	router := newRouter(api.NewHandler(m, store))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/agent", strings.NewReader(`{"mode":"offers","messages":[]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"API key not configured"}`, rec.Body.String())
}
