package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketingcoach/internal/config"
)

func TestNewChatModelWithoutKey(t *testing.T) {
	_, err := NewChatModel(context.Background(), config.ProviderConfig{Name: "claude", Model: config.DefaultModel})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewChatModelRejectsUnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), config.ProviderConfig{Name: "llama", Model: "x", APIKey: "k"})
	assert.ErrorContains(t, err, "invalid provider")
}

func TestNewChatModelClaude(t *testing.T) {
	m, err := NewChatModel(context.Background(), config.ProviderConfig{
		Name:      "claude",
		Model:     config.DefaultModel,
		APIKey:    "sk-test",
		MaxTokens: config.DefaultMaxTokens,
	})
	require.NoError(t, err)
	assert.NotNil(t, m)
}

func TestClassifyAnthropicError(t *testing.T) {
	apiErr := &anthropic.Error{
		StatusCode: 529,
		Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
		Response:   &http.Response{StatusCode: 529},
	}
	err := ClassifyError(errors.Join(errors.New("create new message fail"), apiErr))

	var up *UpstreamError
	require.True(t, errors.As(err, &up))
	assert.Equal(t, 529, up.StatusCode)
	assert.Equal(t, "provider returned status 529", up.Error())
}

func TestClassifyNetworkError(t *testing.T) {
	err := ClassifyError(&url.Error{Op: "Post", URL: "https://api.anthropic.com", Err: &net.OpError{Op: "dial", Err: errors.New("refused")}})
	assert.ErrorIs(t, err, ErrTransport)

	err = ClassifyError(context.DeadlineExceeded)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestClassifyOtherError(t *testing.T) {
	base := errors.New("boom")
	err := ClassifyError(base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Nil(t, ClassifyError(nil))
}
