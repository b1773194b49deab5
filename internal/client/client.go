// Package client talks to a running coach server over HTTP. Client satisfies
// controller.Mediator so a terminal session can drive a remote mediator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"marketingcoach/internal/models"
	"marketingcoach/internal/service/mediator"
)

// ServerError is a non-200 answer from the coach server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8090".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

type agentRequest struct {
	Mode         string                 `json:"mode"`
	Messages     []models.Message       `json:"messages"`
	BusinessInfo models.BusinessContext `json:"businessInfo"`
}

type agentResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Complete posts one request to /api/agent and returns the reply text.
func (c *Client) Complete(ctx context.Context, req mediator.Request) (string, error) {
	body := agentRequest{
		Mode:         string(req.Mode),
		Messages:     req.Messages,
		BusinessInfo: req.Business,
	}
	if body.Messages == nil {
		body.Messages = []models.Message{}
	}
	var resp agentResponse
	status, err := c.do(ctx, http.MethodPost, "/api/agent", body, &resp)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK || resp.Error != "" {
		return "", &ServerError{StatusCode: status, Message: resp.Error}
	}
	if resp.Response == "" {
		return "", mediator.ErrMalformedResponse
	}
	return resp.Response, nil
}

// Modes fetches the mode catalog.
func (c *Client) Modes(ctx context.Context) ([]models.ModeInfo, error) {
	var resp struct {
		Modes []models.ModeInfo `json:"modes"`
		Error string            `json:"error"`
	}
	status, err := c.do(ctx, http.MethodGet, "/api/modes", nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ServerError{StatusCode: status, Message: resp.Error}
	}
	return resp.Modes, nil
}

// Available checks whether the server answers its health check.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var reader io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", mediator.ErrTransport, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		if httpResp.StatusCode != http.StatusOK {
			return httpResp.StatusCode, nil
		}
		return 0, fmt.Errorf("%w: %v", mediator.ErrMalformedResponse, err)
	}
	return httpResp.StatusCode, nil
}
