package ai

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/anthropics/anthropic-sdk-go"
)

var (
	// ErrMissingAPIKey means no provider credential was configured.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrTransport means the provider could not be reached or the exchange
	// was cut off before a response arrived.
	ErrTransport = errors.New("provider transport failure")

	// ErrMalformedResponse means the provider answered without reply text.
	ErrMalformedResponse = errors.New("provider response has no text content")
)

// UpstreamError is a non-success HTTP status returned by the provider.
// Body is the raw response body and is meant for logs only.
type UpstreamError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ClassifyError maps a provider SDK error onto the package error taxonomy.
func ClassifyError(err error) error {
	if err == nil || errors.Is(err, ErrMalformedResponse) {
		return err
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{StatusCode: apiErr.StatusCode, Body: apiErr.RawJSON(), Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return fmt.Errorf("provider call: %w", err)
}
