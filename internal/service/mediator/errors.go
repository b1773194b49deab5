package mediator

import (
	"errors"

	"marketingcoach/internal/models"
	"marketingcoach/internal/service/ai"
)

var (
	// ErrMisconfigured is returned on every call when no provider credential
	// was configured at startup.
	ErrMisconfigured = errors.New("API key not configured")

	ErrInvalidMode       = models.ErrInvalidMode
	ErrTransport         = ai.ErrTransport
	ErrMalformedResponse = ai.ErrMalformedResponse
)

// UpstreamError carries the provider's non-success status and raw body.
type UpstreamError = ai.UpstreamError

// Kind maps a Complete error onto the outcome recorded in the exchange log.
func Kind(err error) models.Outcome {
	var up *UpstreamError
	switch {
	case err == nil:
		return models.OutcomeOK
	case errors.Is(err, ErrMisconfigured):
		return models.OutcomeMisconfigured
	case errors.Is(err, ErrInvalidMode):
		return models.OutcomeInvalidMode
	case errors.As(err, &up):
		return models.OutcomeUpstream
	case errors.Is(err, ErrTransport):
		return models.OutcomeTransport
	case errors.Is(err, ErrMalformedResponse):
		return models.OutcomeMalformed
	default:
		return models.OutcomeUnknown
	}
}
