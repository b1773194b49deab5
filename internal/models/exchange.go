package models

import "time"

// Outcome classifies how a mediation call ended.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeMisconfigured Outcome = "misconfigured"
	OutcomeInvalidMode   Outcome = "invalid_mode"
	OutcomeUpstream      Outcome = "upstream_error"
	OutcomeTransport     Outcome = "transport_error"
	OutcomeMalformed     Outcome = "malformed_response"
	OutcomeUnknown       Outcome = "unknown_error"
)

// Exchange records one mediation call. It never carries message content.
type Exchange struct {
	ID             int64     `json:"id"`
	RequestID      string    `json:"request_id"`
	Mode           string    `json:"mode"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	MessageCount   int       `json:"message_count"`
	Outcome        Outcome   `json:"outcome"`
	UpstreamStatus int       `json:"upstream_status"`
	LatencyMs      int64     `json:"latency_ms"`
	Detail         string    `json:"detail"`
	CreatedAt      time.Time `json:"created_at"`
}
