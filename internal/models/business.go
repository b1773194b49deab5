package models

import (
	"errors"
	"strings"
)

var ErrIncompleteContext = errors.New("please fill in all business information fields")

// BusinessContext is supplied once per session and interpolated into every prompt.
type BusinessContext struct {
	Industry       string `json:"industry"`
	TargetAudience string `json:"targetAudience"`
	Product        string `json:"product"`
}

// Validate requires all three fields to carry non-blank text.
func (b BusinessContext) Validate() error {
	if strings.TrimSpace(b.Industry) == "" ||
		strings.TrimSpace(b.TargetAudience) == "" ||
		strings.TrimSpace(b.Product) == "" {
		return ErrIncompleteContext
	}
	return nil
}
