package models

import (
	"errors"
	"fmt"
)

// Mode selects the coaching domain and with it the instruction template.
type Mode string

const (
	ModeContentPlan Mode = "content-plan"
	ModePainPoints  Mode = "pain-points"
	ModeOffers      Mode = "offers"
)

var ErrInvalidMode = errors.New("invalid mode")

// ModeInfo describes a mode for pickers.
type ModeInfo struct {
	ID          Mode   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var catalog = []ModeInfo{
	{
		ID:          ModeContentPlan,
		Title:       "Content Plan Builder",
		Description: "Create comprehensive content strategies with topics, formats, and scheduling",
	},
	{
		ID:          ModePainPoints,
		Title:       "Customer Psychology",
		Description: "Identify pain points, dreams, desires, and motivations of your audience",
	},
	{
		ID:          ModeOffers,
		Title:       "Irresistible Offers",
		Description: "Craft compelling offers with strong value propositions and urgency",
	},
}

// Modes returns the mode catalog in display order.
func Modes() []ModeInfo {
	out := make([]ModeInfo, len(catalog))
	copy(out, catalog)
	return out
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeContentPlan, ModePainPoints, ModeOffers:
		return true
	}
	return false
}

// Info returns the catalog entry for m.
func (m Mode) Info() (ModeInfo, bool) {
	for _, info := range catalog {
		if info.ID == m {
			return info, true
		}
	}
	return ModeInfo{}, false
}

// ParseMode converts a wire value into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}
