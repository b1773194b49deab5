// Package prompt holds the fixed coaching templates: the per-mode system
// instructions sent to the provider and the greetings shown when a session
// starts.
package prompt

import (
	"fmt"
	"strings"

	"marketingcoach/internal/models"
)

// Instructions returns the fixed instruction template for mode.
func Instructions(mode models.Mode) (string, error) {
	text, ok := instructions[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
	return text, nil
}

// ContextBlock renders the business context block appended to every
// instruction template, including its leading separator.
func ContextBlock(bc models.BusinessContext) string {
	var b strings.Builder
	b.WriteString("\n\nBusiness Context:\n")
	b.WriteString("- Industry: " + bc.Industry + "\n")
	b.WriteString("- Target Audience: " + bc.TargetAudience + "\n")
	b.WriteString("- Product/Service: " + bc.Product + "\n")
	b.WriteString("\nUse this context to provide highly relevant and personalized advice.")
	return b.String()
}

// SystemInstruction composes the system prompt for one provider call.
func SystemInstruction(mode models.Mode, bc models.BusinessContext) (string, error) {
	text, err := Instructions(mode)
	if err != nil {
		return "", err
	}
	return text + ContextBlock(bc), nil
}

// Greeting renders the assistant message that opens a session. It never
// touches the network.
func Greeting(mode models.Mode, bc models.BusinessContext) (string, error) {
	switch mode {
	case models.ModeContentPlan:
		return "Great! I'll help you build a content plan for your " + bc.Product +
			" targeting " + bc.TargetAudience + " in the " + bc.Industry + " industry.\n\n" +
			"Let's start by understanding:\n" +
			"1. What are your main marketing goals? (e.g., brand awareness, lead generation, sales)\n" +
			"2. What platforms do you want to focus on?\n" +
			"3. How often can you realistically create content?\n\n" +
			"Share your thoughts and I'll create a tailored content strategy.", nil
	case models.ModePainPoints:
		return "Perfect! Let's dive deep into understanding your " + bc.TargetAudience +
			" in the " + bc.Industry + " space.\n\n" +
			"I'll help you uncover:\n" +
			"✓ Core pain points and frustrations\n" +
			"✓ Deep desires and aspirations\n" +
			"✓ Hidden motivations\n" +
			"✓ Emotional triggers\n\n" +
			"Tell me: What problems do you think your " + bc.Product +
			" solves? Even a rough idea helps me go deeper.", nil
	case models.ModeOffers:
		return "Excellent! Let's craft an irresistible offer for your " + bc.Product + ".\n\n" +
			"I'll help you create:\n" +
			"✓ Compelling value proposition\n" +
			"✓ Strategic pricing and packaging\n" +
			"✓ Scarcity and urgency elements\n" +
			"✓ Risk reversal strategies\n" +
			"✓ Bonus stacking\n\n" +
			"First, what's the transformation or outcome your " + bc.Product + " delivers?", nil
	default:
		return "", fmt.Errorf("%w: %q", models.ErrInvalidMode, mode)
	}
}
