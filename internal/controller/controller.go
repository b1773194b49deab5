// Package controller holds one coaching session on the client side: the
// selected mode, the business context, the transcript and the single
// in-flight request.
package controller

import (
	"context"
	"errors"
	"strings"
	"sync"

	"marketingcoach/internal/models"
	"marketingcoach/internal/service/mediator"
	"marketingcoach/internal/service/prompt"
)

// FallbackReply replaces the assistant reply whenever mediation fails.
const FallbackReply = "I apologize, but I encountered an error. Please try again."

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrRequestPending = errors.New("a request is already in flight")
	ErrNotChatting    = errors.New("session is not in chat")
	ErrWrongState     = errors.New("operation not allowed in current state")
	// ErrSessionReset is returned when a reply arrives for a session that was
	// reset or switched to another mode while the request was in flight.
	ErrSessionReset = errors.New("session changed while request was in flight")
)

// State is the session phase.
type State int

const (
	Idle State = iota
	CollectingContext
	Chatting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case CollectingContext:
		return "collecting-context"
	case Chatting:
		return "chatting"
	default:
		return "unknown"
	}
}

// Mediator is the port to the completion mediator, local or remote.
type Mediator interface {
	Complete(ctx context.Context, req mediator.Request) (string, error)
}

// Controller is safe for concurrent use. At most one mediation call is in
// flight at any time.
type Controller struct {
	mediator Mediator

	mu         sync.Mutex
	state      State
	mode       models.Mode
	business   models.BusinessContext
	transcript []models.Message
	pending    bool
	generation uint64
}

func New(m Mediator) *Controller {
	return &Controller{mediator: m}
}

// SelectMode starts a fresh session in mode, discarding the previous one.
func (c *Controller) SelectMode(mode models.Mode) error {
	if !mode.Valid() {
		return models.ErrInvalidMode
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.mode = mode
	c.state = CollectingContext
	return nil
}

// SubmitBusinessContext validates bc and opens the chat with the mode's
// greeting. On failure nothing changes.
func (c *Controller) SubmitBusinessContext(bc models.BusinessContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CollectingContext {
		return ErrWrongState
	}
	if err := bc.Validate(); err != nil {
		return err
	}
	greeting, err := prompt.Greeting(c.mode, bc)
	if err != nil {
		return err
	}
	c.business = bc
	c.transcript = []models.Message{{Role: models.RoleAssistant, Content: greeting}}
	c.state = Chatting
	return nil
}

// SendMessage appends text as a user message, asks the mediator for a reply
// and appends it. A failed call appends FallbackReply; that message is
// returned together with the mediation error. Whitespace-only text and sends
// while a request is pending are rejected without touching the transcript.
func (c *Controller) SendMessage(ctx context.Context, text string) (models.Message, error) {
	c.mu.Lock()
	if strings.TrimSpace(text) == "" {
		c.mu.Unlock()
		return models.Message{}, ErrEmptyMessage
	}
	if c.state != Chatting {
		c.mu.Unlock()
		return models.Message{}, ErrNotChatting
	}
	if c.pending {
		c.mu.Unlock()
		return models.Message{}, ErrRequestPending
	}
	c.transcript = append(c.transcript, models.Message{Role: models.RoleUser, Content: text})
	c.pending = true
	gen := c.generation
	req := mediator.Request{
		Mode:     c.mode,
		Messages: models.CloneMessages(c.transcript),
		Business: c.business,
	}
	c.mu.Unlock()

	reply, err := c.mediator.Complete(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return models.Message{}, ErrSessionReset
	}
	c.pending = false
	msg := models.Message{Role: models.RoleAssistant, Content: reply}
	if err != nil {
		msg.Content = FallbackReply
	}
	c.transcript = append(c.transcript, msg)
	return msg, err
}

// Reset returns to Idle and drops the session.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Controller) clearLocked() {
	c.generation++
	c.state = Idle
	c.mode = ""
	c.business = models.BusinessContext{}
	c.transcript = nil
	c.pending = false
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Mode() models.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) Business() models.BusinessContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.business
}

func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Transcript returns a copy of the conversation so far.
func (c *Controller) Transcript() []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CloneMessages(c.transcript)
}
