package models

// Role identifies the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles the provider accepts.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CloneMessages returns a copy of msgs that callers may mutate freely.
func CloneMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
