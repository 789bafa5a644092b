// Package llm talks to the model-serving backend. One chat turn is a single
// blocking request/response exchange: no streaming, no retries.
package llm

import (
	"context"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role/content pair of a chat request.
type Message struct {
	Role    string
	Content string
}

// Client completes chat turns.
type Client interface {
	// Complete sends messages and returns the assistant reply.
	// Non-2xx responses are reported as *StatusError.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// BuildMessages assembles a chat request: the system prompt, prior history in
// order, then the new user message.
func BuildMessages(systemPrompt string, history []Message, user string) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: user})
	return messages
}
