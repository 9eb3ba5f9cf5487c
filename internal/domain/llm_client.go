package domain

import "context"

// LLMClient defines the capability to send chat messages to an LLM and receive textual responses.
type LLMClient interface {
	Chat(ctx context.Context, messages []Message, temperature float64) (*LLMResponse, error)
	Version() string
}

// Message is a single turn in a chat-completion conversation.
type Message struct {
	Role    string
	Content string
}

// LLMResponse carries the LLM output text.
type LLMResponse struct {
	Text string
}
