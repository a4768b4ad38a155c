package llm

import (
	"context"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// ChatRequest contains everything a provider needs to stream a reply.
type ChatRequest struct {
	SystemPrompt string
	History      []domain.Message
	Model        string
}

// Emit receives stream events as the provider produces them. Providers must
// emit a final event with Done set, and may combine the last chunk with it.
type Emit func(domain.StreamEvent)

// Provider defines the interface for streaming inference backends.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// StreamChat generates a reply for the conversation, emitting chunks as
	// they arrive. It returns once the stream is finished or failed.
	StreamChat(ctx context.Context, req ChatRequest, emit Emit) error
}
