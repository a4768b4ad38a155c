package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title a session carries until the first
// user message derives a real one.
const DefaultTitle = "New Chat"

// Session represents an independent conversation thread with its own
// bounded message history.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	// TitleSet records that the title was fixed, either explicitly by the
	// user or by the one-shot derivation from the first user message.
	TitleSet bool `json:"title_set"`
}

// NewSession creates a session with a fresh id and the placeholder title.
func NewSession() Session {
	return Session{
		ID:        uuid.NewString(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
	}
}
