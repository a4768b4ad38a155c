package llm

import (
	"fmt"
	"strings"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// historyWindow bounds how many transcript messages are replayed to the
// backend per request.
const historyWindow = 20

// BuildPrompt flattens the conversation into a single completion prompt for
// backends without a chat endpoint.
func BuildPrompt(req ChatRequest) string {
	var b strings.Builder

	if req.SystemPrompt != "" {
		fmt.Fprintf(&b, "%s\n\n", req.SystemPrompt)
	}

	for _, msg := range WindowedHistory(req.History) {
		switch msg.Role {
		case domain.RoleUser:
			fmt.Fprintf(&b, "User: %s\n", msg.Content)
		case domain.RoleAssistant:
			if msg.Content != "" {
				fmt.Fprintf(&b, "Assistant: %s\n", msg.Content)
			}
		}
		// System notices (queued/executed commands) stay local.
	}

	b.WriteString("Assistant:")
	return b.String()
}

// WindowedHistory returns the most recent slice of the transcript that fits
// the replay window.
func WindowedHistory(history []domain.Message) []domain.Message {
	if len(history) <= historyWindow {
		return history
	}
	return history[len(history)-historyWindow:]
}
