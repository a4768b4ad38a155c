package store

import "github.com/swarmchat/swarmchat/internal/domain"

// Snapshot is a point-in-time read view consumed by the selector layer.
// Session entries are copied; message slices are shared with the store, so
// a snapshot taken while a stream is active may observe the tail message
// growing. Selectors over one snapshot value stay referentially stable.
type Snapshot struct {
	Sessions  []domain.Session
	History   map[string][]domain.Message
	CurrentID string
	Settings  domain.Settings
}

// Snapshot captures the current state for selector consumption.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]domain.Session, len(s.sessions))
	copy(sessions, s.sessions)

	history := make(map[string][]domain.Message, len(s.history))
	for id, msgs := range s.history {
		history[id] = msgs
	}

	return Snapshot{
		Sessions:  sessions,
		History:   history,
		CurrentID: s.current,
		Settings:  s.settings,
	}
}
