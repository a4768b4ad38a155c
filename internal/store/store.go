package store

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// Store owns the canonical application state: the session list (most recent
// first), the per-session message history, the current session pointer and
// the validated settings. Every mutation is atomic behind one mutex, which
// also serializes writers on multi-threaded runtimes so chunks land in
// arrival order.
type Store struct {
	mu       sync.Mutex
	limits   domain.Limits
	sessions []domain.Session
	history  map[string][]domain.Message
	current  string
	settings domain.Settings
	log      zerolog.Logger
}

// New creates an empty store bounded by the given limits. Non-positive
// limits fall back to the defaults; the store's operations never fail.
func New(limits domain.Limits) *Store {
	defaults := domain.DefaultLimits()
	if limits.MaxSessions <= 0 {
		limits.MaxSessions = defaults.MaxSessions
	}
	if limits.MaxMessagesPerSession <= 0 {
		limits.MaxMessagesPerSession = defaults.MaxMessagesPerSession
	}
	if limits.MaxTitleLength <= 0 {
		limits.MaxTitleLength = defaults.MaxTitleLength
	}
	if limits.MaxContentLength <= 0 {
		limits.MaxContentLength = defaults.MaxContentLength
	}
	if limits.MaxSystemPromptLength <= 0 {
		limits.MaxSystemPromptLength = defaults.MaxSystemPromptLength
	}
	return &Store{
		limits:  limits,
		history: make(map[string][]domain.Message),
		settings: domain.Settings{
			DefaultProvider: domain.ProviderLocal,
		},
		log: log.With().Str("component", "store").Logger(),
	}
}

// CreateSession inserts a fresh session at the front of the list,
// initializes its history and makes it current. When the session cap is hit
// the oldest session is evicted first, together with its history. Never
// fails; returns the new session id.
func (s *Store) CreateSession() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.sessions) >= s.limits.MaxSessions {
		oldest := s.sessions[len(s.sessions)-1]
		s.sessions = s.sessions[:len(s.sessions)-1]
		delete(s.history, oldest.ID)
		s.log.Debug().Str("session_id", oldest.ID).Msg("evicted oldest session")
	}

	sess := domain.NewSession()
	s.sessions = append([]domain.Session{sess}, s.sessions...)
	s.history[sess.ID] = []domain.Message{}
	s.current = sess.ID
	return sess.ID
}

// DeleteSession removes the session and its history. Deleting the current
// session moves the pointer to the first remaining session, or clears it.
// Unknown ids are a no-op.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	delete(s.history, id)

	if s.current == id {
		if len(s.sessions) > 0 {
			s.current = s.sessions[0].ID
		} else {
			s.current = ""
		}
	}
}

// SelectSession moves the current pointer. Stale ids from racing UI updates
// are expected and silently ignored.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		s.current = id
	}
}

// UpdateSessionTitle sets an explicit title after sanitization. A title
// that sanitizes to empty rejects the whole update.
func (s *Store) UpdateSessionTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	clean := domain.SanitizeTitle(title, s.limits.MaxTitleLength)
	if clean == "" {
		return
	}
	s.sessions[idx].Title = clean
	s.sessions[idx].TitleSet = true
}

// AddMessage appends a message to the current session. No-op without a
// current session. The first user message derives the session title unless
// one was already set.
func (s *Store) AddMessage(msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMessageLocked(s.current, msg)
}

// AddMessageTo appends a message to a specific session, used by the stream
// and bridge paths which captured their target session before the user
// could switch away. Unknown ids are dropped silently.
func (s *Store) AddMessageTo(sessionID string, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addMessageLocked(sessionID, msg)
}

func (s *Store) addMessageLocked(sessionID string, msg domain.Message) {
	idx := s.indexOf(sessionID)
	if idx < 0 {
		return
	}

	msg.Content = domain.TruncateRunes(msg.Content, s.limits.MaxContentLength)
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	msgs := append(s.history[sessionID], msg)
	for len(msgs) > s.limits.MaxMessagesPerSession {
		msgs = msgs[1:]
	}
	s.history[sessionID] = msgs

	if msg.Role == domain.RoleUser && !s.sessions[idx].TitleSet {
		if title := domain.TitleFromContent(msg.Content, s.limits.MaxTitleLength); title != "" {
			s.sessions[idx].Title = title
			s.sessions[idx].TitleSet = true
		}
	}
}

// UpdateLastMessage concatenates a chunk onto the last message of the
// current session. No-op when there is no current session, the session has
// no messages, or the chunk is empty.
func (s *Store) UpdateLastMessage(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendChunkLocked(s.current, chunk)
}

// AppendToMessageIn is the session-scoped variant of UpdateLastMessage.
// Stream ingestion captures its target session id at stream start and
// appends through this method, so late chunks keep landing in the right
// session after the user switches away. Chunks for deleted sessions are
// dropped silently.
func (s *Store) AppendToMessageIn(sessionID, chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendChunkLocked(sessionID, chunk)
}

func (s *Store) appendChunkLocked(sessionID, chunk string) {
	if chunk == "" {
		return
	}
	msgs, ok := s.history[sessionID]
	if !ok || len(msgs) == 0 {
		return
	}

	last := &msgs[len(msgs)-1]
	allowed := s.limits.MaxContentLength - len([]rune(last.Content))
	if allowed <= 0 {
		return
	}
	last.Content += domain.TruncateRunes(chunk, allowed)
}

// ClearHistory empties the current session's transcript without touching
// other sessions. No-op without a current session.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.history[s.current]; !ok {
		return
	}
	s.history[s.current] = []domain.Message{}
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}
