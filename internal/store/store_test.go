package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmchat/swarmchat/internal/domain"
)

func testLimits() domain.Limits {
	return domain.Limits{
		MaxSessions:           3,
		MaxMessagesPerSession: 4,
		MaxTitleLength:        20,
		MaxContentLength:      40,
		MaxSystemPromptLength: 50,
	}
}

func TestStore_CreateSession(t *testing.T) {
	s := New(testLimits())

	t.Run("sets current and initializes history", func(t *testing.T) {
		id := s.CreateSession()
		require.NotEmpty(t, id)

		snap := s.Snapshot()
		assert.Equal(t, id, snap.CurrentID)
		require.Len(t, snap.Sessions, 1)
		assert.Equal(t, domain.DefaultTitle, snap.Sessions[0].Title)
		assert.NotNil(t, snap.History[id])
		assert.Empty(t, snap.History[id])
	})

	t.Run("most recent first", func(t *testing.T) {
		second := s.CreateSession()
		snap := s.Snapshot()
		assert.Equal(t, second, snap.Sessions[0].ID)
	})
}

func TestStore_Eviction(t *testing.T) {
	s := New(testLimits())

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		ids = append(ids, s.CreateSession())
	}

	snap := s.Snapshot()
	require.Len(t, snap.Sessions, 3)

	// The oldest session is gone, the newest three survive in order.
	got := make([]string, 0, 3)
	for _, sess := range snap.Sessions {
		got = append(got, sess.ID)
	}
	assert.Equal(t, []string{ids[3], ids[2], ids[1]}, got)

	// Its history went with it.
	_, ok := snap.History[ids[0]]
	assert.False(t, ok)
}

func TestStore_OrphanFreeHistory(t *testing.T) {
	s := New(testLimits())

	// Arbitrary create/delete interleaving must never leave a history entry
	// without a live session.
	a := s.CreateSession()
	b := s.CreateSession()
	s.DeleteSession(a)
	s.CreateSession()
	s.CreateSession()
	s.CreateSession() // evicts b
	s.DeleteSession("does-not-exist")

	snap := s.Snapshot()
	live := make(map[string]bool, len(snap.Sessions))
	for _, sess := range snap.Sessions {
		live[sess.ID] = true
	}
	assert.Equal(t, len(snap.Sessions), len(snap.History))
	for id := range snap.History {
		assert.True(t, live[id], "history entry %s has no session", id)
	}
	_, ok := snap.History[b]
	assert.False(t, ok)
}

func TestStore_DeleteSession(t *testing.T) {
	t.Run("current moves to first remaining", func(t *testing.T) {
		s := New(testLimits())
		s.CreateSession()
		second := s.CreateSession()
		third := s.CreateSession()

		s.DeleteSession(third)
		snap := s.Snapshot()
		assert.Equal(t, second, snap.CurrentID)
	})

	t.Run("current cleared when none remain", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.DeleteSession(id)

		snap := s.Snapshot()
		assert.Empty(t, snap.CurrentID)
		assert.Empty(t, snap.Sessions)
	})
}

func TestStore_SelectSession(t *testing.T) {
	s := New(testLimits())
	first := s.CreateSession()
	s.CreateSession()

	s.SelectSession(first)
	assert.Equal(t, first, s.Snapshot().CurrentID)

	// Stale ids from racing UI updates are ignored, not errors.
	s.SelectSession("gone")
	assert.Equal(t, first, s.Snapshot().CurrentID)
}

func TestStore_UpdateSessionTitle(t *testing.T) {
	s := New(testLimits())
	id := s.CreateSession()

	t.Run("sanitizes and truncates", func(t *testing.T) {
		s.UpdateSessionTitle(id, "  line\none that is far too long to keep  ")
		snap := s.Snapshot()
		title := snap.Sessions[0].Title
		assert.NotContains(t, title, "\n")
		assert.LessOrEqual(t, len([]rune(title)), 20)
		assert.True(t, snap.Sessions[0].TitleSet)
	})

	t.Run("rejects titles that sanitize to empty", func(t *testing.T) {
		before := s.Snapshot().Sessions[0].Title
		s.UpdateSessionTitle(id, " \n\n ")
		assert.Equal(t, before, s.Snapshot().Sessions[0].Title)
	})
}

func TestStore_AddMessage(t *testing.T) {
	t.Run("no-op without current session", func(t *testing.T) {
		s := New(testLimits())
		s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "hi"})
		assert.Empty(t, s.Snapshot().History)
	})

	t.Run("first user message derives the title once", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()

		s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "Hello world"})
		snap := s.Snapshot()
		assert.Equal(t, "Hello world", snap.Sessions[0].Title)
		assert.True(t, snap.Sessions[0].TitleSet)

		s.AddMessage(domain.Message{Role: domain.RoleAssistant, Content: "Hi there"})
		s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "Something else"})
		assert.Equal(t, "Hello world", s.Snapshot().Sessions[0].Title)
		assert.Len(t, s.Snapshot().History[id], 3)
	})

	t.Run("assistant messages never derive a title", func(t *testing.T) {
		s := New(testLimits())
		s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant, Content: "I speak first"})
		assert.Equal(t, domain.DefaultTitle, s.Snapshot().Sessions[0].Title)
	})

	t.Run("explicit title wins over derivation", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.UpdateSessionTitle(id, "Pinned")
		s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "Hello world"})
		assert.Equal(t, "Pinned", s.Snapshot().Sessions[0].Title)
	})

	t.Run("drops oldest messages over the cap", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		for _, c := range []string{"1", "2", "3", "4", "5", "6"} {
			s.AddMessage(domain.Message{Role: domain.RoleUser, Content: c})
		}
		msgs := s.Snapshot().History[id]
		require.Len(t, msgs, 4)
		assert.Equal(t, "3", msgs[0].Content)
		assert.Equal(t, "6", msgs[3].Content)
	})

	t.Run("clamps content at write time", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleUser, Content: strings.Repeat("x", 100)})
		msgs := s.Snapshot().History[id]
		assert.Len(t, msgs[0].Content, 40)
	})
}

func TestStore_UpdateLastMessage(t *testing.T) {
	t.Run("appends to the current session tail", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant})

		s.UpdateLastMessage("Hel")
		s.UpdateLastMessage("lo")
		msgs := s.Snapshot().History[id]
		assert.Equal(t, "Hello", msgs[0].Content)
	})

	t.Run("empty chunk is a no-op", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant, Content: "abc"})

		s.UpdateLastMessage("")
		assert.Equal(t, "abc", s.Snapshot().History[id][0].Content)
	})

	t.Run("no-op without messages", func(t *testing.T) {
		s := New(testLimits())
		s.CreateSession()
		s.UpdateLastMessage("lost")
		s2 := New(testLimits())
		s2.UpdateLastMessage("also lost")
	})

	t.Run("stops growing at the content cap", func(t *testing.T) {
		s := New(testLimits())
		id := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant})

		for i := 0; i < 20; i++ {
			s.UpdateLastMessage("0123456789")
		}
		content := s.Snapshot().History[id][0].Content
		assert.Len(t, content, 40)
	})
}

func TestStore_AppendToMessageIn(t *testing.T) {
	t.Run("targets the captured session after a switch", func(t *testing.T) {
		s := New(testLimits())
		target := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant})

		other := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant})
		s.SelectSession(other)

		s.AppendToMessageIn(target, "late chunk")

		snap := s.Snapshot()
		assert.Equal(t, "late chunk", snap.History[target][0].Content)
		assert.Empty(t, snap.History[other][0].Content)
	})

	t.Run("chunks for deleted sessions vanish silently", func(t *testing.T) {
		s := New(testLimits())
		target := s.CreateSession()
		s.AddMessage(domain.Message{Role: domain.RoleAssistant})
		s.DeleteSession(target)

		s.AppendToMessageIn(target, "orphan")
		assert.Empty(t, s.Snapshot().History)
	})
}

func TestStore_ClearHistory(t *testing.T) {
	s := New(testLimits())
	first := s.CreateSession()
	s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "keep me"})

	second := s.CreateSession()
	s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "wipe me"})

	s.ClearHistory()

	snap := s.Snapshot()
	assert.Empty(t, snap.History[second])
	assert.Len(t, snap.History[first], 1)
}
