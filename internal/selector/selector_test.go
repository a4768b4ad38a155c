package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarmchat/swarmchat/internal/domain"
	"github.com/swarmchat/swarmchat/internal/store"
)

func newPopulatedStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	s := store.New(domain.DefaultLimits())
	id := s.CreateSession()
	s.AddMessage(domain.Message{Role: domain.RoleUser, Content: "Hello world"})
	s.AddMessage(domain.Message{Role: domain.RoleAssistant, Content: "Hi"})
	return s, id
}

func TestFixedSelectors(t *testing.T) {
	s, _ := newPopulatedStore(t)
	s.UpdateSettings(domain.SettingsPatch{
		EndpointURL:  strPtr("https://api.example.com"),
		UseSwarmMode: boolPtr(true),
	})
	snap := s.Snapshot()

	assert.False(t, HasAPIKey(snap))
	assert.True(t, SwarmModeEnabled(snap))
	assert.Equal(t, "https://api.example.com", EndpointURL(snap))
	assert.Equal(t, 1, SessionCount(snap))
	assert.Equal(t, 2, CurrentMessageCount(snap))
	assert.True(t, CurrentHasMessages(snap))
	require.NotNil(t, CurrentSession(snap))
}

func TestFixedSelectors_EmptyStore(t *testing.T) {
	snap := store.New(domain.DefaultLimits()).Snapshot()

	assert.Nil(t, CurrentSession(snap))
	assert.Zero(t, CurrentMessageCount(snap))
	assert.False(t, CurrentHasMessages(snap))
}

func TestSessionByID_ReferenceStability(t *testing.T) {
	s, id := newPopulatedStore(t)
	snap := s.Snapshot()

	sel := SessionByID(id)
	first := sel(snap)
	second := sel(snap)

	require.NotNil(t, first)
	// Same snapshot, same pointer: the load-bearing property that keeps
	// downstream subscribers from invalidating.
	assert.Same(t, first, second)
}

func TestMessagesFor_ReferenceStability(t *testing.T) {
	s, id := newPopulatedStore(t)
	snap := s.Snapshot()

	sel := MessagesFor(id)
	first := sel(snap)
	second := sel(snap)

	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}

func TestParameterizedSelectors(t *testing.T) {
	s, id := newPopulatedStore(t)
	snap := s.Snapshot()

	assert.True(t, SessionExists(id)(snap))
	assert.False(t, SessionExists("gone")(snap))
	assert.Equal(t, 2, MessageCountFor(id)(snap))
	assert.Zero(t, MessageCountFor("gone")(snap))
	assert.Nil(t, SessionByID("gone")(snap))
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
