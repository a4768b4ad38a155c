// Package selector provides pure read-views over store snapshots for
// reactive consumers. Every selector is a function of the snapshot alone:
// for an unchanged snapshot value, repeated calls return equal results, and
// pointer/slice results keep the same reference so narrow subscribers do
// not invalidate spuriously.
package selector

import (
	"github.com/swarmchat/swarmchat/internal/domain"
	"github.com/swarmchat/swarmchat/internal/store"
)

// HasAPIKey reports whether an API key is configured.
func HasAPIKey(snap store.Snapshot) bool {
	return snap.Settings.APIKey != ""
}

// SwarmModeEnabled reports whether the alternate swarm channel is active.
func SwarmModeEnabled(snap store.Snapshot) bool {
	return snap.Settings.UseSwarmMode
}

// EndpointURL returns the configured inference endpoint.
func EndpointURL(snap store.Snapshot) string {
	return snap.Settings.EndpointURL
}

// SessionCount returns the number of live sessions.
func SessionCount(snap store.Snapshot) int {
	return len(snap.Sessions)
}

// CurrentSession returns the current session, or nil when none is selected.
func CurrentSession(snap store.Snapshot) *domain.Session {
	return sessionByID(snap, snap.CurrentID)
}

// CurrentMessageCount returns the transcript length of the current session.
func CurrentMessageCount(snap store.Snapshot) int {
	return len(snap.History[snap.CurrentID])
}

// CurrentHasMessages reports whether the current session has any messages.
func CurrentHasMessages(snap store.Snapshot) bool {
	return CurrentMessageCount(snap) > 0
}

// SessionByID returns a selector bound to one session id. Binding once and
// reusing the returned function keeps per-item subscribers narrow.
func SessionByID(id string) func(store.Snapshot) *domain.Session {
	return func(snap store.Snapshot) *domain.Session {
		return sessionByID(snap, id)
	}
}

// SessionExists returns a selector reporting whether the session is live.
func SessionExists(id string) func(store.Snapshot) bool {
	return func(snap store.Snapshot) bool {
		return sessionByID(snap, id) != nil
	}
}

// MessagesFor returns a selector over one session's transcript. The result
// shares the snapshot's backing slice, so it is reference-stable for an
// unchanged snapshot.
func MessagesFor(id string) func(store.Snapshot) []domain.Message {
	return func(snap store.Snapshot) []domain.Message {
		return snap.History[id]
	}
}

// MessageCountFor returns a selector over one session's transcript length.
func MessageCountFor(id string) func(store.Snapshot) int {
	return func(snap store.Snapshot) int {
		return len(snap.History[id])
	}
}

func sessionByID(snap store.Snapshot, id string) *domain.Session {
	if id == "" {
		return nil
	}
	for i := range snap.Sessions {
		if snap.Sessions[i].ID == id {
			return &snap.Sessions[i]
		}
	}
	return nil
}
