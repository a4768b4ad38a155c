package stream

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// Callbacks carries the caller-supplied reactions to stream events. OnChunk
// receives every non-empty chunk; OnComplete fires on a done signal, after
// the chunk from the same event was applied; OnError receives failures from
// either step without disabling the listener.
type Callbacks struct {
	OnChunk    func(chunk string) error
	OnComplete func()
	OnError    func(err error)
}

// Listener binds to both external channels for the lifetime of an active
// chat view. Attach registers exactly one handler per channel; Detach tears
// both down and is safe to call repeatedly.
type Listener struct {
	source Source
	log    zerolog.Logger

	mu      sync.Mutex
	cancels []func()
}

// NewListener creates a listener over the given event source.
func NewListener(source Source) *Listener {
	return &Listener{
		source: source,
		log:    log.With().Str("component", "stream").Logger(),
	}
}

// Attach subscribes to the primary and swarm channels with the given
// callbacks. Calling Attach while attached re-registers, so changed
// callbacks replace the old ones instead of running stale closures.
func (l *Listener) Attach(cb Callbacks) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.detachLocked()

	handler := func(ev domain.StreamEvent) {
		l.handle(ev, cb)
	}
	l.cancels = []func(){
		l.source.Subscribe(domain.ChannelPrimary, handler),
		l.source.Subscribe(domain.ChannelSwarm, handler),
	}
}

// Detach unsubscribes from both channels. Idempotent; a double detach is a
// no-op.
func (l *Listener) Detach() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.detachLocked()
}

// Attached reports whether the listener currently holds subscriptions.
func (l *Listener) Attached() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cancels) > 0
}

func (l *Listener) detachLocked() {
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = nil
}

// handle applies the per-event demultiplexing rule: a non-empty chunk is
// forwarded first, then a done signal fires completion — even when both
// arrive in the same event. Empty, not-done events carry no information and
// are dropped. A failing event never stops processing of later ones.
func (l *Listener) handle(ev domain.StreamEvent, cb Callbacks) {
	defer func() {
		if r := recover(); r != nil {
			l.reportError(cb, fmt.Errorf("stream handler panic: %v", r))
		}
	}()

	if ev.Chunk != "" && cb.OnChunk != nil {
		if err := cb.OnChunk(ev.Chunk); err != nil {
			l.reportError(cb, fmt.Errorf("failed to apply chunk: %w", err))
			return
		}
	}

	if ev.Done && cb.OnComplete != nil {
		cb.OnComplete()
	}
}

func (l *Listener) reportError(cb Callbacks, err error) {
	l.log.Warn().Err(err).Msg("stream event processing failed")
	if cb.OnError != nil {
		cb.OnError(err)
	}
}
