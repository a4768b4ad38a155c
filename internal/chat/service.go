// Package chat orchestrates a conversation turn: store writes, stream
// ingestion and the command bridge handoff.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/swarmchat/swarmchat/internal/domain"
	"github.com/swarmchat/swarmchat/internal/llm"
	"github.com/swarmchat/swarmchat/internal/store"
	"github.com/swarmchat/swarmchat/internal/stream"
)

// ErrEmptyMessage rejects sends with no printable content.
var ErrEmptyMessage = errors.New("empty message")

// Publisher feeds stream events into the channel the listener consumes.
type Publisher interface {
	Publish(ch domain.Channel, ev domain.StreamEvent)
}

// Gate receives finalized assistant messages for directive handling.
type Gate interface {
	HandleCompletion(ctx context.Context, sessionID, content string)
}

// Service drives the send pipeline: append the user message and an empty
// assistant placeholder, capture the target session, stream the reply into
// it and hand the finalized message to the bridge gate.
type Service struct {
	store    *store.Store
	listener *stream.Listener
	bus      Publisher
	registry *llm.Registry
	gate     Gate
	log      zerolog.Logger

	onDone  func(sessionID string)
	onError func(err error)
}

// NewService wires the orchestrator to its collaborators.
func NewService(st *store.Store, listener *stream.Listener, bus Publisher, registry *llm.Registry, gate Gate) *Service {
	return &Service{
		store:    st,
		listener: listener,
		bus:      bus,
		registry: registry,
		gate:     gate,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// OnStreamDone registers a hook fired after a stream completed and the gate
// ran, typically to stop a streaming indicator.
func (s *Service) OnStreamDone(fn func(sessionID string)) {
	s.onDone = fn
}

// OnStreamError registers the hook for stream processing failures. This is
// the one deliberately leaky error path of the core.
func (s *Service) OnStreamError(fn func(err error)) {
	s.onError = fn
}

// Send starts one conversation turn. It returns once the stream is running;
// chunks arrive through the listener asynchronously.
func (s *Service) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	settings := s.store.Settings()

	provider, err := s.registry.Resolve(string(settings.DefaultProvider))
	if err != nil {
		return err
	}

	if s.store.Snapshot().CurrentID == "" {
		s.store.CreateSession()
	}

	s.store.AddMessage(domain.Message{Role: domain.RoleUser, Content: text})
	s.store.AddMessage(domain.Message{Role: domain.RoleAssistant})

	// Capture the stream target now. Reading the current session at
	// chunk-arrival time would misattribute late chunks after the user
	// switches sessions mid-stream.
	snap := s.store.Snapshot()
	target := snap.CurrentID

	channel := domain.ChannelPrimary
	if settings.UseSwarmMode {
		channel = domain.ChannelSwarm
	}

	s.listener.Attach(stream.Callbacks{
		OnChunk: func(chunk string) error {
			s.store.AppendToMessageIn(target, chunk)
			return nil
		},
		OnComplete: func() {
			s.finish(target)
		},
		OnError: func(err error) {
			s.reportError(err)
		},
	})

	req := llm.ChatRequest{
		SystemPrompt: settings.SystemPrompt,
		History:      snap.History[target],
	}

	go func() {
		err := provider.StreamChat(ctx, req, func(ev domain.StreamEvent) {
			s.bus.Publish(channel, ev)
		})
		if err != nil {
			s.log.Error().Err(err).Str("session_id", target).Msg("stream failed")
			s.store.AppendToMessageIn(target, "\n[stream error: "+err.Error()+"]")
			s.reportError(err)
		}
	}()

	s.log.Debug().
		Str("session_id", target).
		Str("channel", string(channel)).
		Str("provider", provider.Name()).
		Msg("stream started")
	return nil
}

// Close detaches the stream listener.
func (s *Service) Close() {
	s.listener.Detach()
}

func (s *Service) finish(target string) {
	msgs := s.store.Snapshot().History[target]
	if len(msgs) > 0 {
		s.gate.HandleCompletion(context.Background(), target, msgs[len(msgs)-1].Content)
	}
	if s.onDone != nil {
		s.onDone(target)
	}
}

func (s *Service) reportError(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
