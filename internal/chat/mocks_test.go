package chat

import (
	"context"
	"sync"

	"github.com/swarmchat/swarmchat/internal/domain"
	"github.com/swarmchat/swarmchat/internal/llm"
)

// scriptedProvider replays test-controlled events through emit, so tests
// decide exactly when chunks arrive relative to store mutations.
type scriptedProvider struct {
	name   string
	events chan domain.StreamEvent
	err    error

	mu       sync.Mutex
	requests []llm.ChatRequest
}

func newScriptedProvider(name string) *scriptedProvider {
	return &scriptedProvider{
		name:   name,
		events: make(chan domain.StreamEvent, 16),
	}
}

func (p *scriptedProvider) Name() string       { return p.name }
func (p *scriptedProvider) IsConfigured() bool { return true }

func (p *scriptedProvider) StreamChat(ctx context.Context, req llm.ChatRequest, emit llm.Emit) error {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	for ev := range p.events {
		emit(ev)
		if ev.Done {
			return nil
		}
	}
	return nil
}

func (p *scriptedProvider) lastRequest() llm.ChatRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

// recordingGate captures completion handoffs.
type recordingGate struct {
	mu          sync.Mutex
	completions []gateCompletion
}

type gateCompletion struct {
	sessionID string
	content   string
}

func (g *recordingGate) HandleCompletion(ctx context.Context, sessionID, content string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.completions = append(g.completions, gateCompletion{sessionID: sessionID, content: content})
}

func (g *recordingGate) all() []gateCompletion {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gateCompletion(nil), g.completions...)
}
