package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/swarmchat/swarmchat/internal/domain"
)

// State is the gate's position in a single assistant message's lifecycle.
type State int

const (
	StateIdle State = iota
	StatePendingApproval
	StateExecuting
)

// Transcript is the slice of the store the gate writes through. Both
// methods are session-scoped: the gate captured its target session when the
// stream started and must not follow the current-session pointer.
type Transcript interface {
	AddMessageTo(sessionID string, msg domain.Message)
	AppendToMessageIn(sessionID, chunk string)
}

// Gate inspects finalized assistant messages for command directives and
// either executes them through the external collaborator or queues them for
// approval. Execution results are appended to the triggering message; the
// gate never retries and never surfaces an error to the caller.
type Gate struct {
	transcript Transcript
	exec       Executor
	approvals  ApprovalSource
	screen     *Screen
	log        zerolog.Logger

	mu      sync.Mutex
	state   State
	pending pendingCommand
}

type pendingCommand struct {
	sessionID string
	command   string
}

// NewGate wires the gate to its collaborators. The screen may be nil to
// disable destructive-command checks.
func NewGate(transcript Transcript, exec Executor, approvals ApprovalSource, screen *Screen) *Gate {
	return &Gate{
		transcript: transcript,
		exec:       exec,
		approvals:  approvals,
		screen:     screen,
		log:        log.With().Str("component", "bridge").Logger(),
	}
}

// State returns the gate's current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// HandleCompletion scans a finalized assistant message for a directive and
// drives the gate. Messages without a directive leave the gate idle.
func (g *Gate) HandleCompletion(ctx context.Context, sessionID, content string) {
	command, ok := FirstCommand(content)
	if !ok {
		return
	}

	approval := g.approvals.ApprovalState()
	forced := g.screen != nil && g.screen.Dangerous(command)

	if !approval.AutoApprove || forced {
		g.mu.Lock()
		g.state = StatePendingApproval
		g.pending = pendingCommand{sessionID: sessionID, command: command}
		g.mu.Unlock()

		note := fmt.Sprintf("Command queued, waiting for approval: `%s`", command)
		if forced {
			note = fmt.Sprintf("Command flagged as dangerous, manual approval required: `%s`", command)
		}
		g.transcript.AddMessageTo(sessionID, domain.Message{
			Role:    domain.RoleSystem,
			Content: note,
		})
		g.log.Info().Str("session_id", sessionID).Bool("forced", forced).Msg("command queued for approval")
		return
	}

	g.run(ctx, sessionID, command)
}

// Approve executes the pending command, if any.
func (g *Gate) Approve(ctx context.Context) {
	g.mu.Lock()
	if g.state != StatePendingApproval {
		g.mu.Unlock()
		return
	}
	p := g.pending
	g.pending = pendingCommand{}
	g.state = StateIdle
	g.mu.Unlock()

	g.run(ctx, p.sessionID, p.command)
}

// Deny discards the pending command and returns the gate to idle.
func (g *Gate) Deny() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePendingApproval {
		return
	}
	p := g.pending
	g.pending = pendingCommand{}
	g.state = StateIdle

	g.transcript.AddMessageTo(p.sessionID, domain.Message{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf("Command denied: `%s`", p.command),
	})
}

func (g *Gate) run(ctx context.Context, sessionID, command string) {
	g.mu.Lock()
	g.state = StateExecuting
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		g.state = StateIdle
		g.mu.Unlock()
	}()

	g.transcript.AddMessageTo(sessionID, domain.Message{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf("Executing command: `%s`", command),
	})

	output, err := g.exec.Execute(ctx, command)
	if err != nil {
		g.log.Warn().Err(err).Str("session_id", sessionID).Msg("command execution failed")
		g.transcript.AppendToMessageIn(sessionID, fmt.Sprintf("\n\n```error\n%s\n```", err))
		return
	}
	g.transcript.AppendToMessageIn(sessionID, fmt.Sprintf("\n\n```\n%s\n```", output))
}
