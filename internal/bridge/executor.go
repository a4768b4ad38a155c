package bridge

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Executor is the external command-execution collaborator. The command text
// is passed through opaquely; implementations decide how to run it.
type Executor interface {
	Execute(ctx context.Context, command string) (string, error)
}

// ShellExecutor runs commands through the shell with a bounded runtime.
type ShellExecutor struct {
	shell   string
	timeout time.Duration
}

// NewShellExecutor creates an executor using /bin/sh -c. A non-positive
// timeout leaves the caller's context in charge.
func NewShellExecutor(timeout time.Duration) *ShellExecutor {
	return &ShellExecutor{shell: "/bin/sh", timeout: timeout}
}

// Execute runs the command and returns its combined output.
func (e *ShellExecutor) Execute(ctx context.Context, command string) (string, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.shell, "-c", command)
	out, err := cmd.CombinedOutput()
	output := strings.TrimRight(string(out), "\n")
	if err != nil {
		if output != "" {
			return "", fmt.Errorf("%s: %w", output, err)
		}
		return "", fmt.Errorf("command failed: %w", err)
	}
	return output, nil
}
