// Package vscode launches a local VS Code window attached to a remote path
// over the Remote-SSH transport.
package vscode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/coderemote-io/coderemote/internal/execx"
)

const (
	scheme    = "vscode-remote"
	transport = "ssh-remote"
)

// FolderURI builds the remote-access URI the editor consumes.
func FolderURI(instance, fullPath string) string {
	if !strings.HasPrefix(fullPath, "/") {
		fullPath = "/" + fullPath
	}
	return fmt.Sprintf("%s://%s+%s%s", scheme, transport, instance, fullPath)
}

// Launcher issues the single external editor invocation.
type Launcher struct {
	runner  execx.Runner
	forward bool
	out     io.Writer
	log     *slog.Logger
}

// NewLauncher returns a Launcher. The forwarding instructions on success go
// to out.
func NewLauncher(runner execx.Runner, forward bool, out io.Writer, log *slog.Logger) *Launcher {
	return &Launcher{runner: runner, forward: forward, out: out, log: log}
}

// Launch opens the editor on the remote folder. One invocation, no retry;
// a failure here is fatal for the run.
func (l *Launcher) Launch(ctx context.Context, instance, fullPath string) error {
	uri := FolderURI(instance, fullPath)
	l.log.Info("launching editor", "uri", uri)

	res, err := l.runner.Run(ctx, 0, "code", "--folder-uri", uri)
	if err != nil {
		return fmt.Errorf("launch editor: %w", err)
	}
	if !res.Success {
		return fmt.Errorf("launch editor: %s", strings.TrimSpace(res.Stderr))
	}

	if l.forward {
		fmt.Fprint(l.out, forwardingInstructions)
	}
	return nil
}

const forwardingInstructions = `
SSH agent forwarding is enabled for this session.
To verify it inside the editor:
  1. Open a terminal in the remote window
  2. Run: ssh-add -l
  3. Your local identities should be listed
If none are listed, reload the remote window and check that your local
agent is running (ssh-add -l locally).
`
