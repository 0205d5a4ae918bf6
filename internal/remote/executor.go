// Package remote executes commands on an instance over the gcloud SSH
// channel.
package remote

import (
	"context"
	"time"

	"github.com/coderemote-io/coderemote/internal/execx"
	"github.com/coderemote-io/coderemote/internal/gcloud"
)

// CommandResult is the uniform outcome of one remote invocation. Callers
// treat Success as the only signal; Stderr carries the diagnostic when it
// is false.
type CommandResult struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Executor runs single commands on one remote instance. No retries happen
// at this layer; retry policy belongs to the caller.
type Executor interface {
	// Execute runs command remotely. timeout <= 0 means the executor's
	// default. Failures of any kind, transport errors and timeouts
	// included, are folded into the result rather than returned.
	Execute(ctx context.Context, command string, timeout time.Duration) CommandResult
	// Reachable reports whether the instance accepts remote commands.
	Reachable(ctx context.Context) bool
}

// SSH is the gcloud-backed Executor, bound to one instance for the run.
type SSH struct {
	runner   execx.Runner
	instance gcloud.Instance
	forward  bool
	timeout  time.Duration
}

// NewSSH returns an Executor for inst. When forward is set, every command
// carries the local agent along (ssh -A).
func NewSSH(runner execx.Runner, inst gcloud.Instance, forward bool, timeout time.Duration) *SSH {
	return &SSH{runner: runner, instance: inst, forward: forward, timeout: timeout}
}

func (s *SSH) Execute(ctx context.Context, command string, timeout time.Duration) CommandResult {
	if timeout <= 0 {
		timeout = s.timeout
	}

	args := []string{"compute", "ssh", s.instance.Name}
	if s.instance.ProjectID != "" {
		args = append(args, "--project="+s.instance.ProjectID)
	}
	if s.instance.Zone != "" {
		args = append(args, "--zone="+s.instance.Zone)
	}
	if s.forward {
		args = append(args, "--ssh-flag=-A")
	}
	args = append(args, "--command="+command)

	res, err := s.runner.Run(ctx, timeout, "gcloud", args...)
	if err != nil {
		return CommandResult{Stderr: err.Error()}
	}
	return CommandResult{Success: res.Success, Stdout: res.Stdout, Stderr: res.Stderr}
}

// Reachable runs a no-op echo and checks it came back clean.
func (s *SSH) Reachable(ctx context.Context) bool {
	return s.Execute(ctx, "echo ok", 0).Success
}

// TestForwarding lists the agent identities visible on the instance. An
// empty or failing listing means forwarding is not working for the session.
func (s *SSH) TestForwarding(ctx context.Context) CommandResult {
	return s.Execute(ctx, "ssh-add -l", 0)
}
