package gcloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coderemote-io/coderemote/internal/execx"
)

// API is the slice of the control plane the readiness controller needs.
type API interface {
	Describe(ctx context.Context, inst Instance) State
	Start(ctx context.Context, inst Instance) error
}

// Client issues instance power operations through the gcloud CLI.
type Client struct {
	runner  execx.Runner
	timeout time.Duration
}

// NewClient returns a Client. timeout bounds each describe call; start is
// left unbounded because the provider acknowledges it asynchronously.
func NewClient(runner execx.Runner, timeout time.Duration) *Client {
	return &Client{runner: runner, timeout: timeout}
}

func (c *Client) scopeArgs(inst Instance) []string {
	args := []string{}
	if inst.ProjectID != "" {
		args = append(args, "--project="+inst.ProjectID)
	}
	if inst.Zone != "" {
		args = append(args, "--zone="+inst.Zone)
	}
	return args
}

// Describe queries the current instance state. Every call hits the provider
// afresh; states are never cached. Any failure folds into StateUnknown.
func (c *Client) Describe(ctx context.Context, inst Instance) State {
	args := append([]string{"compute", "instances", "describe", inst.Name},
		c.scopeArgs(inst)...)
	args = append(args, "--format=value(status)")

	res, err := c.runner.Run(ctx, c.timeout, "gcloud", args...)
	if err != nil || !res.Success {
		return StateUnknown
	}
	return ParseState(res.Stdout)
}

// Start powers the instance on. A start failure is fatal for the run, so it
// surfaces as an error rather than a state.
func (c *Client) Start(ctx context.Context, inst Instance) error {
	args := append([]string{"compute", "instances", "start"}, c.scopeArgs(inst)...)
	args = append(args, inst.Name)

	res, err := c.runner.Run(ctx, 0, "gcloud", args...)
	if err != nil {
		return fmt.Errorf("start instance %s: %w", inst.Name, err)
	}
	if !res.Success {
		return fmt.Errorf("start instance %s: %s", inst.Name, strings.TrimSpace(res.Stderr))
	}
	return nil
}
