package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrToolingMissing indicates a required external CLI is not installed.
var ErrToolingMissing = errors.New("required command not installed")

// Result captures the outcome of one local process invocation.
// Success is true only for a clean zero exit.
type Result struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Runner runs a local command to completion and captures its output.
// A non-zero exit is not an error; it is reported through Result.Success.
// Errors are reserved for invocation problems: missing tooling, timeout,
// context cancellation.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error)
}

// Local is the os/exec-backed Runner.
type Local struct{}

// NewLocal returns a Runner that spawns real processes.
func NewLocal() *Local {
	return &Local{}
}

func (*Local) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	switch {
	case err == nil:
		res.Success = true
		return res, nil
	case errors.Is(err, exec.ErrNotFound):
		return res, fmt.Errorf("%w: %s", ErrToolingMissing, name)
	case ctx.Err() != nil:
		return res, fmt.Errorf("%s: %w", name, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, nil
	}
	return res, fmt.Errorf("run %s: %w", name, err)
}
