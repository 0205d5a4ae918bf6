package gcloud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coderemote-io/coderemote/internal/poll"
)

// Prober reports whether the remote command channel accepts connections.
// The provider can report RUNNING before sshd is up, so readiness requires
// both signals.
type Prober interface {
	Reachable(ctx context.Context) bool
}

// Controller drives an instance to the running-and-reachable state.
type Controller struct {
	api      API
	prober   Prober
	interval time.Duration
	ceiling  time.Duration
	log      *slog.Logger
}

func NewController(api API, prober Prober, interval, ceiling time.Duration, log *slog.Logger) *Controller {
	return &Controller{
		api:      api,
		prober:   prober,
		interval: interval,
		ceiling:  ceiling,
		log:      log,
	}
}

// EnsureRunning blocks until the instance is powered on and reachable, or
// the readiness budget elapses.
//
// A start command is issued exactly when the freshly queried state is not
// RUNNING; STOPPED, TERMINATED and UNKNOWN are all treated as startable.
// After that (or when already RUNNING) the bounded poll re-queries state and
// probes reachability until both hold.
func (c *Controller) EnsureRunning(ctx context.Context, inst Instance) error {
	state := c.api.Describe(ctx, inst)
	c.log.Info("instance state", "state", state)

	if state != StateRunning {
		c.log.Info("starting instance")
		if err := c.api.Start(ctx, inst); err != nil {
			return err
		}
	}

	err := poll.Until(ctx, c.interval, c.ceiling, func(ctx context.Context) bool {
		if s := c.api.Describe(ctx, inst); s != StateRunning {
			c.log.Debug("waiting for instance", "state", s)
			return false
		}
		if !c.prober.Reachable(ctx) {
			c.log.Debug("instance running, command channel not up yet")
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("instance %s not ready: %w", inst.Name, err)
	}

	c.log.Info("instance is running and reachable")
	return nil
}
