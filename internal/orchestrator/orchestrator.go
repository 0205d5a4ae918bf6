// Package orchestrator composes the instance, repository and editor stages
// into one idempotent end-to-end run.
package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/coderemote-io/coderemote/internal/config"
	"github.com/coderemote-io/coderemote/internal/execx"
	"github.com/coderemote-io/coderemote/internal/gcloud"
	"github.com/coderemote-io/coderemote/internal/gitrepo"
	"github.com/coderemote-io/coderemote/internal/logging"
	"github.com/coderemote-io/coderemote/internal/remote"
	"github.com/coderemote-io/coderemote/internal/vscode"
)

// Orchestrator owns one run against one instance and one project path.
// Stages run strictly in sequence; no stage starts before its predecessor
// succeeds.
type Orchestrator struct {
	cfg      config.Config
	instance gcloud.Instance
	fullPath string

	controller  *gcloud.Controller
	provisioner *gitrepo.Provisioner
	launcher    *vscode.Launcher
	exec        *remote.SSH
	log         *slog.Logger
}

// New wires a run from its configuration. project is the positional project
// folder; everything remote-facing goes through runner, and user-facing
// output (forwarding instructions, status) through out.
func New(cfg config.Config, project, instanceName string, runner execx.Runner, out io.Writer) *Orchestrator {
	inst := gcloud.Instance{Name: instanceName, ProjectID: cfg.ProjectID, Zone: cfg.Zone}
	fullPath := remote.FullPath(cfg.RemoteHome, project)
	log := logging.With("run_id", uuid.NewString(), "instance", inst.Name)

	ssh := remote.NewSSH(runner, inst, cfg.ForwardAgent, cfg.CommandTimeout)
	client := gcloud.NewClient(runner, cfg.CommandTimeout)

	return &Orchestrator{
		cfg:         cfg,
		instance:    inst,
		fullPath:    fullPath,
		controller:  gcloud.NewController(client, ssh, cfg.PollInterval, cfg.ReadyTimeout, log),
		provisioner: gitrepo.NewProvisioner(ssh, fullPath, cfg.RepoOrigin, cfg.CloneTimeout, log),
		launcher:    vscode.NewLauncher(runner, cfg.ForwardAgent, out, log),
		exec:        ssh,
		log:         log,
	}
}

// FullPath returns the composed remote project path for this run.
func (o *Orchestrator) FullPath() string {
	return o.fullPath
}

// Run executes the whole workflow: ensure the instance is running and
// reachable, ensure the repository is present, launch the editor. The first
// fatal stage failure aborts the run.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("starting remote session",
		"path", o.fullPath, "auto_clone", o.cfg.AutoClone, "forward_agent", o.cfg.ForwardAgent)

	if err := o.controller.EnsureRunning(ctx, o.instance); err != nil {
		return fmt.Errorf("prepare instance: %w", err)
	}

	if o.cfg.AutoClone {
		if err := o.provisioner.EnsureReady(ctx); err != nil {
			return fmt.Errorf("prepare repository: %w", err)
		}
	} else {
		o.log.Info("auto-clone disabled, skipping repository setup")
	}

	// Best-effort: the editor creates the directory itself if missing.
	if res := o.exec.Execute(ctx, fmt.Sprintf("test -e '%s'", o.fullPath), 0); !res.Success {
		o.log.Warn("remote path does not exist yet", "path", o.fullPath)
	}

	if err := o.launcher.Launch(ctx, o.instance.Name, o.fullPath); err != nil {
		return fmt.Errorf("launch session: %w", err)
	}

	o.log.Info("remote development session launched")
	return nil
}

// RepositoryStatus reports the diagnostic snapshot of the remote checkout.
// Read-only; independent of provisioning.
func (o *Orchestrator) RepositoryStatus(ctx context.Context) gitrepo.Status {
	return o.provisioner.Status(ctx)
}

// TestForwarding verifies the local agent's identities are visible on the
// instance, without provisioning or launching anything.
func (o *Orchestrator) TestForwarding(ctx context.Context) error {
	if err := o.controller.EnsureRunning(ctx, o.instance); err != nil {
		return fmt.Errorf("prepare instance: %w", err)
	}
	res := o.exec.TestForwarding(ctx)
	if !res.Success {
		return fmt.Errorf("agent forwarding not working: %s", strings.TrimSpace(res.Stderr))
	}
	o.log.Info("agent forwarding verified", "identities", strings.TrimSpace(res.Stdout))
	return nil
}
