// Package gitrepo ensures a git checkout exists at the remote project path
// and reports its condition.
package gitrepo

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/coderemote-io/coderemote/internal/remote"
)

// Provisioner checks for and, when an origin template is configured, creates
// the checkout at one remote path. Provisioning gaps are deliberately
// non-fatal: an editor session on an empty directory beats no session.
type Provisioner struct {
	exec         remote.Executor
	path         string
	origin       string
	cloneTimeout time.Duration
	log          *slog.Logger
}

// NewProvisioner returns a Provisioner for the given full remote path.
// origin may be empty, which disables cloning.
func NewProvisioner(exec remote.Executor, fullPath, origin string, cloneTimeout time.Duration, log *slog.Logger) *Provisioner {
	return &Provisioner{
		exec:         exec,
		path:         fullPath,
		origin:       origin,
		cloneTimeout: cloneTimeout,
		log:          log,
	}
}

// repoName extracts the repository name from a project path, tolerating a
// trailing slash.
func repoName(project string) string {
	return path.Base(strings.TrimRight(project, "/"))
}

// CloneURL derives the checkout URL: the last segment of the project path
// appended to the origin template, with a separator inserted only when the
// template lacks a trailing one, and a .git suffix.
func CloneURL(origin, project string) string {
	name := repoName(project)
	if strings.HasSuffix(origin, "/") {
		return origin + name + ".git"
	}
	return origin + "/" + name + ".git"
}

// isCheckout reports whether the path exists and carries git metadata, in a
// single remote round-trip. Partial states (directory without metadata) are
// not ready.
func (p *Provisioner) isCheckout(ctx context.Context) bool {
	cmd := fmt.Sprintf("test -d '%s' && test -d '%s/.git'", p.path, p.path)
	return p.exec.Execute(ctx, cmd, 0).Success
}

// EnsureReady makes sure the remote path holds a checkout, cloning it when
// possible. Idempotent: an existing checkout costs one round-trip and no
// mutation. A missing origin template or a failed clone is absorbed with a
// log line; the session launch must not be blocked on a provisioning nicety.
func (p *Provisioner) EnsureReady(ctx context.Context) error {
	if p.isCheckout(ctx) {
		p.log.Info("remote checkout already present", "path", p.path)
		return nil
	}
	p.log.Info("remote path missing or not a checkout", "path", p.path)

	if p.origin == "" {
		p.log.Info("no clone origin configured, the editor will create the directory if needed")
		return nil
	}

	url := CloneURL(p.origin, p.path)
	parent := path.Dir(strings.TrimRight(p.path, "/"))
	p.log.Info("cloning repository", "url", url, "path", p.path)

	if res := p.exec.Execute(ctx, fmt.Sprintf("mkdir -p '%s'", parent), 0); !res.Success {
		p.log.Warn("could not create parent directory", "dir", parent,
			"stderr", strings.TrimSpace(res.Stderr))
	}

	clone := fmt.Sprintf("cd '%s' && git clone %s '%s'", parent, url, repoName(p.path))
	if res := p.exec.Execute(ctx, clone, p.cloneTimeout); !res.Success {
		p.log.Warn("clone failed, continuing without checkout",
			"url", url, "stderr", strings.TrimSpace(res.Stderr))
		return nil
	}

	p.log.Info("cloned repository", "path", p.path)
	return nil
}
