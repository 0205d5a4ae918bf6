package gitrepo

import (
	"context"
	"fmt"
	"strings"
)

// Status is a point-in-time snapshot of the remote checkout. Computed fresh
// on every query, never mutated in place.
type Status struct {
	Path       string
	Exists     bool
	IsCheckout bool
	Dirty      bool
	Branch     string
	RemoteURL  string
}

// Status probes the remote path with up to five round-trips: existence,
// metadata marker, branch, dirty tree, origin URL. An early negative
// short-circuits the rest, leaving later fields zero-valued.
func (p *Provisioner) Status(ctx context.Context) Status {
	st := Status{Path: p.path}

	if !p.exec.Execute(ctx, fmt.Sprintf("test -d '%s'", p.path), 0).Success {
		return st
	}
	st.Exists = true

	if !p.exec.Execute(ctx, fmt.Sprintf("test -d '%s/.git'", p.path), 0).Success {
		return st
	}
	st.IsCheckout = true

	if res := p.exec.Execute(ctx, p.gitCmd("git branch --show-current"), 0); res.Success {
		st.Branch = strings.TrimSpace(res.Stdout)
	}
	if res := p.exec.Execute(ctx, p.gitCmd("git status --porcelain"), 0); res.Success {
		st.Dirty = strings.TrimSpace(res.Stdout) != ""
	}
	if res := p.exec.Execute(ctx, p.gitCmd("git remote get-url origin"), 0); res.Success {
		st.RemoteURL = strings.TrimSpace(res.Stdout)
	}
	return st
}

func (p *Provisioner) gitCmd(sub string) string {
	return fmt.Sprintf("cd '%s' && %s", p.path, sub)
}
