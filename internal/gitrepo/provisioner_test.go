package gitrepo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coderemote-io/coderemote/internal/logging"
	"github.com/coderemote-io/coderemote/internal/remote"
)

// fakeExecutor scripts remote command results by substring match, recording
// every command it sees.
type fakeExecutor struct {
	commands []string
	results  map[string]remote.CommandResult
}

func (f *fakeExecutor) Execute(ctx context.Context, command string, timeout time.Duration) remote.CommandResult {
	f.commands = append(f.commands, command)
	for sub, res := range f.results {
		if strings.Contains(command, sub) {
			return res
		}
	}
	return remote.CommandResult{Success: true}
}

func (f *fakeExecutor) Reachable(ctx context.Context) bool {
	return true
}

func (f *fakeExecutor) cloneCount() int {
	n := 0
	for _, c := range f.commands {
		if strings.Contains(c, "git clone") {
			n++
		}
	}
	return n
}

func newProvisioner(exec remote.Executor, path, origin string) *Provisioner {
	return NewProvisioner(exec, path, origin, time.Minute, logging.Logger())
}

func TestCloneURL(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		project  string
		expected string
	}{
		{"no trailing slash", "git@host:org", "foo/", "git@host:org/foo.git"},
		{"trailing slash", "git@host:org/", "foo", "git@host:org/foo.git"},
		{"nested project path", "git@github.com:acme", "/data/x/team/bar", "git@github.com:acme/bar.git"},
		{"https origin", "https://github.com/acme", "foo", "https://github.com/acme/foo.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CloneURL(tt.origin, tt.project))
		})
	}
}

func TestEnsureReady_ExistingCheckoutIsNoOp(t *testing.T) {
	exec := &fakeExecutor{}
	p := newProvisioner(exec, "/data/x/proj", "git@host:org")

	require.NoError(t, p.EnsureReady(context.Background()))
	require.NoError(t, p.EnsureReady(context.Background()))

	// Two calls, one readiness round-trip each, zero clones.
	assert.Len(t, exec.commands, 2)
	assert.Equal(t, 0, exec.cloneCount())
}

func TestEnsureReady_NoOriginNoMutation(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"test -d": {Success: false},
	}}
	p := newProvisioner(exec, "/data/x/proj", "")

	err := p.EnsureReady(context.Background())

	assert.NoError(t, err)
	assert.Len(t, exec.commands, 1)
	for _, c := range exec.commands {
		assert.NotContains(t, c, "mkdir")
		assert.NotContains(t, c, "git clone")
	}
}

func TestEnsureReady_ClonesWhenMissing(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"test -d": {Success: false},
	}}
	p := newProvisioner(exec, "/data/x/proj", "git@host:org")

	err := p.EnsureReady(context.Background())

	assert.NoError(t, err)
	require.Equal(t, 1, exec.cloneCount())
	last := exec.commands[len(exec.commands)-1]
	assert.Contains(t, last, "cd '/data/x'")
	assert.Contains(t, last, "git clone git@host:org/proj.git 'proj'")
}

func TestEnsureReady_MkdirFailureStillClones(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"test -d": {Success: false},
		"mkdir":   {Success: false, Stderr: "permission denied"},
	}}
	p := newProvisioner(exec, "/data/x/proj", "git@host:org")

	err := p.EnsureReady(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, exec.cloneCount())
}

func TestEnsureReady_CloneFailureNonFatal(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"test -d":   {Success: false},
		"git clone": {Success: false, Stderr: "repository not found"},
	}}
	p := newProvisioner(exec, "/data/x/proj", "git@host:org")

	err := p.EnsureReady(context.Background())

	assert.NoError(t, err)
}

func TestStatus_MissingPathShortCircuits(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"test -d": {Success: false},
	}}
	p := newProvisioner(exec, "/data/x/proj", "")

	st := p.Status(context.Background())

	assert.Equal(t, "/data/x/proj", st.Path)
	assert.False(t, st.Exists)
	assert.False(t, st.IsCheckout)
	assert.Empty(t, st.Branch)
	assert.Len(t, exec.commands, 1)
}

func TestStatus_PlainDirectoryIsNotCheckout(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		".git": {Success: false},
	}}
	p := newProvisioner(exec, "/data/x/proj", "")

	st := p.Status(context.Background())

	assert.True(t, st.Exists)
	assert.False(t, st.IsCheckout)
	assert.Len(t, exec.commands, 2)
}

func TestStatus_FullCheckout(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"branch --show-current": {Success: true, Stdout: "main\n"},
		"status --porcelain":    {Success: true, Stdout: " M provisioner.go\n"},
		"remote get-url origin": {Success: true, Stdout: "git@host:org/proj.git\n"},
	}}
	p := newProvisioner(exec, "/data/x/proj", "")

	st := p.Status(context.Background())

	assert.True(t, st.Exists)
	assert.True(t, st.IsCheckout)
	assert.Equal(t, "main", st.Branch)
	assert.True(t, st.Dirty)
	assert.Equal(t, "git@host:org/proj.git", st.RemoteURL)
	assert.Len(t, exec.commands, 5)
}

func TestStatus_CleanTree(t *testing.T) {
	exec := &fakeExecutor{results: map[string]remote.CommandResult{
		"status --porcelain": {Success: true, Stdout: "\n"},
	}}
	p := newProvisioner(exec, "/data/x/proj", "")

	st := p.Status(context.Background())

	assert.True(t, st.IsCheckout)
	assert.False(t, st.Dirty)
}
