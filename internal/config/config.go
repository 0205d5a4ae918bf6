// Package config defines the run configuration handed to the orchestrator.
// Defaults live here and are applied by the CLI layer; the core packages
// never reach for process-wide settings.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries everything one orchestration run needs. It is built once
// by the CLI and treated as immutable afterwards.
type Config struct {
	// ProjectID is the cloud project scope. Empty means the gcloud CLI's
	// own configured default project.
	ProjectID string
	// Zone the instance lives in.
	Zone string
	// RemoteHome is prepended to relative project paths on the instance.
	RemoteHome string
	// RepoOrigin is the clone-origin template, e.g. "git@github.com:acme".
	// Empty disables clone URL derivation.
	RepoOrigin string
	// ForwardAgent propagates the local SSH agent to the remote session.
	ForwardAgent bool
	// AutoClone enables the repository provisioning stage.
	AutoClone bool

	// CommandTimeout bounds routine remote commands and describe calls.
	CommandTimeout time.Duration
	// CloneTimeout bounds the clone command, which is transfer-bound.
	CloneTimeout time.Duration
	// PollInterval is the delay between readiness probes.
	PollInterval time.Duration
	// ReadyTimeout is the wall-clock budget for the readiness loop.
	ReadyTimeout time.Duration

	LogLevel string
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Zone:           "us-central1-a",
		ForwardAgent:   true,
		AutoClone:      true,
		CommandTimeout: 10 * time.Second,
		CloneTimeout:   60 * time.Second,
		PollInterval:   10 * time.Second,
		ReadyTimeout:   120 * time.Second,
		LogLevel:       "info",
	}
}

// fileConfig mirrors Config with optional fields so an absent key leaves
// the default untouched.
type fileConfig struct {
	ProjectID      *string `yaml:"project_id"`
	Zone           *string `yaml:"zone"`
	RemoteHome     *string `yaml:"remote_home"`
	RepoOrigin     *string `yaml:"repo_origin"`
	ForwardAgent   *bool   `yaml:"forward_agent"`
	AutoClone      *bool   `yaml:"auto_clone"`
	CommandTimeout *string `yaml:"command_timeout"`
	CloneTimeout   *string `yaml:"clone_timeout"`
	PollInterval   *string `yaml:"poll_interval"`
	ReadyTimeout   *string `yaml:"ready_timeout"`
	LogLevel       *string `yaml:"log_level"`
}

func parseDuration(path, key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse config %s: %s: %w", path, key, err)
	}
	return d, nil
}

// LoadFile overlays the YAML defaults file at path onto cfg. A missing file
// is not an error; a malformed one is.
func LoadFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.ProjectID != nil {
		cfg.ProjectID = *fc.ProjectID
	}
	if fc.Zone != nil {
		cfg.Zone = *fc.Zone
	}
	if fc.RemoteHome != nil {
		cfg.RemoteHome = *fc.RemoteHome
	}
	if fc.RepoOrigin != nil {
		cfg.RepoOrigin = *fc.RepoOrigin
	}
	if fc.ForwardAgent != nil {
		cfg.ForwardAgent = *fc.ForwardAgent
	}
	if fc.AutoClone != nil {
		cfg.AutoClone = *fc.AutoClone
	}
	if fc.CommandTimeout != nil {
		if cfg.CommandTimeout, err = parseDuration(path, "command_timeout", *fc.CommandTimeout); err != nil {
			return cfg, err
		}
	}
	if fc.CloneTimeout != nil {
		if cfg.CloneTimeout, err = parseDuration(path, "clone_timeout", *fc.CloneTimeout); err != nil {
			return cfg, err
		}
	}
	if fc.PollInterval != nil {
		if cfg.PollInterval, err = parseDuration(path, "poll_interval", *fc.PollInterval); err != nil {
			return cfg, err
		}
	}
	if fc.ReadyTimeout != nil {
		if cfg.ReadyTimeout, err = parseDuration(path, "ready_timeout", *fc.ReadyTimeout); err != nil {
			return cfg, err
		}
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	return cfg, nil
}

// DefaultFilePath is where the optional defaults file is looked up when no
// --config flag is given.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.coderemote.yaml"
}
