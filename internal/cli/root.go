package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/coderemote-io/coderemote/internal/config"
	"github.com/coderemote-io/coderemote/internal/execx"
	"github.com/coderemote-io/coderemote/internal/logging"
	"github.com/coderemote-io/coderemote/internal/orchestrator"
)

const defaultInstance = "default-instance"

var (
	flagConfigPath     string
	flagProjectID      string
	flagZone           string
	flagRemoteHome     string
	flagRepoOrigin     string
	flagNoForwarding   bool
	flagNoAutoClone    bool
	flagTestForwarding bool
	flagLogLevel       string
	flagPollInterval   time.Duration
	flagReadyTimeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "coderemote <project_folder> [instance]",
	Short: "Open VS Code on a Google Cloud instance",
	Long: `Coderemote boots a Google Cloud compute instance, makes sure your
project's git checkout is present on it, and opens a local VS Code window
on the remote path over SSH.

The instance name defaults to "default-instance". Relative project folders
are placed under --remote-home on the instance; absolute paths are used
as-is.`,
	Args:          cobra.RangeArgs(1, 2),
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagConfigPath, "config", "", "Path to a YAML defaults file (default ~/.coderemote.yaml)")
	f.StringVar(&flagProjectID, "project-id", "", "Google Cloud project ID (default: gcloud's configured project)")
	f.StringVar(&flagZone, "zone", "", "Google Cloud zone of the instance")
	f.StringVar(&flagRemoteHome, "remote-home", "", "Directory on the instance to prepend to relative project paths")
	f.StringVar(&flagRepoOrigin, "repo-origin", "", "Origin template for deriving clone URLs, e.g. git@github.com:acme")
	f.BoolVar(&flagNoForwarding, "no-ssh-forwarding", false, "Disable SSH agent forwarding")
	f.BoolVar(&flagNoAutoClone, "no-auto-clone", false, "Disable automatic repository cloning")
	f.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.DurationVar(&flagPollInterval, "poll-interval", 0, "Delay between readiness probes")
	f.DurationVar(&flagReadyTimeout, "ready-timeout", 0, "Wall-clock budget for instance readiness")

	rootCmd.Flags().BoolVar(&flagTestForwarding, "test-forwarding", false, "Only verify SSH agent forwarding, then exit")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildConfig layers flag values over the defaults file over the built-in
// defaults. Only flags the user actually set override the file.
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	filePath := flagConfigPath
	if filePath == "" {
		filePath = config.DefaultFilePath()
	}
	if filePath != "" {
		var err error
		cfg, err = config.LoadFile(cfg, filePath)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("project-id") {
		cfg.ProjectID = flagProjectID
	}
	if flags.Changed("zone") {
		cfg.Zone = flagZone
	}
	if flags.Changed("remote-home") {
		cfg.RemoteHome = flagRemoteHome
	}
	if flags.Changed("repo-origin") {
		cfg.RepoOrigin = flagRepoOrigin
	}
	if flags.Changed("no-ssh-forwarding") {
		cfg.ForwardAgent = !flagNoForwarding
	}
	if flags.Changed("no-auto-clone") {
		cfg.AutoClone = !flagNoAutoClone
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("poll-interval") {
		cfg.PollInterval = flagPollInterval
	}
	if flags.Changed("ready-timeout") {
		cfg.ReadyTimeout = flagReadyTimeout
	}
	return cfg, nil
}

func instanceArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return defaultInstance
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	project := args[0]
	instance := instanceArg(args)
	orch := orchestrator.New(cfg, project, instance, execx.NewLocal(), cmd.OutOrStdout())

	if flagTestForwarding {
		return orch.TestForwarding(cmd.Context())
	}

	printBanner(cmd, cfg, project, instance, orch.FullPath())
	return orch.Run(cmd.Context())
}

// printBanner writes the run header, skipped when stdout is not a terminal
// so piped output stays clean.
func printBanner(cmd *cobra.Command, cfg config.Config, project, instance, fullPath string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Remote VS Code session")
	fmt.Fprintf(out, "  Project:   %s\n", project)
	fmt.Fprintf(out, "  Instance:  %s\n", instance)
	fmt.Fprintf(out, "  Path:      %s\n", fullPath)
	if cfg.RepoOrigin != "" {
		fmt.Fprintf(out, "  Origin:    %s\n", cfg.RepoOrigin)
	}
}
