package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coderemote-io/coderemote/internal/execx"
	"github.com/coderemote-io/coderemote/internal/logging"
	"github.com/coderemote-io/coderemote/internal/orchestrator"
)

var statusCmd = &cobra.Command{
	Use:   "status <project_folder> [instance]",
	Short: "Report the state of the remote checkout",
	Long: `Queries the instance for the project path's condition: whether it
exists, whether it is a git checkout, the current branch, dirty state and
origin URL. Read-only; nothing is started or cloned.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(cfg.LogLevel)

	orch := orchestrator.New(cfg, args[0], instanceArg(args), execx.NewLocal(), cmd.OutOrStdout())
	st := orch.RepositoryStatus(cmd.Context())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Path:       %s\n", st.Path)
	fmt.Fprintf(out, "Exists:     %v\n", st.Exists)
	fmt.Fprintf(out, "Checkout:   %v\n", st.IsCheckout)
	if st.IsCheckout {
		fmt.Fprintf(out, "Branch:     %s\n", st.Branch)
		fmt.Fprintf(out, "Dirty:      %v\n", st.Dirty)
		fmt.Fprintf(out, "Origin URL: %s\n", st.RemoteURL)
	}
	return nil
}
