package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// newDockerfileCommand creates the "dockerfile" subcommand that writes the backend Dockerfile.
func newDockerfileCommand(opts *Options, d deps) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "dockerfile",
		Short: "Write the backend Dockerfile, replacing any existing one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filepath.IsAbs(dir) {
				return fmt.Errorf("--dir must be relative to the workspace root, got %q", dir)
			}
			return runPlan(cmd, opts, d, plan.Dockerfile(dir))
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory, relative to --root, to write the Dockerfile into")

	return cmd
}
