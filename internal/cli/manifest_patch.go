package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/paths"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// newManifestPatchCommand creates the "manifest-patch" subcommand that adds build and dev scripts to package.json.
func newManifestPatchCommand(opts *Options, d deps) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "manifest-patch",
		Short: "Add the combined build and dev scripts to package.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if filepath.IsAbs(path) {
				return fmt.Errorf("--path must be relative to the workspace root, got %q", path)
			}
			return runPlan(cmd, opts, d, plan.ManifestPatch(filepath.Clean(path)))
		},
	}

	cmd.Flags().StringVar(&path, "path", paths.Suffix(paths.Manifest), "Manifest path relative to --root")

	return cmd
}
