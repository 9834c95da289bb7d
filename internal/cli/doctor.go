package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

// optionalTools are only needed by the generated project's scripts, not by scaffolding.
var optionalTools = []string{"concurrently", "docker"}

// newDoctorCommand creates the "doctor" subcommand that checks the external tools are installed.
func newDoctorCommand(opts *Options, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external tools used for scaffolding are on PATH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			cmds, err := opts.config.CommandTable()
			if err != nil {
				return err
			}
			required, err := cmds.Programs()
			if err != nil {
				return err
			}

			if err := runDoctorChecks(logger, d.lookPath, required, optionalTools); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully")
			return nil
		},
	}

	return cmd
}

func runDoctorChecks(logger *slog.Logger, lookPath func(string) (string, error), required, optional []string) error {
	if logger == nil {
		logger = slog.Default()
	}

	missing := make([]string, 0, len(required))
	for _, tool := range required {
		path, err := lookPath(tool)
		if err != nil {
			logger.Error("doctor check failed: missing required tool", "tool", tool, "error", err)
			missing = append(missing, tool)
			continue
		}
		logger.Info("doctor check ok", "tool", tool, "path", path)
	}

	for _, tool := range optional {
		if _, err := lookPath(tool); err != nil {
			logger.Warn("optional tool not found; generated project scripts may not run", "tool", tool)
			continue
		}
		logger.Info("doctor check ok", "tool", tool)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools missing from PATH: %s", strings.Join(missing, ", "))
	}

	return nil
}
