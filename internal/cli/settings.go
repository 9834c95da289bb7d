package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/config"
)

// resolveSetting chooses the effective value of a setting.
// An explicitly set flag wins, then the environment, then the config file.
func resolveSetting(cmd *cobra.Command, flag, flagValue, envValue, fileValue, def string) string {
	if cmd != nil && cmd.Flags().Changed(flag) {
		if v := strings.TrimSpace(flagValue); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(envValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(fileValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	return def
}

// resolveTimeout chooses the effective per-command timeout.
func resolveTimeout(cmd *cobra.Command, opts *Options) (time.Duration, error) {
	var fileValue string
	if opts.config != nil {
		fileValue = opts.config.Timeout
	}
	return config.ParseTimeout(resolveSetting(cmd, "timeout", opts.Timeout, opts.environ.Timeout, fileValue, ""))
}
