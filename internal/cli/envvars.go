package cli

import (
	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from MILKMILK_* env vars.
type baseEnv struct {
	// ConfigPath is the milkmilk.yaml path from MILKMILK_CONFIG.
	ConfigPath string `env:"MILKMILK_CONFIG"`
	// Root is the workspace directory from MILKMILK_ROOT.
	Root string `env:"MILKMILK_ROOT"`
	// LogLevel is the logging level from MILKMILK_LOG_LEVEL.
	LogLevel string `env:"MILKMILK_LOG_LEVEL"`
	// Timeout is the external tool timeout from MILKMILK_TIMEOUT.
	Timeout string `env:"MILKMILK_TIMEOUT"`
	// ProjectName skips the name prompt when set via MILKMILK_PROJECT_NAME.
	ProjectName string `env:"MILKMILK_PROJECT_NAME"`
	// GitHubOutput is the step output file set by GitHub Actions.
	GitHubOutput string `env:"GITHUB_OUTPUT"`
}

// loadBaseEnv fills baseEnv from the process environment via caarlos0/env.
func loadBaseEnv() (baseEnv, error) {
	var out baseEnv
	if err := parseEnv(&out); err != nil {
		return baseEnv{}, err
	}
	return out, nil
}

// parseEnv fills target from MILKMILK_* env vars via caarlos0/env.
func parseEnv(target interface{}) error {
	return envparse.Parse(target)
}
