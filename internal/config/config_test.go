package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-mo-143/milkmilk/internal/env"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, DefaultPath))
	require.NoError(t, err)

	assert.False(t, cfg.Found)
	assert.Equal(t, dir, cfg.Dir)

	cmds, err := cfg.CommandTable()
	require.NoError(t, err)
	line, err := cmds.Render(plan.CargoInit, plan.Params{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "cargo init --bin demo", line)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.True(t, cfg.Found)
	assert.Empty(t, cfg.Commands)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
timeout: 90s
envFiles:
  - .env.tools
commands:
  frontend-deps: pnpm add zustand
  cargo-init: cargo init --bin --vcs none {{.Name}}
`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env.tools"), []byte("CARGO_TERM_COLOR=never\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "90s", cfg.Timeout)

	cmds, err := cfg.CommandTable()
	require.NoError(t, err)
	line, err := cmds.Render(plan.CargoInit, plan.Params{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, "cargo init --bin --vcs none demo", line)
	line, err = cmds.Render(plan.FrontendDeps, plan.Params{})
	require.NoError(t, err)
	assert.Equal(t, "pnpm add zustand", line)

	vars, err := cfg.LoadEnvFiles()
	require.NoError(t, err)
	assert.Equal(t, env.Vars{"CARGO_TERM_COLOR": "never"}, vars)
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":     "logLevel: info\nshuttle: true\n",
		"unknown command": "commands:\n  yarn-install: yarn\n",
		"empty command":   "commands:\n  cargo-init: \"  \"\n",
		"bad template":    "commands:\n  cargo-init: cargo init {{.Name\n",
		"bad timeout":     "timeout: soon\n",
		"negative":        "timeout: -1m\n",
		"not yaml":        "commands: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load(" ")
	assert.Error(t, err)
}

func TestParseTimeout(t *testing.T) {
	d, err := ParseTimeout("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, d)

	d, err = ParseTimeout("0")
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = ParseTimeout(" 2m30s ")
	require.NoError(t, err)
	assert.Equal(t, 150*time.Second, d)
}
