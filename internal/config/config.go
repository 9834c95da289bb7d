// Package config contains the loader and typed model for milkmilk.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshua-mo-143/milkmilk/internal/env"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

const (
	// DefaultPath is the config file looked up when no path is given.
	DefaultPath = "milkmilk.yaml"
	// DefaultTimeout bounds every external tool invocation.
	DefaultTimeout = 10 * time.Minute
)

// Config is the optional project-level configuration for milkmilk.
type Config struct {
	// LogLevel is the default log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel,omitempty" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	// Timeout is the per-command timeout as a Go duration ("10m"); "0" disables it.
	Timeout string `yaml:"timeout,omitempty"`
	// EnvFiles lists .env files merged into the environment of external tools.
	// Relative paths resolve against the config file directory.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// Commands overrides command templates by name (e.g. "frontend-deps": "pnpm add zustand").
	Commands map[string]string `yaml:"commands,omitempty"`

	// Dir is the directory the config was loaded from.
	Dir string `yaml:"-"`
	// Found reports whether the config file existed.
	Found bool `yaml:"-"`
}

// Load reads and validates the config at path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := &Config{Dir: filepath.Dir(absPath)}

	raw, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %q: %w", absPath, err)
	}
	cfg.Found = true

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %q: %w", absPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", absPath, err)
	}
	return cfg, nil
}

// Validate checks the timeout and command overrides.
func (c *Config) Validate() error {
	if _, err := ParseTimeout(c.Timeout); err != nil {
		return err
	}
	if _, err := c.CommandTable(); err != nil {
		return err
	}
	return nil
}

// CommandTable returns the built-in command table with the configured overrides applied.
func (c *Config) CommandTable() (*plan.Commands, error) {
	if c == nil || len(c.Commands) == 0 {
		return plan.DefaultCommands(), nil
	}
	return plan.DefaultCommands().WithOverrides(c.Commands)
}

// LoadEnvFiles loads the configured env files in order.
func (c *Config) LoadEnvFiles() (env.Vars, error) {
	if c == nil {
		return nil, nil
	}
	return env.LoadEnvFiles(c.Dir, c.EnvFiles)
}

// ParseTimeout parses a timeout value. Empty means DefaultTimeout and zero disables the bound.
func ParseTimeout(value string) (time.Duration, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", value)
	}
	return d, nil
}
