// Package env loads and merges the environment passed to scaffolding subprocesses.
//
// External tools (cargo, npm, shuttle) see three layers, lowest first: the
// caller's own environment, the env files named in the config, and the
// inline --env flag.
package env

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// Vars is one layer of tool environment, keyed by variable name.
type Vars map[string]string

// FromOS returns the caller's environment, the base layer every tool inherits.
func FromOS() Vars {
	base := make(Vars)
	for _, entry := range os.Environ() {
		if name, value, ok := strings.Cut(entry, "="); ok {
			base[name] = value
		}
	}
	return base
}

// Merge stacks layers in order. A nil layer is skipped.
func Merge(layers ...Vars) Vars {
	merged := make(Vars)
	for _, layer := range layers {
		for name, value := range layer {
			merged[name] = value
		}
	}
	return merged
}

// LoadEnvFile reads one dotenv file. The os error is returned unwrapped so
// callers can test for os.ErrNotExist.
func LoadEnvFile(path string) (Vars, error) {
	parsed, err := godotenv.Read(path)
	if err != nil {
		return nil, err
	}
	return Vars(parsed), nil
}

// LoadEnvFiles reads the configured env files, later files overriding earlier
// ones. Relative names resolve against dir, the directory of the config file.
func LoadEnvFiles(dir string, names []string) (Vars, error) {
	var layer Vars
	for _, name := range names {
		if name == "" {
			continue
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		vars, err := LoadEnvFile(name)
		if err != nil {
			return nil, fmt.Errorf("tool env file %q: %w", name, err)
		}
		layer = Merge(layer, vars)
	}
	return layer, nil
}

// ParseInlineVars parses the --env flag value, a comma-separated NAME=value
// list such as "CARGO_TERM_COLOR=never,NPM_CONFIG_YES=true". Values may
// themselves contain '='.
func ParseInlineVars(flag string) (Vars, error) {
	inline := make(Vars)
	for _, pair := range strings.Split(flag, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("--env entry %q has no '='", pair)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("--env entry %q has no variable name", pair)
		}
		inline[name] = strings.TrimSpace(value)
	}
	return inline, nil
}

// Environ renders v as sorted NAME=value pairs for exec.Cmd.Env.
func (v Vars) Environ() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+"="+v[name])
	}
	return out
}
