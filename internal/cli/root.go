// Package cli defines the command-line interface for milkmilk.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/config"
	"github.com/joshua-mo-143/milkmilk/internal/engine"
	"github.com/joshua-mo-143/milkmilk/internal/logging"
	"github.com/joshua-mo-143/milkmilk/internal/process"
)

const (
	// defaultRoot is the workspace the scaffold is generated into.
	defaultRoot = "."
	// defaultOutput is the dry-run plan format.
	defaultOutput = "text"
)

// Options stores global CLI options shared between commands.
type Options struct {
	Root       string
	ConfigPath string
	LogLevel   logging.Level
	Timeout    string
	EnvVars    string
	DryRun     bool
	Output     string
	LogOutput  bool

	// config and environ are resolved once per invocation in PersistentPreRunE.
	config  *config.Config
	environ baseEnv
}

// deps holds the process-level collaborators commands use. Tests replace them.
type deps struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool
	lookPath    func(file string) (string, error)
	newFS       func(root string) billy.Filesystem
	newRunner   func(settings runnerSettings) engine.Runner
}

// runnerSettings configures the subprocess runner for a single invocation.
type runnerSettings struct {
	Root    string
	Env     []string
	Timeout time.Duration
	Stdout  io.Writer
	Stderr  io.Writer
}

func defaultDeps() deps {
	return deps{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
		lookPath:    exec.LookPath,
		newFS: func(root string) billy.Filesystem {
			return osfs.New(root)
		},
		newRunner: func(s runnerSettings) engine.Runner {
			return &process.Runner{
				Root:    s.Root,
				Env:     s.Env,
				Stdout:  s.Stdout,
				Stderr:  s.Stderr,
				Timeout: s.Timeout,
			}
		},
	}
}

func newOptions() *Options {
	return &Options{
		Root:       defaultRoot,
		ConfigPath: config.DefaultPath,
		LogLevel:   logging.LevelInfo,
		Output:     defaultOutput,
	}
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootCmd := newRootCommand(newOptions(), logger, defaultDeps())
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "milkmilk",
		Short:         "milkmilk scaffolds Rust web backends with an optional Next.js frontend",
		Long:          "milkmilk generates a ready-to-run project: an Axum backend deployable as a container image or to a managed platform, optionally inside a Next.js + Tailwind frontend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			environ, err := loadBaseEnv()
			if err != nil {
				return err
			}
			opts.environ = environ

			opts.ConfigPath = resolveSetting(cmd, "config", opts.ConfigPath, environ.ConfigPath, "", config.DefaultPath)
			opts.Root = resolveSetting(cmd, "root", opts.Root, environ.Root, "", defaultRoot)

			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.config = cfg

			level := logging.ParseLevel(resolveSetting(cmd, "log-level", cmd.Flag("log-level").Value.String(), environ.LogLevel, cfg.LogLevel, "info"))
			opts.LogLevel = level
			logger = logging.NewLogger(d.stderr, level).With("run", uuid.NewString())
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level, "config", opts.ConfigPath, "configFound", cfg.Found)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Root, "root", defaultRoot, "Workspace directory the project is generated in")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "Path to milkmilk.yaml (optional)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.Timeout, "timeout", "", "Timeout for each external tool, e.g. 10m (0 disables)")
	cmd.PersistentFlags().StringVar(&opts.EnvVars, "env", "", "Extra environment for external tools in k=v,k2=v2 format")
	cmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Print the plan without executing it")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", defaultOutput, "Dry-run output format (text, yaml)")
	cmd.PersistentFlags().BoolVar(&opts.LogOutput, "log-output", false, "Route external tool output through the logger")

	cmd.AddCommand(
		newStartCommand(opts, d),
		newBackendCommand(opts, d),
		newDockerfileCommand(opts, d),
		newManifestPatchCommand(opts, d),
		newDoctorCommand(opts, d),
		newSchemaCommand(d),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
