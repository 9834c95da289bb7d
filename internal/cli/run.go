package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/engine"
	"github.com/joshua-mo-143/milkmilk/internal/env"
	"github.com/joshua-mo-143/milkmilk/internal/ghoutput"
	"github.com/joshua-mo-143/milkmilk/internal/logging"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// runPlan executes p against the workspace root, or prints it with --dry-run.
func runPlan(cmd *cobra.Command, opts *Options, d deps, p *plan.Plan) error {
	logger := LoggerFromContext(cmd.Context())

	if opts.DryRun {
		if err := p.Validate(); err != nil {
			return err
		}
		return engine.RenderPlan(d.stdout, p, opts.Output)
	}

	root, err := workspaceRoot(opts.Root)
	if err != nil {
		return err
	}

	timeout, err := resolveTimeout(cmd, opts)
	if err != nil {
		return err
	}

	vars, err := subprocessEnv(opts)
	if err != nil {
		return err
	}

	var stdout, stderr io.Writer = d.stdout, d.stderr
	if opts.LogOutput {
		stdout = logging.NewWriter(logger, "stdout")
		stderr = logging.NewWriter(logger, "stderr")
	}

	runner := d.newRunner(runnerSettings{
		Root:    root,
		Env:     vars.Environ(),
		Timeout: timeout,
		Stdout:  stdout,
		Stderr:  stderr,
	})

	logger.Info("scaffolding", "plan", p.Name, "root", root, "steps", p.Len(), "timeout", timeout)

	res, err := engine.NewEngine(d.newFS(root), runner, logger).Execute(cmd.Context(), p)
	publishOutputs(logger, opts.environ.GitHubOutput, root, res, err)
	if err != nil {
		logger.Error("scaffold aborted",
			"plan", p.Name,
			"completed", res.Completed,
			"total", res.Total,
			"error", err,
		)
		return err
	}

	logger.Info("scaffold finished", "plan", p.Name, "steps", res.Completed, "warnings", res.Warnings)
	reportSuccess(d.stdout)
	return nil
}

// publishOutputs exposes the run result to later workflow steps. Failures are only logged.
func publishOutputs(logger *slog.Logger, path, root string, res engine.Result, runErr error) {
	values := map[string]string{
		"plan":      res.Plan,
		"state":     string(res.State),
		"completed": strconv.Itoa(res.Completed),
		"total":     strconv.Itoa(res.Total),
		"root":      root,
	}
	if runErr != nil {
		values["error"] = runErr.Error()
	}
	if err := ghoutput.Write(path, values); err != nil {
		logger.Warn("failed to write github outputs", "error", err)
	}
}

// workspaceRoot resolves root to an absolute path of an existing directory.
func workspaceRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace root %q is not a directory", abs)
	}
	return abs, nil
}

// subprocessEnv merges the OS environment, configured env files and --env vars, in that order.
func subprocessEnv(opts *Options) (env.Vars, error) {
	fileVars, err := opts.config.LoadEnvFiles()
	if err != nil {
		return nil, err
	}
	inline, err := env.ParseInlineVars(opts.EnvVars)
	if err != nil {
		return nil, fmt.Errorf("parse --env: %w", err)
	}
	return env.Merge(env.FromOS(), fileVars, inline), nil
}
