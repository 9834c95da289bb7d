// Package process runs external tools as blocking subprocesses.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ExitStatus is the observable outcome of a subprocess that started successfully.
type ExitStatus struct {
	// Code is the process exit code; zero means success.
	Code int
}

// Success reports whether the subprocess exited with status zero.
func (s ExitStatus) Success() bool { return s.Code == 0 }

// SpawnError reports that a command could not be started at all.
type SpawnError struct {
	Line string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %q: %v", e.Line, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// TimeoutError reports that a subprocess was killed after exceeding its deadline.
type TimeoutError struct {
	Line    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%q timed out after %s", e.Line, e.Timeout)
}

// Runner executes whitespace-separated command lines.
// Arguments containing spaces cannot be expressed; there is no quoting support.
type Runner struct {
	// Root is the directory relative working dirs are resolved against.
	// Empty means the caller's current directory.
	Root string
	// Env is the environment passed to subprocesses. Nil inherits os.Environ().
	Env []string
	// Stdout receives subprocess stdout. Nil means os.Stdout.
	Stdout io.Writer
	// Stderr receives subprocess stderr. Nil means os.Stderr.
	Stderr io.Writer
	// Timeout bounds each subprocess. Zero disables the bound.
	Timeout time.Duration
}

// NewRunner constructs a Runner rooted at root with inherited stdio.
func NewRunner(root string, timeout time.Duration) *Runner {
	return &Runner{Root: root, Timeout: timeout}
}

// Run executes line in dir and blocks until it exits.
// A non-zero exit is returned as data with a nil error; only failures to start
// (SpawnError) or a deadline hit (TimeoutError) are errors.
func (r *Runner) Run(ctx context.Context, line, dir string) (ExitStatus, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ExitStatus{}, &SpawnError{Line: line, Err: errors.New("empty command line")}
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Dir = r.workDir(dir)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if r.Env != nil {
		cmd.Env = r.Env
	}

	if err := cmd.Start(); err != nil {
		return ExitStatus{}, &SpawnError{Line: line, Err: err}
	}

	return r.exitStatus(ctx, line, cmd.Wait())
}

// exitStatus classifies the result of Wait. A clean exit wins over a deadline
// that expired after the process had already finished.
func (r *Runner) exitStatus(ctx context.Context, line string, err error) (ExitStatus, error) {
	if err == nil {
		return ExitStatus{Code: 0}, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) && r.Timeout > 0 {
			return ExitStatus{Code: -1}, &TimeoutError{Line: line, Timeout: r.Timeout}
		}
		return ExitStatus{Code: -1}, fmt.Errorf("%q interrupted: %w", line, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitStatus{Code: exitErr.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, fmt.Errorf("wait for %q: %w", line, err)
}

func (r *Runner) workDir(dir string) string {
	switch {
	case dir == "":
		return r.Root
	case filepath.IsAbs(dir) || r.Root == "":
		return dir
	default:
		return filepath.Join(r.Root, dir)
	}
}
