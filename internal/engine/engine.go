// Package engine contains the high-level orchestration logic that executes scaffolding plans.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"

	"github.com/joshua-mo-143/milkmilk/internal/materialize"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
	"github.com/joshua-mo-143/milkmilk/internal/process"
	"github.com/joshua-mo-143/milkmilk/internal/templates"
)

// Runner executes a command line in a working directory and reports its exit status.
type Runner interface {
	Run(ctx context.Context, line, dir string) (process.ExitStatus, error)
}

// State is the terminal state of a plan execution.
type State string

const (
	// StateCompleted means every step ran without a fatal failure.
	StateCompleted State = "completed"
	// StateAborted means execution stopped at a failing step.
	StateAborted State = "aborted"
)

// Result summarizes a plan execution.
type Result struct {
	// Plan is the executed plan name.
	Plan string
	// State is the terminal state.
	State State
	// Total is the number of steps in the plan.
	Total int
	// Completed is the number of steps that finished successfully.
	Completed int
	// Warnings counts non-fatal command failures that were tolerated.
	Warnings int
}

// StepError reports the step at which execution was aborted.
type StepError struct {
	// Index is the zero-based position of the failed step.
	Index int
	Step  plan.Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index+1, e.Step.Describe(), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// NonZeroExitError reports a fatal command that ran but exited unsuccessfully.
type NonZeroExitError struct {
	Line string
	Code int
}

func (e *NonZeroExitError) Error() string {
	return fmt.Sprintf("%q exited with status %d", e.Line, e.Code)
}

// Engine executes plans step by step on a single goroutine.
type Engine struct {
	files  *materialize.Materializer
	runner Runner
	logger *slog.Logger
}

// NewEngine constructs an Engine writing through fsys and running commands with runner.
func NewEngine(fsys billy.Filesystem, runner Runner, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		files:  materialize.New(fsys),
		runner: runner,
		logger: logger,
	}
}

// Execute runs the steps of p strictly in order and stops at the first fatal failure.
// Steps that already ran are not rolled back.
func (e *Engine) Execute(ctx context.Context, p *plan.Plan) (Result, error) {
	res := Result{Plan: p.Name, Total: p.Len()}

	if err := p.Validate(); err != nil {
		res.State = StateAborted
		return res, err
	}

	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			res.State = StateAborted
			return res, &StepError{Index: i, Step: step, Err: err}
		}

		e.logger.Info("running step",
			"step", i+1,
			"total", res.Total,
			"kind", step.Kind(),
			"action", step.Describe(),
		)

		tolerated, err := e.apply(ctx, step)
		if err != nil {
			e.logger.Error("step failed", "step", i+1, "action", step.Describe(), "error", err)
			res.State = StateAborted
			return res, &StepError{Index: i, Step: step, Err: err}
		}
		if tolerated {
			res.Warnings++
		}
		res.Completed++
		e.logger.Info("step completed", "step", i+1, "kind", step.Kind())
	}

	res.State = StateCompleted
	return res, nil
}

// apply performs a single step. tolerated reports a non-fatal command failure.
func (e *Engine) apply(ctx context.Context, step plan.Step) (tolerated bool, err error) {
	switch s := step.(type) {
	case plan.Materialize:
		return false, e.files.Write(s.Path, templates.Get(s.Template))
	case plan.EnsureDir:
		return false, e.files.EnsureDir(s.Path)
	case plan.ResetDir:
		return false, e.files.ResetDir(s.Path)
	case plan.Transform:
		return false, e.files.Transform(s.Path, s.Mutation)
	case plan.Invoke:
		return e.invoke(ctx, s)
	}
	return false, fmt.Errorf("unsupported step type %T", step)
}

func (e *Engine) invoke(ctx context.Context, s plan.Invoke) (bool, error) {
	if e.runner == nil {
		return false, fmt.Errorf("no process runner configured for %q", s.Line)
	}
	status, err := e.runner.Run(ctx, s.Line, s.Dir)
	if err != nil {
		return false, err
	}
	if status.Success() {
		return false, nil
	}
	if s.Fatal {
		return false, &NonZeroExitError{Line: s.Line, Code: status.Code}
	}
	e.logger.Warn("command exited with non-zero status, continuing",
		"command", s.Line,
		"dir", s.Dir,
		"code", status.Code,
	)
	return true, nil
}
