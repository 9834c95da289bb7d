package engine

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/joshua-mo-143/milkmilk/internal/materialize"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
	"github.com/joshua-mo-143/milkmilk/internal/process"
	"github.com/joshua-mo-143/milkmilk/internal/templates"
)

type call struct {
	line string
	dir  string
}

// fakeRunner records invocations and simulates the directories tools create.
type fakeRunner struct {
	fs     billy.Filesystem
	calls  []call
	codes  map[string]int
	errs   map[string]error
	mkdirs map[string][]string
}

func newFakeRunner(fs billy.Filesystem) *fakeRunner {
	return &fakeRunner{
		fs:     fs,
		codes:  map[string]int{},
		errs:   map[string]error{},
		mkdirs: map[string][]string{},
	}
}

func (f *fakeRunner) Run(_ context.Context, line, dir string) (process.ExitStatus, error) {
	f.calls = append(f.calls, call{line: line, dir: dir})
	if err := f.errs[line]; err != nil {
		return process.ExitStatus{}, err
	}
	for _, d := range f.mkdirs[line] {
		if err := f.fs.MkdirAll(d, 0o755); err != nil {
			return process.ExitStatus{}, err
		}
	}
	return process.ExitStatus{Code: f.codes[line]}, nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.line)
	}
	return out
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backendPlan(t *testing.T, target plan.DeployTarget) *plan.Plan {
	t.Helper()
	p, err := plan.ForIntent(plan.Intent{ProjectName: "demo", Target: target}, nil)
	require.NoError(t, err)
	return p
}

func readFile(t *testing.T, fs billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

func TestExecute_BackendContainerImage(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	runner.mkdirs["cargo init --bin demo"] = []string{"demo/src"}

	p := backendPlan(t, plan.TargetContainerImage)
	res, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, p.Len(), res.Completed)
	assert.Equal(t, p.Len(), res.Total)
	assert.Zero(t, res.Warnings)

	require.Len(t, runner.calls, 2)
	assert.Equal(t, call{line: "cargo init --bin demo", dir: ""}, runner.calls[0])
	assert.Equal(t, "demo", runner.calls[1].dir)
	assert.Contains(t, runner.calls[1].line, "sqlx/runtime-tokio-rustls")

	expected := map[string]templates.ID{
		"demo/Dockerfile":    templates.Dockerfile,
		"demo/.dockerignore": templates.DockerIgnore,
		"demo/.gitignore":    templates.GitIgnore,
		"demo/.env":          templates.EnvFile,
		"demo/src/main.rs":   templates.BackendEntrypoint,
		"demo/src/router.rs": templates.BackendRouter,
	}
	for path, id := range expected {
		assert.Equal(t, templates.Get(id), readFile(t, fs, path), path)
	}
}

func TestExecute_BackendManagedPlatform(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	runner.mkdirs["cargo init --bin demo"] = []string{"demo/src"}

	_, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), backendPlan(t, plan.TargetManagedPlatform))
	require.NoError(t, err)

	assert.Equal(t, templates.Get(templates.BackendEntrypointManaged), readFile(t, fs, "demo/src/main.rs"))
	assert.Contains(t, runner.calls[1].line, "shuttle_runtime")
}

func TestExecute_FullStack(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	runner.mkdirs["npx create-next-app@latest demo --ts --tailwind"] = []string{"demo/src/styles"}
	runner.mkdirs["cargo init --bin backend"] = []string{"demo/backend/src"}

	createManifest := func() {
		require.NoError(t, util.WriteFile(fs, "demo/package.json",
			[]byte(`{"name":"demo","version":"0.1.0","private":true,"scripts":{},"dependencies":{},"devDependencies":{}}`), 0o644))
		require.NoError(t, util.WriteFile(fs, "demo/src/styles/Home.module.css", []byte("x"), 0o644))
	}

	p, err := plan.ForIntent(plan.Intent{ProjectName: "demo", IncludeFrontend: true}, nil)
	require.NoError(t, err)

	// create-next-app also writes a manifest and starter styles.
	wrapped := &hookRunner{fakeRunner: runner, after: map[string]func(){
		"npx create-next-app@latest demo --ts --tailwind": createManifest,
	}}

	res, err := NewEngine(fs, wrapped, quietLogger()).Execute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)

	lines := runner.lines()
	require.Len(t, lines, 6)
	assert.Equal(t, "npx create-next-app@latest demo --ts --tailwind", lines[0])
	assert.Equal(t, "cargo init --bin backend", lines[4])

	_, err = fs.Stat("demo/src/styles/Home.module.css")
	assert.True(t, errors.Is(err, os.ErrNotExist), "stylesheet dir should be reset")
	assert.Equal(t, templates.Get(templates.StylesheetBase), readFile(t, fs, "demo/src/styles/globals.css"))
	assert.Equal(t, templates.Get(templates.StylesheetConfig), readFile(t, fs, "demo/tailwind.config.js"))
	assert.Contains(t, readFile(t, fs, "demo/package.json"), `"dev":`)
	assert.Equal(t, templates.Get(templates.BackendRouter), readFile(t, fs, filepath.Join("demo", "backend", "src", "router.rs")))
}

type hookRunner struct {
	*fakeRunner
	after map[string]func()
}

func (h *hookRunner) Run(ctx context.Context, line, dir string) (process.ExitStatus, error) {
	status, err := h.fakeRunner.Run(ctx, line, dir)
	if fn := h.after[line]; fn != nil && err == nil {
		fn()
	}
	return status, err
}

func TestExecute_FatalNonZeroExitAborts(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	runner.codes["cargo init --bin demo"] = 101

	p := backendPlan(t, plan.TargetContainerImage)
	res, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), p)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 0, stepErr.Index)

	var exitErr *NonZeroExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 101, exitErr.Code)

	assert.Equal(t, StateAborted, res.State)
	assert.Zero(t, res.Completed)
	assert.Len(t, runner.calls, 1)
}

func TestExecute_HaltsAtFailingStep(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	// cargo succeeds but never creates demo/src, so the entrypoint write fails.
	runner.mkdirs["cargo init --bin demo"] = []string{"demo"}

	p := backendPlan(t, plan.TargetContainerImage)
	res, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), p)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 6, stepErr.Index)
	assert.Equal(t, 6, res.Completed)

	var ioErr *materialize.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Earlier outputs stay on disk; later steps never ran.
	assert.Equal(t, templates.Get(templates.Dockerfile), readFile(t, fs, "demo/Dockerfile"))
	_, statErr := fs.Stat("demo/src/router.rs")
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExecute_NonFatalInvokeContinues(t *testing.T) {
	fs := memfs.New()
	p := &plan.Plan{Name: "custom", Steps: []plan.Step{
		plan.EnsureDir{Path: "demo"},
		plan.Invoke{Line: "npm i zustand", Dir: "demo"},
		plan.EnsureDir{Path: "demo/out"},
	}}

	runner := newFakeRunner(fs)
	runner.codes["npm i zustand"] = 1

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	res, err := NewEngine(fs, runner, logger).Execute(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, res.State)
	assert.Equal(t, 3, res.Completed)
	assert.Equal(t, 1, res.Warnings)
	assert.Contains(t, logs.String(), "level=WARN")

	info, err := fs.Stat("demo/out")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExecute_SpawnErrorAborts(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	spawn := &process.SpawnError{Line: "cargo init --bin demo", Err: errors.New("executable file not found")}
	runner.errs["cargo init --bin demo"] = spawn

	_, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), backendPlan(t, plan.TargetContainerImage))
	var got *process.SpawnError
	require.ErrorAs(t, err, &got)
	assert.Same(t, spawn, got)
}

func TestExecute_InvalidPlanRunsNothing(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	p := &plan.Plan{Name: "broken", Steps: []plan.Step{
		plan.Invoke{Line: "true"},
		plan.Materialize{Template: templates.Dockerfile, Path: "missing/Dockerfile"},
	}}

	res, err := NewEngine(fs, runner, quietLogger()).Execute(context.Background(), p)
	var orderErr *plan.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, StateAborted, res.State)
	assert.Empty(t, runner.calls)
}

func TestExecute_CancelledContextStopsBeforeNextStep(t *testing.T) {
	fs := memfs.New()
	runner := newFakeRunner(fs)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewEngine(fs, runner, quietLogger()).Execute(ctx, plan.Dockerfile(""))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Completed)
	assert.Empty(t, runner.calls)
}

func TestExecute_DockerfileOverwrites(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "Dockerfile", []byte("FROM scratch\n"), 0o644))

	res, err := NewEngine(fs, nil, quietLogger()).Execute(context.Background(), plan.Dockerfile(""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, templates.Get(templates.Dockerfile), readFile(t, fs, "Dockerfile"))
}

func TestRenderPlan_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPlan(&buf, plan.Dockerfile("deploy"), "text"))
	assert.Equal(t,
		"plan dockerfile (2 steps)\n  1. [ensure-dir] create directory deploy\n  2. [materialize] write dockerfile to deploy/Dockerfile\n",
		buf.String())
}

func TestRenderPlan_YAML(t *testing.T) {
	var buf bytes.Buffer
	p := backendPlan(t, plan.TargetContainerImage)
	require.NoError(t, RenderPlan(&buf, p, "yaml"))

	var decoded PlanRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, plan.NameBackend, decoded.Plan)
	require.Len(t, decoded.Steps, p.Len())
	assert.Equal(t, "invoke", decoded.Steps[0].Kind)
	assert.Equal(t, "cargo init --bin demo", decoded.Steps[0].Command)
	assert.True(t, decoded.Steps[0].Fatal)
	assert.Equal(t, "backend-router", decoded.Steps[len(decoded.Steps)-1].Template)
}

func TestRenderPlan_UnknownFormat(t *testing.T) {
	err := RenderPlan(io.Discard, plan.Dockerfile(""), "json")
	require.Error(t, err)
}
