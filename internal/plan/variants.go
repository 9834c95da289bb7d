package plan

import (
	"github.com/joshua-mo-143/milkmilk/internal/manifest"
	"github.com/joshua-mo-143/milkmilk/internal/paths"
	"github.com/joshua-mo-143/milkmilk/internal/templates"
)

// Plan names, as shown in logs and dry-run output.
const (
	// NameFullStack is the frontend plus nested backend plan.
	NameFullStack = "full-stack"
	// NameBackend is the backend-only plan.
	NameBackend = "backend"
	// NameDockerfile writes only the Dockerfile.
	NameDockerfile = "dockerfile"
	// NameManifestPatch only patches package.json.
	NameManifestPatch = "manifest-patch"
)

// backendDirName is the sub-project the full-stack plan initializes the backend into.
const backendDirName = "backend"

// ForIntent builds the full-stack or backend-only plan for intent.
func ForIntent(intent Intent, cmds *Commands) (*Plan, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	if cmds == nil {
		cmds = DefaultCommands()
	}
	if intent.IncludeFrontend {
		return fullStack(intent, cmds)
	}
	return backendOnly(intent, cmds)
}

// Dockerfile builds the plan writing a single Dockerfile into dir (workspace root when empty).
func Dockerfile(dir string) *Plan {
	var steps []Step
	if !paths.Root(dir) {
		steps = append(steps, EnsureDir{Path: cleanDir(dir)})
	}
	steps = append(steps, Materialize{Template: templates.Dockerfile, Path: paths.Resolve(dir, paths.Dockerfile)})
	return &Plan{Name: NameDockerfile, Steps: steps}
}

// ManifestPatch builds the plan patching the package manifest at path.
// The manifest's directory must already exist.
func ManifestPatch(path string) *Plan {
	return &Plan{
		Name:     NameManifestPatch,
		Steps:    []Step{manifestTransform(path)},
		Existing: []string{parentDir(path)},
	}
}

// variantFor maps the deploy target onto its dependency command and entrypoint template.
func variantFor(target DeployTarget) (CommandID, templates.ID, error) {
	switch target {
	case TargetContainerImage:
		return CargoAdd, templates.BackendEntrypoint, nil
	case TargetManagedPlatform:
		return CargoAddManaged, templates.BackendEntrypointManaged, nil
	}
	return 0, 0, &ConstructionError{Field: "deploy target", Reason: target.String() + " is not supported"}
}

func backendOnly(intent Intent, cmds *Commands) (*Plan, error) {
	workDir := paths.WorkDir(intent.ProjectName)

	initStep, err := cmds.invoke(CargoInit, Params{Name: intent.ProjectName}, "")
	if err != nil {
		return nil, err
	}
	steps := []Step{initStep}

	backend, err := backendSteps(intent.Target, cmds, intent.ProjectName, workDir)
	if err != nil {
		return nil, err
	}
	steps = append(steps, backend...)

	return &Plan{Name: NameBackend, Steps: steps}, nil
}

func fullStack(intent Intent, cmds *Commands) (*Plan, error) {
	root := paths.WorkDir(intent.ProjectName)
	var steps []Step

	create, err := cmds.invoke(CreateNextApp, Params{Name: intent.ProjectName}, "")
	if err != nil {
		return nil, err
	}
	steps = append(steps, create)

	for _, id := range []CommandID{FrontendDeps, TailwindDeps, TailwindInit} {
		s, err := cmds.invoke(id, Params{Name: intent.ProjectName}, root)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}

	steps = append(steps,
		ResetDir{Path: paths.Resolve(root, paths.StylesheetDir)},
		Materialize{Template: templates.StylesheetBase, Path: paths.Resolve(root, paths.StylesheetBase)},
		Materialize{Template: templates.StylesheetConfig, Path: paths.Resolve(root, paths.StylesheetConfig)},
		manifestTransform(paths.Resolve(root, paths.Manifest)),
	)

	initStep, err := cmds.invoke(CargoInit, Params{Name: backendDirName}, root)
	if err != nil {
		return nil, err
	}
	steps = append(steps, initStep)

	backend, err := backendSteps(intent.Target, cmds, backendDirName, paths.Resolve(root, paths.BackendDir))
	if err != nil {
		return nil, err
	}
	steps = append(steps, backend...)

	return &Plan{Name: NameFullStack, Steps: steps}, nil
}

// backendSteps declares dependencies, writes CI/deploy files and the backend sources into workDir.
// crate is the name the backend was initialized with.
func backendSteps(target DeployTarget, cmds *Commands, crate, workDir string) ([]Step, error) {
	depsID, entrypoint, err := variantFor(target)
	if err != nil {
		return nil, err
	}
	deps, err := cmds.invoke(depsID, Params{Name: crate}, workDir)
	if err != nil {
		return nil, err
	}

	return []Step{
		deps,
		Materialize{Template: templates.Dockerfile, Path: paths.Resolve(workDir, paths.Dockerfile)},
		Materialize{Template: templates.DockerIgnore, Path: paths.Resolve(workDir, paths.DockerIgnore)},
		Materialize{Template: templates.GitIgnore, Path: paths.Resolve(workDir, paths.GitIgnore)},
		Materialize{Template: templates.EnvFile, Path: paths.Resolve(workDir, paths.EnvFile)},
		Materialize{Template: entrypoint, Path: paths.Resolve(workDir, paths.BackendEntrypoint)},
		Materialize{Template: templates.BackendRouter, Path: paths.Resolve(workDir, paths.BackendRouter)},
	}, nil
}

func manifestTransform(path string) Transform {
	return Transform{
		Path:     path,
		Name:     "add build scripts",
		Mutation: manifest.AddScripts,
	}
}
