package plan

import (
	"fmt"
	"strings"
)

// DeployTarget selects the hosting convention the generated backend targets.
type DeployTarget int

const (
	// TargetContainerImage builds the backend as a plain container image.
	TargetContainerImage DeployTarget = iota
	// TargetManagedPlatform deploys the backend on a managed Rust platform (Shuttle).
	TargetManagedPlatform
)

// String returns the flag-style name of the target.
func (t DeployTarget) String() string {
	switch t {
	case TargetContainerImage:
		return "container-image"
	case TargetManagedPlatform:
		return "managed-platform"
	}
	return fmt.Sprintf("target(%d)", int(t))
}

// Intent captures what the user asked to scaffold. It is created once per invocation.
type Intent struct {
	// ProjectName names the project directory and the generated crate.
	ProjectName string
	// Target selects dependencies and the entrypoint variant.
	Target DeployTarget
	// IncludeFrontend selects the full-stack plan instead of backend-only.
	IncludeFrontend bool
}

// ConstructionError reports an intent that cannot produce a plan.
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate rejects empty, whitespace-only and path-unsafe project names and unknown targets.
func (i Intent) Validate() error {
	name := i.ProjectName
	switch {
	case strings.TrimSpace(name) == "":
		return &ConstructionError{Field: "project name", Reason: "must not be empty"}
	case name != strings.TrimSpace(name):
		return &ConstructionError{Field: "project name", Reason: "must not start or end with whitespace"}
	case name == "." || name == "..":
		return &ConstructionError{Field: "project name", Reason: fmt.Sprintf("%q is not a directory name", name)}
	case strings.ContainsAny(name, " \t\r\n"):
		return &ConstructionError{Field: "project name", Reason: fmt.Sprintf("%q must not contain whitespace", name)}
	case strings.ContainsAny(name, "/\\\x00"):
		return &ConstructionError{Field: "project name", Reason: fmt.Sprintf("%q must not contain path separators", name)}
	}

	switch i.Target {
	case TargetContainerImage, TargetManagedPlatform:
	default:
		return &ConstructionError{Field: "deploy target", Reason: i.Target.String() + " is not supported"}
	}
	return nil
}
