// Package templates holds the fixed set of text payloads written into generated projects.
// Every payload is embedded into the binary at build time; there is no runtime registration.
package templates

import (
	_ "embed"
	"fmt"
)

// ID identifies a single template payload.
type ID int

const (
	// Dockerfile is the container build file for the backend.
	Dockerfile ID = iota
	// DockerIgnore is the (empty) container ignore file.
	DockerIgnore
	// GitIgnore is the version-control ignore file for the backend.
	GitIgnore
	// EnvFile holds the backend environment variables.
	EnvFile
	// BackendEntrypoint is the backend main source for container-image deployments.
	BackendEntrypoint
	// BackendEntrypointManaged is the backend main source for managed-platform deployments.
	BackendEntrypointManaged
	// BackendRouter is the backend CRUD router source.
	BackendRouter
	// StylesheetBase is the frontend global stylesheet.
	StylesheetBase
	// StylesheetConfig is the CSS framework configuration file.
	StylesheetConfig

	idCount
)

var (
	//go:embed files/Dockerfile.tmpl
	dockerfile string
	//go:embed files/dockerignore.tmpl
	dockerIgnore string
	//go:embed files/gitignore.tmpl
	gitIgnore string
	//go:embed files/env.tmpl
	envFile string
	//go:embed files/main.rs.tmpl
	backendMain string
	//go:embed files/main_managed.rs.tmpl
	backendMainManaged string
	//go:embed files/router.rs.tmpl
	backendRouter string
	//go:embed files/globals.css.tmpl
	stylesheetBase string
	//go:embed files/tailwind.config.js.tmpl
	stylesheetConfig string
)

// Get returns the payload for id. Unknown ids are programming errors and panic.
func Get(id ID) string {
	switch id {
	case Dockerfile:
		return dockerfile
	case DockerIgnore:
		return dockerIgnore
	case GitIgnore:
		return gitIgnore
	case EnvFile:
		return envFile
	case BackendEntrypoint:
		return backendMain
	case BackendEntrypointManaged:
		return backendMainManaged
	case BackendRouter:
		return backendRouter
	case StylesheetBase:
		return stylesheetBase
	case StylesheetConfig:
		return stylesheetConfig
	}
	panic(fmt.Sprintf("templates: unknown template id %d", int(id)))
}

// All returns every known template id in declaration order.
func All() []ID {
	ids := make([]ID, 0, int(idCount))
	for id := ID(0); id < idCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// String returns the human-readable name of the template.
func (id ID) String() string {
	switch id {
	case Dockerfile:
		return "dockerfile"
	case DockerIgnore:
		return "dockerignore"
	case GitIgnore:
		return "gitignore"
	case EnvFile:
		return "env"
	case BackendEntrypoint:
		return "backend-entrypoint"
	case BackendEntrypointManaged:
		return "backend-entrypoint-managed"
	case BackendRouter:
		return "backend-router"
	case StylesheetBase:
		return "stylesheet-base"
	case StylesheetConfig:
		return "stylesheet-config"
	}
	return fmt.Sprintf("template(%d)", int(id))
}
