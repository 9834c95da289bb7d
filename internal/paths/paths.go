// Package paths maps logical scaffold targets onto file-system paths.
package paths

import (
	"fmt"
	"path/filepath"
)

// Target is a logical file or directory inside a generated project.
type Target int

const (
	// Dockerfile is the container build file.
	Dockerfile Target = iota
	// DockerIgnore is the container build ignore file.
	DockerIgnore
	// GitIgnore is the version-control ignore file.
	GitIgnore
	// EnvFile holds local environment variables.
	EnvFile
	// BackendSource is the backend source directory.
	BackendSource
	// BackendEntrypoint is the backend main source file.
	BackendEntrypoint
	// BackendRouter is the backend router source file.
	BackendRouter
	// BackendDir is the backend crate nested in a full-stack project.
	BackendDir
	// FrontendSource is the frontend source directory.
	FrontendSource
	// StylesheetDir holds the frontend stylesheets.
	StylesheetDir
	// StylesheetBase is the global stylesheet.
	StylesheetBase
	// StylesheetConfig is the CSS framework config file.
	StylesheetConfig
	// Manifest is the frontend package manifest.
	Manifest

	targetCount
)

// suffixes is the fixed target -> path suffix table.
var suffixes = [targetCount]string{
	Dockerfile:        "Dockerfile",
	DockerIgnore:      ".dockerignore",
	GitIgnore:         ".gitignore",
	EnvFile:           ".env",
	BackendSource:     "src",
	BackendEntrypoint: "src/main.rs",
	BackendRouter:     "src/router.rs",
	BackendDir:        "backend",
	FrontendSource:    "src",
	StylesheetDir:     "src/styles",
	StylesheetBase:    "src/styles/globals.css",
	StylesheetConfig:  "tailwind.config.js",
	Manifest:          "package.json",
}

// Resolve joins base with the fixed suffix of target. It never touches the file system.
// An empty base resolves relative to the workspace root.
func Resolve(base string, target Target) string {
	return filepath.Join(base, filepath.FromSlash(Suffix(target)))
}

// Suffix returns the fixed suffix for target. Unknown targets panic.
func Suffix(target Target) string {
	if target < 0 || target >= targetCount {
		panic(fmt.Sprintf("paths: unknown target %d", int(target)))
	}
	return suffixes[target]
}

// Targets returns every known target.
func Targets() []Target {
	out := make([]Target, 0, int(targetCount))
	for t := Target(0); t < targetCount; t++ {
		out = append(out, t)
	}
	return out
}

// WorkDir derives the project directory for a project name.
func WorkDir(projectName string) string {
	return filepath.Clean(projectName)
}

// Root reports whether p denotes the workspace root.
func Root(p string) bool {
	return p == "" || filepath.Clean(p) == "."
}
