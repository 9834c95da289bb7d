package plan

import (
	"fmt"
	"path/filepath"

	"github.com/joshua-mo-143/milkmilk/internal/templates"
)

// Step is one atomic unit of work in a Plan.
type Step interface {
	// Kind names the step variant (materialize, invoke, ensure-dir, reset-dir, transform).
	Kind() string
	// Describe returns a one-line human-readable action.
	Describe() string
	// Needs returns the directory that must exist before the step runs.
	Needs() string
	// Provides returns the directories that exist once the step succeeded.
	Provides() []string

	step()
}

// Materialize writes a template payload to Path.
type Materialize struct {
	Template templates.ID
	Path     string
}

// Invoke runs an external command in Dir (workspace root when empty).
type Invoke struct {
	Command CommandID
	Line    string
	Dir     string
	// Fatal makes a non-zero exit abort the plan.
	Fatal bool
	// Creates lists directories the command creates on success.
	Creates []string
}

// EnsureDir creates Path and any missing parents.
type EnsureDir struct {
	Path string
}

// ResetDir deletes the existing directory Path recursively and recreates it empty.
type ResetDir struct {
	Path string
}

// Mutation rewrites the content of a structured file.
type Mutation func([]byte) ([]byte, error)

// Transform loads Path, applies Mutation and rewrites the file.
type Transform struct {
	Path     string
	Name     string
	Mutation Mutation
}

func (Materialize) Kind() string { return "materialize" }
func (Invoke) Kind() string      { return "invoke" }
func (EnsureDir) Kind() string   { return "ensure-dir" }
func (ResetDir) Kind() string    { return "reset-dir" }
func (Transform) Kind() string   { return "transform" }

func (s Materialize) Describe() string {
	return fmt.Sprintf("write %s to %s", s.Template, s.Path)
}

func (s Invoke) Describe() string {
	if s.Dir == "" {
		return fmt.Sprintf("run %q", s.Line)
	}
	return fmt.Sprintf("run %q in %s", s.Line, s.Dir)
}

func (s EnsureDir) Describe() string { return "create directory " + s.Path }
func (s ResetDir) Describe() string  { return "reset directory " + s.Path }

func (s Transform) Describe() string {
	return fmt.Sprintf("%s in %s", s.Name, s.Path)
}

func (s Materialize) Needs() string { return parentDir(s.Path) }
func (s Invoke) Needs() string      { return cleanDir(s.Dir) }
func (s EnsureDir) Needs() string   { return "." }
func (s ResetDir) Needs() string    { return cleanDir(s.Path) }
func (s Transform) Needs() string   { return parentDir(s.Path) }

func (Materialize) Provides() []string { return nil }
func (Transform) Provides() []string   { return nil }

func (s Invoke) Provides() []string {
	out := make([]string, 0, len(s.Creates))
	for _, p := range s.Creates {
		out = append(out, cleanDir(p))
	}
	return out
}

func (s EnsureDir) Provides() []string { return withParents(s.Path) }
func (s ResetDir) Provides() []string  { return []string{cleanDir(s.Path)} }

func (Materialize) step() {}
func (Invoke) step()      {}
func (EnsureDir) step()   {}
func (ResetDir) step()    {}
func (Transform) step()   {}

func cleanDir(p string) string {
	if p == "" {
		return "."
	}
	return filepath.Clean(p)
}

func parentDir(p string) string {
	return cleanDir(filepath.Dir(p))
}

func withParents(p string) []string {
	var out []string
	for dir := cleanDir(p); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		out = append(out, dir)
	}
	return out
}
