// Package plan turns a scaffolding intent into an ordered, fully resolved list of steps.
package plan

import (
	"fmt"
)

// Plan is an ordered sequence of steps constructed before execution begins.
type Plan struct {
	// Name identifies the plan variant (full-stack, backend, dockerfile, manifest-patch).
	Name  string
	Steps []Step
	// Existing lists directories expected to be present before the first step runs.
	Existing []string
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.Steps) }

// OrderError reports a step that needs a directory no earlier step creates.
type OrderError struct {
	// Index is the zero-based position of the offending step.
	Index int
	Step  Step
	Dir   string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("step %d (%s) needs directory %s, which no earlier step creates", e.Index+1, e.Step.Describe(), e.Dir)
}

// Validate checks the ordering invariant: each step's required directory is the
// workspace root, listed in Existing, or was provided by a step that comes before it.
func (p *Plan) Validate() error {
	available := map[string]struct{}{".": {}}
	for _, dir := range p.Existing {
		available[cleanDir(dir)] = struct{}{}
	}
	for i, s := range p.Steps {
		need := cleanDir(s.Needs())
		if _, ok := available[need]; !ok {
			return &OrderError{Index: i, Step: s, Dir: need}
		}
		for _, dir := range s.Provides() {
			available[cleanDir(dir)] = struct{}{}
		}
	}
	return nil
}
