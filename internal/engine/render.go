package engine

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// StepRecord is the serializable view of a plan step.
type StepRecord struct {
	Step     int    `yaml:"step"`
	Kind     string `yaml:"kind"`
	Action   string `yaml:"action"`
	Path     string `yaml:"path,omitempty"`
	Dir      string `yaml:"dir,omitempty"`
	Command  string `yaml:"command,omitempty"`
	Template string `yaml:"template,omitempty"`
	Fatal    bool   `yaml:"fatal,omitempty"`
}

// PlanRecord is the serializable view of a plan.
type PlanRecord struct {
	Plan  string       `yaml:"plan"`
	Steps []StepRecord `yaml:"steps"`
}

// Describe converts p into its serializable record.
func Describe(p *plan.Plan) PlanRecord {
	rec := PlanRecord{Plan: p.Name, Steps: make([]StepRecord, 0, p.Len())}
	for i, step := range p.Steps {
		r := StepRecord{Step: i + 1, Kind: step.Kind(), Action: step.Describe()}
		switch s := step.(type) {
		case plan.Materialize:
			r.Path = s.Path
			r.Template = s.Template.String()
		case plan.Invoke:
			r.Dir = s.Dir
			r.Command = s.Line
			r.Fatal = s.Fatal
		case plan.EnsureDir:
			r.Path = s.Path
		case plan.ResetDir:
			r.Path = s.Path
		case plan.Transform:
			r.Path = s.Path
		}
		rec.Steps = append(rec.Steps, r)
	}
	return rec
}

// RenderPlan writes p to w without executing it. Format is "text" or "yaml".
func RenderPlan(w io.Writer, p *plan.Plan, format string) error {
	rec := Describe(p)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		var buf bytes.Buffer
		fmt.Fprintf(&buf, "plan %s (%d steps)\n", rec.Plan, len(rec.Steps))
		for _, s := range rec.Steps {
			fmt.Fprintf(&buf, "%3d. [%s] %s\n", s.Step, s.Kind, s.Action)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode plan: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("finalize plan: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("unsupported output format %q (want text or yaml)", format)
}
