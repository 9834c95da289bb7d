// Package intent collects what the user wants scaffolded, either from flags or
// from an interactive prompt on stdin.
package intent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// NamePrompt is written before reading the project name.
const NamePrompt = "What's the name of your project? > "

// ErrNoName is returned when the prompt input ends before a name was entered.
var ErrNoName = errors.New("no project name entered")

// Provider produces the intent for a single run.
type Provider interface {
	Intent(ctx context.Context) (plan.Intent, error)
}

// Static returns a fixed intent, typically assembled from flags.
type Static struct {
	Value plan.Intent
}

// Intent returns the configured value.
func (s Static) Intent(ctx context.Context) (plan.Intent, error) {
	if err := ctx.Err(); err != nil {
		return plan.Intent{}, err
	}
	return s.Value, nil
}

// Prompt asks for the project name on In. Target and IncludeFrontend come from
// the command that was invoked.
type Prompt struct {
	In  io.Reader
	Out io.Writer
	// Interactive controls whether NamePrompt is written to Out.
	Interactive bool

	Target          plan.DeployTarget
	IncludeFrontend bool
}

// Intent reads a single line from In and trims surrounding whitespace.
func (p Prompt) Intent(ctx context.Context) (plan.Intent, error) {
	if err := ctx.Err(); err != nil {
		return plan.Intent{}, err
	}
	if p.In == nil {
		return plan.Intent{}, ErrNoName
	}
	if p.Interactive && p.Out != nil {
		if _, err := io.WriteString(p.Out, NamePrompt); err != nil {
			return plan.Intent{}, fmt.Errorf("write prompt: %w", err)
		}
	}

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return plan.Intent{}, fmt.Errorf("read project name: %w", err)
	}
	name := strings.TrimSpace(line)
	if name == "" && errors.Is(err, io.EOF) {
		return plan.Intent{}, ErrNoName
	}

	return plan.Intent{
		ProjectName:     name,
		Target:          p.Target,
		IncludeFrontend: p.IncludeFrontend,
	}, nil
}
