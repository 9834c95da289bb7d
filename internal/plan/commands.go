package plan

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// CommandID identifies one of the fixed external tool invocations.
type CommandID int

const (
	// CreateNextApp generates the frontend project.
	CreateNextApp CommandID = iota
	// FrontendDeps installs frontend runtime dependencies.
	FrontendDeps
	// TailwindDeps installs the CSS toolchain.
	TailwindDeps
	// TailwindInit writes the CSS toolchain config.
	TailwindInit
	// CargoInit creates the backend crate.
	CargoInit
	// CargoAdd declares backend dependencies for container-image deployments.
	CargoAdd
	// CargoAddManaged declares backend dependencies for managed-platform deployments.
	CargoAddManaged

	commandCount
)

// commandSpec is a single entry of the command table.
type commandSpec struct {
	name string
	// line is a text/template rendered with Params.
	line string
	// creates lists directories, relative to the working dir, the tool creates on success.
	creates []string
	// fatal marks initialization-critical commands whose non-zero exit aborts the run.
	fatal bool
}

var commandTable = [commandCount]commandSpec{
	CreateNextApp: {
		name:    "create-next-app",
		line:    "npx create-next-app@latest {{.Name}} --ts --tailwind",
		creates: []string{"{{.Name}}", "{{.Name}}/src", "{{.Name}}/src/styles"},
		fatal:   true,
	},
	FrontendDeps: {
		name: "frontend-deps",
		line: "npm i zustand",
	},
	TailwindDeps: {
		name: "tailwind-deps",
		line: "npm i -D tailwindcss@latest autoprefixer@latest postcss@latest",
	},
	TailwindInit: {
		name: "tailwind-init",
		line: "npx tailwindcss init -p",
	},
	CargoInit: {
		name:    "cargo-init",
		line:    "cargo init --bin {{.Name}}",
		creates: []string{"{{.Name}}", "{{.Name}}/src"},
		fatal:   true,
	},
	CargoAdd: {
		name:  "cargo-add",
		line:  "cargo add tokio axum serde dotenvy sqlx --features serde/derive,sqlx/runtime-tokio-rustls,sqlx/postgres,tokio/macros",
		fatal: true,
	},
	CargoAddManaged: {
		name:  "cargo-add-managed",
		line:  "cargo add shuttle_runtime shuttle_axum shuttle_secrets tokio axum serde sqlx --features serde/derive,sqlx/runtime-tokio-native-tls,sqlx/postgres",
		fatal: true,
	},
}

// String returns the config-file name of the command.
func (id CommandID) String() string {
	if id < 0 || id >= commandCount {
		return fmt.Sprintf("command(%d)", int(id))
	}
	return commandTable[id].name
}

// ParseCommandID maps a command name (as used in config overrides) to its id.
func ParseCommandID(name string) (CommandID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for id := CommandID(0); id < commandCount; id++ {
		if commandTable[id].name == key {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q (known: %s)", name, strings.Join(CommandNames(), ", "))
}

// CommandNames returns every command name, sorted.
func CommandNames() []string {
	names := make([]string, 0, int(commandCount))
	for id := CommandID(0); id < commandCount; id++ {
		names = append(names, commandTable[id].name)
	}
	sort.Strings(names)
	return names
}

// Params are the values available to command templates.
type Params struct {
	// Name is the project (or sub-project) name passed to initializers.
	Name string
}

// Commands is the resolved command table, possibly with user overrides applied.
type Commands struct {
	lines [commandCount]string
}

// DefaultCommands returns the built-in command table.
func DefaultCommands() *Commands {
	c := &Commands{}
	for id := CommandID(0); id < commandCount; id++ {
		c.lines[id] = commandTable[id].line
	}
	return c
}

// WithOverrides returns a copy of c with the named command templates replaced.
func (c *Commands) WithOverrides(overrides map[string]string) (*Commands, error) {
	out := *c
	for name, line := range overrides {
		id, err := ParseCommandID(name)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("override for command %q is empty", name)
		}
		if _, err := template.New(name).Option("missingkey=error").Parse(line); err != nil {
			return nil, fmt.Errorf("parse override for command %q: %w", name, err)
		}
		out.lines[id] = line
	}
	return &out, nil
}

// Render produces the command line for id.
func (c *Commands) Render(id CommandID, p Params) (string, error) {
	if id < 0 || id >= commandCount {
		return "", fmt.Errorf("unknown command id %d", int(id))
	}
	return renderTemplate(id.String(), c.lines[id], p)
}

// invoke builds the Invoke step for id running in dir.
func (c *Commands) invoke(id CommandID, p Params, dir string) (Invoke, error) {
	line, err := c.Render(id, p)
	if err != nil {
		return Invoke{}, err
	}
	spec := commandTable[id]
	creates := make([]string, 0, len(spec.creates))
	for _, tmpl := range spec.creates {
		rel, err := renderTemplate(id.String()+"-creates", tmpl, p)
		if err != nil {
			return Invoke{}, err
		}
		creates = append(creates, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	return Invoke{
		Command: id,
		Line:    line,
		Dir:     dir,
		Fatal:   spec.fatal,
		Creates: creates,
	}, nil
}

func renderTemplate(name, text string, p Params) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse command template %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("render command template %q: %w", name, err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}

// Programs returns the distinct executables the command table invokes, sorted.
func (c *Commands) Programs() ([]string, error) {
	seen := make(map[string]struct{})
	for id := CommandID(0); id < commandCount; id++ {
		line, err := c.Render(id, Params{Name: "project"})
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		seen[fields[0]] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for prog := range seen {
		out = append(out, prog)
	}
	sort.Strings(out)
	return out, nil
}
