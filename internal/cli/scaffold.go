package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/intent"
	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// newStartCommand creates the "start" subcommand that scaffolds a frontend with a nested backend.
func newStartCommand(opts *Options, d deps) *cobra.Command {
	return newScaffoldCommand(opts, d, "start",
		"Scaffold a Next.js + Tailwind frontend with an Axum backend",
		true)
}

// newBackendCommand creates the "backend" subcommand that scaffolds only the Axum backend.
func newBackendCommand(opts *Options, d deps) *cobra.Command {
	return newScaffoldCommand(opts, d, "backend",
		"Scaffold an Axum backend",
		false)
}

func newScaffoldCommand(opts *Options, d deps, use, short string, includeFrontend bool) *cobra.Command {
	var (
		name    string
		managed bool
		shuttle bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := plan.TargetContainerImage
			if managed || shuttle {
				target = plan.TargetManagedPlatform
			}

			provider := intentProvider(opts, d, name, target, includeFrontend)
			in, err := provider.Intent(cmd.Context())
			if err != nil {
				return err
			}

			cmds, err := opts.config.CommandTable()
			if err != nil {
				return err
			}

			p, err := plan.ForIntent(in, cmds)
			if err != nil {
				return err
			}

			LoggerFromContext(cmd.Context()).Debug("plan resolved",
				"plan", p.Name,
				"project", in.ProjectName,
				"target", in.Target.String(),
			)
			return runPlan(cmd, opts, d, p)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name (prompted for when omitted)")
	cmd.Flags().BoolVarP(&managed, "managed-platform", "s", false, "Deploy the backend to the managed platform instead of building a container image")
	cmd.Flags().BoolVar(&shuttle, "shuttle", false, "Alias for --managed-platform")
	_ = cmd.Flags().MarkHidden("shuttle")

	return cmd
}

// intentProvider prefers --name, then MILKMILK_PROJECT_NAME, then prompts on stdin.
func intentProvider(opts *Options, d deps, name string, target plan.DeployTarget, includeFrontend bool) intent.Provider {
	for _, candidate := range []string{name, opts.environ.ProjectName} {
		if strings.TrimSpace(candidate) != "" {
			return intent.Static{Value: plan.Intent{
				ProjectName:     candidate,
				Target:          target,
				IncludeFrontend: includeFrontend,
			}}
		}
	}
	return intent.Prompt{
		In:              d.stdin,
		Out:             d.stdout,
		Interactive:     d.interactive,
		Target:          target,
		IncludeFrontend: includeFrontend,
	}
}
