package cli

import (
	"github.com/spf13/cobra"

	"github.com/joshua-mo-143/milkmilk/internal/config"
)

// newSchemaCommand creates the "schema" subcommand that prints the milkmilk.yaml JSON Schema.
func newSchemaCommand(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for milkmilk.yaml",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return err
			}
			_, err = d.stdout.Write(data)
			return err
		},
	}
}
