package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/joshua-mo-143/milkmilk/internal/plan"
)

// Schema returns the JSON Schema describing milkmilk.yaml.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		FieldNameTag:   "yaml",
	}

	schema := r.Reflect(&Config{})
	schema.Title = "milkmilk configuration"
	schema.Description = "Schema for milkmilk.yaml."
	schema.Required = nil

	if commands, ok := schema.Properties.Get("commands"); ok && commands != nil {
		names := plan.CommandNames()
		enum := make([]any, 0, len(names))
		for _, name := range names {
			enum = append(enum, name)
		}
		commands.PropertyNames = &jsonschema.Schema{Enum: enum}
	}
	return schema
}

// SchemaJSON renders Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal config schema: %w", err)
	}
	return append(data, '\n'), nil
}
