package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskmcp/internal/openai"
	"taskmcp/internal/tools"
)

// Catalog output formats.
const (
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatOpenAI = "openai"
)

func (a *App) toolsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := a.newDispatcher(cmd.Context())
			if err != nil {
				return err
			}
			catalog := d.Registry().Catalog()

			switch format {
			case FormatJSON:
				return a.writeJSON(catalog)
			case FormatOpenAI:
				return a.writeJSON(openai.Functions(catalog))
			case FormatYAML:
				return a.writeYAML(catalog)
			default:
				return userErrorf("invalid format %q, must be one of: json, yaml, openai", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "Output format: json, yaml or openai")
	return cmd
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// yamlDescriptor mirrors tools.Descriptor with the schema decoded so it
// renders as a YAML mapping rather than bytes.
type yamlDescriptor struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	InputSchema any    `yaml:"inputSchema"`
}

func (a *App) writeYAML(catalog []tools.Descriptor) error {
	docs := make([]yamlDescriptor, len(catalog))
	for i, d := range catalog {
		var schema any
		if err := json.Unmarshal(d.InputSchema, &schema); err != nil {
			return err
		}
		docs[i] = yamlDescriptor{Name: d.Name, Description: d.Description, InputSchema: schema}
	}

	enc := yaml.NewEncoder(a.out)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}
