package cli

import (
	"github.com/spf13/cobra"

	"github.com/macropower/cleave/api/v1beta1/enzymesets"
)

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of enzyme set files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeHighlighted(cmd.OutOrStdout(), string(enzymesets.SchemaJSON()), OutputJSON)
		},
	}
}
