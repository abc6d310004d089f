package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gvpc/cmd/gvpc/handlers"
)

// Regions returns the command that lists the regions a run would cover.
func Regions(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the enabled regions and their address blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Regions(cmd.Context(), *configPath)
		},
	}
}
