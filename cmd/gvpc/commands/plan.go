package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gvpc/cmd/gvpc/handlers"
)

// Plan returns the command that prints the address plan.
func Plan(configPath *string) *cobra.Command {
	var opts handlers.PlanOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the address plan without changing anything",
		Long: `Show the CIDR block of every region and the subnets of every zone.

By default regions and availability zones are read from AWS. With
--offline no AWS call is made: the regions come from --regions and each
region is assumed to have --zones zones.

Examples:
  gvpc plan
  gvpc plan --offline --regions us-east-1,eu-west-1 --zones 3
  gvpc plan --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = *configPath
			return handlers.Plan(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "Plan without calling AWS")
	cmd.Flags().StringSliceVar(&opts.Regions, "regions", nil, "Regions to plan with --offline")
	cmd.Flags().IntVar(&opts.Zones, "zones", 3, "Availability zones per region with --offline (1-10)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "table", "Output format: table or yaml")

	return cmd
}
