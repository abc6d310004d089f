package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gvpc/cmd/gvpc/handlers"
)

// Apply returns the command that builds the regional VPCs and the mesh.
//
// Optional flags:
//
//	--yes, -y: Skip the confirmation prompt
//	--strict:  Exit non-zero unless every region and peering succeeded
//
// Environment variables:
//
//	AWS_PROFILE, AWS_REGION and the usual AWS credential variables
//	GVPC_TIMEOUT_NETWORK_AVAILABLE, GVPC_TIMEOUT_PEERING_VISIBLE
func Apply(configPath *string) *cobra.Command {
	var opts handlers.ApplyOptions

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create the regional VPCs and peer them",
		Long: `Create one VPC in every enabled region and connect them all.

Each region gets a 10.x.0.0/16 block derived from its position in the
sorted region list, an internet gateway, ICMP ingress from 10.0.0.0/8 and
public, private, data and admin subnets in every availability zone. Once
every region is built, each pair of VPCs is peered and routed.

Nothing is rolled back. Failed regions and pairs are listed in the
summary at the end of the run.

Examples:
  # Ask for confirmation, then build the mesh
  gvpc apply

  # Unattended run that fails on any partial result
  gvpc apply --yes --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.ConfigPath = *configPath
			return handlers.Apply(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero when any region or peering failed")

	return cmd
}
