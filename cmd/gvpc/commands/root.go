// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the gvpc CLI.
//
// The --config flag is persistent so every subcommand reads the same file.
func Root() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "gvpc",
		Short:         "Provision a full mesh of peered VPCs across AWS regions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: gvpc.yaml)")

	cmd.AddCommand(Apply(&configPath))
	cmd.AddCommand(Plan(&configPath))
	cmd.AddCommand(Regions(&configPath))
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
