// Package main is the entry point for the gvpc CLI.
//
// gvpc provisions one VPC in every enabled AWS region, lays out a fixed
// four-tier subnet plan per availability zone and connects all regional
// VPCs with a full mesh of peering connections.
//
// Commands: apply, plan, regions, version, completion.
//
// For detailed usage information, run:
//
//	gvpc --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/gvpc/cmd/gvpc/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
