// Package orchestration runs a complete mesh provisioning run.
//
// This package coordinates the two provisioning phases in internal/provisioning
// subpackages. It defines the order and the concurrency but delegates the
// actual work.
//
// # Workflow
//
// The Orchestrator executes the following steps:
//  1. Confirmation gate - nothing happens unless the caller says proceed
//  2. Discovery - list regions, apply the include/exclude filter
//  3. Address plan - assign each region a unique /16 by its sorted position
//  4. Network phase - build every regional VPC on a bounded worker pool
//  5. Barrier - wait until every build finished
//  6. Mesh phase - peer every pair of built VPCs on a second bounded pool
//
// A failing region or pair never stops the others. The outcome of every
// task is collected in a [RunReport].
//
// # Usage
//
//	o := orchestration.New(provider, cfg, orchestration.WithObserver(obs))
//	report, err := o.RunWithDiscovery(ctx, proceed)
package orchestration
