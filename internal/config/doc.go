// Package config defines the gvpc configuration model.
//
// The [Config] struct is read from gvpc.yaml (optional) and controls
// which regions take part in the mesh, worker pool sizes, the peering
// policy for partially built regions, logging, the run report
// destination and the metrics textfile. Provider wait timeouts come from
// environment variables through [LoadTimeouts].
package config
