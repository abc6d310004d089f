// Package s3 provides a small S3 client for storing gvpc run reports.
//
// It creates the report bucket on first use and uploads one JSON object
// per run. An alternative endpoint and path-style addressing can be set
// for S3-compatible stores.
package s3
