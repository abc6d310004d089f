// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] retries an operation with configurable max attempts,
// initial delay and maximum delay. The EC2 client uses it to ride out the
// eventual consistency window of freshly created peering connections and
// API throttling.
package retry
