package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	NetworkAvailable  time.Duration // Wait for a new VPC to become available
	PeeringVisible    time.Duration // Wait for a peering request to show up in the accepter region
	RetryMaxAttempts  int           // Maximum number of retries for eventually consistent calls
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - GVPC_TIMEOUT_NETWORK_AVAILABLE (default: 5m)
//   - GVPC_TIMEOUT_PEERING_VISIBLE (default: 5m)
//   - GVPC_RETRY_MAX_ATTEMPTS (default: 5)
//   - GVPC_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		NetworkAvailable:  parseDuration("GVPC_TIMEOUT_NETWORK_AVAILABLE", 5*time.Minute),
		PeeringVisible:    parseDuration("GVPC_TIMEOUT_PEERING_VISIBLE", 5*time.Minute),
		RetryMaxAttempts:  parseInt("GVPC_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("GVPC_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
