package network

import (
	"errors"
	"fmt"
)

// DefaultRoute is the destination of the route to the internet gateway.
const DefaultRoute = "0.0.0.0/0"

// stepErrors collects the per-resource failures of one setup step.
type stepErrors []error

func (s *stepErrors) add(err error) {
	*s = append(*s, err)
}

// join returns nil when the step had no failures.
func (s stepErrors) join(step string) error {
	if len(s) == 0 {
		return nil
	}
	return fmt.Errorf("%s: %d failure(s): %w", step, len(s), errors.Join(s...))
}
