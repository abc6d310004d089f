package ec2

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// EC2 API error codes used for classification.
const (
	codeRequestLimitExceeded = "RequestLimitExceeded"
	codeThrottling           = "Throttling"
	codeThrottlingException  = "ThrottlingException"
	codeDependencyViolation  = "DependencyViolation"
	codePeeringNotFound      = "InvalidVpcPeeringConnectionID.NotFound"
	codePermissionDuplicate  = "InvalidPermission.Duplicate"
	codeRouteAlreadyExists   = "RouteAlreadyExists"
)

// apiErrorCode extracts the smithy API error code, or "".
func apiErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

// IsThrottled checks if an error indicates API rate limiting.
func IsThrottled(err error) bool {
	switch apiErrorCode(err) {
	case codeRequestLimitExceeded, codeThrottling, codeThrottlingException:
		return true
	}
	return false
}

// IsNotFound checks if an error indicates a resource does not exist (yet).
// EC2 reports these as "<Kind>.NotFound".
func IsNotFound(err error) bool {
	return strings.HasSuffix(apiErrorCode(err), ".NotFound")
}

// IsPeeringNotFound checks if a peering connection is not visible in a region.
// Right after creation this is eventual consistency, not a missing resource.
func IsPeeringNotFound(err error) bool {
	return apiErrorCode(err) == codePeeringNotFound
}

// IsAlreadyExists checks if an error indicates the requested state is already in place.
func IsAlreadyExists(err error) bool {
	code := apiErrorCode(err)
	return code == codePermissionDuplicate ||
		code == codeRouteAlreadyExists ||
		strings.HasSuffix(code, ".Duplicate")
}

// IsDependencyViolation checks if an error indicates a dependent resource blocks the call.
func IsDependencyViolation(err error) bool {
	return apiErrorCode(err) == codeDependencyViolation
}

// isRetryable reports whether a call is worth repeating: the API throttled
// us, or a resource created moments ago is not visible yet.
func isRetryable(err error) bool {
	return IsThrottled(err) || IsNotFound(err)
}
