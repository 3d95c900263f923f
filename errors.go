package crawlpoint

import (
	"fmt"

	"github.com/crawlpoint/client-go/internal/apierrors"
)

// Sentinel errors for errors.Is() checks. They are shared with the
// internal transport so matching works on errors from any layer.
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = apierrors.ErrMissingToken

	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = apierrors.ErrUnauthorized

	// ErrNotFound is returned when a resource does not exist and the
	// operation cannot express absence as a nil result.
	ErrNotFound = apierrors.ErrNotFound

	// ErrRateLimited is returned when the API rate limit is exceeded
	// and retries are exhausted.
	ErrRateLimited = apierrors.ErrRateLimited
)

// APIError represents an HTTP error returned by the Crawlpoint API.
type APIError = apierrors.APIError

// NetworkError represents a transport-level failure.
type NetworkError = apierrors.NetworkError

// InvalidInputError reports a client-side parameter validation failure.
// It is returned before any network call and is never retried.
type InvalidInputError struct {
	Param  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s %s", e.Param, e.Reason)
}

// requireID validates a required identifier parameter.
func requireID(param, value string) error {
	if value == "" {
		return &InvalidInputError{Param: param, Reason: "must be a non-empty string"}
	}
	return nil
}
