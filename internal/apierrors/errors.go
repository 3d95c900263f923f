// Package apierrors provides shared error types for the Crawlpoint client.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = errors.New("API token is required")

	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API token")

	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ResourceType indicates which type of resource an error relates to.
type ResourceType string

const (
	// ResourceUnknown indicates the resource type is not specified.
	ResourceUnknown ResourceType = ""
	// ResourceDataset indicates the error relates to a dataset.
	ResourceDataset ResourceType = "dataset"
	// ResourceKeyValueStore indicates the error relates to a key-value store.
	ResourceKeyValueStore ResourceType = "key-value-store"
	// ResourceRequestQueue indicates the error relates to a request queue.
	ResourceRequestQueue ResourceType = "request-queue"
	// ResourceLog indicates the error relates to a crawl log.
	ResourceLog ResourceType = "log"
	// ResourceWebhook indicates the error relates to a webhook.
	ResourceWebhook ResourceType = "webhook"
	// ResourceWebhookDispatch indicates the error relates to a webhook dispatch.
	ResourceWebhookDispatch ResourceType = "webhook-dispatch"
)

// APIError represents an HTTP error returned by the Crawlpoint API.
type APIError struct {
	StatusCode   int
	Type         string // machine-readable error type from the server, e.g. "record-not-found"
	Message      string
	ResourceType ResourceType
}

func (e *APIError) Error() string {
	if e.Type != "" && e.Message != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Type, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// WithResourceType returns a copy of the error with the resource type set.
// If the error is not an *APIError, it is returned unchanged.
func WithResourceType(err error, rt ResourceType) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:   apiErr.StatusCode,
			Type:         apiErr.Type,
			Message:      apiErr.Message,
			ResourceType: rt,
		}
	}
	return err
}

// NetworkError represents a transport-level failure (connection refused,
// timeout, broken body). Network errors are always retryable.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err corresponds to an HTTP 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRetryable reports whether err is worth retrying: transport failures,
// rate limiting, and server-side 5xx responses. Client errors (4xx other
// than 429) are terminal.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return false
}
