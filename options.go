package crawlpoint

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.crawlpoint.io/v2"

// clientConfig holds configuration for the client. maxRetries is a
// pointer so an explicit zero can be told apart from "not set".
type clientConfig struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	maxRetries    *int
	minRetryDelay time.Duration
	logger        *zerolog.Logger
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Transport concerns such as
// proxies and compression belong to this client. WithTimeout still
// applies; it is set on a copy, leaving the caller's client unmodified.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithMaxRetries sets the number of retries for transient failures.
// 0 disables retrying. Default: 8.
func WithMaxRetries(count int) Option {
	return func(c *clientConfig) {
		c.maxRetries = &count
	}
}

// WithMinRetryDelay sets the base backoff delay. The delay before retry
// k is minDelay * 2^(k-1) with randomized jitter, capped at 30 seconds.
// Default: 500ms.
func WithMinRetryDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		c.minRetryDelay = delay
	}
}

// WithLogger sets the logger for request and retry debug lines.
// Logging is disabled by default.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}
