// Package api implements the low-level HTTP client for the Crawlpoint
// REST API: request building, retry with exponential backoff, response
// envelope unwrapping, and error translation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/crawlpoint/client-go/internal/apierrors"
	"github.com/crawlpoint/client-go/internal/retry"
)

const defaultTimeout = 360 * time.Second

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger

	maxRetries    int
	minRetryDelay time.Duration
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithMaxRetries sets the number of retries for failed requests.
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		c.maxRetries = retries
	}
}

// WithMinRetryDelay sets the base backoff delay between retries.
func WithMinRetryDelay(delay time.Duration) Option {
	return func(c *Client) {
		c.minRetryDelay = delay
	}
}

// WithLogger sets the logger used for request/retry debug lines.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new API client.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, apierrors.ErrMissingToken
	}

	c := &Client{
		baseURL: "https://api.crawlpoint.io/v2",
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:        zerolog.Nop(),
		maxRetries:    retry.DefaultMaxRetries,
		minRetryDelay: retry.DefaultMinDelay,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func (c *Client) policy() retry.Policy {
	return retry.Policy{
		MaxRetries: c.maxRetries,
		MinDelay:   c.minRetryDelay,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			c.logger.Debug().
				Int("attempt", attempt).
				Dur("backoff", delay).
				Err(err).
				Msg("retrying API request")
		},
	}
}

// roundTrip performs a single HTTP exchange and returns the response body.
// Transport failures become retryable NetworkErrors; error statuses become
// APIErrors, bailed unless the status is transient (429, 5xx).
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) ([]byte, http.Header, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, retry.Bail(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		if contentType == "" {
			contentType = "application/json"
		}
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, retry.Bail(ctx.Err())
		}
		return nil, nil, &apierrors.NetworkError{Err: err, URL: u}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &apierrors.NetworkError{Err: err, URL: u}
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("API request")

	if resp.StatusCode >= 400 {
		apiErr := parseErrorResponse(resp.StatusCode, respBody)
		if apierrors.IsRetryable(apiErr) {
			return nil, nil, apiErr
		}
		return nil, nil, retry.Bail(apiErr)
	}

	return respBody, resp.Header, nil
}

// Do performs a JSON API call with retries. A non-nil body is marshaled
// as the JSON request payload. When result is non-nil the response body
// is unwrapped from its data envelope and decoded into it.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
	}

	respBody, err := retry.Do(ctx, c.policy(), func(ctx context.Context) ([]byte, error) {
		body, _, err := c.roundTrip(ctx, method, path, query, payload, "")
		return body, err
	})
	if err != nil {
		return err
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(unwrapData(respBody), result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// DoRaw performs an API call with retries and returns the response body
// unmodified. Used for logs and item exports where the payload is not a
// JSON envelope.
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	return retry.Do(ctx, c.policy(), func(ctx context.Context) ([]byte, error) {
		body, _, err := c.roundTrip(ctx, method, path, query, nil, "")
		return body, err
	})
}

// DoRecord performs a raw download with retries and returns the body
// together with its content type.
func (c *Client) DoRecord(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	type record struct {
		body        []byte
		contentType string
	}
	rec, err := retry.Do(ctx, c.policy(), func(ctx context.Context) (record, error) {
		body, header, err := c.roundTrip(ctx, http.MethodGet, path, query, nil, "")
		if err != nil {
			return record{}, err
		}
		return record{body: body, contentType: header.Get("Content-Type")}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return rec.body, rec.contentType, nil
}

// DoPut uploads a raw body with retries. contentType defaults to
// application/json when empty.
func (c *Client) DoPut(ctx context.Context, path string, body []byte, contentType string) error {
	_, err := retry.Do(ctx, c.policy(), func(ctx context.Context) ([]byte, error) {
		respBody, _, err := c.roundTrip(ctx, http.MethodPut, path, nil, body, contentType)
		return respBody, err
	})
	return err
}

// DoItems performs an item-retrieval call with retries, parsing the body
// into ordered records inside the retry loop: a truncated JSON body is
// retried like a transport failure, while any other parse failure stops
// the loop immediately.
func (c *Client) DoItems(ctx context.Context, method, path string, query url.Values) (*ItemsPage, error) {
	return retry.Do(ctx, c.policy(), func(ctx context.Context) (*ItemsPage, error) {
		body, header, err := c.roundTrip(ctx, method, path, query, nil, "")
		if err != nil {
			return nil, err
		}
		items, err := ParseItems(body)
		if err != nil {
			if isTruncated(err, body) {
				return nil, err
			}
			return nil, retry.Bail(err)
		}
		page := &ItemsPage{Items: items}
		if total := header.Get(TotalCountHeader); total != "" {
			page.Total, _ = strconv.ParseInt(total, 10, 64)
		}
		return page, nil
	})
}

// unwrapData extracts the payload from a {"data": ...} envelope. Bodies
// without the envelope are returned as-is.
func unwrapData(body []byte) []byte {
	if data := gjson.GetBytes(body, "data"); data.Exists() {
		return []byte(data.Raw)
	}
	return body
}

// parseErrorResponse turns an error-status body into an APIError. The
// server convention is {"error": {"type": ..., "message": ...}}; bodies
// that do not follow it keep their raw text as the message.
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Error.Type != "" || errResp.Error.Message != "") {
		return &apierrors.APIError{
			StatusCode: statusCode,
			Type:       errResp.Error.Type,
			Message:    errResp.Error.Message,
		}
	}

	return &apierrors.APIError{
		StatusCode: statusCode,
		Message:    string(body),
	}
}
