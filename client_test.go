package crawlpoint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient returns a client backed by an httptest server running
// handler, with retries tuned for fast tests.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("test-token",
		WithBaseURL(srv.URL),
		WithMaxRetries(2),
		WithMinRetryDelay(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RequiresToken(t *testing.T) {
	t.Setenv(EnvToken, "")
	_, err := New("")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("New(\"\") error = %v, want ErrMissingToken", err)
	}
}

func TestNew_TokenFromEnvironment(t *testing.T) {
	t.Setenv(EnvToken, "env-token")
	c, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c == nil {
		t.Fatal("New() returned nil client")
	}
}

func TestNew_ExplicitTokenWins(t *testing.T) {
	t.Setenv(EnvToken, "env-token")
	if _, err := New("explicit-token"); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNew_MaxRetriesZeroDisablesRetrying(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c, err := New("test-token",
		WithBaseURL(srv.URL),
		WithMaxRetries(0),
		WithMinRetryDelay(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, err := c.Datasets().List(context.Background(), ListOptions{}); err == nil {
		t.Fatal("List() error = nil, want error from 503")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (WithMaxRetries(0) must disable retrying)", calls)
	}
}

func TestNew_TimeoutAppliesToCustomHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	custom := &http.Client{}
	c, err := New("test-token",
		WithBaseURL(srv.URL),
		WithHTTPClient(custom),
		WithTimeout(20*time.Millisecond),
		WithMaxRetries(0),
		WithMinRetryDelay(time.Microsecond),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = c.Datasets().List(context.Background(), ListOptions{})
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Errorf("List() error = %T(%v), want *NetworkError from timeout", err, err)
	}

	// The caller's client must not be mutated.
	if custom.Timeout != 0 {
		t.Errorf("custom client Timeout = %v, want 0", custom.Timeout)
	}
}
