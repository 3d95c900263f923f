package crawlpoint

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestLog_Get(t *testing.T) {
	const logText = "2024-05-01 INFO crawl started\n2024-05-01 INFO 120 pages fetched\n"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logs/run-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(logText))
	}))

	text, err := c.Log("run-1").Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if text != logText {
		t.Errorf("text = %q", text)
	}
}

func TestLog_Get_NotFoundYieldsEmpty(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Log was not found"}}`))
	}))

	text, err := c.Log("no-log").Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
}

func TestLog_Get_EmptyRunID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := c.Log("").Get(context.Background())
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("Get() error = %T(%v), want *InvalidInputError", err, err)
	}
}
