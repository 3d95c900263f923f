package crawlpoint

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestRequestQueue_ClientKeyStableAcrossCalls(t *testing.T) {
	var keys []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.URL.Query().Get("clientKey"))
		w.Write([]byte(`{"data": {"requestId": "req-1"}}`))
	}))

	rq := c.RequestQueue("rq-1")
	for i := 0; i < 3; i++ {
		_, err := rq.AddRequest(context.Background(), QueueRequest{URL: "https://example.com"}, false)
		if err != nil {
			t.Fatalf("AddRequest() error = %v", err)
		}
	}

	if len(keys) != 3 {
		t.Fatalf("calls = %d, want 3", len(keys))
	}
	if keys[0] == "" {
		t.Fatal("clientKey missing from query")
	}
	if keys[0] != keys[1] || keys[1] != keys[2] {
		t.Errorf("clientKey changed across calls: %v", keys)
	}

	// A separate queue client gets its own key.
	other := c.RequestQueue("rq-1")
	if _, err := other.AddRequest(context.Background(), QueueRequest{URL: "https://example.com"}, false); err != nil {
		t.Fatalf("AddRequest() error = %v", err)
	}
	if keys[3] == keys[0] {
		t.Error("distinct queue clients must not share a clientKey")
	}
}

func TestRequestQueue_AddRequest(t *testing.T) {
	var gotRequest QueueRequest
	var gotForefront string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotForefront = r.URL.Query().Get("forefront")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"data": {"requestId": "req-1", "wasAlreadyPresent": true}}`))
	}))

	info, err := c.RequestQueue("rq-1").AddRequest(context.Background(), QueueRequest{
		URL: "https://example.com/page",
	}, true)
	if err != nil {
		t.Fatalf("AddRequest() error = %v", err)
	}
	if gotForefront != "1" {
		t.Errorf("forefront = %q, want 1", gotForefront)
	}
	// uniqueKey defaults to the URL when unset.
	if gotRequest.UniqueKey != "https://example.com/page" {
		t.Errorf("uniqueKey = %q", gotRequest.UniqueKey)
	}
	if info.RequestID != "req-1" || !info.WasAlreadyPresent {
		t.Errorf("info = %+v", info)
	}
}

func TestRequestQueue_AddRequest_RequiresURL(t *testing.T) {
	called := false
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := c.RequestQueue("rq-1").AddRequest(context.Background(), QueueRequest{}, false)
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("AddRequest() error = %T(%v), want *InvalidInputError", err, err)
	}
	if called {
		t.Error("validation failures must not reach the network")
	}
}

func TestRequestQueue_GetRequest_NotFoundYieldsNil(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Request was not found"}}`))
	}))

	request, err := c.RequestQueue("rq-1").GetRequest(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetRequest() error = %v", err)
	}
	if request != nil {
		t.Errorf("request = %+v, want nil", request)
	}
}

func TestRequestQueue_UpdateRequest_MarkHandled(t *testing.T) {
	handledAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var gotRequest QueueRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/request-queues/rq-1/requests/req-1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"data": {"requestId": "req-1", "wasAlreadyHandled": false}}`))
	}))

	_, err := c.RequestQueue("rq-1").UpdateRequest(context.Background(), QueueRequest{
		ID:        "req-1",
		UniqueKey: "https://example.com",
		URL:       "https://example.com",
		HandledAt: &handledAt,
	}, false)
	if err != nil {
		t.Fatalf("UpdateRequest() error = %v", err)
	}
	if gotRequest.HandledAt == nil || !gotRequest.HandledAt.Equal(handledAt) {
		t.Errorf("handledAt = %v", gotRequest.HandledAt)
	}
}

func TestRequestQueue_DeleteRequest_Idempotent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Request was not found"}}`))
	}))

	if err := c.RequestQueue("rq-1").DeleteRequest(context.Background(), "gone"); err != nil {
		t.Errorf("DeleteRequest() on missing request = %v, want nil", err)
	}
}

func TestRequestQueue_ListHead(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/request-queues/rq-1/head" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "25" {
			t.Errorf("limit = %q", got)
		}
		w.Write([]byte(`{"data": {
			"limit": 25,
			"queueModifiedAt": "2024-05-01T12:00:00Z",
			"hadMultipleClients": false,
			"items": [
				{"id": "req-1", "uniqueKey": "https://example.com", "url": "https://example.com"}
			]
		}}`))
	}))

	head, err := c.RequestQueue("rq-1").ListHead(context.Background(), 25)
	if err != nil {
		t.Fatalf("ListHead() error = %v", err)
	}
	if len(head.Items) != 1 || head.Items[0].ID != "req-1" {
		t.Errorf("head = %+v", head)
	}
}
