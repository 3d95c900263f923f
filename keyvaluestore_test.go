package crawlpoint

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

func TestKeyValueStoreCollection_Create(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/key-value-stores" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("name"); got != "crawl-state" {
			t.Errorf("name = %q", got)
		}
		w.Write([]byte(`{"data": {"id": "kv-1", "name": "crawl-state"}}`))
	}))

	store, err := c.KeyValueStores().Create(context.Background(), "crawl-state")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if store.ID != "kv-1" {
		t.Errorf("ID = %q", store.ID)
	}
}

func TestKeyValueStore_Get_NotFoundYieldsNil(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Store was not found"}}`))
	}))

	store, err := c.KeyValueStore("missing").Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if store != nil {
		t.Errorf("store = %+v, want nil", store)
	}
}

func TestKeyValueStore_GetRecord(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/key-value-stores/kv-1/records/INPUT" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"startUrl": "https://example.com"}`))
	}))

	rec, err := c.KeyValueStore("kv-1").GetRecord(context.Background(), "INPUT")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec == nil {
		t.Fatal("record = nil")
	}
	if rec.Key != "INPUT" || rec.ContentType != "application/json" {
		t.Errorf("record = %+v", rec)
	}
	if string(rec.Value) != `{"startUrl": "https://example.com"}` {
		t.Errorf("value = %q", rec.Value)
	}
}

func TestKeyValueStore_GetRecord_NotFoundYieldsNil(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Record was not found"}}`))
	}))

	rec, err := c.KeyValueStore("kv-1").GetRecord(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if rec != nil {
		t.Errorf("record = %+v, want nil", rec)
	}
}

func TestKeyValueStore_SetRecord(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.KeyValueStore("kv-1").SetRecord(context.Background(), "page.html", []byte("<html></html>"), "text/html")
	if err != nil {
		t.Fatalf("SetRecord() error = %v", err)
	}
	if gotContentType != "text/html" {
		t.Errorf("Content-Type = %q", gotContentType)
	}
	if string(gotBody) != "<html></html>" {
		t.Errorf("body = %q", gotBody)
	}
}

func TestKeyValueStore_SetRecord_EmptyKey(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	err := c.KeyValueStore("kv-1").SetRecord(context.Background(), "", []byte("x"), "")
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Errorf("SetRecord(\"\") error = %T(%v), want *InvalidInputError", err, err)
	}
}

func TestKeyValueStore_DeleteRecord_Idempotent(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "record-not-found", "message": "Record was not found"}}`))
	}))

	if err := c.KeyValueStore("kv-1").DeleteRecord(context.Background(), "gone"); err != nil {
		t.Errorf("DeleteRecord() on missing key = %v, want nil", err)
	}
}

func TestKeyValueStore_ListKeys(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("limit"); got != "10" {
			t.Errorf("limit = %q", got)
		}
		if got := q.Get("exclusiveStartKey"); got != "after-this" {
			t.Errorf("exclusiveStartKey = %q", got)
		}
		w.Write([]byte(`{"data": {
			"items": [{"key": "INPUT", "size": 120}],
			"count": 1, "limit": 10,
			"exclusiveStartKey": "after-this",
			"nextExclusiveStartKey": "INPUT",
			"isTruncated": true
		}}`))
	}))

	keys, err := c.KeyValueStore("kv-1").ListKeys(context.Background(), ListKeysOptions{
		Limit:             10,
		ExclusiveStartKey: "after-this",
	})
	if err != nil {
		t.Fatalf("ListKeys() error = %v", err)
	}
	if len(keys.Items) != 1 || keys.Items[0].Key != "INPUT" {
		t.Errorf("items = %+v", keys.Items)
	}
	if !keys.IsTruncated || keys.NextExclusiveStartKey != "INPUT" {
		t.Errorf("keys = %+v", keys)
	}
}
