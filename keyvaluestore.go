package crawlpoint

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// KeyValueStore is a storage for arbitrary records addressed by key,
// typically crawl inputs, outputs, and screenshots.
type KeyValueStore struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
	AccessedAt time.Time `json:"accessedAt"`
}

// KeyValueStoreUpdate holds the mutable fields of a key-value store.
type KeyValueStoreUpdate struct {
	Name string `json:"name"`
}

// Record is a single key-value store entry.
type Record struct {
	Key         string
	Value       []byte
	ContentType string
}

// RecordKey describes one key in a store listing.
type RecordKey struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
}

// KeyList is a page of record keys.
type KeyList struct {
	Items                 []RecordKey `json:"items"`
	Count                 int64       `json:"count"`
	Limit                 int64       `json:"limit"`
	ExclusiveStartKey     string      `json:"exclusiveStartKey"`
	NextExclusiveStartKey string      `json:"nextExclusiveStartKey"`
	IsTruncated           bool        `json:"isTruncated"`
}

// ListKeysOptions are the parameters for listing record keys.
type ListKeysOptions struct {
	// Limit caps the number of returned keys. 0 means server default.
	Limit int
	// ExclusiveStartKey resumes the listing after this key.
	ExclusiveStartKey string
}

// KeyValueStoreCollection operates on the account's key-value stores.
type KeyValueStoreCollection struct {
	api *api.Client
}

// List returns a page of key-value stores.
func (kc *KeyValueStoreCollection) List(ctx context.Context, opts ListOptions) (*Page[KeyValueStore], error) {
	var page Page[KeyValueStore]
	if err := kc.api.Do(ctx, http.MethodGet, "/key-value-stores", opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &page, nil
}

// Create creates a named key-value store, returning the existing store
// when the name is already taken.
func (kc *KeyValueStoreCollection) Create(ctx context.Context, name string) (*KeyValueStore, error) {
	if err := requireID("store name", name); err != nil {
		return nil, err
	}
	q := url.Values{}
	api.AddString(q, "name", name)

	var store KeyValueStore
	if err := kc.api.Do(ctx, http.MethodPost, "/key-value-stores", q, nil, &store); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &store, nil
}

// KeyValueStoreClient operates on a single key-value store.
type KeyValueStoreClient struct {
	api *api.Client
	id  string
}

func (k *KeyValueStoreClient) path(suffix string) string {
	return "/key-value-stores/" + url.PathEscape(k.id) + suffix
}

// Get returns the store, or nil when it does not exist.
func (k *KeyValueStoreClient) Get(ctx context.Context) (*KeyValueStore, error) {
	if err := requireID("store ID", k.id); err != nil {
		return nil, err
	}
	var store KeyValueStore
	err := k.api.Do(ctx, http.MethodGet, k.path(""), nil, nil, &store)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &store, nil
}

// Update changes the store's mutable fields and returns the updated
// store.
func (k *KeyValueStoreClient) Update(ctx context.Context, update KeyValueStoreUpdate) (*KeyValueStore, error) {
	if err := requireID("store ID", k.id); err != nil {
		return nil, err
	}
	var store KeyValueStore
	if err := k.api.Do(ctx, http.MethodPut, k.path(""), nil, update, &store); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &store, nil
}

// Delete removes the store. Deleting a store that does not exist is not
// an error.
func (k *KeyValueStoreClient) Delete(ctx context.Context) error {
	if err := requireID("store ID", k.id); err != nil {
		return err
	}
	err := k.api.Do(ctx, http.MethodDelete, k.path(""), nil, nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
}

// GetRecord returns a record's raw value, or nil when the key does not
// exist.
func (k *KeyValueStoreClient) GetRecord(ctx context.Context, key string) (*Record, error) {
	if err := requireID("store ID", k.id); err != nil {
		return nil, err
	}
	if err := requireID("record key", key); err != nil {
		return nil, err
	}
	body, contentType, err := k.api.DoRecord(ctx, k.path("/records/"+url.PathEscape(key)), nil)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &Record{Key: key, Value: body, ContentType: contentType}, nil
}

// SetRecord stores value under key. contentType may be empty for JSON
// payloads.
func (k *KeyValueStoreClient) SetRecord(ctx context.Context, key string, value []byte, contentType string) error {
	if err := requireID("store ID", k.id); err != nil {
		return err
	}
	if err := requireID("record key", key); err != nil {
		return err
	}
	return apierrors.WithResourceType(
		k.api.DoPut(ctx, k.path("/records/"+url.PathEscape(key)), value, contentType),
		apierrors.ResourceKeyValueStore,
	)
}

// DeleteRecord removes a record. Deleting a key that does not exist is
// not an error.
func (k *KeyValueStoreClient) DeleteRecord(ctx context.Context, key string) error {
	if err := requireID("store ID", k.id); err != nil {
		return err
	}
	if err := requireID("record key", key); err != nil {
		return err
	}
	err := k.api.Do(ctx, http.MethodDelete, k.path("/records/"+url.PathEscape(key)), nil, nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
}

// ListKeys returns a page of the store's record keys in lexicographic
// order.
func (k *KeyValueStoreClient) ListKeys(ctx context.Context, opts ListKeysOptions) (*KeyList, error) {
	if err := requireID("store ID", k.id); err != nil {
		return nil, err
	}
	q := url.Values{}
	api.AddInt(q, "limit", opts.Limit)
	api.AddString(q, "exclusiveStartKey", opts.ExclusiveStartKey)

	var keys KeyList
	if err := k.api.Do(ctx, http.MethodGet, k.path("/keys"), q, nil, &keys); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceKeyValueStore)
	}
	return &keys, nil
}
