package crawlpoint

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/crawlpoint/client-go/internal/api"
	"github.com/crawlpoint/client-go/internal/apierrors"
)

// RequestQueue is a dynamic queue of URLs to crawl, supporting both
// breadth-first and depth-first processing.
type RequestQueue struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	UserID              string    `json:"userId"`
	TotalRequestCount   int64     `json:"totalRequestCount"`
	HandledRequestCount int64     `json:"handledRequestCount"`
	PendingRequestCount int64     `json:"pendingRequestCount"`
	CreatedAt           time.Time `json:"createdAt"`
	ModifiedAt          time.Time `json:"modifiedAt"`
	AccessedAt          time.Time `json:"accessedAt"`
}

// RequestQueueUpdate holds the mutable fields of a request queue.
type RequestQueueUpdate struct {
	Name string `json:"name"`
}

// QueueRequest is a single request stored in a queue.
type QueueRequest struct {
	ID        string         `json:"id,omitempty"`
	UniqueKey string         `json:"uniqueKey"`
	URL       string         `json:"url"`
	Method    string         `json:"method,omitempty"`
	Payload   string         `json:"payload,omitempty"`
	Retries   int            `json:"retryCount,omitempty"`
	UserData  map[string]any `json:"userData,omitempty"`
	HandledAt *time.Time     `json:"handledAt,omitempty"`
}

// QueueOperationInfo is the server's acknowledgement of a queue write.
type QueueOperationInfo struct {
	RequestID         string `json:"requestId"`
	WasAlreadyPresent bool   `json:"wasAlreadyPresent"`
	WasAlreadyHandled bool   `json:"wasAlreadyHandled"`
}

// QueueHead is the front slice of a queue.
type QueueHead struct {
	Items              []QueueRequest `json:"items"`
	Limit              int64          `json:"limit"`
	QueueModifiedAt    time.Time      `json:"queueModifiedAt"`
	HadMultipleClients bool           `json:"hadMultipleClients"`
}

// RequestQueueCollection operates on the account's request queues.
type RequestQueueCollection struct {
	api *api.Client
}

// List returns a page of request queues.
func (rc *RequestQueueCollection) List(ctx context.Context, opts ListOptions) (*Page[RequestQueue], error) {
	var page Page[RequestQueue]
	if err := rc.api.Do(ctx, http.MethodGet, "/request-queues", opts.query(), nil, &page); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &page, nil
}

// Create creates a named request queue, returning the existing queue
// when the name is already taken.
func (rc *RequestQueueCollection) Create(ctx context.Context, name string) (*RequestQueue, error) {
	if err := requireID("queue name", name); err != nil {
		return nil, err
	}
	q := url.Values{}
	api.AddString(q, "name", name)

	var queue RequestQueue
	if err := rc.api.Do(ctx, http.MethodPost, "/request-queues", q, nil, &queue); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &queue, nil
}

// RequestQueueClient operates on a single request queue. Every call
// carries a clientKey generated once per client, letting the server
// attribute head locks to this consumer.
type RequestQueueClient struct {
	api       *api.Client
	id        string
	clientKey string
}

func newRequestQueueClient(apiClient *api.Client, id string) *RequestQueueClient {
	return &RequestQueueClient{
		api:       apiClient,
		id:        id,
		clientKey: uuid.NewString(),
	}
}

func (r *RequestQueueClient) path(suffix string) string {
	return "/request-queues/" + url.PathEscape(r.id) + suffix
}

func (r *RequestQueueClient) query() url.Values {
	q := url.Values{}
	q.Set("clientKey", r.clientKey)
	return q
}

// Get returns the queue, or nil when it does not exist.
func (r *RequestQueueClient) Get(ctx context.Context) (*RequestQueue, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	var queue RequestQueue
	err := r.api.Do(ctx, http.MethodGet, r.path(""), nil, nil, &queue)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &queue, nil
}

// Update changes the queue's mutable fields and returns the updated
// queue.
func (r *RequestQueueClient) Update(ctx context.Context, update RequestQueueUpdate) (*RequestQueue, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	var queue RequestQueue
	if err := r.api.Do(ctx, http.MethodPut, r.path(""), nil, update, &queue); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &queue, nil
}

// Delete removes the queue. Deleting a queue that does not exist is not
// an error.
func (r *RequestQueueClient) Delete(ctx context.Context) error {
	if err := requireID("queue ID", r.id); err != nil {
		return err
	}
	err := r.api.Do(ctx, http.MethodDelete, r.path(""), nil, nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
}

// AddRequest enqueues a request. forefront places it at the head of the
// queue instead of the tail. Adding a request whose uniqueKey is already
// present is not an error; the acknowledgement reports it.
func (r *RequestQueueClient) AddRequest(ctx context.Context, request QueueRequest, forefront bool) (*QueueOperationInfo, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	if err := requireID("request URL", request.URL); err != nil {
		return nil, err
	}
	if request.UniqueKey == "" {
		request.UniqueKey = request.URL
	}

	q := r.query()
	api.AddBool(q, "forefront", forefront)

	var info QueueOperationInfo
	if err := r.api.Do(ctx, http.MethodPost, r.path("/requests"), q, request, &info); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &info, nil
}

// GetRequest returns a queued request by ID, or nil when it does not
// exist.
func (r *RequestQueueClient) GetRequest(ctx context.Context, requestID string) (*QueueRequest, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	if err := requireID("request ID", requestID); err != nil {
		return nil, err
	}
	var request QueueRequest
	err := r.api.Do(ctx, http.MethodGet, r.path("/requests/"+url.PathEscape(requestID)), nil, nil, &request)
	if apierrors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &request, nil
}

// UpdateRequest overwrites a queued request, typically to mark it
// handled by setting HandledAt.
func (r *RequestQueueClient) UpdateRequest(ctx context.Context, request QueueRequest, forefront bool) (*QueueOperationInfo, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	if err := requireID("request ID", request.ID); err != nil {
		return nil, err
	}

	q := r.query()
	api.AddBool(q, "forefront", forefront)

	var info QueueOperationInfo
	if err := r.api.Do(ctx, http.MethodPut, r.path("/requests/"+url.PathEscape(request.ID)), q, request, &info); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &info, nil
}

// DeleteRequest removes a request from the queue. Deleting a request
// that does not exist is not an error.
func (r *RequestQueueClient) DeleteRequest(ctx context.Context, requestID string) error {
	if err := requireID("queue ID", r.id); err != nil {
		return err
	}
	if err := requireID("request ID", requestID); err != nil {
		return err
	}
	err := r.api.Do(ctx, http.MethodDelete, r.path("/requests/"+url.PathEscape(requestID)), r.query(), nil, nil)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
}

// ListHead returns up to limit requests from the front of the queue
// without locking them.
func (r *RequestQueueClient) ListHead(ctx context.Context, limit int) (*QueueHead, error) {
	if err := requireID("queue ID", r.id); err != nil {
		return nil, err
	}
	q := r.query()
	api.AddInt(q, "limit", limit)

	var head QueueHead
	if err := r.api.Do(ctx, http.MethodGet, r.path("/head"), q, nil, &head); err != nil {
		return nil, apierrors.WithResourceType(err, apierrors.ResourceRequestQueue)
	}
	return &head, nil
}
